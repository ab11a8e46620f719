package mirror

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// Meta is opaque per-field or per-type data attached at registration,
	// such as display names for property grids. A nil *Meta is empty.
	Meta struct {
		vals map[string]any
	}
)

// well-known keys
const (
	MetaDisplayName = "display"
	MetaHidden      = "hidden"
	MetaDescription = "desc"
)

func newMeta(vals map[string]any) *Meta {
	if len(vals) == 0 {
		return nil
	}
	return &Meta{vals: vals}
}

func (meta *Meta) Get(key string) (any, bool) {
	if meta == nil {
		return nil, false
	}
	val, ok := meta.vals[key]
	return val, ok
}

func (meta *Meta) Has(key string) bool {
	_, ok := meta.Get(key)
	return ok
}

func (meta *Meta) Len() int {
	if meta == nil {
		return 0
	}
	return len(meta.vals)
}

// Keys returns the keys in sorted order.
func (meta *Meta) Keys() []string {
	if meta == nil {
		return nil
	}
	keys := maps.Keys(meta.vals)
	slices.Sort(keys)
	return keys
}

// with returns a copy of meta holding key.
func (meta *Meta) with(key string, val any) *Meta {
	vals := make(map[string]any, meta.Len()+1)
	if meta != nil {
		for key, val := range meta.vals {
			vals[key] = val
		}
	}
	vals[key] = val
	return &Meta{vals: vals}
}

// GetMeta returns the value of key as T.
func GetMeta[T any](meta *Meta, key string) (T, bool) {
	val, ok := meta.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := val.(T)
	return out, ok
}
