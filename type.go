package mirror

import (
	"reflect"
	"sync"
	"sync/atomic"
)

type (
	// Type is the canonical descriptor of a Go type, optionally const
	// qualified. There is exactly one *Type per (type, const) pair, so two
	// descriptors are the same type iff they are the same pointer.
	Type struct {
		rtyp  reflect.Type
		flg   typeFlag
		decay atomic.Pointer[Type]
		once  sync.Once
		bases []*Type
	}
	typeFlag uint8
	typeKey  struct {
		rtyp reflect.Type
		cst  bool
	}
)

const (
	flagConst typeFlag = 1 << iota
	flagPointer
	flagTrivial
)

var (
	typeCache = makeCache[typeKey, *Type]()
	typeNames = makeCache[string, *Type]()
)

// TypeFor returns the descriptor of T.
func TypeFor[T any]() *Type {
	return TypeFromReflect(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeOf returns the descriptor of the dynamic type of val, or nil for a nil
// interface.
func TypeOf(val any) *Type {
	if val == nil {
		return nil
	}
	return TypeFromReflect(reflect.TypeOf(val))
}

func TypeFromReflect(rtyp reflect.Type) *Type {
	if rtyp == nil {
		return nil
	}
	return typeFromKey(typeKey{rtyp: rtyp})
}

// LookupType returns a descriptor already known to the process by its RTTI
// name (reflect.Type.String form). It returns nil for names never seen.
func LookupType(name string) *Type {
	typ, _ := typeNames.get(name)
	return typ
}

func typeFromKey(key typeKey) *Type {
	typ, stored := typeCache.load(key, func() *Type {
		return newType(key)
	})
	if stored && !key.cst {
		prev, _ := typeNames.load(key.rtyp.String(), func() *Type {
			return typ
		})
		if prev != typ {
			logf("RTTI name %s is shared by distinct types; keeping the first", key.rtyp)
		}
	}
	return typ
}

func newType(key typeKey) *Type {
	typ := &Type{rtyp: key.rtyp}
	if key.cst {
		typ.flg |= flagConst
	}
	if key.rtyp.Kind() == reflect.Pointer {
		typ.flg |= flagPointer
	}
	if isTrivial(key.rtyp) {
		typ.flg |= flagTrivial
	}
	return typ
}

// isTrivial reports whether values of rtyp contain no pointers and can be
// copied bytewise.
func isTrivial(rtyp reflect.Type) bool {
	switch rtyp.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isTrivial(rtyp.Elem())
	case reflect.Struct:
		for idx := 0; idx < rtyp.NumField(); idx++ {
			if !isTrivial(rtyp.Field(idx).Type) {
				return false
			}
		}
		return true
	}
	return false
}

func (typ *Type) Reflect() reflect.Type {
	return typ.rtyp
}

func (typ *Type) Kind() reflect.Kind {
	return typ.rtyp.Kind()
}

// Name is the RTTI name of the unqualified type.
func (typ *Type) Name() string {
	return typ.rtyp.String()
}

func (typ *Type) String() string {
	if typ == nil {
		return "<nil>"
	}
	if typ.IsConst() {
		return "const " + typ.rtyp.String()
	}
	return typ.rtyp.String()
}

func (typ *Type) Size() uintptr {
	return typ.rtyp.Size()
}

func (typ *Type) Align() uintptr {
	return uintptr(typ.rtyp.Align())
}

func (typ *Type) IsPointer() bool {
	return typ.flg&flagPointer != 0
}

func (typ *Type) IsConst() bool {
	return typ.flg&flagConst != 0
}

func (typ *Type) IsTriviallyCopyable() bool {
	return typ.flg&flagTrivial != 0
}

// Const returns the const qualified variant of typ.
func (typ *Type) Const() *Type {
	if typ.IsConst() {
		return typ
	}
	return typeFromKey(typeKey{rtyp: typ.rtyp, cst: true})
}

// NonConst returns typ without its const qualifier.
func (typ *Type) NonConst() *Type {
	if !typ.IsConst() {
		return typ
	}
	return typeFromKey(typeKey{rtyp: typ.rtyp})
}

// Pointer returns the descriptor of *typ.
func (typ *Type) Pointer() *Type {
	return TypeFromReflect(reflect.PointerTo(typ.rtyp))
}

// Deref strips one layer: the const qualifier if present, otherwise one
// pointer indirection. It returns nil for an unqualified non-pointer type.
func (typ *Type) Deref() *Type {
	if typ.IsConst() {
		return typ.NonConst()
	}
	if typ.IsPointer() {
		return TypeFromReflect(typ.rtyp.Elem())
	}
	return nil
}

// Decay strips every const and pointer layer. Self referential pointer types
// stop at the first type that repeats.
func (typ *Type) Decay() *Type {
	if dec := typ.decay.Load(); dec != nil {
		return dec
	}
	rtyp := typ.rtyp
	var seen []reflect.Type
strip:
	for rtyp.Kind() == reflect.Pointer {
		for _, prev := range seen {
			if prev == rtyp {
				break strip
			}
		}
		seen = append(seen, rtyp)
		rtyp = rtyp.Elem()
	}
	dec := TypeFromReflect(rtyp)
	typ.decay.Store(dec)
	return dec
}

// Bases returns the embedded struct types of a struct type in declaration
// order, looking through embedded pointers. Fields tagged with an explicit
// mirror name or "-" are not bases.
func (typ *Type) Bases() []*Type {
	typ.once.Do(func() {
		if typ.rtyp.Kind() != reflect.Struct {
			return
		}
		for idx := 0; idx < typ.rtyp.NumField(); idx++ {
			str := typ.rtyp.Field(idx)
			if base := embeddedBase(str); base != nil {
				typ.bases = append(typ.bases, TypeFromReflect(base))
			}
		}
	})
	return typ.bases
}

func embeddedBase(str reflect.StructField) reflect.Type {
	if !str.Anonymous {
		return nil
	}
	if name, _ := parseTag(str.Tag.Get(tagName)); name != "" {
		return nil
	}
	rtyp := str.Type
	if rtyp.Kind() == reflect.Pointer {
		rtyp = rtyp.Elem()
	}
	if rtyp.Kind() != reflect.Struct {
		return nil
	}
	return rtyp
}
