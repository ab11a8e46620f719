package mirror

import (
	"io"
	"reflect"
	"strconv"

	"github.com/sugawarayuuta/mirror/internal/pool"
)

type (
	// DumpOption configures Dump.
	DumpOption func(*dumper)
	dumper     struct {
		depth  int
		indent string
		buf    []byte
	}
)

// DumpDepth limits how many levels below the root are printed. Zero or
// less means no limit.
func DumpDepth(depth int) DumpOption {
	return func(dmp *dumper) {
		dmp.depth = depth
	}
}

// DumpIndent sets the string repeated once per level.
func DumpIndent(indent string) DumpOption {
	return func(dmp *dumper) {
		dmp.indent = indent
	}
}

// Dump writes every value reachable from ref as an indented tree. A value
// reached again prints as a cycle and is not expanded.
func (ref Reflection) Dump(wtr io.Writer, opts ...DumpOption) error {
	dmp := dumper{indent: "  ", buf: pool.Get(pool.Min)}
	defer func() {
		pool.Put(dmp.buf)
	}()
	for _, opt := range opts {
		opt(&dmp)
	}
	if !ref.IsValid() {
		dmp.buf = append(dmp.buf, "<invalid>\n"...)
	} else if err := Walk(ref, dmp.visit); err != nil {
		return err
	}
	_, err := wtr.Write(dmp.buf)
	return err
}

func (dmp *dumper) visit(path []Any, ref Reflection, cycle bool) error {
	for idx := 0; idx < len(path); idx++ {
		dmp.buf = append(dmp.buf, dmp.indent...)
	}
	if len(path) != 0 {
		dmp.buf = appendKey(dmp.buf, path[len(path)-1])
		dmp.buf = append(dmp.buf, ": "...)
	}
	typ := ref.GetValueType()
	if cycle {
		dmp.buf = append(dmp.buf, "<cycle "...)
		dmp.buf = append(dmp.buf, typ.String()...)
		dmp.buf = append(dmp.buf, ">\n"...)
		return nil
	}
	if ref.HasFields() {
		dmp.buf = append(dmp.buf, typ.String()...)
		if dmp.depth > 0 && len(path) >= dmp.depth {
			dmp.buf = append(dmp.buf, " {...}\n"...)
			return SkipFields
		}
		dmp.buf = append(dmp.buf, '\n')
		return nil
	}
	dmp.buf = appendValue(dmp.buf, ref.GetValue())
	dmp.buf = append(dmp.buf, " ("...)
	dmp.buf = append(dmp.buf, typ.String()...)
	dmp.buf = append(dmp.buf, ")\n"...)
	return nil
}

// appendKey writes member names bare and every other key, positions
// included, in brackets formatted from its own kind.
func appendKey(dst []byte, key Any) []byte {
	if str, err := Get[string](key); err == nil {
		return append(dst, str...)
	}
	dst = append(dst, '[')
	dst = appendValue(dst, key)
	return append(dst, ']')
}

// appendValue formats a leaf: strings quoted, nil pointers as nil, empty
// collections as their literal.
func appendValue(dst []byte, val Any) []byte {
	if val.IsEmpty() {
		return append(dst, "nil"...)
	}
	rval := val.value()
	switch rval.Kind() {
	case reflect.String:
		return strconv.AppendQuote(dst, rval.String())
	case reflect.Bool:
		return strconv.AppendBool(dst, rval.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(dst, rval.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(dst, rval.Uint(), 10)
	case reflect.Float32:
		return strconv.AppendFloat(dst, rval.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.AppendFloat(dst, rval.Float(), 'g', -1, 64)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rval.IsNil() {
			return append(dst, "nil"...)
		}
		switch rval.Kind() {
		case reflect.Slice:
			return append(dst, "[]"...)
		case reflect.Map:
			return append(dst, "{}"...)
		}
	case reflect.Struct:
		if rval.NumField() == 0 {
			return append(dst, "{}"...)
		}
	}
	return append(dst, val.String()...)
}
