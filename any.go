package mirror

import (
	"fmt"
	"reflect"
	"unsafe"
)

type (
	// Any is a type-erased value carrying its *Type. Small trivially
	// copyable values are kept inline, everything else in an owned box.
	// An Any is never mutated through the values it hands out.
	Any struct {
		typ *Type
		raw uint64
		box reflect.Value
	}
)

const inlineSize = unsafe.Sizeof(uint64(0))

// AnyOf stores v with its static type T. A non-nil interface is stored as its
// dynamic value.
func AnyOf[T any](v T) Any {
	return AnyFromValue(reflect.ValueOf(&v).Elem())
}

// NewAny stores the dynamic value of v. A nil v yields an empty Any.
func NewAny(v any) Any {
	if v == nil {
		return Any{}
	}
	return AnyFromValue(reflect.ValueOf(v))
}

// AnyFromValue copies val into a new Any.
func AnyFromValue(val reflect.Value) Any {
	if !val.IsValid() {
		return Any{}
	}
	if val.Kind() == reflect.Interface && !val.IsNil() {
		val = val.Elem()
	}
	val, ok := readable(val)
	if !ok {
		return Any{}
	}
	out := Any{typ: TypeFromReflect(val.Type())}
	if inlined(out.typ) {
		out.store(val)
		return out
	}
	box := reflect.New(val.Type()).Elem()
	box.Set(val)
	out.box = box
	return out
}

// readable returns a value that can be copied out even if it was reached
// through an unexported embedded struct.
func readable(val reflect.Value) (reflect.Value, bool) {
	if val.CanInterface() {
		return val, true
	}
	if val.CanAddr() {
		return reflect.NewAt(val.Type(), unsafe.Pointer(val.UnsafeAddr())).Elem(), true
	}
	return reflect.Value{}, false
}

func inlined(typ *Type) bool {
	return typ.IsTriviallyCopyable() && typ.Size() <= inlineSize
}

func (a *Any) store(val reflect.Value) {
	ptr := unsafe.Pointer(&a.raw)
	switch val.Kind() {
	case reflect.Bool:
		*(*bool)(ptr) = val.Bool()
	case reflect.Int:
		*(*int)(ptr) = int(val.Int())
	case reflect.Int8:
		*(*int8)(ptr) = int8(val.Int())
	case reflect.Int16:
		*(*int16)(ptr) = int16(val.Int())
	case reflect.Int32:
		*(*int32)(ptr) = int32(val.Int())
	case reflect.Int64:
		*(*int64)(ptr) = val.Int()
	case reflect.Uint:
		*(*uint)(ptr) = uint(val.Uint())
	case reflect.Uint8:
		*(*uint8)(ptr) = uint8(val.Uint())
	case reflect.Uint16:
		*(*uint16)(ptr) = uint16(val.Uint())
	case reflect.Uint32:
		*(*uint32)(ptr) = uint32(val.Uint())
	case reflect.Uint64:
		*(*uint64)(ptr) = val.Uint()
	case reflect.Uintptr:
		*(*uintptr)(ptr) = uintptr(val.Uint())
	case reflect.Float32:
		*(*float32)(ptr) = float32(val.Float())
	case reflect.Float64:
		*(*float64)(ptr) = val.Float()
	case reflect.Complex64:
		*(*complex64)(ptr) = complex64(val.Complex())
	default:
		// small arrays and structs
		reflect.NewAt(val.Type(), ptr).Elem().Set(val)
	}
}

// value returns the stored value. the result must not be modified.
func (a Any) value() reflect.Value {
	if a.typ == nil {
		return reflect.Value{}
	}
	if a.box.IsValid() {
		return a.box
	}
	raw := a.raw
	return reflect.NewAt(a.typ.rtyp, unsafe.Pointer(&raw)).Elem()
}

func (a Any) IsEmpty() bool {
	return a.typ == nil
}

// Type returns the stored type, nil when empty.
func (a Any) Type() *Type {
	return a.typ
}

// Value returns a copy of the stored value.
func (a Any) Value() reflect.Value {
	val := a.value()
	if !val.IsValid() || !a.box.IsValid() {
		return val
	}
	cpy := reflect.New(val.Type()).Elem()
	cpy.Set(val)
	return cpy
}

func (a Any) Interface() any {
	if a.typ == nil {
		return nil
	}
	return a.value().Interface()
}

// Copy returns an independent copy of a.
func (a Any) Copy() Any {
	if a.box.IsValid() {
		a.box = a.Value()
	}
	return a
}

// Move returns the content of a and leaves it empty.
func (a *Any) Move() Any {
	out := *a
	*a = Any{}
	return out
}

func (a *Any) Set(v any) {
	*a = NewAny(v)
}

func (a *Any) Clear() {
	*a = Any{}
}

// Equal reports whether both values have the same decayed type and equal
// values. Pointers are compared by what they point to.
func (a Any) Equal(oth Any) bool {
	if a.typ == nil || oth.typ == nil {
		return a.typ == oth.typ
	}
	dec := a.typ.Decay()
	if dec != oth.typ.Decay() {
		return false
	}
	fst, fok := derefTo(a.value(), dec.rtyp)
	sec, sok := derefTo(oth.value(), dec.rtyp)
	if !fok || !sok {
		return fok == sok
	}
	if fst.Comparable() && sec.Comparable() {
		return fst.Equal(sec)
	}
	return reflect.DeepEqual(fst.Interface(), sec.Interface())
}

func (a Any) String() string {
	if a.typ == nil {
		return "<empty>"
	}
	return fmt.Sprint(a.Interface())
}

// derefTo follows pointers in val until it has type rtyp. ok is false on a
// nil pointer.
func derefTo(val reflect.Value, rtyp reflect.Type) (reflect.Value, bool) {
	for val.Type() != rtyp && val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return reflect.Value{}, false
		}
		val = val.Elem()
	}
	return val, val.Type() == rtyp
}

// extract returns the stored value as want: exactly, through the stored
// pointer chain, or as an interface the value implements.
func (a Any) extract(want *Type) (reflect.Value, bool) {
	if a.typ == nil || want == nil {
		return reflect.Value{}, false
	}
	want = want.NonConst()
	val := a.value()
	if a.typ == want {
		return val, true
	}
	if a.typ.Decay() == want.Decay() {
		return derefTo(val, want.rtyp)
	}
	if want.Kind() == reflect.Interface && a.typ.rtyp.Implements(want.rtyp) {
		return val, true
	}
	return reflect.Value{}, false
}

// Get returns the value stored in a as T.
func Get[T any](a Any) (T, error) {
	want := TypeFor[T]()
	if a.typ == want && !a.box.IsValid() {
		return *(*T)(unsafe.Pointer(&a.raw)), nil
	}
	val, ok := a.extract(want)
	if !ok {
		var zero T
		return zero, newTypeMismatchError(want, a.typ)
	}
	out, _ := val.Interface().(T)
	return out, nil
}

// CanGet reports whether Get[T] would succeed.
func CanGet[T any](a Any) bool {
	_, ok := a.extract(TypeFor[T]())
	return ok
}

// CanConvert reports whether a can be converted to typ, either by the Get
// rules or by a numeric, string or bool conversion.
func (a Any) CanConvert(typ *Type) bool {
	_, err := a.Convert(typ)
	return err == nil
}

// Convert returns a converted to typ.
func (a Any) Convert(typ *Type) (Any, error) {
	if val, ok := a.extract(typ); ok {
		if val.Type() == a.typ.rtyp {
			return a, nil
		}
		return AnyFromValue(val), nil
	}
	if a.typ != nil && typ != nil {
		val := a.value()
		if convertible(val.Type(), typ.rtyp) {
			return AnyFromValue(val.Convert(typ.rtyp)), nil
		}
	}
	return Any{}, newTypeMismatchError(typ, a.typ)
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	return class(from.Kind()) != 0 && class(from.Kind()) == class(to.Kind())
}

func class(knd reflect.Kind) int {
	switch knd {
	case reflect.Bool:
		return 1
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return 2
	case reflect.Complex64, reflect.Complex128:
		return 3
	case reflect.String:
		return 4
	}
	return 0
}

// assignable returns a value of rtyp built from a, for storing into a
// field, element or argument. cast allows numeric and string conversions.
func assignable(rtyp reflect.Type, a Any, cast bool) (reflect.Value, bool) {
	if a.typ == nil {
		switch rtyp.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(rtyp), true
		}
		return reflect.Value{}, false
	}
	typ := TypeFromReflect(rtyp)
	if val, ok := a.extract(typ); ok {
		return val, true
	}
	if cast {
		if cnv, err := a.Convert(typ); err == nil {
			return cnv.value(), true
		}
	}
	return reflect.Value{}, false
}
