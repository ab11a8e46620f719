package mirror

import (
	"reflect"
)

type (
	// Object is the storage a Reflection reads and writes: a value and
	// whether it may be written. Writes need both a settable value and no
	// const qualifier. const reaches values nested by value and stops at
	// pointers.
	Object struct {
		val reflect.Value
		cst bool
	}
)

// maxIndirect bounds pointer chasing for self referential pointer types.
const maxIndirect = 64

// ObjectOf returns a writable object for a non-nil pointer and a read-only
// copy for anything else.
func ObjectOf(v any) Object {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer && !val.IsNil() {
		return Object{val: val.Elem()}
	}
	return Object{val: val}
}

func ObjectFromValue(val reflect.Value) Object {
	return Object{val: val}
}

func (obj Object) IsValid() bool {
	return obj.val.IsValid()
}

// Writable reports whether the object can be assigned.
func (obj Object) Writable() bool {
	return obj.val.IsValid() && !obj.cst && obj.val.CanSet()
}

// Const returns a read-only view of obj.
func (obj Object) Const() Object {
	obj.cst = true
	return obj
}

// Type returns the type of the value, const qualified when it cannot be
// written.
func (obj Object) Type() *Type {
	if !obj.val.IsValid() {
		return nil
	}
	typ := TypeFromReflect(obj.val.Type())
	if !obj.Writable() {
		return typ.Const()
	}
	return typ
}

func (obj Object) Value() reflect.Value {
	return obj.val
}

// Interface returns a copy of the value.
func (obj Object) Interface() any {
	val, ok := readable(obj.val)
	if !ok {
		return nil
	}
	return val.Interface()
}

// Addr returns the address of the value, or 0 when it has none.
func (obj Object) Addr() uintptr {
	if !obj.val.IsValid() || !obj.val.CanAddr() {
		return 0
	}
	return obj.val.UnsafeAddr()
}

// child returns an object nested by value inside obj.
func (obj Object) child(val reflect.Value, ro bool) Object {
	return Object{val: val, cst: ro || !obj.Writable()}
}

// indirect follows pointers and interfaces down to the concrete value. A nil
// pointer or interface yields an invalid object.
func indirect(obj Object) Object {
	for idx := 0; obj.val.IsValid() && idx < maxIndirect; idx++ {
		switch obj.val.Kind() {
		case reflect.Pointer:
			if obj.val.IsNil() {
				return Object{}
			}
			obj = Object{val: obj.val.Elem()}
		case reflect.Interface:
			if obj.val.IsNil() {
				return Object{}
			}
			// an interface holds a copy; only pointers inside it alias.
			obj = Object{val: obj.val.Elem(), cst: obj.cst}
		default:
			return obj
		}
	}
	return Object{}
}
