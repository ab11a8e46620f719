package mirror

import (
	"reflect"
)

type (
	// Virtual is implemented by values embedded as the leading field of an
	// outer struct. ReflectionTarget returns a pointer to that outer value,
	// and a Reflection taken on the embedded value then describes the whole
	// outer value. The target is only followed when the embedded value
	// really lives at the start of it, so copies of the embedded value
	// reflect as themselves.
	Virtual interface {
		ReflectionTarget() any
	}
)

const virtualMethod = "ReflectionTarget"

var virtualType = reflect.TypeOf((*Virtual)(nil)).Elem()

// resolve returns the concrete object behind obj and the database describing
// it, following virtual targets.
func resolve(obj Object) (Object, *ReflectionDB) {
	obj = indirect(obj)
	if !obj.IsValid() {
		return obj, nil
	}
	if out, ok := derived(obj); ok {
		obj = out
	}
	return obj, GetGlobalDBOf(TypeFromReflect(obj.val.Type()))
}

func derived(obj Object) (Object, bool) {
	if !obj.val.CanAddr() {
		return Object{}, false
	}
	tgt := virtualTarget(obj.val)
	if tgt == nil {
		return Object{}, false
	}
	ptr := reflect.ValueOf(tgt)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() {
		logf("ignoring target %T of %s: not a non-nil pointer", tgt, obj.val.Type())
		return Object{}, false
	}
	out := ptr.Elem()
	if out.Type() == obj.val.Type() {
		return Object{}, false
	}
	inner, ok := leading(out, obj.val.Type())
	if !ok {
		logf("ignoring target %s of %s: not embedded at its start", out.Type(), obj.val.Type())
		return Object{}, false
	}
	// a copy of the embedded value still carries the target of the original.
	if inner.UnsafeAddr() != obj.val.UnsafeAddr() {
		return Object{}, false
	}
	return Object{val: out, cst: !obj.Writable()}, true
}

func virtualTarget(val reflect.Value) (tgt any) {
	val, ok := readable(val)
	if !ok {
		return nil
	}
	var vir Virtual
	switch {
	case val.Type().Implements(virtualType):
		vir = val.Interface().(Virtual)
	case val.CanAddr() && reflect.PointerTo(val.Type()).Implements(virtualType):
		vir = val.Addr().Interface().(Virtual)
	default:
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			logf("%s.ReflectionTarget panicked: %v", val.Type(), rec)
			tgt = nil
		}
	}()
	return vir.ReflectionTarget()
}

// leading follows the chain of leading embedded fields of outer, at offset
// zero, down to a field of type inner.
func leading(outer reflect.Value, inner reflect.Type) (reflect.Value, bool) {
	for idx := 0; idx < maxIndirect; idx++ {
		if outer.Type() == inner {
			return outer, true
		}
		typ := outer.Type()
		if typ.Kind() != reflect.Struct || typ.NumField() == 0 {
			return reflect.Value{}, false
		}
		fst := typ.Field(0)
		if !fst.Anonymous || fst.Offset != 0 {
			return reflect.Value{}, false
		}
		outer = outer.Field(0)
	}
	return reflect.Value{}, false
}
