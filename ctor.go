package mirror

import (
	"reflect"
)

type (
	// CtorWrapper creates values of a type from a fixed parameter list.
	CtorWrapper struct {
		typ    *Type
		params []*Type
		fnc    reflect.Value // invalid for the zero value constructor
	}
	// DtorWrapper releases a value created by a CtorWrapper.
	DtorWrapper struct {
		typ *Type
		fnc reflect.Value // func(*T), optional
	}
)

// defaultCtor returns a pointer to a new zero value.
func defaultCtor(typ *Type) *CtorWrapper {
	return &CtorWrapper{typ: typ}
}

// newCtor validates fnc as func(args...) T or *T, optionally followed by an
// error.
func newCtor(typ *Type, fnc any) *CtorWrapper {
	val := reflect.ValueOf(fnc)
	if val.Kind() != reflect.Func || val.IsNil() {
		panic("mirror: constructor for " + typ.String() + " is not a function")
	}
	ftyp := val.Type()
	if ftyp.IsVariadic() {
		panic("mirror: constructor for " + typ.String() + " is variadic")
	}
	switch ftyp.NumOut() {
	case 2:
		if ftyp.Out(1) != errorType {
			panic("mirror: constructor for " + typ.String() + " returns " + ftyp.Out(1).String() + " instead of error")
		}
		fallthrough
	case 1:
		out := ftyp.Out(0)
		if out != typ.rtyp && out != reflect.PointerTo(typ.rtyp) {
			panic("mirror: constructor for " + typ.String() + " returns " + out.String())
		}
	default:
		panic("mirror: constructor for " + typ.String() + " must return one value")
	}
	params := make([]*Type, ftyp.NumIn())
	for idx := range params {
		params[idx] = TypeFromReflect(ftyp.In(idx))
	}
	return &CtorWrapper{typ: typ, params: params, fnc: val}
}

func (ctor *CtorWrapper) Type() *Type {
	return ctor.typ
}

func (ctor *CtorWrapper) Params() []*Type {
	return ctor.params
}

// Result is the type Create returns: T or *T.
func (ctor *CtorWrapper) Result() *Type {
	if !ctor.fnc.IsValid() {
		return ctor.typ.Pointer()
	}
	return TypeFromReflect(ctor.fnc.Type().Out(0))
}

// Create builds a value from args.
func (ctor *CtorWrapper) Create(args ...Any) (Any, error) {
	if !ctor.fnc.IsValid() {
		if len(args) != 0 {
			have := make([]*Type, len(args))
			for idx, arg := range args {
				have[idx] = arg.typ
			}
			return Any{}, &ArgumentError{Func: ctor.name(), Index: -1, Have: have}
		}
		return AnyFromValue(reflect.New(ctor.typ.rtyp)), nil
	}
	return invoke(ctor.name(), ctor.fnc, nil, args)
}

func (ctor *CtorWrapper) name() string {
	return ctor.typ.String() + typeList(ctor.params)
}

// accepts reports whether args can be passed without conversion.
func (ctor *CtorWrapper) accepts(args []Any) bool {
	if len(args) != len(ctor.params) {
		return false
	}
	for idx, arg := range args {
		if _, ok := assignable(ctor.params[idx].rtyp, arg, false); !ok {
			return false
		}
	}
	return true
}

func newDtor(typ *Type, fnc any) *DtorWrapper {
	val := reflect.ValueOf(fnc)
	want := reflect.FuncOf([]reflect.Type{reflect.PointerTo(typ.rtyp)}, nil, false)
	if val.Kind() != reflect.Func || val.IsNil() || val.Type() != want {
		panic("mirror: destructor for " + typ.String() + " must be " + want.String())
	}
	return &DtorWrapper{typ: typ, fnc: val}
}

func (dtor *DtorWrapper) Type() *Type {
	return dtor.typ
}

// Destroy runs the destructor on the value held by obj, zeroes what a held
// pointer points to and empties obj.
func (dtor *DtorWrapper) Destroy(obj *Any) (err error) {
	if obj.IsEmpty() {
		return nil
	}
	val, ok := obj.extract(dtor.typ.Pointer())
	if !ok {
		val, ok = obj.extract(dtor.typ)
		if !ok {
			return newTypeMismatchError(dtor.typ, obj.typ)
		}
		tmp := reflect.New(dtor.typ.rtyp)
		tmp.Elem().Set(val)
		val = tmp
	}
	if val.IsNil() {
		obj.Clear()
		return nil
	}
	// the value is cleared even when the destructor panics.
	defer func() {
		if rec := recover(); rec != nil {
			err = &CallError{Func: "~" + dtor.typ.String(), Err: panicError(rec)}
		}
		val.Elem().SetZero()
		obj.Clear()
	}()
	if dtor.fnc.IsValid() {
		dtor.fnc.Call([]reflect.Value{val})
	}
	return nil
}
