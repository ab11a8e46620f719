package mirror

import (
	"reflect"
	"runtime"
)

type (
	// AnyFn is a callable taking and returning Any values. A method AnyFn
	// is bound to its receiver.
	AnyFn struct {
		name string
		fnc  reflect.Value
		recv reflect.Value
	}
	// Method is a named AnyFn of a reflected object.
	Method struct {
		Name string
		Fn   AnyFn
	}
	// methodEntry is a registered method; fnc takes the receiver first.
	methodEntry struct {
		name  string
		fnc   reflect.Value
		ptrIn bool
	}
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// NewAnyFn wraps a Go function. It returns an invalid AnyFn for anything else.
func NewAnyFn(fn any) AnyFn {
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func || val.IsNil() {
		return AnyFn{}
	}
	var name string
	if fnc := runtime.FuncForPC(val.Pointer()); fnc != nil {
		name = fnc.Name()
	}
	return AnyFn{name: name, fnc: val}
}

func (fn AnyFn) IsValid() bool {
	return fn.fnc.IsValid()
}

func (fn AnyFn) Name() string {
	return fn.name
}

func (fn AnyFn) bound() int {
	if fn.recv.IsValid() {
		return 1
	}
	return 0
}

// Params returns the parameter types, without the bound receiver.
func (fn AnyFn) Params() []*Type {
	if !fn.IsValid() {
		return nil
	}
	ftyp := fn.fnc.Type()
	out := make([]*Type, 0, ftyp.NumIn())
	for idx := fn.bound(); idx < ftyp.NumIn(); idx++ {
		out = append(out, TypeFromReflect(ftyp.In(idx)))
	}
	return out
}

func (fn AnyFn) Results() []*Type {
	if !fn.IsValid() {
		return nil
	}
	ftyp := fn.fnc.Type()
	out := make([]*Type, ftyp.NumOut())
	for idx := range out {
		out[idx] = TypeFromReflect(ftyp.Out(idx))
	}
	return out
}

// Invoke calls the function. Arguments are matched like SetValueWithCast.
// A trailing error result is returned as the error, the first other result
// as the value. Panics are returned as a *CallError.
func (fn AnyFn) Invoke(args ...Any) (Any, error) {
	if !fn.IsValid() {
		return Any{}, ErrInvalid
	}
	var in []reflect.Value
	if fn.recv.IsValid() {
		in = append(in, fn.recv)
	}
	return invoke(fn.name, fn.fnc, in, args)
}

func invoke(name string, fnc reflect.Value, in []reflect.Value, args []Any) (out Any, err error) {
	ftyp := fnc.Type()
	want := make([]*Type, 0, ftyp.NumIn())
	for idx := len(in); idx < ftyp.NumIn(); idx++ {
		want = append(want, TypeFromReflect(ftyp.In(idx)))
	}
	have := make([]*Type, len(args))
	for idx, arg := range args {
		have[idx] = arg.typ
	}
	cnt := len(want)
	if ftyp.IsVariadic() {
		if len(args) < cnt-1 {
			return Any{}, &ArgumentError{Func: name, Index: -1, Want: want, Have: have}
		}
	} else if len(args) != cnt {
		return Any{}, &ArgumentError{Func: name, Index: -1, Want: want, Have: have}
	}
	for idx, arg := range args {
		pos := len(in)
		var ptyp reflect.Type
		if ftyp.IsVariadic() && pos >= ftyp.NumIn()-1 {
			ptyp = ftyp.In(ftyp.NumIn() - 1).Elem()
		} else {
			ptyp = ftyp.In(pos)
		}
		val, ok := assignable(ptyp, arg, true)
		if !ok {
			return Any{}, &ArgumentError{Func: name, Index: idx, Want: want, Have: have}
		}
		in = append(in, val)
	}

	defer func() {
		if rec := recover(); rec != nil {
			out, err = Any{}, &CallError{Func: name, Err: panicError(rec)}
		}
	}()
	res := fnc.Call(in)
	if cnt := len(res); cnt > 0 && res[cnt-1].Type() == errorType {
		if !res[cnt-1].IsNil() {
			return Any{}, &CallError{Func: name, Err: res[cnt-1].Interface().(error)}
		}
		res = res[:cnt-1]
	}
	if len(res) == 0 {
		return Any{}, nil
	}
	return AnyFromValue(res[0]), nil
}

func (ent *methodEntry) bind(obj Object) AnyFn {
	arg, ok := recv(obj, ent.ptrIn, false)
	if !ok {
		return AnyFn{}
	}
	return AnyFn{name: ent.name, fnc: ent.fnc, recv: arg}
}

// methodSet returns the receiver and method set usable on obj: the pointer
// set for writable objects, the value set otherwise.
func methodSet(obj Object) (reflect.Value, reflect.Type, bool) {
	obj = indirect(obj)
	if !obj.IsValid() {
		return reflect.Value{}, nil, false
	}
	val, ok := readable(obj.val)
	if !ok {
		return reflect.Value{}, nil, false
	}
	if obj.Writable() {
		val = val.Addr()
	}
	return val, val.Type(), true
}

// autoMethods lists the exported methods of obj, sorted by name.
func autoMethods(obj Object) []Method {
	val, set, ok := methodSet(obj)
	if !ok || set.NumMethod() == 0 {
		return nil
	}
	out := make([]Method, 0, set.NumMethod())
	for idx := 0; idx < set.NumMethod(); idx++ {
		mth := set.Method(idx)
		if mth.Name == virtualMethod {
			continue
		}
		out = append(out, Method{
			Name: mth.Name,
			Fn:   AnyFn{name: val.Type().String() + "." + mth.Name, fnc: mth.Func, recv: val},
		})
	}
	return out
}

func boundMethod(obj Object, name string) AnyFn {
	val, set, ok := methodSet(obj)
	if !ok || name == virtualMethod {
		return AnyFn{}
	}
	mth, ok := set.MethodByName(name)
	if !ok {
		return AnyFn{}
	}
	return AnyFn{name: val.Type().String() + "." + name, fnc: mth.Func, recv: val}
}
