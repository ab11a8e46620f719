package mirror

import (
	"reflect"
)

type (
	// ValueWrapper reads and writes the value living at one location inside
	// a parent object.
	ValueWrapper interface {
		IsReadOnly(obj Object) bool
		GetType(obj Object) *Type
		GetValue(obj Object) Any
		SetValue(obj Object, val Any) bool
		GetValueObject(obj Object) Object
	}
	// objectWrapper is the value itself.
	objectWrapper struct{}
	// fieldWrapper is a struct member reached by index path.
	fieldWrapper struct {
		idxs []int
		typ  *Type
		ro   bool
	}
	// funcWrapper is a property computed by a getter and written by an
	// optional setter.
	funcWrapper struct {
		get   reflect.Value
		set   reflect.Value
		typ   *Type
		byPtr bool // getter returns *V
		ptrIn bool // getter takes *T
	}
	// indexWrapper is an element of a slice or an array.
	indexWrapper struct {
		idx int
		typ *Type
	}
	// keyWrapper is a map value.
	keyWrapper struct {
		key reflect.Value
		typ *Type
	}
	// elemWrapper is an element of a set; it is its own key and never
	// writable.
	elemWrapper struct {
		key reflect.Value
		typ *Type
	}
)

func store(dst reflect.Value, val Any) bool {
	src, ok := assignable(dst.Type(), val, false)
	if !ok {
		return false
	}
	dst.Set(src)
	return true
}

func (objectWrapper) IsReadOnly(obj Object) bool {
	return !obj.Writable()
}

func (objectWrapper) GetType(obj Object) *Type {
	return obj.Type()
}

func (objectWrapper) GetValue(obj Object) Any {
	return AnyFromValue(obj.val)
}

func (objectWrapper) SetValue(obj Object, val Any) bool {
	if !obj.Writable() {
		return false
	}
	return store(obj.val, val)
}

func (objectWrapper) GetValueObject(obj Object) Object {
	return obj
}

func (fld *fieldWrapper) value(obj Object) (reflect.Value, bool) {
	obj = indirect(obj)
	if !obj.IsValid() || obj.val.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return followValue(obj.val, fld.idxs)
}

func (fld *fieldWrapper) IsReadOnly(obj Object) bool {
	if fld.ro {
		return true
	}
	obj = indirect(obj)
	val, ok := fld.value(obj)
	return !ok || !obj.Writable() || !val.CanSet()
}

func (fld *fieldWrapper) GetType(obj Object) *Type {
	if fld.IsReadOnly(obj) {
		return fld.typ.Const()
	}
	return fld.typ
}

func (fld *fieldWrapper) GetValue(obj Object) Any {
	val, ok := fld.value(obj)
	if !ok {
		return Any{}
	}
	return AnyFromValue(val)
}

func (fld *fieldWrapper) SetValue(obj Object, val Any) bool {
	if fld.IsReadOnly(obj) {
		return false
	}
	dst, _ := fld.value(obj)
	return store(dst, val)
}

func (fld *fieldWrapper) GetValueObject(obj Object) Object {
	obj = indirect(obj)
	val, ok := fld.value(obj)
	if !ok {
		return Object{}
	}
	return obj.child(val, fld.ro)
}

// recv returns the receiver argument for a function taking T or *T. A *T on
// an object that cannot be written gets a temporary copy, unless write is
// set.
func recv(obj Object, ptrIn, write bool) (reflect.Value, bool) {
	obj = indirect(obj)
	if !obj.IsValid() {
		return reflect.Value{}, false
	}
	val, ok := readable(obj.val)
	if !ok {
		return reflect.Value{}, false
	}
	if !ptrIn {
		return val, true
	}
	if obj.Writable() {
		return val.Addr(), true
	}
	if write {
		return reflect.Value{}, false
	}
	tmp := reflect.New(val.Type())
	tmp.Elem().Set(val)
	return tmp, true
}

// call runs a getter, reporting false if it panics.
func (fnc *funcWrapper) call(obj Object) (out reflect.Value, ok bool) {
	arg, ok := recv(obj, fnc.ptrIn, false)
	if !ok {
		return reflect.Value{}, false
	}
	defer func() {
		if rec := recover(); rec != nil {
			logf("getter for %s panicked: %v", fnc.typ, rec)
			out, ok = reflect.Value{}, false
		}
	}()
	return fnc.get.Call([]reflect.Value{arg})[0], true
}

func (fnc *funcWrapper) IsReadOnly(obj Object) bool {
	if !fnc.set.IsValid() {
		return true
	}
	obj = indirect(obj)
	return !obj.Writable()
}

func (fnc *funcWrapper) GetType(obj Object) *Type {
	if fnc.IsReadOnly(obj) {
		return fnc.typ.Const()
	}
	return fnc.typ
}

func (fnc *funcWrapper) GetValue(obj Object) Any {
	out, ok := fnc.call(obj)
	if !ok {
		return Any{}
	}
	if fnc.byPtr {
		if out.IsNil() {
			return Any{}
		}
		out = out.Elem()
	}
	return AnyFromValue(out)
}

func (fnc *funcWrapper) SetValue(obj Object, val Any) (ok bool) {
	if fnc.IsReadOnly(obj) {
		return false
	}
	arg, ok := recv(obj, true, true)
	if !ok {
		return false
	}
	src, ok := assignable(fnc.set.Type().In(1), val, false)
	if !ok {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			logf("setter for %s panicked: %v", fnc.typ, rec)
			ok = false
		}
	}()
	fnc.set.Call([]reflect.Value{arg, src})
	return true
}

// GetValueObject aliases the storage a pointer getter returns. A by-value
// getter yields a transient copy, so writes below it are refused.
func (fnc *funcWrapper) GetValueObject(obj Object) Object {
	out, ok := fnc.call(obj)
	if !ok {
		return Object{}
	}
	if fnc.byPtr {
		if out.IsNil() {
			return Object{}
		}
		return Object{val: out.Elem(), cst: !indirect(obj).Writable()}
	}
	return Object{val: out, cst: true}
}

func (elm *indexWrapper) value(obj Object) (reflect.Value, bool) {
	obj = indirect(obj)
	if !obj.IsValid() {
		return reflect.Value{}, false
	}
	switch obj.val.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return reflect.Value{}, false
	}
	if elm.idx < 0 || elm.idx >= obj.val.Len() {
		return reflect.Value{}, false
	}
	return obj.val.Index(elm.idx), true
}

func (elm *indexWrapper) IsReadOnly(obj Object) bool {
	obj = indirect(obj)
	val, ok := elm.value(obj)
	return !ok || !obj.Writable() || !val.CanSet()
}

func (elm *indexWrapper) GetType(obj Object) *Type {
	if elm.IsReadOnly(obj) {
		return elm.typ.Const()
	}
	return elm.typ
}

func (elm *indexWrapper) GetValue(obj Object) Any {
	val, ok := elm.value(obj)
	if !ok {
		return Any{}
	}
	return AnyFromValue(val)
}

func (elm *indexWrapper) SetValue(obj Object, val Any) bool {
	if elm.IsReadOnly(obj) {
		return false
	}
	dst, _ := elm.value(obj)
	return store(dst, val)
}

func (elm *indexWrapper) GetValueObject(obj Object) Object {
	obj = indirect(obj)
	val, ok := elm.value(obj)
	if !ok {
		return Object{}
	}
	return obj.child(val, false)
}

func (key *keyWrapper) value(obj Object) (reflect.Value, Object, bool) {
	obj = indirect(obj)
	if !obj.IsValid() || obj.val.Kind() != reflect.Map {
		return reflect.Value{}, obj, false
	}
	val := obj.val.MapIndex(key.key)
	return val, obj, val.IsValid()
}

func (key *keyWrapper) IsReadOnly(obj Object) bool {
	_, obj, ok := key.value(obj)
	return !ok || !obj.Writable()
}

func (key *keyWrapper) GetType(obj Object) *Type {
	if key.IsReadOnly(obj) {
		return key.typ.Const()
	}
	return key.typ
}

func (key *keyWrapper) GetValue(obj Object) Any {
	val, _, ok := key.value(obj)
	if !ok {
		return Any{}
	}
	return AnyFromValue(val)
}

func (key *keyWrapper) SetValue(obj Object, val Any) bool {
	_, obj, ok := key.value(obj)
	if !ok || !obj.Writable() {
		return false
	}
	src, ok := assignable(key.typ.rtyp, val, false)
	if !ok {
		return false
	}
	obj.val.SetMapIndex(key.key, src)
	return true
}

// GetValueObject returns a copy: map values are not addressable. Pointer
// values still alias what they point to.
func (key *keyWrapper) GetValueObject(obj Object) Object {
	val, _, ok := key.value(obj)
	if !ok {
		return Object{}
	}
	return Object{val: val, cst: true}
}

func (elm *elemWrapper) present(obj Object) bool {
	obj = indirect(obj)
	return obj.IsValid() && obj.val.Kind() == reflect.Map && obj.val.MapIndex(elm.key).IsValid()
}

func (elm *elemWrapper) IsReadOnly(Object) bool {
	return true
}

func (elm *elemWrapper) GetType(Object) *Type {
	return elm.typ.Const()
}

func (elm *elemWrapper) GetValue(obj Object) Any {
	if !elm.present(obj) {
		return Any{}
	}
	return AnyFromValue(elm.key)
}

func (elm *elemWrapper) SetValue(Object, Any) bool {
	return false
}

func (elm *elemWrapper) GetValueObject(obj Object) Object {
	if !elm.present(obj) {
		return Object{}
	}
	return Object{val: elm.key, cst: true}
}
