package mirror

import (
	"reflect"
)

type (
	// Reflection is a view of one value: the parent object holding it and
	// the ValueWrapper locating it. It owns nothing and is cheap to copy.
	// A zero Reflection is invalid.
	Reflection struct {
		obj  Object
		vw   ValueWrapper
		meta *Meta
	}
)

// Reflect views the value v points to, writable. A non-pointer v is viewed
// as a read-only copy.
func Reflect(v any) Reflection {
	return ReflectObject(ObjectOf(v))
}

// ReflectConst views v read-only.
func ReflectConst(v any) Reflection {
	return ReflectObject(ObjectOf(v).Const())
}

func ReflectObject(obj Object) Reflection {
	if !obj.IsValid() {
		return Reflection{}
	}
	return Reflection{obj: obj, vw: objectWrapper{}}
}

// toAny lets callers pass plain Go values where an Any is expected.
func toAny(v any) Any {
	switch v := v.(type) {
	case nil:
		return Any{}
	case Any:
		return v
	case *Any:
		return *v
	}
	return NewAny(v)
}

func (ref Reflection) IsValid() bool {
	return ref.vw != nil
}

// target returns the object the reflected value designates and its database.
func (ref Reflection) target() (Object, *ReflectionDB) {
	if ref.vw == nil {
		return Object{}, nil
	}
	return resolve(ref.vw.GetValueObject(ref.obj))
}

func (ref Reflection) structure() (Object, StructureWrapper) {
	obj, db := ref.target()
	if db == nil {
		return obj, nil
	}
	return obj, db.GetStructureWrapper()
}

func (ref Reflection) IsReadOnly() bool {
	return ref.vw == nil || ref.vw.IsReadOnly(ref.obj)
}

// GetValueType returns the static type of the value, const qualified when it
// is read-only.
func (ref Reflection) GetValueType() *Type {
	if ref.vw == nil {
		return nil
	}
	return ref.vw.GetType(ref.obj)
}

// GetValueObject returns the concrete object, after pointers, interfaces
// and virtual targets.
func (ref Reflection) GetValueObject() Object {
	obj, _ := ref.target()
	return obj
}

func (ref Reflection) GetValue() Any {
	if ref.vw == nil {
		return Any{}
	}
	return ref.vw.GetValue(ref.obj)
}

// SetValue stores val if it has the value's type (or points to it, or
// implements it). It returns false on read-only values and never panics.
func (ref Reflection) SetValue(val any) bool {
	if ref.vw == nil {
		return false
	}
	return ref.vw.SetValue(ref.obj, toAny(val))
}

// SetValueWithCast is SetValue allowing numeric, string and bool
// conversions.
func (ref Reflection) SetValueWithCast(val any) bool {
	if ref.vw == nil || ref.vw.IsReadOnly(ref.obj) {
		return false
	}
	arg := toAny(val)
	if !arg.IsEmpty() {
		cnv, err := arg.Convert(ref.vw.GetType(ref.obj).NonConst())
		if err != nil {
			return false
		}
		arg = cnv
	}
	return ref.vw.SetValue(ref.obj, arg)
}

func (ref Reflection) GetReflectionDB() *ReflectionDB {
	_, db := ref.target()
	return db
}

func (ref Reflection) GetReflectedType() *ReflectedType {
	db := ref.GetReflectionDB()
	if db == nil {
		return nil
	}
	return global.Get(db.typ)
}

// GetMeta returns what was attached to the field at registration.
func (ref Reflection) GetMeta() *Meta {
	return ref.meta
}

func (ref Reflection) HasFields() bool {
	obj, str := ref.structure()
	return str != nil && str.HasFields(obj)
}

// GetField returns the child at key: a member name, a position, or a map
// key. The result is invalid when there is no such child.
func (ref Reflection) GetField(key any) Reflection {
	obj, str := ref.structure()
	if str == nil {
		return Reflection{}
	}
	return str.GetField(obj, toAny(key))
}

func (ref Reflection) GetFields() []Field {
	obj, str := ref.structure()
	if str == nil {
		return nil
	}
	return str.GetFields(obj)
}

func (ref Reflection) HasMethods() bool {
	obj, str := ref.structure()
	if str == nil {
		return len(autoMethods(obj)) != 0
	}
	return str.HasMethods(obj)
}

func (ref Reflection) GetMethod(name string) AnyFn {
	obj, str := ref.structure()
	if str == nil {
		return boundMethod(obj, name)
	}
	return str.GetMethod(obj, name)
}

func (ref Reflection) GetMethods() []Method {
	obj, str := ref.structure()
	if str == nil {
		return autoMethods(obj)
	}
	return str.GetMethods(obj)
}

func (ref Reflection) GetFieldsCaps() Caps {
	_, str := ref.structure()
	if str == nil {
		return Caps{}
	}
	return str.Caps()
}

// AddField adds a child. Sequences ignore key and append.
func (ref Reflection) AddField(key, val any) bool {
	obj, str := ref.structure()
	return str != nil && str.AddField(obj, toAny(key), toAny(val))
}

// InsertField inserts a child before the child at before. Associative
// collections are kept in key order and treat it as AddField.
func (ref Reflection) InsertField(before, key, val any) bool {
	obj, str := ref.structure()
	return str != nil && str.InsertField(obj, toAny(before), toAny(key), toAny(val))
}

func (ref Reflection) RemoveField(key any) bool {
	obj, str := ref.structure()
	return str != nil && str.RemoveField(obj, toAny(key))
}

func (ref Reflection) String() string {
	if ref.vw == nil {
		return "<invalid>"
	}
	typ := ref.GetValueType()
	val := ref.GetValue()
	if val.IsEmpty() || isComposite(val.typ.rtyp) {
		return typ.String()
	}
	return val.String() + " (" + typ.String() + ")"
}

func isComposite(rtyp reflect.Type) bool {
	switch rtyp.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Pointer, reflect.Interface:
		return true
	}
	return false
}
