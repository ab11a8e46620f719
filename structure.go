package mirror

import (
	"math"
	"reflect"
)

type (
	// StructureWrapper enumerates and edits the children of one kind of
	// value.
	StructureWrapper interface {
		HasFields(obj Object) bool
		GetField(obj Object, key Any) Reflection
		GetFields(obj Object) []Field
		HasMethods(obj Object) bool
		GetMethod(obj Object, name string) AnyFn
		GetMethods(obj Object) []Method
		Caps() Caps
		AddField(obj Object, key, val Any) bool
		InsertField(obj Object, before, key, val Any) bool
		RemoveField(obj Object, key Any) bool
	}
	// Field is one child of a reflected value.
	Field struct {
		Key Any
		Ref Reflection
	}
	// Caps tells generic code what a structure allows without knowing the
	// concrete type.
	Caps struct {
		Dynamic   bool // the set of fields changes at runtime
		CanAdd    bool
		CanInsert bool
		CanRemove bool
		Flat      bool  // every field has ValueType
		KeyType   *Type // nil for named members
		ValueType *Type
	}
	// noFields gives value kinds without children the common method
	// behavior.
	noFields struct{}
)

// compileStructure picks the structure strategy for typ by kind.
func compileStructure(typ *Type) StructureWrapper {
	switch typ.Kind() {
	case reflect.Struct:
		return compileClass(typ)
	case reflect.Slice:
		return compileSequence(typ, true)
	case reflect.Array:
		return compileSequence(typ, false)
	case reflect.Map:
		if isSet(typ.rtyp) {
			return compileSet(typ)
		}
		return compileMap(typ)
	}
	return nil
}

func (noFields) HasMethods(obj Object) bool {
	return len(autoMethods(obj)) != 0
}

func (noFields) GetMethod(obj Object, name string) AnyFn {
	return boundMethod(obj, name)
}

func (noFields) GetMethods(obj Object) []Method {
	return autoMethods(obj)
}

// keyString extracts a member name.
func keyString(key Any) (string, bool) {
	if str, err := Get[string](key); err == nil {
		return str, true
	}
	cnv, err := key.Convert(TypeFor[string]())
	if err != nil {
		return "", false
	}
	str, err := Get[string](cnv)
	return str, err == nil
}

// keyIndex extracts a sequence position from any integer, or from a float
// holding an integer.
func keyIndex(key Any) (int, bool) {
	if key.IsEmpty() {
		return 0, false
	}
	val := key.value()
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(val.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if val.Uint() > math.MaxInt {
			return 0, false
		}
		return int(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		flt := val.Float()
		if flt < math.MinInt || flt >= math.MaxInt || flt != float64(int(flt)) {
			return 0, false
		}
		return int(flt), true
	}
	return 0, false
}
