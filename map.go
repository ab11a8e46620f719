package mirror

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/slices"
)

type (
	// mapWrapper exposes map values by key. Keys are unique; enumeration is
	// always in sorted key order.
	mapWrapper struct {
		noFields
		typ *Type
		key *Type
		elm *Type
	}
	// setWrapper exposes the keys of a map[K]struct{} as its elements.
	setWrapper struct {
		noFields
		typ *Type
		key *Type
	}
)

func isSet(rtyp reflect.Type) bool {
	elm := rtyp.Elem()
	return elm.Kind() == reflect.Struct && elm.NumField() == 0
}

func compileMap(typ *Type) *mapWrapper {
	return &mapWrapper{
		typ: typ,
		key: TypeFromReflect(typ.rtyp.Key()),
		elm: TypeFromReflect(typ.rtyp.Elem()),
	}
}

func compileSet(typ *Type) *setWrapper {
	return &setWrapper{
		typ: typ,
		key: TypeFromReflect(typ.rtyp.Key()),
	}
}

func mapValue(obj Object) (Object, bool) {
	obj = indirect(obj)
	return obj, obj.IsValid() && obj.val.Kind() == reflect.Map
}

// mapKey converts key for lookup, allowing numeric conversions so keys coming
// from scripts as float64 still match.
func mapKey(rtyp reflect.Type, key Any) (reflect.Value, bool) {
	if key.IsEmpty() {
		return reflect.Value{}, false
	}
	return assignable(rtyp, key, true)
}

// mapEditable returns the map when its entries may change. A nil map is
// allocated on first insertion.
func mapEditable(obj Object, grow bool) (Object, bool) {
	obj, ok := mapValue(obj)
	if !ok || !obj.Writable() {
		return Object{}, false
	}
	if obj.val.IsNil() {
		if !grow {
			return Object{}, false
		}
		obj.val.Set(reflect.MakeMap(obj.val.Type()))
	}
	return obj, true
}

// sortedKeys returns the keys of a map value ordered by compareKeys.
func sortedKeys(val reflect.Value) []reflect.Value {
	keys := val.MapKeys()
	slices.SortFunc(keys, func(fst, sec reflect.Value) bool {
		return compareKeys(fst, sec) < 0
	})
	return keys
}

// compareKeys orders numbers numerically, strings and bools naturally and
// anything else by its formatted value.
func compareKeys(fst, sec reflect.Value) int {
	switch fst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp(fst.Int(), sec.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp(fst.Uint(), sec.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp(fst.Float(), sec.Float())
	case reflect.String:
		return cmp(fst.String(), sec.String())
	case reflect.Bool:
		if fst.Bool() == sec.Bool() {
			return 0
		}
		if !fst.Bool() {
			return -1
		}
		return 1
	}
	return cmp(fmt.Sprint(fst.Interface()), fmt.Sprint(sec.Interface()))
}

func cmp[T int64 | uint64 | float64 | string](fst, sec T) int {
	switch {
	case fst < sec:
		return -1
	case fst > sec:
		return 1
	}
	return 0
}

func (mpr *mapWrapper) HasFields(obj Object) bool {
	obj, ok := mapValue(obj)
	return ok && obj.val.Len() != 0
}

func (mpr *mapWrapper) GetField(obj Object, key Any) Reflection {
	val, ok := mapValue(obj)
	if !ok {
		return Reflection{}
	}
	ref, ok := mapKey(mpr.key.rtyp, key)
	if !ok || !val.val.MapIndex(ref).IsValid() {
		return Reflection{}
	}
	return Reflection{obj: obj, vw: &keyWrapper{key: ref, typ: mpr.elm}}
}

func (mpr *mapWrapper) GetFields(obj Object) []Field {
	val, ok := mapValue(obj)
	if !ok {
		return nil
	}
	keys := sortedKeys(val.val)
	out := make([]Field, len(keys))
	for idx, key := range keys {
		out[idx] = Field{
			Key: AnyFromValue(key),
			Ref: Reflection{obj: obj, vw: &keyWrapper{key: key, typ: mpr.elm}},
		}
	}
	return out
}

func (mpr *mapWrapper) Caps() Caps {
	return Caps{
		Dynamic:   true,
		CanAdd:    true,
		CanInsert: true,
		CanRemove: true,
		Flat:      true,
		KeyType:   mpr.key,
		ValueType: mpr.elm,
	}
}

// AddField stores val under key and fails if key is already present. An
// empty val stores the zero value.
func (mpr *mapWrapper) AddField(obj Object, key, val Any) bool {
	obj, ok := mapEditable(obj, true)
	if !ok {
		return false
	}
	ref, ok := mapKey(mpr.key.rtyp, key)
	if !ok || obj.val.MapIndex(ref).IsValid() {
		return false
	}
	elm := reflect.Zero(mpr.elm.rtyp)
	if !val.IsEmpty() {
		if elm, ok = assignable(mpr.elm.rtyp, val, false); !ok {
			return false
		}
	}
	obj.val.SetMapIndex(ref, elm)
	return true
}

// InsertField is AddField: entries are ordered by key, so before has no
// effect.
func (mpr *mapWrapper) InsertField(obj Object, _, key, val Any) bool {
	return mpr.AddField(obj, key, val)
}

func (mpr *mapWrapper) RemoveField(obj Object, key Any) bool {
	obj, ok := mapEditable(obj, false)
	if !ok {
		return false
	}
	ref, ok := mapKey(mpr.key.rtyp, key)
	if !ok || !obj.val.MapIndex(ref).IsValid() {
		return false
	}
	obj.val.SetMapIndex(ref, reflect.Value{})
	return true
}

func (set *setWrapper) HasFields(obj Object) bool {
	obj, ok := mapValue(obj)
	return ok && obj.val.Len() != 0
}

func (set *setWrapper) GetField(obj Object, key Any) Reflection {
	val, ok := mapValue(obj)
	if !ok {
		return Reflection{}
	}
	ref, ok := mapKey(set.key.rtyp, key)
	if !ok || !val.val.MapIndex(ref).IsValid() {
		return Reflection{}
	}
	return Reflection{obj: obj, vw: &elemWrapper{key: ref, typ: set.key}}
}

func (set *setWrapper) GetFields(obj Object) []Field {
	val, ok := mapValue(obj)
	if !ok {
		return nil
	}
	keys := sortedKeys(val.val)
	out := make([]Field, len(keys))
	for idx, key := range keys {
		out[idx] = Field{
			Key: AnyFromValue(key),
			Ref: Reflection{obj: obj, vw: &elemWrapper{key: key, typ: set.key}},
		}
	}
	return out
}

func (set *setWrapper) Caps() Caps {
	return Caps{
		Dynamic:   true,
		CanAdd:    true,
		CanInsert: true,
		CanRemove: true,
		Flat:      true,
		KeyType:   set.key,
		ValueType: set.key,
	}
}

// AddField inserts key; val, when given, must equal key. Adding an element
// already present succeeds.
func (set *setWrapper) AddField(obj Object, key, val Any) bool {
	if key.IsEmpty() {
		key = val
	}
	obj, ok := mapEditable(obj, true)
	if !ok {
		return false
	}
	ref, ok := mapKey(set.key.rtyp, key)
	if !ok {
		return false
	}
	if !val.IsEmpty() {
		elm, ok := mapKey(set.key.rtyp, val)
		if !ok || compareKeys(ref, elm) != 0 {
			return false
		}
	}
	obj.val.SetMapIndex(ref, reflect.Zero(obj.val.Type().Elem()))
	return true
}

func (set *setWrapper) InsertField(obj Object, _, key, val Any) bool {
	return set.AddField(obj, key, val)
}

func (set *setWrapper) RemoveField(obj Object, key Any) bool {
	obj, ok := mapEditable(obj, false)
	if !ok {
		return false
	}
	ref, ok := mapKey(set.key.rtyp, key)
	if !ok || !obj.val.MapIndex(ref).IsValid() {
		return false
	}
	obj.val.SetMapIndex(ref, reflect.Value{})
	return true
}
