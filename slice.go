package mirror

import (
	"reflect"
)

type (
	// sequenceWrapper exposes slice and array elements by position. Only
	// slices can grow or shrink.
	sequenceWrapper struct {
		noFields
		typ     *Type
		elm     *Type
		dynamic bool
	}
)

func compileSequence(typ *Type, dynamic bool) *sequenceWrapper {
	return &sequenceWrapper{
		typ:     typ,
		elm:     TypeFromReflect(typ.rtyp.Elem()),
		dynamic: dynamic,
	}
}

func (seq *sequenceWrapper) value(obj Object) (Object, bool) {
	obj = indirect(obj)
	if !obj.IsValid() {
		return obj, false
	}
	switch obj.val.Kind() {
	case reflect.Slice, reflect.Array:
		return obj, true
	}
	return obj, false
}

func (seq *sequenceWrapper) HasFields(obj Object) bool {
	obj, ok := seq.value(obj)
	return ok && obj.val.Len() != 0
}

func (seq *sequenceWrapper) GetField(obj Object, key Any) Reflection {
	idx, ok := keyIndex(key)
	if !ok {
		return Reflection{}
	}
	val, ok := seq.value(obj)
	if !ok || idx < 0 || idx >= val.val.Len() {
		return Reflection{}
	}
	return Reflection{obj: obj, vw: &indexWrapper{idx: idx, typ: seq.elm}}
}

func (seq *sequenceWrapper) GetFields(obj Object) []Field {
	val, ok := seq.value(obj)
	if !ok {
		return nil
	}
	out := make([]Field, val.val.Len())
	for idx := range out {
		out[idx] = Field{
			Key: AnyOf(idx),
			Ref: Reflection{obj: obj, vw: &indexWrapper{idx: idx, typ: seq.elm}},
		}
	}
	return out
}

func (seq *sequenceWrapper) Caps() Caps {
	return Caps{
		Dynamic:   seq.dynamic,
		CanAdd:    seq.dynamic,
		CanInsert: seq.dynamic,
		CanRemove: seq.dynamic,
		Flat:      true,
		KeyType:   TypeFor[int](),
		ValueType: seq.elm,
	}
}

// element converts val for storing; an empty val is the zero element.
func (seq *sequenceWrapper) element(val Any) (reflect.Value, bool) {
	if val.IsEmpty() {
		return reflect.Zero(seq.elm.rtyp), true
	}
	return assignable(seq.elm.rtyp, val, false)
}

// editable returns the slice when it can change length.
func (seq *sequenceWrapper) editable(obj Object) (Object, bool) {
	if !seq.dynamic {
		return Object{}, false
	}
	obj, ok := seq.value(obj)
	if !ok || obj.val.Kind() != reflect.Slice || !obj.Writable() {
		return Object{}, false
	}
	return obj, true
}

// AddField appends val. key is ignored.
func (seq *sequenceWrapper) AddField(obj Object, _ Any, val Any) bool {
	obj, ok := seq.editable(obj)
	if !ok {
		return false
	}
	elm, ok := seq.element(val)
	if !ok {
		return false
	}
	obj.val.Set(reflect.Append(obj.val, elm))
	return true
}

// InsertField inserts val at the position before; before may equal the
// length to append. key is ignored.
func (seq *sequenceWrapper) InsertField(obj Object, before, _ Any, val Any) bool {
	obj, ok := seq.editable(obj)
	if !ok {
		return false
	}
	pos, ok := keyIndex(before)
	cnt := obj.val.Len()
	if !ok || pos < 0 || pos > cnt {
		return false
	}
	elm, ok := seq.element(val)
	if !ok {
		return false
	}
	out := reflect.Append(obj.val, reflect.Zero(seq.elm.rtyp))
	reflect.Copy(out.Slice(pos+1, cnt+1), out.Slice(pos, cnt))
	out.Index(pos).Set(elm)
	obj.val.Set(out)
	return true
}

func (seq *sequenceWrapper) RemoveField(obj Object, key Any) bool {
	obj, ok := seq.editable(obj)
	if !ok {
		return false
	}
	pos, ok := keyIndex(key)
	cnt := obj.val.Len()
	if !ok || pos < 0 || pos >= cnt {
		return false
	}
	reflect.Copy(obj.val.Slice(pos, cnt), obj.val.Slice(pos+1, cnt))
	obj.val.Index(cnt - 1).SetZero()
	obj.val.Set(obj.val.Slice(0, cnt-1))
	return true
}
