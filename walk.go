package mirror

import (
	"errors"
	"reflect"
)

type (
	// WalkFunc is called for every value reached by Walk. path holds the
	// keys leading from the root. cycle reports a value already visited on
	// this walk; its fields are not walked. Returning SkipFields skips the
	// fields of ref; any other error stops the walk.
	WalkFunc func(path []Any, ref Reflection, cycle bool) error
	// visit identifies an object by where it lives and what it is, so a
	// struct and its first field are different objects.
	visit struct {
		ptr uintptr
		typ reflect.Type
	}
	walker struct {
		fnc  WalkFunc
		seen map[visit]struct{}
		path []Any
	}
)

// SkipFields is returned by a WalkFunc to not descend into a value.
var SkipFields = errors.New("skip fields")

// maxDepth bounds walks through getters that build a new object on each call.
const maxDepth = 1000

// Walk visits root and everything reachable from it depth first, each object
// once.
func Walk(root Reflection, fnc WalkFunc) error {
	wlk := walker{fnc: fnc, seen: make(map[visit]struct{})}
	err := wlk.walk(root)
	if err == SkipFields {
		return nil
	}
	return err
}

// visitKey returns the identity of obj if it has one. Copies without an
// address have none and cannot close a cycle by themselves.
func visitKey(obj Object) (visit, bool) {
	if !obj.IsValid() {
		return visit{}, false
	}
	switch {
	case obj.val.CanAddr():
		return visit{ptr: obj.val.UnsafeAddr(), typ: obj.val.Type()}, true
	case obj.val.Kind() == reflect.Map && !obj.val.IsNil():
		return visit{ptr: obj.val.Pointer(), typ: obj.val.Type()}, true
	}
	return visit{}, false
}

func (wlk *walker) walk(ref Reflection) error {
	obj, str := ref.structure()
	key, ok := visitKey(obj)
	if ok {
		if _, ok := wlk.seen[key]; ok {
			return wlk.fnc(wlk.path, ref, true)
		}
		wlk.seen[key] = struct{}{}
	}
	err := wlk.fnc(wlk.path, ref, false)
	if err == SkipFields {
		return nil
	}
	if err != nil {
		return err
	}
	if str == nil || len(wlk.path) >= maxDepth {
		return nil
	}
	for _, fld := range str.GetFields(obj) {
		wlk.path = append(wlk.path, fld.Key)
		err := wlk.walk(fld.Ref)
		wlk.path = wlk.path[:len(wlk.path)-1]
		if err != nil {
			return err
		}
	}
	return nil
}
