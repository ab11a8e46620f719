package mirror

import (
	"sync/atomic"
)

type (
	// cache is a copy-on-write map. readers never lock; writers publish a
	// fresh map with compare-and-swap, so concurrent writers of the same key
	// agree on one value.
	cache[key comparable, elm any] struct {
		ptr *atomic.Pointer[map[key]elm]
	}
)

func makeCache[key comparable, elm any]() *cache[key, elm] {
	var atom atomic.Pointer[map[key]elm]
	mapper := make(map[key]elm)
	atom.Store(&mapper)
	return &cache[key, elm]{ptr: &atom}
}

func (cac *cache[key, elm]) get(ref key) (elm, bool) {
	mapper := *cac.ptr.Load()
	val, ok := mapper[ref]
	return val, ok
}

// load returns the value stored for ref, building and publishing it with fnc
// when absent. fnc may run more than once under contention; only one result
// is ever published and returned. stored reports whether this call won.
func (cac *cache[key, elm]) load(ref key, fnc func() elm) (val elm, stored bool) {
	if val, ok := cac.get(ref); ok {
		return val, false
	}
	val = fnc()
	for {
		old := cac.ptr.Load()
		if cur, ok := (*old)[ref]; ok {
			return cur, false
		}
		rep := make(map[key]elm, len(*old)+1)
		for key, elm := range *old {
			rep[key] = elm
		}
		rep[ref] = val
		if cac.ptr.CompareAndSwap(old, &rep) {
			return val, true
		}
	}
}

// set overwrites ref unconditionally.
func (cac *cache[key, elm]) set(ref key, val elm) {
	for {
		old := cac.ptr.Load()
		rep := make(map[key]elm, len(*old)+1)
		for key, elm := range *old {
			rep[key] = elm
		}
		rep[ref] = val
		if cac.ptr.CompareAndSwap(old, &rep) {
			return
		}
	}
}

func (cac *cache[key, elm]) snapshot() map[key]elm {
	return *cac.ptr.Load()
}
