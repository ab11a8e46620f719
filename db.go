package mirror

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"
)

type (
	// ReflectionDB holds what the reflection core knows about one type: its
	// constructors, its destructor, its structure and its metadata.
	ReflectionDB struct {
		typ   *Type
		mu    sync.RWMutex
		ctors []*CtorWrapper
		dtor  *DtorWrapper
		str   atomic.Pointer[holder]
		meta  atomic.Pointer[Meta]
	}
	holder struct {
		StructureWrapper
	}
)

func newReflectionDB(typ *Type) *ReflectionDB {
	db := &ReflectionDB{
		typ:   typ,
		ctors: []*CtorWrapper{defaultCtor(typ)},
		dtor:  &DtorWrapper{typ: typ},
	}
	db.str.Store(&holder{compileStructure(typ)})
	return db
}

func (db *ReflectionDB) Type() *Type {
	return db.typ
}

// GetCtor returns the constructor taking exactly params, or nil.
func (db *ReflectionDB) GetCtor(params ...*Type) *CtorWrapper {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, ctor := range db.ctors {
		if slices.Equal(ctor.params, params) {
			return ctor
		}
	}
	return nil
}

func (db *ReflectionDB) GetCtors() []*CtorWrapper {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.ctors)
}

func (db *ReflectionDB) GetDtor() *DtorWrapper {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.dtor
}

// GetStructureWrapper returns nil for types without fields.
func (db *ReflectionDB) GetStructureWrapper() StructureWrapper {
	return db.str.Load().StructureWrapper
}

func (db *ReflectionDB) GetMeta() *Meta {
	return db.meta.Load()
}

// New constructs a value with the first constructor accepting args as they
// are, falling back to one accepting them with conversions.
func (db *ReflectionDB) New(args ...Any) (Any, error) {
	ctors := db.GetCtors()
	for _, ctor := range ctors {
		if ctor.accepts(args) {
			return ctor.Create(args...)
		}
	}
	for _, ctor := range ctors {
		if len(ctor.params) == len(args) {
			return ctor.Create(args...)
		}
	}
	have := make([]*Type, len(args))
	for idx, arg := range args {
		have[idx] = arg.typ
	}
	return Any{}, fmt.Errorf("%w: constructor %s%s", ErrNotFound, db.typ, typeList(have))
}

// addCtor adds ctor, replacing one with the same parameters.
func (db *ReflectionDB) addCtor(ctor *CtorWrapper) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for idx, prev := range db.ctors {
		if slices.Equal(prev.params, ctor.params) {
			db.ctors[idx] = ctor
			return
		}
	}
	db.ctors = append(db.ctors, ctor)
}

func (db *ReflectionDB) setDtor(dtor *DtorWrapper) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.dtor = dtor
}

// SetStructureWrapper installs a custom structure strategy.
func (db *ReflectionDB) SetStructureWrapper(str StructureWrapper) {
	db.str.Store(&holder{str})
}

func (db *ReflectionDB) setMeta(key string, val any) {
	for {
		old := db.meta.Load()
		if db.meta.CompareAndSwap(old, old.with(key, val)) {
			return
		}
	}
}
