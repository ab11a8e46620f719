package mirror

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"
)

type (
	// ReflectedType is the identity record of a type: its descriptor, an
	// optional permanent name and its ReflectionDB.
	ReflectedType struct {
		typ  *Type
		name atomic.Pointer[string]
		db   atomic.Pointer[ReflectionDB]
		tdb  *TypeDB
	}
	// TypeDB maps types to their ReflectedType, by descriptor and by
	// permanent name. Lookups never lock.
	TypeDB struct {
		mu     sync.Mutex
		byType *cache[*Type, *ReflectedType]
		byName *cache[string, *ReflectedType]
		group  singleflight.Group
	}
)

var global = NewTypeDB()

func NewTypeDB() *TypeDB {
	return &TypeDB{
		byType: makeCache[*Type, *ReflectedType](),
		byName: makeCache[string, *ReflectedType](),
	}
}

// Types returns the process-wide database.
func Types() *TypeDB {
	return global
}

// Get returns the record of typ's decayed type, creating it without a
// permanent name on first use.
func (tdb *TypeDB) Get(typ *Type) *ReflectedType {
	if typ == nil {
		return nil
	}
	typ = typ.Decay()
	if ref, ok := tdb.byType.get(typ); ok {
		return ref
	}
	tdb.mu.Lock()
	defer tdb.mu.Unlock()
	return tdb.create(typ)
}

// create must be called with mu held.
func (tdb *TypeDB) create(typ *Type) *ReflectedType {
	if ref, ok := tdb.byType.get(typ); ok {
		return ref
	}
	ref := &ReflectedType{typ: typ, tdb: tdb}
	tdb.byType.set(typ, ref)
	return ref
}

// Register gives typ the permanent name. It fails if the name is taken or if
// typ already has a permanent name; the existing mappings are left intact.
func (tdb *TypeDB) Register(typ *Type, name string) (*ReflectedType, error) {
	typ = typ.Decay()
	tdb.mu.Lock()
	defer tdb.mu.Unlock()
	if prev, ok := tdb.byName.get(name); ok {
		return nil, &DuplicateRegistrationError{Name: name, Type: typ, Prev: prev.typ}
	}
	ref := tdb.create(typ)
	if held := ref.PermanentName(); held != "" {
		return nil, &DuplicateRegistrationError{Name: name, Type: typ, Held: held}
	}
	ref.name.Store(&name)
	tdb.byName.set(name, ref)
	return ref, nil
}

// Create is Register for static initialization: a duplicate panics.
func (tdb *TypeDB) Create(typ *Type, name string) *ReflectedType {
	ref, err := tdb.Register(typ, name)
	if err != nil {
		panic(err)
	}
	return ref
}

// GetByType returns the record of typ without creating one.
func (tdb *TypeDB) GetByType(typ *Type) *ReflectedType {
	if typ == nil {
		return nil
	}
	ref, _ := tdb.byType.get(typ.Decay())
	return ref
}

// GetByRttiName returns the record of the type LookupType finds for name.
// RTTI names are not unique: the first type seen under a name keeps it.
func (tdb *TypeDB) GetByRttiName(name string) *ReflectedType {
	return tdb.GetByType(LookupType(name))
}

func (tdb *TypeDB) GetByPermanentName(name string) *ReflectedType {
	ref, _ := tdb.byName.get(name)
	return ref
}

// PermanentNames returns every permanent name in sorted order.
func (tdb *TypeDB) PermanentNames() []string {
	names := maps.Keys(tdb.byName.snapshot())
	slices.Sort(names)
	return names
}

// All returns every record sorted by RTTI name.
func (tdb *TypeDB) All() []*ReflectedType {
	refs := maps.Values(tdb.byType.snapshot())
	slices.SortFunc(refs, func(fst, sec *ReflectedType) bool {
		return fst.typ.Name() < sec.typ.Name()
	})
	return refs
}

func (ref *ReflectedType) Type() *Type {
	return ref.typ
}

func (ref *ReflectedType) RttiName() string {
	return ref.typ.Name()
}

// PermanentName returns the registered name, or "" if there is none.
func (ref *ReflectedType) PermanentName() string {
	if name := ref.name.Load(); name != nil {
		return *name
	}
	return ""
}

// ReflectionDB returns the database of the type, building it on first use.
// Concurrent first uses share one build.
func (ref *ReflectedType) ReflectionDB() *ReflectionDB {
	if db := ref.db.Load(); db != nil {
		return db
	}
	val, _, _ := ref.tdb.group.Do(fmt.Sprintf("%p", ref), func() (any, error) {
		if db := ref.db.Load(); db != nil {
			return db, nil
		}
		db := newReflectionDB(ref.typ)
		ref.db.Store(db)
		return db, nil
	})
	return val.(*ReflectionDB)
}

func (ref *ReflectedType) String() string {
	if name := ref.PermanentName(); name != "" {
		return name + " (" + ref.typ.Name() + ")"
	}
	return ref.typ.Name()
}

// GetGlobalDB returns the database of T.
func GetGlobalDB[T any]() *ReflectionDB {
	return GetGlobalDBOf(TypeFor[T]())
}

// GetGlobalDBOf returns the database of typ's decayed type.
func GetGlobalDBOf(typ *Type) *ReflectionDB {
	if typ == nil {
		return nil
	}
	return global.Get(typ).ReflectionDB()
}

// EditGlobalDB returns the database of T for registration.
func EditGlobalDB[T any]() *ReflectionDB {
	return GetGlobalDB[T]()
}
