package mirror

import (
	"reflect"
)

type (
	// Registrar describes the members of T. It is meant for package
	// initialization: malformed registrations panic.
	Registrar[T any] struct {
		typ   *Type
		name  string
		mems  []*member
		names map[string]struct{}
		mths  []*methodEntry
		ctors []*CtorWrapper
		dtor  *DtorWrapper
		meta  [][2]any
		last  *member
	}
)

// Begin starts the registration of T under permanentName. An empty name
// registers the members without naming the type.
func Begin[T any](permanentName string) *Registrar[T] {
	typ := TypeFor[T]()
	if typ != typ.Decay() {
		panic("mirror: cannot register " + typ.String() + ", register " + typ.Decay().String())
	}
	return &Registrar[T]{typ: typ, name: permanentName, names: make(map[string]struct{})}
}

func (reg *Registrar[T]) add(mem *member) *Registrar[T] {
	if _, ok := reg.names[mem.name]; ok {
		panic("mirror: " + reg.typ.String() + " has two members named " + mem.name)
	}
	reg.names[mem.name] = struct{}{}
	reg.mems = append(reg.mems, mem)
	reg.last = mem
	return reg
}

// Field exposes the struct field name. A dotted name reaches into embedded
// or nested structs.
func (reg *Registrar[T]) Field(name string) *Registrar[T] {
	return reg.FieldAs(name, name)
}

// FieldAs exposes the struct field at path under name.
func (reg *Registrar[T]) FieldAs(name, path string) *Registrar[T] {
	idxs, ftyp, ok := fieldIndex(reg.typ.rtyp, path)
	if !ok {
		panic("mirror: " + reg.typ.String() + " has no exported field " + path)
	}
	return reg.add(&member{
		name: name,
		vw:   &fieldWrapper{idxs: idxs, typ: TypeFromReflect(ftyp)},
	})
}

// Property exposes a computed member. getter is func(T) V or func(*T) V.
// setter is nil or func(*T, V). A getter returning *V with a setter taking
// V exposes the storage it points to.
func (reg *Registrar[T]) Property(name string, getter, setter any) *Registrar[T] {
	get := reflect.ValueOf(getter)
	if get.Kind() != reflect.Func || get.IsNil() || get.Type().NumIn() != 1 || get.Type().NumOut() != 1 {
		panic("mirror: getter of " + reg.typ.String() + "." + name + " must be func(T) V or func(*T) V")
	}
	gtyp := get.Type()
	ptrIn := gtyp.In(0) == reflect.PointerTo(reg.typ.rtyp)
	if !ptrIn && gtyp.In(0) != reg.typ.rtyp {
		panic("mirror: getter of " + reg.typ.String() + "." + name + " takes " + gtyp.In(0).String())
	}
	fnc := &funcWrapper{get: get, typ: TypeFromReflect(gtyp.Out(0)), ptrIn: ptrIn}
	if setter != nil {
		set := reflect.ValueOf(setter)
		if set.Kind() != reflect.Func || set.IsNil() || set.Type().NumIn() != 2 || set.Type().NumOut() != 0 ||
			set.Type().In(0) != reflect.PointerTo(reg.typ.rtyp) {
			panic("mirror: setter of " + reg.typ.String() + "." + name + " must be func(*T, V)")
		}
		styp := set.Type()
		switch out := gtyp.Out(0); {
		case styp.In(1) == out:
		case out.Kind() == reflect.Pointer && out.Elem() == styp.In(1):
			fnc.byPtr = true
			fnc.typ = TypeFromReflect(out.Elem())
		default:
			panic("mirror: getter and setter of " + reg.typ.String() + "." + name + " disagree on the type")
		}
		fnc.set = set
	}
	return reg.add(&member{name: name, vw: fnc})
}

// ReadOnly makes the last member read-only.
func (reg *Registrar[T]) ReadOnly() *Registrar[T] {
	if reg.last == nil {
		panic("mirror: ReadOnly without a member")
	}
	switch vw := reg.last.vw.(type) {
	case *fieldWrapper:
		vw.ro = true
	case *funcWrapper:
		vw.set = reflect.Value{}
	}
	return reg
}

// Meta attaches key to the last member, or to the type before any member.
func (reg *Registrar[T]) Meta(key string, val any) *Registrar[T] {
	if reg.last == nil {
		reg.meta = append(reg.meta, [2]any{key, val})
		return reg
	}
	reg.last.meta = reg.last.meta.with(key, val)
	return reg
}

// Method exposes fn, a function taking T or *T first.
func (reg *Registrar[T]) Method(name string, fn any) *Registrar[T] {
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func || val.IsNil() || val.Type().NumIn() == 0 {
		panic("mirror: method " + reg.typ.String() + "." + name + " must take the receiver first")
	}
	in := val.Type().In(0)
	ptrIn := in == reflect.PointerTo(reg.typ.rtyp)
	if !ptrIn && in != reg.typ.rtyp {
		panic("mirror: method " + reg.typ.String() + "." + name + " takes " + in.String() + " as receiver")
	}
	for _, ent := range reg.mths {
		if ent.name == name {
			panic("mirror: " + reg.typ.String() + " has two methods named " + name)
		}
	}
	reg.mths = append(reg.mths, &methodEntry{name: name, fnc: val, ptrIn: ptrIn})
	return reg
}

// Ctor adds a constructor: func(args...) T or *T, optionally returning an
// error.
func (reg *Registrar[T]) Ctor(fn any) *Registrar[T] {
	reg.ctors = append(reg.ctors, newCtor(reg.typ, fn))
	return reg
}

// Dtor sets the destructor.
func (reg *Registrar[T]) Dtor(fn func(*T)) *Registrar[T] {
	reg.dtor = newDtor(reg.typ, fn)
	return reg
}

// End installs the registration and returns the record of T. The permanent
// name is claimed first, so a duplicate panics before anything changes.
// Without members or methods the fields of T keep being discovered from its
// declaration.
func (reg *Registrar[T]) End() *ReflectedType {
	ref := global.Get(reg.typ)
	if reg.name != "" {
		ref = global.Create(reg.typ, reg.name)
	}
	db := ref.ReflectionDB()
	if len(reg.mems) != 0 || len(reg.mths) != 0 {
		db.SetStructureWrapper(newClass(reg.typ, reg.mems, reg.mths, false))
	}
	for _, ctor := range reg.ctors {
		db.addCtor(ctor)
	}
	if reg.dtor != nil {
		db.setDtor(reg.dtor)
	}
	for _, kv := range reg.meta {
		db.setMeta(kv[0].(string), kv[1])
	}
	logf("registered %s", ref)
	return ref
}
