package mirror

import (
	"reflect"
)

type (
	// classWrapper exposes the named members of a struct, inherited members
	// of its embedded bases first.
	classWrapper struct {
		typ   *Type
		mems  []*member
		names map[string]int
		bases []baseLink
		near  []baseLink
		mths  []*methodEntry
		auto  bool // methods come from the Go method set
	}
	// member is one named field of a class.
	member struct {
		name string
		vw   ValueWrapper
		meta *Meta
	}
)

// compileClass reflects the exported fields of a struct type. Registration
// replaces the members later.
func compileClass(typ *Type) *classWrapper {
	flds := makeFields(typ.rtyp)
	mems := make([]*member, 0, len(flds))
	for _, fld := range flds {
		mems = append(mems, &member{
			name: fld.name,
			vw:   &fieldWrapper{idxs: fld.idxs, typ: TypeFromReflect(fld.typ), ro: fld.ro},
			meta: newMeta(fld.meta),
		})
	}
	return newClass(typ, mems, nil, true)
}

func newClass(typ *Type, mems []*member, mths []*methodEntry, auto bool) *classWrapper {
	cls := &classWrapper{
		typ:   typ,
		mems:  mems,
		names: make(map[string]int, len(mems)),
		bases: linearBases(typ),
		mths:  mths,
		auto:  auto,
	}
	cls.near = nearest(cls.bases)
	for idx, mem := range mems {
		cls.names[mem.name] = idx
	}
	return cls
}

// baseObject locates the embedded base link inside obj.
func baseObject(obj Object, link baseLink) (Object, bool) {
	obj = indirect(obj)
	if !obj.IsValid() || obj.val.Kind() != reflect.Struct {
		return Object{}, false
	}
	val, ok := followValue(obj.val, link.idxs)
	if !ok {
		return Object{}, false
	}
	out := indirect(obj.child(val, false))
	return out, out.IsValid()
}

// baseClass returns the current class of a base type, which may have been
// registered after the derived class was compiled.
func baseClass(typ *Type) (*classWrapper, StructureWrapper) {
	str := GetGlobalDBOf(typ).GetStructureWrapper()
	cls, _ := str.(*classWrapper)
	return cls, str
}

func (cls *classWrapper) HasFields(Object) bool {
	return len(cls.mems) != 0 || len(cls.bases) != 0
}

func (cls *classWrapper) GetField(obj Object, key Any) Reflection {
	name, ok := keyString(key)
	if !ok {
		return Reflection{}
	}
	if idx, ok := cls.names[name]; ok {
		mem := cls.mems[idx]
		return Reflection{obj: obj, vw: mem.vw, meta: mem.meta}
	}
	for _, link := range cls.near {
		bobj, ok := baseObject(obj, link)
		if !ok {
			continue
		}
		bcls, str := baseClass(link.typ)
		if bcls == nil {
			if str != nil {
				if ref := str.GetField(bobj, key); ref.IsValid() {
					return ref
				}
			}
			continue
		}
		if idx, ok := bcls.names[name]; ok {
			mem := bcls.mems[idx]
			return Reflection{obj: bobj, vw: mem.vw, meta: mem.meta}
		}
	}
	return Reflection{}
}

// GetFields lists base members before derived ones. A name declared at
// several depths is listed once, from the shallowest declaration.
func (cls *classWrapper) GetFields(obj Object) []Field {
	if len(cls.bases) == 0 {
		out := make([]Field, 0, len(cls.mems))
		for _, mem := range cls.mems {
			out = append(out, mem.field(obj))
		}
		return out
	}

	levels := make(map[*Type][]Field, len(cls.bases))
	for _, link := range cls.bases {
		bobj, ok := baseObject(obj, link)
		if !ok {
			continue
		}
		var flds []Field
		bcls, str := baseClass(link.typ)
		switch {
		case bcls != nil:
			for _, mem := range bcls.mems {
				flds = append(flds, mem.field(bobj))
			}
		case str != nil:
			flds = str.GetFields(bobj)
		}
		levels[link.typ] = flds
	}

	owner := make(map[string]*Type)
	for _, mem := range cls.mems {
		owner[mem.name] = cls.typ
	}
	for _, link := range cls.near {
		for _, fld := range levels[link.typ] {
			name, _ := keyString(fld.Key)
			if _, ok := owner[name]; !ok {
				owner[name] = link.typ
			}
		}
	}

	var out []Field
	for _, link := range cls.bases {
		for _, fld := range levels[link.typ] {
			name, _ := keyString(fld.Key)
			if owner[name] == link.typ {
				out = append(out, fld)
			}
		}
	}
	for _, mem := range cls.mems {
		out = append(out, mem.field(obj))
	}
	return out
}

func (mem *member) field(obj Object) Field {
	return Field{
		Key: AnyOf(mem.name),
		Ref: Reflection{obj: obj, vw: mem.vw, meta: mem.meta},
	}
}

func (cls *classWrapper) HasMethods(obj Object) bool {
	return len(cls.GetMethods(obj)) != 0
}

func (cls *classWrapper) GetMethod(obj Object, name string) AnyFn {
	if cls.auto {
		return boundMethod(obj, name)
	}
	for _, ent := range cls.mths {
		if ent.name == name {
			return ent.bind(obj)
		}
	}
	for _, link := range cls.near {
		bobj, ok := baseObject(obj, link)
		if !ok {
			continue
		}
		if _, str := baseClass(link.typ); str != nil {
			if fn := str.GetMethod(bobj, name); fn.IsValid() {
				return fn
			}
		}
	}
	return AnyFn{}
}

// GetMethods lists the methods of obj. Registered classes list inherited
// methods first.
func (cls *classWrapper) GetMethods(obj Object) []Method {
	if cls.auto {
		return autoMethods(obj)
	}
	seen := make(map[string]struct{})
	var own []Method
	for _, ent := range cls.mths {
		if fn := ent.bind(obj); fn.IsValid() {
			own = append(own, Method{Name: ent.name, Fn: fn})
			seen[ent.name] = struct{}{}
		}
	}
	var out []Method
	for _, link := range cls.near {
		bobj, ok := baseObject(obj, link)
		if !ok {
			continue
		}
		bcls, _ := baseClass(link.typ)
		if bcls == nil || bcls.auto {
			continue
		}
		for _, ent := range bcls.mths {
			if _, ok := seen[ent.name]; ok {
				continue
			}
			if fn := ent.bind(bobj); fn.IsValid() {
				out = append(out, Method{Name: ent.name, Fn: fn})
				seen[ent.name] = struct{}{}
			}
		}
	}
	return append(out, own...)
}

func (cls *classWrapper) Caps() Caps {
	return Caps{}
}

func (cls *classWrapper) AddField(Object, Any, Any) bool {
	return false
}

func (cls *classWrapper) InsertField(Object, Any, Any, Any) bool {
	return false
}

func (cls *classWrapper) RemoveField(Object, Any) bool {
	return false
}
