package mirror

import (
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/exp/slices"
)

type (
	tagOptions string
	// field is a member found on a struct type without registration.
	field struct {
		name string
		idxs []int
		typ  reflect.Type
		ro   bool
		tag  bool
		meta map[string]any
	}
)

const tagName = "mirror"

// parseTag splits a `mirror:"name,opt,key=value"` tag into its name and
// options.
func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

// Contains reports whether a comma-separated list of options contains opt.
func (opts tagOptions) Contains(opt string) bool {
	str := string(opts)
	for str != "" {
		var name string
		name, str, _ = strings.Cut(str, ",")
		if name == opt {
			return true
		}
	}
	return false
}

// meta returns every option except readonly as metadata; bare options map to
// true.
func (opts tagOptions) meta() map[string]any {
	var out map[string]any
	str := string(opts)
	for str != "" {
		var opt string
		opt, str, _ = strings.Cut(str, ",")
		if opt == "" || opt == "readonly" {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		if key, val, ok := strings.Cut(opt, "="); ok {
			out[key] = val
			continue
		}
		out[opt] = true
	}
	return out
}

// makeFields returns the members declared directly on the struct type typ,
// in declaration order. embedded structs are bases and are not included.
func makeFields(typ reflect.Type) []field {
	var flds []field
	for idx := 0; idx < typ.NumField(); idx++ {
		str := typ.Field(idx)
		if embeddedBase(str) != nil {
			continue
		}
		if !str.IsExported() {
			continue
		}
		tag := str.Tag.Get(tagName)
		if tag == "-" {
			continue
		}
		name, opts := parseTag(tag)
		fld := field{
			idxs: []int{idx},
			typ:  str.Type,
			ro:   opts.Contains("readonly"),
			meta: opts.meta(),
		}
		if isValidTag(name) {
			fld.name = name
			fld.tag = true
		} else {
			fld.name = str.Name
		}
		flds = append(flds, fld)
	}

	// keep one field per name. a tagged name wins over a Go name; two
	// fields of the same kind cancel each other out.
	out := flds[:0]
	for _, fld := range flds {
		var same []field
		for _, oth := range flds {
			if oth.name == fld.name {
				same = append(same, oth)
			}
		}
		dom, ok := dominant(same)
		if ok && slices.Equal(dom.idxs, fld.idxs) {
			out = append(out, fld)
		}
	}
	return out
}

func isValidTag(str string) bool {
	if str == "" {
		return false
	}
	for _, char := range str {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", char):
			// Backslash and quote chars are reserved, but
			// otherwise any punctuation chars are allowed
			// in a tag name.
		default:
			if !unicode.IsLetter(char) && !unicode.IsDigit(char) {
				return false
			}
		}
	}
	return true
}

// dominant looks through fields sharing one name for the one that survives:
// the only tagged one, or the only one at all.
func dominant(flds []field) (field, bool) {
	if len(flds) == 1 {
		return flds[0], true
	}
	var win []field
	for _, fld := range flds {
		if fld.tag {
			win = append(win, fld)
		}
	}
	if len(win) != 1 {
		return field{}, false
	}
	return win[0], true
}

// followValue walks idxs from val, stepping through embedded pointers. ok is
// false when a nil pointer is met.
func followValue(val reflect.Value, idxs []int) (reflect.Value, bool) {
	for _, idx := range idxs {
		if val.Kind() == reflect.Pointer {
			if val.IsNil() {
				return reflect.Value{}, false
			}
			val = val.Elem()
		}
		val = val.Field(idx)
	}
	return val, true
}

// fieldIndex resolves a dotted member path like "Transform.Pos" to an index
// path on typ.
func fieldIndex(typ reflect.Type, path string) ([]int, reflect.Type, bool) {
	var idxs []int
	for _, name := range strings.Split(path, ".") {
		if typ.Kind() == reflect.Pointer {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return nil, nil, false
		}
		str, ok := typ.FieldByName(name)
		if !ok || !str.IsExported() {
			return nil, nil, false
		}
		idxs = append(idxs, str.Index...)
		typ = str.Type
	}
	return idxs, typ, true
}
