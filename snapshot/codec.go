package snapshot

import (
	"reflect"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sugawarayuuta/mirror"
)

// Encode renders the value of ref as YAML. Values reached twice are written
// once and referenced with aliases.
func Encode(ref mirror.Reflection) ([]byte, error) {
	data, err := mirror.MarshalYAML(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", ref.GetValueType())
	}
	return data, nil
}

// Decode writes data into the value of ref. Struct members are matched by
// name, sequences and maps are rebuilt, nil pointers are allocated. Read-only
// members and aliases are skipped, so back references keep their current
// value.
func Decode(data []byte, ref mirror.Reflection) error {
	if !ref.IsValid() {
		return errors.WithStack(mirror.ErrInvalid)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "parse snapshot")
	}
	if doc.Kind == 0 {
		return nil
	}
	return decode(&doc, ref)
}

func decode(node *yaml.Node, ref mirror.Reflection) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return decode(node.Content[0], ref)
	case yaml.AliasNode:
		return nil
	}
	if ref.IsReadOnly() {
		return nil
	}
	typ := ref.GetValueType().NonConst()
	if node.Kind == yaml.ScalarNode {
		return decodeLeaf(node, ref, typ)
	}
	if val := ref.GetValue().Value(); typ.Kind() == reflect.Pointer && (!val.IsValid() || val.IsNil()) {
		if !ref.SetValue(mirror.AnyFromValue(reflect.New(typ.Reflect().Elem()))) {
			return errors.Errorf("cannot allocate %s", typ)
		}
	}
	caps := ref.GetFieldsCaps()
	switch {
	case node.Kind == yaml.SequenceNode && caps.Dynamic:
		return decodeDynamic(node, ref, caps)
	case node.Kind == yaml.SequenceNode:
		for idx, elm := range node.Content {
			fld := ref.GetField(idx)
			if !fld.IsValid() {
				break
			}
			if err := decode(elm, fld); err != nil {
				return errors.Wrapf(err, "[%d]", idx)
			}
		}
		return nil
	case node.Kind == yaml.MappingNode && caps.Dynamic:
		return decodeMap(node, ref, caps)
	case node.Kind == yaml.MappingNode:
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			name := node.Content[idx].Value
			fld := ref.GetField(name)
			if !fld.IsValid() {
				continue
			}
			if err := decode(node.Content[idx+1], fld); err != nil {
				return errors.Wrap(err, name)
			}
		}
		return nil
	}
	return errors.Errorf("unexpected yaml node kind %d for %s", node.Kind, typ)
}

func decodeLeaf(node *yaml.Node, ref mirror.Reflection, typ *mirror.Type) error {
	if node.Tag == "!!null" {
		ref.SetValue(nil)
		return nil
	}
	ptr := reflect.New(typ.Reflect())
	if err := node.Decode(ptr.Interface()); err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	if !ref.SetValue(mirror.AnyFromValue(ptr.Elem())) {
		return errors.Errorf("line %d: cannot set %s", node.Line, typ)
	}
	return nil
}

// reset removes every field of a dynamic structure, last first.
func reset(ref mirror.Reflection) {
	flds := ref.GetFields()
	for idx := len(flds) - 1; idx >= 0; idx-- {
		ref.RemoveField(flds[idx].Key)
	}
}

// decodeDynamic rebuilds a slice or a set.
func decodeDynamic(node *yaml.Node, ref mirror.Reflection, caps mirror.Caps) error {
	reset(ref)
	set := ref.GetValueObject().Value().Kind() == reflect.Map
	for idx, elm := range node.Content {
		if elm.Kind == yaml.AliasNode {
			if !set {
				ref.AddField(nil, nil)
			}
			continue
		}
		if set {
			key, err := decodeValue(elm, caps.KeyType)
			if err != nil {
				return errors.Wrapf(err, "[%d]", idx)
			}
			if !ref.AddField(key, key) {
				return errors.Errorf("[%d]: cannot add %s", idx, key)
			}
			continue
		}
		if !ref.AddField(nil, nil) {
			return errors.Errorf("[%d]: cannot append to %s", idx, ref.GetValueType())
		}
		if err := decode(elm, ref.GetField(idx)); err != nil {
			return errors.Wrapf(err, "[%d]", idx)
		}
	}
	return nil
}

// decodeMap rebuilds a map. Values are decoded whole because map values
// cannot be modified in place.
func decodeMap(node *yaml.Node, ref mirror.Reflection, caps mirror.Caps) error {
	reset(ref)
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		key, err := decodeValue(node.Content[idx], caps.KeyType)
		if err != nil {
			return err
		}
		if node.Content[idx+1].Kind == yaml.AliasNode {
			continue
		}
		val, err := decodeValue(node.Content[idx+1], caps.ValueType)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		if !ref.AddField(key, val) {
			return errors.Errorf("cannot add %s to %s", key, ref.GetValueType())
		}
	}
	return nil
}

func decodeValue(node *yaml.Node, typ *mirror.Type) (mirror.Any, error) {
	ptr := reflect.New(typ.NonConst().Reflect())
	if err := node.Decode(ptr.Interface()); err != nil {
		return mirror.Any{}, errors.Wrapf(err, "line %d", node.Line)
	}
	return mirror.AnyFromValue(ptr.Elem()), nil
}
