package mirror

import (
	"bytes"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sugawarayuuta/mirror/internal/pool"
)

type (
	yamlEncoder struct {
		seen    map[visit]*yaml.Node
		anchors int
		level   int
	}
)

// EncodeYAML renders ref as a YAML node tree. Structs and maps become
// mappings, sequences become sequences and a value reached again becomes an
// alias of its first occurrence.
func EncodeYAML(ref Reflection) (*yaml.Node, error) {
	if !ref.IsValid() {
		return nil, ErrInvalid
	}
	enc := yamlEncoder{seen: make(map[visit]*yaml.Node)}
	return enc.encode(ref)
}

// MarshalYAML is EncodeYAML serialized to bytes.
func MarshalYAML(ref Reflection) ([]byte, error) {
	node, err := EncodeYAML(ref)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(pool.Get(pool.Min))
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := append([]byte(nil), buf.Bytes()...)
	pool.Put(buf.Bytes())
	return out, nil
}

func (enc *yamlEncoder) encode(ref Reflection) (*yaml.Node, error) {
	obj, str := ref.structure()
	key, ok := visitKey(obj)
	if ok && str != nil {
		if prev, ok := enc.seen[key]; ok {
			if prev.Anchor == "" {
				enc.anchors++
				prev.Anchor = "ref" + strconv.Itoa(enc.anchors)
			}
			return &yaml.Node{Kind: yaml.AliasNode, Alias: prev, Value: prev.Anchor}, nil
		}
	}
	if str == nil || enc.level >= maxDepth {
		return scalarNode(ref.GetValue())
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	switch obj.val.Kind() {
	case reflect.Slice, reflect.Array:
		node.Kind = yaml.SequenceNode
	case reflect.Map:
		if isSet(obj.val.Type()) {
			node.Kind = yaml.SequenceNode
		}
	}
	if ok {
		enc.seen[key] = node
	}
	enc.level++
	defer func() {
		enc.level--
	}()
	for _, fld := range str.GetFields(obj) {
		val, err := enc.encode(fld.Ref)
		if err != nil {
			return nil, err
		}
		if node.Kind == yaml.SequenceNode {
			node.Content = append(node.Content, val)
			continue
		}
		key, err := scalarNode(fld.Key)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

func scalarNode(val Any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.ScalarNode}
	if val.IsEmpty() {
		node.Tag, node.Value = "!!null", "null"
		return node, nil
	}
	rval := val.value()
	switch rval.Kind() {
	case reflect.String:
		node.SetString(rval.String())
		return node, nil
	case reflect.Bool:
		node.Tag, node.Value = "!!bool", strconv.FormatBool(rval.Bool())
		return node, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		node.Tag, node.Value = "!!int", strconv.FormatInt(rval.Int(), 10)
		return node, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		node.Tag, node.Value = "!!int", strconv.FormatUint(rval.Uint(), 10)
		return node, nil
	}
	if err := node.Encode(val.Interface()); err != nil {
		return nil, err
	}
	return node, nil
}
