package mirror

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type (
	link struct {
		Name string
		Next *link
	}
	tree struct {
		Label    string
		Kids     []*tree
		Parent   *tree
		Counters map[string]int
	}
)

func TestWalkCycle(t *testing.T) {
	lnk := &link{Name: "a"}
	lnk.Next = lnk

	var visits, cycles int
	err := Walk(Reflect(lnk), func(path []Any, ref Reflection, cycle bool) error {
		if ref.GetValueObject().Value().Type() != TypeFor[link]().Reflect() {
			return nil
		}
		if cycle {
			cycles++
		} else {
			visits++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if visits != 1 || cycles != 1 {
		t.Errorf("expected one visit and one cycle, got %d and %d", visits, cycles)
	}
}

func TestWalkPaths(t *testing.T) {
	root := &tree{Label: "root", Counters: map[string]int{"x": 1}}
	kid := &tree{Label: "kid", Parent: root}
	root.Kids = append(root.Kids, kid)

	var paths []string
	err := Walk(Reflect(root), func(path []Any, ref Reflection, cycle bool) error {
		var parts []string
		for _, key := range path {
			parts = append(parts, key.String())
		}
		paths = append(paths, strings.Join(parts, "/"))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"",
		"Label",
		"Kids",
		"Kids/0",
		"Kids/0/Label",
		"Kids/0/Kids",
		"Kids/0/Parent",
		"Kids/0/Counters",
		"Parent",
		"Counters",
		"Counters/x",
	}
	if strings.Join(paths, " ") != strings.Join(want, " ") {
		t.Errorf("expected %v, got %v", want, paths)
	}
}

func TestWalkStop(t *testing.T) {
	root := &tree{Label: "root", Kids: []*tree{{Label: "a"}, {Label: "b"}}}
	stop := errors.New("stop")
	var seen int
	err := Walk(Reflect(root), func(path []Any, ref Reflection, cycle bool) error {
		seen++
		if len(path) == 1 {
			if key, _ := Get[string](path[0]); key == "Kids" {
				return SkipFields
			}
		}
		if len(path) == 1 {
			if key, _ := Get[string](path[0]); key == "Parent" {
				return stop
			}
		}
		return nil
	})
	if err != stop {
		t.Errorf("expected the walk to stop, got %v", err)
	}
	if seen != 4 {
		t.Errorf("expected 4 visits, got %d", seen)
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := Reflect(&point{1, 2}).Dump(&buf); err != nil {
		t.Fatal(err)
	}
	want := "mirror.point\n  X: 1 (int)\n  Y: 2 (int)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	lnk := &link{Name: "a"}
	lnk.Next = lnk
	if err := Reflect(lnk).Dump(&buf, DumpIndent("\t")); err != nil {
		t.Fatal(err)
	}
	want = "mirror.link\n\tName: \"a\" (string)\n\tNext: <cycle *mirror.link>\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	root := &tree{Label: "root", Kids: []*tree{{Label: "a"}}}
	if err := Reflect(root).Dump(&buf, DumpDepth(1)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Kids: []*mirror.tree {...}") {
		t.Errorf("expected the depth limit to collapse Kids, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Parent: nil (*mirror.tree)") {
		t.Errorf("expected a nil pointer leaf, got %q", buf.String())
	}

	buf.Reset()
	if err := (Reflection{}).Dump(&buf); err != nil || buf.String() != "<invalid>\n" {
		t.Errorf("expected <invalid>, got %q", buf.String())
	}
}

func TestDumpKeys(t *testing.T) {
	for _, tst := range []struct {
		name string
		val  any
		want string
	}{
		{"uint64", &map[uint64]int{^uint64(0): 1}, "map[uint64]int\n  [18446744073709551615]: 1 (int)\n"},
		{"int8", &map[int8]bool{-3: true}, "map[int8]bool\n  [-3]: true (bool)\n"},
		{"float", &map[float64]string{1.5: "x"}, "map[float64]string\n  [1.5]: \"x\" (string)\n"},
		{"string", &map[string]int{"k": 2}, "map[string]int\n  k: 2 (int)\n"},
		{"slice", &[]string{"a"}, "[]string\n  [0]: \"a\" (string)\n"},
	} {
		t.Run(tst.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Reflect(tst.val).Dump(&buf); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tst.want {
				t.Errorf("expected %q, got %q", tst.want, buf.String())
			}
		})
	}
}

func TestMarshalYAML(t *testing.T) {
	root := &tree{Label: "root", Counters: map[string]int{"b": 2, "a": 1}}
	kid := &tree{Label: "kid", Parent: root}
	root.Kids = append(root.Kids, kid)

	data, err := MarshalYAML(Reflect(root))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "&ref1") || !strings.Contains(out, "Parent: *ref1") {
		t.Errorf("expected the back reference to be an alias, got:\n%s", out)
	}
	if strings.Index(out, "a: 1") > strings.Index(out, "b: 2") {
		t.Errorf("expected sorted map keys, got:\n%s", out)
	}

	var back yaml.Node
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("expected valid yaml: %v", err)
	}
	if len(back.Content) != 1 || back.Content[0].Anchor != "ref1" {
		t.Errorf("expected the root to carry the anchor")
	}
}

func TestEncodeYAMLNodes(t *testing.T) {
	set := map[int]struct{}{3: {}, 1: {}}
	node, err := EncodeYAML(Reflect(&set))
	if err != nil {
		t.Fatal(err)
	}
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 || node.Content[0].Value != "1" {
		t.Errorf("expected a sorted sequence for a set, got %+v", node)
	}
	node, err = EncodeYAML(Reflect(&[]string{"x"}))
	if err != nil {
		t.Fatal(err)
	}
	if node.Kind != yaml.SequenceNode || node.Content[0].Value != "x" {
		t.Errorf("expected a sequence, got %+v", node)
	}
	if _, err := EncodeYAML(Reflection{}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
