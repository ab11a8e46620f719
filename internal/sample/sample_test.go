package sample

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sugawarayuuta/mirror"
)

func TestPath(t *testing.T) {
	scn := Demo()
	if got := scn.Root.Children[0].Path(); got != "/root/camera" {
		t.Errorf("expected /root/camera, got %s", got)
	}
	if got := scn.Lights[0].Path(); got != "/root/sun" {
		t.Errorf("expected /root/sun, got %s", got)
	}
}

func TestRegistration(t *testing.T) {
	rt := mirror.Types().GetByPermanentName("sample.Node")
	if rt == nil || rt.Type() != mirror.TypeFor[Node]() {
		t.Fatalf("expected sample.Node to be registered")
	}
	node := NewNode("n")
	ref := mirror.Reflect(node)
	vis := ref.GetField("Visible")
	if !vis.SetValue(false) || node.Visible() {
		t.Errorf("expected Visible to be a writable property")
	}
	if par := ref.GetField("Parent"); !par.IsReadOnly() {
		t.Errorf("expected Parent to be read-only")
	} else if hidden, _ := par.GetMeta().Get(mirror.MetaHidden); hidden != true {
		t.Errorf("expected Parent to be hidden, got %v", hidden)
	}
	add := ref.GetMethod("Add")
	if !add.IsValid() {
		t.Fatal("expected Add to be registered")
	}
	if _, err := add.Invoke(mirror.AnyOf(NewNode("kid"))); err != nil {
		t.Fatal(err)
	}
	if len(node.Children) != 1 || node.Children[0].Parent != node {
		t.Errorf("expected Add to attach the child")
	}
}

func TestLightThroughNode(t *testing.T) {
	lgt := NewLight("sun", 0.5)
	ref := mirror.Reflect(&lgt.Node)
	if got, _ := mirror.Get[float64](ref.GetField("Intensity").GetValue()); got != 0.5 {
		t.Errorf("expected the light intensity through its node, got %v", got)
	}
}

func TestNodeCopy(t *testing.T) {
	lgt := NewLight("sun", 0.5)
	cpy := &struct {
		Node  Node
		Guard [4]float64
	}{Node: lgt.Node}
	ref := mirror.Reflect(cpy).GetField("Node")
	if ref.GetField("Color").IsValid() {
		t.Errorf("expected a copied node to reflect as a plain Node")
	}
	if got := ref.GetReflectionDB(); got != mirror.GetGlobalDB[Node]() {
		t.Errorf("expected the Node database, got %s", got.Type())
	}
	if cpy.Guard != [4]float64{} {
		t.Errorf("expected Guard untouched, got %v", cpy.Guard)
	}
}

func TestDemoDump(t *testing.T) {
	var buf bytes.Buffer
	if err := mirror.Reflect(Demo()).Dump(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Title: \"demo\" (string)", "Intensity: 0.8 (float64)", "<cycle"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
