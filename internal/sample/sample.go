// Package sample is a small scene graph registered with mirror. The tools
// use it to have something to dump and snapshot.
package sample

import (
	"strings"

	"github.com/sugawarayuuta/mirror"
)

type (
	Vec3 struct {
		X, Y, Z float64
	}
	Transform struct {
		Position Vec3
		Scale    float64
	}
	// Node is an element of the scene tree. Children point back to their
	// parent.
	Node struct {
		Name      string
		Transform Transform
		Tags      map[string]string
		Children  []*Node
		Parent    *Node
		hidden    bool
		owner     any
	}
	// Light is a Node that also emits light. A *Node taken from a Light
	// reflects as the whole Light.
	Light struct {
		Node
		Color     Vec3
		Intensity float64
	}
	Scene struct {
		Title  string
		Root   *Node
		Lights []*Light
		Layers map[string]struct{}
	}
)

func init() {
	mirror.Begin[Vec3]("sample.Vec3").End()
	mirror.Begin[Transform]("sample.Transform").End()
	mirror.Begin[Node]("sample.Node").
		Meta(mirror.MetaDescription, "scene tree element").
		Field("Name").
		Property("Visible", (*Node).Visible, (*Node).SetVisible).
		Meta(mirror.MetaDisplayName, "Visible").
		Field("Transform").
		Field("Tags").
		Field("Children").
		Field("Parent").ReadOnly().Meta(mirror.MetaHidden, true).
		Method("Path", (*Node).Path).
		Method("Add", (*Node).Add).
		Ctor(NewNode).
		End()
	mirror.Begin[Light]("sample.Light").
		Ctor(NewLight).
		End()
	mirror.Begin[Scene]("sample.Scene").
		Ctor(NewScene).
		End()
}

func NewNode(name string) *Node {
	return &Node{Name: name, Transform: Transform{Scale: 1}}
}

// NewLight returns a light of the given intensity.
func NewLight(name string, intensity float64) *Light {
	lgt := &Light{Color: Vec3{1, 1, 1}, Intensity: intensity}
	lgt.Name = name
	lgt.Transform.Scale = 1
	lgt.owner = lgt
	return lgt
}

func NewScene(title string) *Scene {
	return &Scene{Title: title, Root: NewNode("root"), Layers: map[string]struct{}{}}
}

// ReflectionTarget returns the value embedding n, if any.
func (n *Node) ReflectionTarget() any {
	return n.owner
}

func (n *Node) Visible() bool {
	return !n.hidden
}

func (n *Node) SetVisible(visible bool) {
	n.hidden = !visible
}

// Add appends child and sets its parent.
func (n *Node) Add(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Path returns the names from the root to n joined by slashes.
func (n *Node) Path() string {
	var names []string
	for cur := n; cur != nil; cur = cur.Parent {
		names = append(names, cur.Name)
	}
	var bld strings.Builder
	for idx := len(names) - 1; idx >= 0; idx-- {
		bld.WriteByte('/')
		bld.WriteString(names[idx])
	}
	return bld.String()
}

// Demo builds a scene with a camera, a mesh and a light hanging from the
// root.
func Demo() *Scene {
	scn := NewScene("demo")
	cam := scn.Root.Add(NewNode("camera"))
	cam.Transform.Position = Vec3{0, 2, -10}
	cam.Tags = map[string]string{"role": "main"}
	mesh := scn.Root.Add(NewNode("mesh"))
	mesh.Transform.Scale = 2
	lgt := NewLight("sun", 0.8)
	scn.Root.Add(&lgt.Node)
	scn.Lights = append(scn.Lights, lgt)
	scn.Layers["default"] = struct{}{}
	scn.Layers["ui"] = struct{}{}
	return scn
}
