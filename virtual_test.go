package mirror

import (
	"bytes"
	"strings"
	"testing"
)

type (
	Shape struct {
		ID    int
		outer any
	}
	Circle struct {
		Shape
		Radius float64
	}
	Labeled struct {
		Circle
		Text string
	}
	// Impostor claims to be embedded in a value it is not part of.
	Impostor struct {
		Name string
	}
	carrier struct {
		Item any
	}
	guarded struct {
		Base  Shape
		Guard [4]float64
	}
)

func (shp *Shape) ReflectionTarget() any {
	return shp.outer
}

func (imp *Impostor) ReflectionTarget() any {
	return &point{}
}

func newCircle(radius float64) *Circle {
	cir := &Circle{Radius: radius}
	cir.outer = cir
	return cir
}

func fieldNames(ref Reflection) string {
	var names []string
	for _, fld := range ref.GetFields() {
		name, _ := Get[string](fld.Key)
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

func TestVirtualDispatch(t *testing.T) {
	cir := newCircle(2)
	cir.ID = 7
	var base *Shape = &cir.Shape

	ref := Reflect(base)
	if got := ref.GetReflectionDB(); got != GetGlobalDB[Circle]() {
		t.Fatalf("expected the Circle database, got %v", got.Type())
	}
	if got := fieldNames(ref); got != "ID,Radius" {
		t.Errorf("expected ID,Radius, got %s", got)
	}
	rad := ref.GetField("Radius")
	if !rad.IsValid() {
		t.Fatal("expected Radius through the base pointer")
	}
	if !rad.SetValue(5.0) || cir.Radius != 5 {
		t.Errorf("expected Radius to be written through the base pointer")
	}
	if got, _ := Get[int](ref.GetField("ID").GetValue()); got != 7 {
		t.Errorf("expected ID 7, got %d", got)
	}
	if got := ref.GetValueObject().Type(); got != TypeFor[Circle]() {
		t.Errorf("expected the object to be a Circle, got %s", got)
	}

	plain := Reflect(&Shape{ID: 1})
	if got := fieldNames(plain); got != "ID" {
		t.Errorf("expected ID only, got %s", got)
	}
}

func TestVirtualDeep(t *testing.T) {
	lbl := &Labeled{Text: "hi"}
	lbl.outer = lbl
	ref := Reflect(&lbl.Shape)
	if got := fieldNames(ref); got != "ID,Radius,Text" {
		t.Errorf("expected ID,Radius,Text, got %s", got)
	}
	if cst := ReflectConst(&lbl.Shape); cst.GetField("Text").SetValue("no") || lbl.Text != "hi" {
		t.Errorf("expected const to survive the rebase")
	}
}

func TestVirtualThroughInterface(t *testing.T) {
	hld := carrier{Item: newCircle(3)}
	ref := Reflect(&hld).GetField("Item")
	if got := ref.GetField("Radius"); !got.IsValid() {
		t.Fatal("expected Radius through the interface")
	}
	var buf bytes.Buffer
	if err := ref.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Radius: 3 (float64)") {
		t.Errorf("unexpected dump %q", buf.String())
	}
}

func TestVirtualMismatch(t *testing.T) {
	imp := &Impostor{Name: "x"}
	ref := Reflect(imp)
	if got := ref.GetReflectionDB(); got != GetGlobalDB[Impostor]() {
		t.Errorf("expected the static database, got %s", got.Type())
	}
	if got := fieldNames(ref); got != "Name" {
		t.Errorf("expected Name, got %s", got)
	}
	if ref.GetMethod("ReflectionTarget").IsValid() {
		t.Errorf("expected ReflectionTarget to be hidden from methods")
	}
}

func TestVirtualCopy(t *testing.T) {
	cir := newCircle(2)
	grd := &guarded{Base: cir.Shape}

	ref := Reflect(grd).GetField("Base")
	if got := ref.GetReflectionDB(); got != GetGlobalDB[Shape]() {
		t.Errorf("expected a copied base to reflect as itself, got %s", got.Type())
	}
	if got := fieldNames(ref); got != "ID" {
		t.Errorf("expected ID only, got %s", got)
	}
	if ref.GetField("Radius").SetValue(42.0) {
		t.Errorf("expected no Radius on a copied base")
	}
	if grd.Guard != [4]float64{} || cir.Radius != 2 {
		t.Errorf("expected neighbours untouched, got %v and %v", grd.Guard, cir.Radius)
	}

	var cpy Shape = cir.Shape
	if got := fieldNames(Reflect(&cpy)); got != "ID" {
		t.Errorf("expected a local copy to reflect as Shape, got %s", got)
	}
	if got := fieldNames(Reflect(&cir.Shape)); got != "ID,Radius" {
		t.Errorf("expected the original to still reflect as Circle, got %s", got)
	}
}

func TestVirtualForeignTarget(t *testing.T) {
	fst, sec := newCircle(1), newCircle(2)
	fst.outer = sec
	if got := fieldNames(Reflect(&fst.Shape)); got != "ID" {
		t.Errorf("expected a target elsewhere in memory to be ignored, got %s", got)
	}
	sec.outer = sec.Shape
	if got := fieldNames(Reflect(&sec.Shape)); got != "ID" {
		t.Errorf("expected a non pointer target to be ignored, got %s", got)
	}
}
