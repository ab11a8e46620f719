package mirror

import (
	"reflect"
	"testing"
)

func ints(ref Reflection) []int {
	var out []int
	for _, fld := range ref.GetFields() {
		val, _ := Get[int](fld.Ref.GetValue())
		out = append(out, val)
	}
	return out
}

func TestSequenceScenario(t *testing.T) {
	vals := []int{0, 1, 2, 3, 4}
	ref := Reflect(&vals)

	caps := ref.GetFieldsCaps()
	if !caps.Dynamic || !caps.CanAdd || !caps.CanInsert || !caps.CanRemove || caps.KeyType != TypeFor[int]() || caps.ValueType != TypeFor[int]() {
		t.Errorf("unexpected caps %+v", caps)
	}
	if !ref.AddField(nil, 5) {
		t.Fatal("expected AddField(5) to succeed")
	}
	if got, _ := Get[int](ref.GetField(5).GetValue()); got != 5 {
		t.Errorf("expected 5 at index 5, got %d", got)
	}
	if !ref.AddField(nil, 6) {
		t.Fatal("expected AddField(6) to succeed")
	}
	if !ref.InsertField(6, nil, 7) {
		t.Fatal("expected InsertField(6, 7) to succeed")
	}
	if want := []int{0, 1, 2, 3, 4, 5, 7, 6}; !reflect.DeepEqual(vals, want) {
		t.Fatalf("expected %v, got %v", want, vals)
	}
	for _, idx := range []int{7, 5, 5} {
		if !ref.RemoveField(idx) {
			t.Errorf("expected RemoveField(%d) to succeed", idx)
		}
	}
	if want := []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(vals, want) {
		t.Errorf("expected %v, got %v", want, vals)
	}
	if want := []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(ints(ref), want) {
		t.Errorf("expected fields %v, got %v", want, ints(ref))
	}
}

func TestSequenceEdges(t *testing.T) {
	vals := []string{"a"}
	ref := Reflect(&vals)
	if ref.RemoveField(1) || ref.RemoveField(-1) || ref.InsertField(2, nil, "x") {
		t.Errorf("expected out of range edits to fail")
	}
	if ref.AddField(nil, 3) {
		t.Errorf("expected a wrongly typed element to be refused")
	}
	if !ref.InsertField(1, nil, "b") || !ref.InsertField(0, nil, "z") {
		t.Fatal("expected inserts at both ends to succeed")
	}
	if want := []string{"z", "a", "b"}; !reflect.DeepEqual(vals, want) {
		t.Errorf("expected %v, got %v", want, vals)
	}
	if !ref.AddField(nil, nil) || vals[3] != "" {
		t.Errorf("expected an empty value to append the zero element")
	}
	if !ref.GetField(1.0).SetValue("A") || vals[1] != "A" {
		t.Errorf("expected an integral float key to address element 1")
	}
	if ref.GetField(1.5).IsValid() || ref.GetField("1").IsValid() {
		t.Errorf("expected non integer keys to be invalid")
	}

	var empty []int
	eref := Reflect(&empty)
	if eref.HasFields() {
		t.Errorf("expected an empty slice to have no fields")
	}
	if !eref.AddField(nil, 1) || len(empty) != 1 {
		t.Errorf("expected append to a nil slice")
	}

	cst := ReflectConst(&vals)
	if cst.AddField(nil, "q") || cst.RemoveField(0) || cst.GetField(0).SetValue("q") {
		t.Errorf("expected a const slice to refuse edits")
	}
}

func TestArray(t *testing.T) {
	arr := [3]int{1, 2, 3}
	ref := Reflect(&arr)
	caps := ref.GetFieldsCaps()
	if caps.Dynamic || caps.CanAdd || caps.CanRemove {
		t.Errorf("expected a fixed size array, got %+v", caps)
	}
	if ref.AddField(nil, 4) || ref.RemoveField(0) || ref.InsertField(0, nil, 0) {
		t.Errorf("expected array edits to fail")
	}
	if !ref.GetField(2).SetValue(30) || arr[2] != 30 {
		t.Errorf("expected elements to be writable")
	}
}

func TestMapScenario(t *testing.T) {
	vals := map[int]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 4}
	ref := Reflect(&vals)
	if !ref.AddField(5, 5) || !ref.AddField(6, 6) {
		t.Fatal("expected AddField to succeed")
	}
	if !ref.InsertField(6, 7, 7) {
		t.Fatal("expected InsertField to succeed")
	}
	for _, key := range []int{5, 6, 7} {
		fld := ref.GetField(key)
		if got, err := Get[int](fld.GetValue()); err != nil || got != key {
			t.Errorf("expected %d at key %d, got %d (%v)", key, key, got, err)
		}
	}
	if !ref.RemoveField(7) {
		t.Errorf("expected RemoveField(7) to succeed")
	}
	if !ref.RemoveField(5) {
		t.Errorf("expected RemoveField(5) to succeed")
	}
	if ref.RemoveField(5) {
		t.Errorf("expected a second RemoveField(5) to fail")
	}
	if want := []int{0, 1, 2, 3, 4, 6}; !reflect.DeepEqual(ints(ref), want) {
		t.Errorf("expected sorted values %v, got %v", want, ints(ref))
	}
}

func TestMapEdges(t *testing.T) {
	var vals map[string]float64
	ref := Reflect(&vals)
	if ref.RemoveField("a") {
		t.Errorf("expected removal from a nil map to fail")
	}
	if !ref.AddField("b", 2.0) || !ref.AddField("a", nil) {
		t.Fatal("expected AddField to allocate the map")
	}
	if ref.AddField("a", 1.0) {
		t.Errorf("expected a duplicate key to be refused")
	}
	if ref.AddField(3, 1.0) {
		t.Errorf("expected a wrongly typed key to be refused")
	}
	fld := ref.GetField("b")
	if !fld.SetValue(5.0) || vals["b"] != 5 {
		t.Errorf("expected a map value to be settable through its key")
	}
	if fld.GetValueObject().Writable() {
		t.Errorf("expected the map value object to be a copy")
	}
	var keys []string
	for _, fld := range ref.GetFields() {
		key, _ := Get[string](fld.Key)
		keys = append(keys, key)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("expected sorted keys, got %v", keys)
	}
	cst := ReflectConst(&vals)
	if cst.AddField("c", 1.0) || cst.RemoveField("a") || cst.GetField("a").SetValue(1.0) {
		t.Errorf("expected a const map to refuse edits")
	}
}

func TestSet(t *testing.T) {
	set := map[string]struct{}{}
	ref := Reflect(&set)
	caps := ref.GetFieldsCaps()
	if caps.KeyType != TypeFor[string]() || caps.ValueType != TypeFor[string]() {
		t.Errorf("unexpected caps %+v", caps)
	}
	if !ref.AddField("b", nil) || !ref.AddField(nil, "a") || !ref.AddField("b", "b") {
		t.Fatal("expected adds to succeed")
	}
	if ref.AddField("c", "d") {
		t.Errorf("expected a value different from its key to be refused")
	}
	if len(set) != 2 {
		t.Errorf("expected 2 elements, got %d", len(set))
	}
	elm := ref.GetField("a")
	if !elm.IsReadOnly() || elm.SetValue("z") {
		t.Errorf("expected set elements to be read-only")
	}
	if got, _ := Get[string](elm.GetValue()); got != "a" {
		t.Errorf("expected a, got %q", got)
	}
	if !ref.RemoveField("a") || ref.RemoveField("a") {
		t.Errorf("expected one successful removal")
	}
	if ref.GetField("a").IsValid() {
		t.Errorf("expected a to be gone")
	}
}

func TestNestedCollections(t *testing.T) {
	type bag struct {
		Items []point
		Index map[string]*point
	}
	bg := &bag{}
	ref := Reflect(bg)
	items := ref.GetField("Items")
	if !items.AddField(nil, point{1, 2}) || len(bg.Items) != 1 {
		t.Fatal("expected append through a struct field")
	}
	if !items.GetField(0).GetField("Y").SetValue(9) || bg.Items[0].Y != 9 {
		t.Errorf("expected nested element fields to be writable")
	}
	pnt := &point{}
	if !ref.GetField("Index").AddField("p", pnt) {
		t.Fatal("expected map add through a struct field")
	}
	if !ref.GetField("Index").GetField("p").GetField("X").SetValue(4) || pnt.X != 4 {
		t.Errorf("expected pointer map values to alias their target")
	}
}

func TestKeyConversion(t *testing.T) {
	type label string
	pnt := &point{X: 1}
	ref := Reflect(pnt)
	if !ref.GetField(label("Y")).SetValue(3) || pnt.Y != 3 {
		t.Errorf("expected a named string key to address a member")
	}
	vals := []int{1, 2}
	seq := Reflect(&vals)
	if !seq.GetField(uint8(1)).IsValid() {
		t.Errorf("expected an unsigned position to address an element")
	}
	if seq.GetField(^uint64(0)).IsValid() || seq.GetField(1e300).IsValid() {
		t.Errorf("expected positions beyond int to be invalid")
	}
}
