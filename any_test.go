package mirror

import (
	"errors"
	"fmt"
	"testing"
)

type (
	pair struct {
		Key string
		Val int
	}
	stringer interface {
		String() string
	}
	named string
)

func (n named) String() string {
	return "named:" + string(n)
}

func TestAnyGet(t *testing.T) {
	val := AnyOf(42)
	got, err := Get[int](val)
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d (%v)", got, err)
	}
	if _, err := Get[string](val); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected a type mismatch, got %v", err)
	}
	var mis *TypeMismatchError
	if _, err := Get[int64](val); !errors.As(err, &mis) || mis.Want != TypeFor[int64]() || mis.Have != TypeFor[int]() {
		t.Errorf("expected a TypeMismatchError int64/int, got %v", err)
	}
	if !CanGet[int](val) || CanGet[uint](val) {
		t.Errorf("unexpected CanGet")
	}
	if _, err := Get[int](Any{}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected a type mismatch on empty, got %v", err)
	}

	big := AnyOf(pair{"a", 1})
	if got, err := Get[pair](big); err != nil || got != (pair{"a", 1}) {
		t.Errorf("expected {a 1}, got %v (%v)", got, err)
	}
}

func TestAnyPointers(t *testing.T) {
	num := 7
	ptr := AnyOf(&num)
	if got, err := Get[int](ptr); err != nil || got != 7 {
		t.Errorf("expected 7 through the pointer, got %d (%v)", got, err)
	}
	if got, err := Get[*int](ptr); err != nil || got != &num {
		t.Errorf("expected the stored pointer, got %v (%v)", got, err)
	}
	if _, err := Get[*int](AnyOf(num)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected a value not to be gettable as a pointer, got %v", err)
	}
	var nilptr *int
	if _, err := Get[int](AnyOf(nilptr)); err == nil {
		t.Errorf("expected an error through a nil pointer")
	}
}

func TestAnyInterface(t *testing.T) {
	val := AnyOf(named("x"))
	got, err := Get[stringer](val)
	if err != nil || got.String() != "named:x" {
		t.Errorf("expected named:x, got %v (%v)", got, err)
	}
	var str fmt.Stringer = named("y")
	if typ := AnyOf(str).Type(); typ != TypeFor[named]() {
		t.Errorf("expected the dynamic type, got %s", typ)
	}
	if !NewAny(nil).IsEmpty() {
		t.Errorf("expected NewAny(nil) to be empty")
	}
}

func TestAnyConvert(t *testing.T) {
	cnv, err := AnyOf(3).Convert(TypeFor[float64]())
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := Get[float64](cnv); got != 3 {
		t.Errorf("expected 3.0, got %v", got)
	}
	if !AnyOf(int8(1)).CanConvert(TypeFor[uint64]()) {
		t.Errorf("expected int8 to convert to uint64")
	}
	if AnyOf("42").CanConvert(TypeFor[int]()) {
		t.Errorf("expected string not to convert to int")
	}
	if AnyOf(65).CanConvert(TypeFor[string]()) {
		t.Errorf("expected int not to convert to string")
	}
	cnv, err = AnyOf(named("z")).Convert(TypeFor[string]())
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := Get[string](cnv); got != "z" {
		t.Errorf("expected z, got %q", got)
	}
}

func TestAnyEqual(t *testing.T) {
	num := 5
	cases := []struct {
		fst, sec Any
		want     bool
	}{
		{AnyOf(5), AnyOf(5), true},
		{AnyOf(5), AnyOf(6), false},
		{AnyOf(5), AnyOf(int64(5)), false},
		{AnyOf(&num), AnyOf(5), true},
		{AnyOf([]int{1, 2}), AnyOf([]int{1, 2}), true},
		{AnyOf(pair{"k", 1}), AnyOf(pair{"k", 1}), true},
		{Any{}, Any{}, true},
		{Any{}, AnyOf(0), false},
	}
	for idx, cas := range cases {
		if got := cas.fst.Equal(cas.sec); got != cas.want {
			t.Errorf("case %d: expected %v, got %v", idx, cas.want, got)
		}
	}
}

func TestAnyCopyMove(t *testing.T) {
	src := AnyOf(pair{"a", 1})
	cpy := src.Copy()
	if !cpy.Equal(src) {
		t.Errorf("expected copy to equal source")
	}
	dst := src.Move()
	if !src.IsEmpty() {
		t.Errorf("expected source to be empty after Move")
	}
	if got, _ := Get[pair](dst); got.Key != "a" {
		t.Errorf("expected moved value, got %v", got)
	}
	dst.Set("b")
	if got, _ := Get[string](dst); got != "b" {
		t.Errorf("expected b, got %q", got)
	}
	dst.Clear()
	if !dst.IsEmpty() || dst.String() != "<empty>" {
		t.Errorf("expected empty after Clear")
	}
}

func BenchmarkGetInline(b *testing.B) {
	val := AnyOf(42)
	for idx := 0; idx < b.N; idx++ {
		if _, err := Get[int](val); err != nil {
			b.Fatal(err)
		}
	}
}
