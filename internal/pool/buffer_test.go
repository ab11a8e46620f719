package pool

import "testing"

func TestClass(t *testing.T) {
	for _, tst := range []struct {
		size, want int
	}{
		{1, 0},
		{Min, 0},
		{Min + 1, 1},
		{2 * Min, 1},
		{2*Min + 1, 2},
		{4 * Min, 2},
	} {
		if got := class(tst.size); got != tst.want {
			t.Errorf("class(%d): expected %d, got %d", tst.size, tst.want, got)
		}
	}
}

func TestGetPut(t *testing.T) {
	buf := Get(10)
	if len(buf) != 0 || cap(buf) < Min {
		t.Fatalf("expected an empty buffer of at least %d bytes, got len %d cap %d", Min, len(buf), cap(buf))
	}
	buf = append(buf, "hello"...)
	Put(buf)

	for _, size := range []int{0, Min, 3*Min + 7} {
		got := Get(size)
		if len(got) != 0 || cap(got) < size {
			t.Errorf("Get(%d): expected room for the size, got len %d cap %d", size, len(got), cap(got))
		}
		Put(got)
	}
	Put(make([]byte, 0, 10))
}

func BenchmarkGetPut(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Put(append(Get(Min), 'x'))
	}
}
