package aggregator

import "testing"

func TestRingWrapsAtCapacity(t *testing.T) {
	r := newRing[int](3)
	for i := 1; i <= 5; i++ {
		r.push(i)
	}
	got := r.snapshot()
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRingLastPartial(t *testing.T) {
	r := newRing[int](10)
	r.push(1)
	r.push(2)
	got := r.last(5)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("last(5) = %v, want [1 2]", got)
	}
}
