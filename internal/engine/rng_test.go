package engine

import "testing"

func TestRandomSequenceKnownValues(t *testing.T) {
	r := NewRandomSequence(12345)
	want := []uint32{4207900869, 1317490944, 2079646450}
	for i, w := range want {
		if got := r.Next(); got != w {
			t.Errorf("Next() #%d = %d, expected %d", i, got, w)
		}
	}
}

func TestRandomSequenceRanges(t *testing.T) {
	r := NewRandomSequence(7)
	for i := 0; i < 10000; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v, outside [0, 1)", f)
		}
		if n := r.Intn(3); n < 0 || n > 2 {
			t.Fatalf("Intn(3) = %d, outside [0, 3)", n)
		}
	}
	if got := r.Intn(0); got != 0 {
		t.Errorf("Intn(0) = %d, expected 0", got)
	}
}

func TestRandomSequenceReproducible(t *testing.T) {
	a, b := NewRandomSequence(20260101), NewRandomSequence(20260101)
	for i := 0; i < 1000; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("sequences diverged at %d", i)
		}
	}
}
