package rng

import (
	"math/rand/v2"
	"sync"
	"testing"
)

func TestNew_Deterministic(t *testing.T) {
	a := rand.New(New(42))
	b := rand.New(New(42))
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d differs for identical seeds", i)
		}
	}

	c := rand.New(New(43))
	same := 0
	a = rand.New(New(42))
	for i := 0; i < 100; i++ {
		if a.Uint64() == c.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("different seeds produced %d identical draws", same)
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) == nil {
		t.Fatal("expected default source")
	}
	if OrDefault(nil) != Default() {
		t.Error("expected the process default to be a singleton")
	}
	src := New(1)
	if OrDefault(src) != src {
		t.Error("expected explicit source to be kept")
	}
}

func TestOpenUnitRange(t *testing.T) {
	r := rand.New(New(7))
	for i := 0; i < 10000; i++ {
		u := OpenUnit(r)
		if u <= 0 || u >= 1 {
			t.Fatalf("draw %v outside (0, 1)", u)
		}
		if e := Exp(r); e < 0 {
			t.Fatalf("negative exponential draw %v", e)
		}
	}
}

func TestDefault_Concurrent(t *testing.T) {
	src := Default()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				src.Uint64()
			}
		}()
	}
	wg.Wait()
}
