package engine

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// identityRand never swaps, so every bag comes out in catalog order.
type identityRand struct{}

func (identityRand) Intn(n int) int { return n - 1 }

func TestBagEveryBagIsPermutation(t *testing.T) {
	b := NewBag(rand.New(rand.NewSource(42)))

	for bag := 0; bag < 50; bag++ {
		var seen [NumShapes]int
		for i := 0; i < NumShapes; i++ {
			seen[b.Produce()]++
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("bag %d: shape %v drawn %d times", bag, ShapeID(id), n)
			}
		}
	}
}

func TestBagPeekReadsAcrossBoundary(t *testing.T) {
	b := NewBag(rand.New(rand.NewSource(7)))
	for i := 0; i < 5; i++ {
		b.Produce()
	}

	peeked := b.Upcoming(MaxPreview)
	var produced []ShapeID
	for range MaxPreview {
		produced = append(produced, b.Produce())
	}
	if diff := cmp.Diff(peeked, produced); diff != "" {
		t.Errorf("peek and produce disagree (-peek +produce):\n%s", diff)
	}
}

func TestBagPeekClamps(t *testing.T) {
	b := NewBag(rand.New(rand.NewSource(1)))

	if b.Peek(100) != b.Peek(MaxPreview-1) {
		t.Error("Peek beyond the lookahead should clamp to the last guaranteed shape")
	}
	if b.Peek(-3) != b.Peek(0) {
		t.Error("negative Peek should clamp to 0")
	}
	if n := len(b.Upcoming(12)); n != MaxPreview {
		t.Errorf("len(Upcoming(12)) = %d, want %d", n, MaxPreview)
	}
}

func TestBagIdentityOrder(t *testing.T) {
	b := NewBag(identityRand{})
	want := []ShapeID{ShapeI, ShapeJ, ShapeL, ShapeO, ShapeS, ShapeT, ShapeZ, ShapeI}
	var got []ShapeID
	for range want {
		got = append(got, b.Produce())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
}
