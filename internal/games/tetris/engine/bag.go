package engine

import (
	"math/rand"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// MaxPreview is the deepest lookahead the bag can always serve.
const MaxPreview = NumShapes

// Rand is the randomness the bag needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns the seeded source sessions use, so a seed alone
// reproduces a game.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Bag is a 7-bag randomizer: every run of seven draws aligned to a bag
// boundary is one permutation of all shapes. A second, already shuffled
// bag is kept as lookahead so previews can read across the boundary.
type Bag struct {
	rng       Rand
	current   [NumShapes]ShapeID
	next      int
	lookahead [NumShapes]ShapeID
}

// NewBag creates a bag with two freshly shuffled permutations.
func NewBag(rng Rand) *Bag {
	b := &Bag{rng: rng}
	b.current = b.shuffled()
	b.lookahead = b.shuffled()
	return b
}

// Fisher-Yates over the canonical order.
func (b *Bag) shuffled() [NumShapes]ShapeID {
	var s [NumShapes]ShapeID
	for i := range s {
		s[i] = ShapeID(i)
	}
	for i := len(s) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
	return s
}

// Produce removes and returns the next shape.
func (b *Bag) Produce() ShapeID {
	id := b.current[b.next]
	b.next++
	if b.next == NumShapes {
		b.current = b.lookahead
		b.lookahead = b.shuffled()
		b.next = 0
	}
	return id
}

// Peek returns the n-th upcoming shape without consuming it; Peek(0) is what
// Produce would return. n is clamped to [0, MaxPreview-1].
func (b *Bag) Peek(n int) ShapeID {
	i := b.next + core.Clamp(n, 0, MaxPreview-1)
	if i < NumShapes {
		return b.current[i]
	}
	return b.lookahead[i-NumShapes]
}

// Upcoming returns the next n shapes in draw order, at most MaxPreview.
func (b *Bag) Upcoming(n int) []ShapeID {
	n = core.Clamp(n, 0, MaxPreview)
	out := make([]ShapeID, n)
	for i := range out {
		out[i] = b.Peek(i)
	}
	return out
}
