// Package engine is the deterministic core of the block-stacking game.
// It consumes abstract input events and a clock and exposes snapshots and
// hooks for rendering. It performs no drawing and no I/O.
package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// ShapeID identifies one of the seven tetrominoes.
type ShapeID int

const (
	ShapeI ShapeID = iota
	ShapeJ
	ShapeL
	ShapeO
	ShapeS
	ShapeT
	ShapeZ
)

// NumShapes is the number of distinct tetrominoes.
const NumShapes = 7

// String returns the single-letter name of the shape.
func (id ShapeID) String() string {
	if id < 0 || id >= NumShapes {
		return "?"
	}
	return string("IJLOSTZ"[id])
}

// Point is a (column, row) pair. Rows grow downward.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rotation is one of the four rotation states.
type Rotation int

const (
	Rot0 Rotation = iota
	RotR
	Rot2
	RotL
)

// String returns the SRS name of the rotation state.
func (r Rotation) String() string {
	switch r {
	case Rot0:
		return "0"
	case RotR:
		return "R"
	case Rot2:
		return "2"
	case RotL:
		return "L"
	default:
		return "?"
	}
}

// Direction is a rotation direction.
type Direction int

const (
	CW  Direction = 1
	CCW Direction = -1
)

// Turn returns the state reached by rotating once in dir.
func (r Rotation) Turn(dir Direction) Rotation {
	return Rotation((int(r) + int(dir) + 4) % 4)
}

// Bounds is the bounding box of a shape's cells at rotation state 0.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
	Width      int
	Height     int
}

// offsetTable holds five SRS offsets per rotation state. Kick translations
// are derived from pairs of rows.
type offsetTable [4][5]Point

// Shape is an immutable tetromino definition. Shapes are passed by value;
// nothing in the engine mutates one after the catalog is built.
type Shape struct {
	ID      ShapeID
	Color   core.Color
	Cells   [4]Point // relative to the rotation pivot, state 0
	Bounds  Bounds
	offsets *offsetTable
	// keepBox re-aligns rotated cells onto the original bounding box.
	keepBox bool
}

// Kicks returns the five kick translations for the from->to transition,
// in the order they must be tried.
func (s Shape) Kicks(from, to Rotation) [5]Point {
	var kicks [5]Point
	for i := range kicks {
		kicks[i] = s.offsets[from][i].Sub(s.offsets[to][i])
	}
	return kicks
}

// Guideline SRS offsets converted to rows-down coordinates.
var (
	jlstzOffsets = offsetTable{
		Rot0: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		RotR: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		Rot2: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		RotL: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	}
	iOffsets = offsetTable{
		Rot0: {{0, 0}, {-1, 0}, {2, 0}, {-1, 0}, {2, 0}},
		RotR: {{-1, 0}, {0, 0}, {0, 0}, {0, -1}, {0, 2}},
		Rot2: {{-1, -1}, {1, -1}, {-2, -1}, {1, 0}, {-2, 0}},
		RotL: {{0, -1}, {0, -1}, {0, -1}, {0, 1}, {0, -2}},
	}
	// O never moves when rotating.
	oOffsets = offsetTable{}
)

var catalog = [NumShapes]Shape{
	ShapeI: newShape(ShapeI, core.ColorCyan, &iOffsets, Point{-1, 0}, Point{0, 0}, Point{1, 0}, Point{2, 0}),
	ShapeJ: newShape(ShapeJ, core.ColorBlue, &jlstzOffsets, Point{-1, -1}, Point{-1, 0}, Point{0, 0}, Point{1, 0}),
	ShapeL: newShape(ShapeL, core.ColorOrange, &jlstzOffsets, Point{1, -1}, Point{-1, 0}, Point{0, 0}, Point{1, 0}),
	ShapeO: newShape(ShapeO, core.ColorYellow, &oOffsets, Point{0, -1}, Point{1, -1}, Point{0, 0}, Point{1, 0}),
	ShapeS: newShape(ShapeS, core.ColorGreen, &jlstzOffsets, Point{0, -1}, Point{1, -1}, Point{-1, 0}, Point{0, 0}),
	ShapeT: newShape(ShapeT, core.ColorMagenta, &jlstzOffsets, Point{-1, 0}, Point{0, 0}, Point{1, 0}, Point{0, -1}),
	ShapeZ: newShape(ShapeZ, core.ColorRed, &jlstzOffsets, Point{-1, -1}, Point{0, -1}, Point{0, 0}, Point{1, 0}),
}

func newShape(id ShapeID, color core.Color, offsets *offsetTable, cells ...Point) Shape {
	s := Shape{
		ID:      id,
		Color:   color,
		offsets: offsets,
		keepBox: id == ShapeO,
	}
	copy(s.Cells[:], cells)
	s.Bounds = boundsOf(s.Cells)
	return s
}

func boundsOf(cells [4]Point) Bounds {
	b := Bounds{MinX: cells[0].X, MaxX: cells[0].X, MinY: cells[0].Y, MaxY: cells[0].Y}
	for _, c := range cells[1:] {
		b.MinX = core.Min(b.MinX, c.X)
		b.MaxX = core.Max(b.MaxX, c.X)
		b.MinY = core.Min(b.MinY, c.Y)
		b.MaxY = core.Max(b.MaxY, c.Y)
	}
	b.Width = b.MaxX - b.MinX + 1
	b.Height = b.MaxY - b.MinY + 1
	return b
}

// ShapeOf returns the catalog entry for id. It panics on an unknown id.
func ShapeOf(id ShapeID) Shape {
	if id < 0 || id >= NumShapes {
		panic(fmt.Sprintf("engine: unknown shape %d", id))
	}
	return catalog[id]
}

// Shapes returns every shape in catalog order.
func Shapes() []Shape {
	out := make([]Shape, NumShapes)
	copy(out, catalog[:])
	return out
}

// Rotate computes a rotation of cells, currently in state from, by one step
// in dir. It returns the new state, the rotated relative cells and the
// kick translations to try in order. It does not test collisions.
func Rotate(s Shape, from Rotation, cells [4]Point, dir Direction) (Rotation, [4]Point, [5]Point) {
	if dir != CW && dir != CCW {
		panic(fmt.Sprintf("engine: invalid rotation direction %d", dir))
	}
	d := int(dir)
	to := from.Turn(dir)

	var out [4]Point
	for i, c := range cells {
		out[i] = Point{X: -c.Y * d, Y: c.X * d}
	}
	if s.keepBox {
		b := boundsOf(out)
		shift := Point{X: s.Bounds.MinX - b.MinX, Y: s.Bounds.MinY - b.MinY}
		for i := range out {
			out[i] = out[i].Add(shift)
		}
	}
	return to, out, s.Kicks(from, to)
}
