package engine

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sortedCells(cells [4]Point) []Point {
	out := cells[:]
	out = slices.Clone(out)
	slices.SortFunc(out, func(a, b Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

func TestRotateFourTimesReturnsToStart(t *testing.T) {
	for _, shape := range Shapes() {
		for _, dir := range []Direction{CW, CCW} {
			rot, cells := Rot0, shape.Cells
			for range 4 {
				rot, cells, _ = Rotate(shape, rot, cells, dir)
			}
			if rot != Rot0 {
				t.Errorf("%v dir %d: rotation = %v after four turns", shape.ID, dir, rot)
			}
			if diff := cmp.Diff(shape.Cells, cells); diff != "" {
				t.Errorf("%v dir %d: cells changed (-want +got):\n%s", shape.ID, dir, diff)
			}
		}
	}
}

func TestRotateClockwiseMovesRightCellDown(t *testing.T) {
	// T points up in state 0 and right in state R.
	to, cells, _ := Rotate(ShapeOf(ShapeT), Rot0, ShapeOf(ShapeT).Cells, CW)
	if to != RotR {
		t.Fatalf("to = %v, want R", to)
	}
	want := sortedCells([4]Point{{0, -1}, {0, 0}, {0, 1}, {1, 0}})
	if diff := cmp.Diff(want, sortedCells(cells)); diff != "" {
		t.Errorf("T in state R (-want +got):\n%s", diff)
	}
}

func TestORotationKeepsPosition(t *testing.T) {
	o := ShapeOf(ShapeO)
	for _, dir := range []Direction{CW, CCW} {
		_, cells, kicks := Rotate(o, Rot0, o.Cells, dir)
		if diff := cmp.Diff(sortedCells(o.Cells), sortedCells(cells)); diff != "" {
			t.Errorf("O dir %d moved (-want +got):\n%s", dir, diff)
		}
		if kicks != [5]Point{} {
			t.Errorf("O kicks = %v, want all zero", kicks)
		}
	}
}

func TestKickTables(t *testing.T) {
	tests := []struct {
		name     string
		shape    ShapeID
		from, to Rotation
		want     [5]Point
	}{
		{"T 0->R", ShapeT, Rot0, RotR, [5]Point{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}},
		{"T R->0", ShapeT, RotR, Rot0, [5]Point{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}}},
		{"J 0->L", ShapeJ, Rot0, RotL, [5]Point{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}}},
		{"I 0->R", ShapeI, Rot0, RotR, [5]Point{{1, 0}, {-1, 0}, {2, 0}, {-1, 1}, {2, -2}}},
		{"I R->2", ShapeI, RotR, Rot2, [5]Point{{0, 1}, {-1, 1}, {2, 1}, {-1, -1}, {2, 2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ShapeOf(tc.shape).Kicks(tc.from, tc.to)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("kicks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShapeBounds(t *testing.T) {
	tests := []struct {
		shape         ShapeID
		width, height int
	}{
		{ShapeI, 4, 1},
		{ShapeO, 2, 2},
		{ShapeT, 3, 2},
		{ShapeS, 3, 2},
		{ShapeJ, 3, 2},
	}

	for _, tc := range tests {
		b := ShapeOf(tc.shape).Bounds
		if b.Width != tc.width || b.Height != tc.height {
			t.Errorf("%v bounds = %dx%d, want %dx%d", tc.shape, b.Width, b.Height, tc.width, tc.height)
		}
	}
}

func TestShapeOfUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ShapeOf(99) should panic")
		}
	}()
	ShapeOf(99)
}
