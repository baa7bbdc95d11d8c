package engine

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Cell is one field position. Only locked pieces fill cells.
type Cell struct {
	Filled bool
	Color  core.Color // valid only when Filled
}

// Field is the playfield grid. Columns run 1..Width. Rows 1..Height are
// visible; rows (1-Overflow)..0 are the hidden buffer above them where
// pieces spawn.
type Field struct {
	width    int
	height   int
	overflow int
	rows     [][]Cell // rows[i] holds row i+1-overflow

	// top is the lowest slice index that may hold a filled cell.
	top int
	// Slice-index span of the last lock; spanLo > spanHi when none.
	spanLo, spanHi int
}

// NewField creates an empty field.
func NewField(width, height, overflow int) *Field {
	f := &Field{
		width:    width,
		height:   height,
		overflow: overflow,
		rows:     make([][]Cell, height+overflow),
	}
	for i := range f.rows {
		f.rows[i] = make([]Cell, width)
	}
	f.top = len(f.rows)
	f.resetSpan()
	return f
}

func (f *Field) resetSpan() {
	f.spanLo, f.spanHi = len(f.rows), -1
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of visible rows.
func (f *Field) Height() int { return f.height }

// Overflow returns the number of hidden buffer rows.
func (f *Field) Overflow() int { return f.overflow }

// TopRow returns the row number of the highest buffer row.
func (f *Field) TopRow() int { return 1 - f.overflow }

func (f *Field) index(row int) int {
	return row - f.TopRow()
}

func (f *Field) rowNumber(i int) int {
	return i + f.TopRow()
}

// Inside reports whether (col, row) is a cell of the grid, buffer included.
func (f *Field) Inside(col, row int) bool {
	return col >= 1 && col <= f.width && row >= f.TopRow() && row <= f.height
}

// At returns the cell at (col, row); positions outside the grid are empty.
func (f *Field) At(col, row int) Cell {
	if !f.Inside(col, row) {
		return Cell{}
	}
	return f.rows[f.index(row)][col-1]
}

// Collides reports whether cells placed relative to (col, row) leave the
// columns 1..Width, fall below row Height, or overlap a filled cell.
// Buffer rows have no vertical bound of their own; only a cell above the
// top of the buffer, which is outside the grid entirely, also collides.
func (f *Field) Collides(cells [4]Point, col, row int) bool {
	for _, c := range cells {
		x, y := col+c.X, row+c.Y
		if x < 1 || x > f.width || y > f.height {
			return true
		}
		if y < f.TopRow() {
			return true
		}
		if f.rows[f.index(y)][x-1].Filled {
			return true
		}
	}
	return false
}

// Lock writes cells at (col, row) into the field and remembers the rows
// they span for the next ClearLines. Writing outside the grid or onto a
// filled cell is a defect and panics.
func (f *Field) Lock(cells [4]Point, col, row int, color core.Color) {
	for _, c := range cells {
		x, y := col+c.X, row+c.Y
		if !f.Inside(x, y) {
			panic(fmt.Sprintf("engine: lock at (%d,%d) outside field", x, y))
		}
		i := f.index(y)
		if f.rows[i][x-1].Filled {
			panic(fmt.Sprintf("engine: lock at (%d,%d) onto filled cell", x, y))
		}
		f.rows[i][x-1] = Cell{Filled: true, Color: color}
		f.top = core.Min(f.top, i)
		f.spanLo = core.Min(f.spanLo, i)
		f.spanHi = core.Max(f.spanHi, i)
	}
}

func (f *Field) full(i int) bool {
	for _, c := range f.rows[i] {
		if !c.Filled {
			return false
		}
	}
	return true
}

// ClearLines removes the complete rows within the span of the last Lock and
// shifts everything above them down. Only the locked span is tested and
// only rows between it and the stack top are moved. It returns the row
// numbers that were cleared, top to bottom.
func (f *Field) ClearLines() []int {
	lo, hi := f.spanLo, f.spanHi
	f.resetSpan()
	if lo > hi {
		return nil
	}

	var cleared []int
	var freed [][]Cell
	for i := hi; i >= f.top; i-- {
		if i >= lo && f.full(i) {
			cleared = append(cleared, f.rowNumber(i))
			freed = append(freed, f.rows[i])
			continue
		}
		if len(freed) > 0 {
			f.rows[i+len(freed)] = f.rows[i]
		}
	}
	for k, r := range freed {
		clear(r)
		f.rows[f.top+k] = r
	}
	f.top += len(freed)

	slices.Reverse(cleared)
	return cleared
}

// Reset empties the field.
func (f *Field) Reset() {
	for i := f.top; i < len(f.rows); i++ {
		clear(f.rows[i])
	}
	f.top = len(f.rows)
	f.resetSpan()
}

// Cells returns a deep copy of the grid, index 0 being row TopRow().
func (f *Field) Cells() [][]Cell {
	out := make([][]Cell, len(f.rows))
	for i, r := range f.rows {
		out[i] = slices.Clone(r)
	}
	return out
}
