package engine

import (
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// ActivePiece is the live piece as seen by a renderer.
type ActivePiece struct {
	Shape    ShapeID
	Rotation Rotation
	Col, Row int
	Cells    [4]Point // absolute field positions
	Color    core.Color
}

// Snapshot is a committed, self-contained copy of a session's state.
// It shares no memory with the session.
type Snapshot struct {
	Width    int
	Height   int
	Overflow int
	Cells    [][]Cell // Cells[0] is row 1-Overflow

	Active   *ActivePiece // nil while spawning or after game over
	GhostRow int          // anchor row the active piece would land on

	Held       ShapeID
	HasHeld    bool
	HoldUsable bool
	Preview    []ShapeID

	Score  int
	Lines  int
	Level  int
	Pieces int

	Phase    Phase
	GameOver bool
	Now      float64
}

// At returns the locked cell at (col, row); positions outside the grid are empty.
func (s Snapshot) At(col, row int) Cell {
	i := row - (1 - s.Overflow)
	if col < 1 || col > s.Width || i < 0 || i >= len(s.Cells) {
		return Cell{}
	}
	return s.Cells[i][col-1]
}

// Ghost returns the cells of the active piece at its landing row.
func (s Snapshot) Ghost() ([4]Point, bool) {
	if s.Active == nil {
		return [4]Point{}, false
	}
	var out [4]Point
	dy := s.GhostRow - s.Active.Row
	for i, c := range s.Active.Cells {
		out[i] = Point{X: c.X, Y: c.Y + dy}
	}
	return out, true
}

// String draws the visible rows: '#' locked, '@' active, '.' empty.
func (s Snapshot) String() string {
	active := make(map[Point]bool, 4)
	if s.Active != nil {
		for _, c := range s.Active.Cells {
			active[c] = true
		}
	}
	var sb strings.Builder
	for row := 1; row <= s.Height; row++ {
		if row > 1 {
			sb.WriteByte('\n')
		}
		for col := 1; col <= s.Width; col++ {
			switch {
			case active[Point{X: col, Y: row}]:
				sb.WriteByte('@')
			case s.At(col, row).Filled:
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
