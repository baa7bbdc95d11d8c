package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

const (
	cellW  = 2  // screen columns per field column
	panelW = 14 // side panel width including its border
	gap    = 1
)

const (
	blockRune = '█'
	ghostRune = '░'
	emptyRune = '·'
)

// layout is where each part of the game goes on screen.
type layout struct {
	board core.Rect
	hold  core.Rect
	stats core.Rect
	next  core.Rect
}

func computeLayout(snap engine.Snapshot, screenW, screenH int) (layout, bool) {
	boardW := snap.Width*cellW + 2
	boardH := snap.Height + 2
	totalW := panelW + gap + boardW + gap + panelW
	if screenW < totalW || screenH < boardH {
		return layout{}, false
	}

	x := (screenW - totalW) / 2
	y := (screenH - boardH) / 2
	boardX := x + panelW + gap
	previewH := 2 + 3*core.Max(len(snap.Preview), 1)

	return layout{
		board: core.NewRect(boardX, y, boardW, boardH),
		hold:  core.NewRect(x, y, panelW, 6),
		stats: core.NewRect(x, y+7, panelW, 10),
		next:  core.NewRect(boardX+boardW+gap, y, panelW, core.Min(previewH, boardH)),
	}, true
}

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	snap := g.session.Snapshot()
	l, ok := computeLayout(snap, dst.Width(), dst.Height())
	if !ok {
		dst.DrawTextCentered(dst.Height()/2-1, "Terminal too small", core.ColorBrightRed)
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("need %dx%d", panelW*2+gap*2+snap.Width*cellW+2, snap.Height+2), core.ColorGray)
		return
	}

	g.drawBoard(dst, l.board, snap)
	g.drawHold(dst, l.hold, snap)
	g.drawStats(dst, l.stats, snap)
	g.drawNext(dst, l.next, snap)
	g.drawOverlay(dst, l.board, snap)
}

func (g *Game) drawBoard(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	dst.DrawBox(r, core.ColorGray)

	// screen position of field cell (col, row)
	at := func(col, row int) (int, int) {
		return r.X + 1 + (col-1)*cellW, r.Y + row
	}
	put := func(col, row int, ch rune, c core.Color) {
		if row < 1 || row > snap.Height {
			return
		}
		x, y := at(col, row)
		for i := 0; i < cellW; i++ {
			dst.SetCell(x+i, y, ch, c)
		}
	}

	for row := 1; row <= snap.Height; row++ {
		for col := 1; col <= snap.Width; col++ {
			cell := snap.At(col, row)
			if cell.Filled {
				put(col, row, blockRune, cell.Color)
				continue
			}
			x, y := at(col, row)
			dst.SetCell(x, y, ' ', core.ColorDefault)
			dst.SetCell(x+1, y, emptyRune, core.ColorGray)
		}
	}

	if ghost, ok := snap.Ghost(); ok {
		for _, p := range ghost {
			put(p.X, p.Y, ghostRune, core.ColorGray)
		}
	}
	if snap.Active != nil {
		for _, p := range snap.Active.Cells {
			put(p.X, p.Y, blockRune, snap.Active.Color)
		}
	}
}

// drawShape draws a shape's state-0 cells with their top-left at (x, y).
func drawShape(dst *core.Screen, x, y int, id engine.ShapeID, c core.Color) {
	shape := engine.ShapeOf(id)
	for _, p := range shape.Cells {
		sx := x + (p.X-shape.Bounds.MinX)*cellW
		sy := y + p.Y - shape.Bounds.MinY
		for i := 0; i < cellW; i++ {
			dst.SetCell(sx+i, sy, blockRune, c)
		}
	}
}

func shapeOffset(r core.Rect, id engine.ShapeID) int {
	w := engine.ShapeOf(id).Bounds.Width * cellW
	return r.X + (r.W-w)/2
}

func (g *Game) drawHold(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	dst.DrawBox(r, core.ColorGray)
	dst.DrawTextColor(r.X+2, r.Y, " HOLD ", core.ColorWhite)
	if !snap.HasHeld {
		return
	}
	c := engine.ShapeOf(snap.Held).Color
	if !snap.HoldUsable {
		c = core.ColorGray
	}
	drawShape(dst, shapeOffset(r, snap.Held), r.Y+2, snap.Held, c)
}

func (g *Game) drawNext(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	dst.DrawBox(r, core.ColorGray)
	dst.DrawTextColor(r.X+2, r.Y, " NEXT ", core.ColorWhite)
	for i, id := range snap.Preview {
		y := r.Y + 1 + i*3
		if y+1 >= r.Bottom()-1 {
			break
		}
		drawShape(dst, shapeOffset(r, id), y, id, engine.ShapeOf(id).Color)
	}
}

func (g *Game) drawStats(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	dst.DrawBox(r, core.ColorGray)
	rows := []struct {
		label string
		value string
	}{
		{"SCORE", fmt.Sprintf("%d", snap.Score)},
		{"LINES", fmt.Sprintf("%d", snap.Lines)},
		{"LEVEL", fmt.Sprintf("%d", snap.Level)},
		{"PIECES", fmt.Sprintf("%d", snap.Pieces)},
	}
	for i, row := range rows {
		y := r.Y + 1 + i*2
		dst.DrawTextColor(r.X+2, y, row.label, core.ColorGray)
		dst.DrawTextColor(r.X+2, y+1, row.value, core.ColorBrightWhite)
	}
}

func (g *Game) drawOverlay(dst *core.Screen, board core.Rect, snap engine.Snapshot) {
	center := func(y int, text string, c core.Color) {
		x := board.X + (board.W-len([]rune(text)))/2
		dst.DrawTextColor(x, y, text, c)
	}
	mid := board.Y + board.H/2

	switch {
	case g.finished() && g.Replaying():
		center(mid-1, " REPLAY END ", core.ColorBrightYellow)
		center(mid+1, " R replay  Q quit ", core.ColorWhite)
	case snap.GameOver:
		center(mid-1, " GAME OVER ", core.ColorBrightRed)
		center(mid, fmt.Sprintf(" score %d ", snap.Score), core.ColorWhite)
		center(mid+1, " R restart  Q quit ", core.ColorWhite)
	case g.paused:
		center(mid, " PAUSED ", core.ColorBrightYellow)
	case g.banner != "" && g.engineT < g.bannerUntil:
		center(board.Y+3, " "+g.banner+" ", core.ColorBrightCyan)
	}

	if g.Replaying() {
		dst.DrawTextColor(board.X+2, board.Bottom()-1, " REPLAY ", core.ColorBrightMagenta)
	}
}
