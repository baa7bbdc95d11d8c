package engine

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestSession(t *testing.T, hooks Hooks, mutate func(*Settings)) *Session {
	t.Helper()
	settings := DefaultSettings()
	if mutate != nil {
		mutate(&settings)
	}
	s, err := NewSession(settings, identityRand{}, hooks)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func noGravity(s *Settings) { s.GravityRate = 0 }

func events(evs ...Event) Frame { return Frame{Events: evs} }

func TestFirstStepSpawnsCentered(t *testing.T) {
	s := newTestSession(t, Hooks{}, nil)
	if s.Phase() != PhaseSpawning {
		t.Fatalf("new session phase = %v, want spawning", s.Phase())
	}

	s.Step(0, Frame{})

	p, ok := s.Piece()
	if !ok {
		t.Fatal("no active piece after first step")
	}
	want := Piece{Shape: ShapeI, Rotation: Rot0, Col: 5, Row: 0, Cells: ShapeOf(ShapeI).Cells}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("spawned piece (-want +got):\n%s", diff)
	}
	if s.GhostRow() != 20 {
		t.Errorf("GhostRow() = %d, want 20", s.GhostRow())
	}
}

func TestSpawnColumnRoundsUp(t *testing.T) {
	s := newTestSession(t, Hooks{}, func(st *Settings) { st.FieldWidth = 9 })
	s.Step(0, Frame{})
	if p, _ := s.Piece(); p.Col != 5 {
		t.Errorf("spawn column = %d, want 5 for width 9", p.Col)
	}
}

func TestMoveBlockedByWall(t *testing.T) {
	s := newTestSession(t, Hooks{}, noGravity)
	s.Step(0, Frame{})

	moves := 0
	for s.Move(-1, 0) {
		moves++
	}
	p, _ := s.Piece()
	if moves != 3 || p.Col != 2 {
		t.Errorf("moved %d times to column %d, want 3 moves to column 2", moves, p.Col)
	}
}

// place spawns id, applies moves and rotations, then hard drops it.
func place(t *testing.T, s *Session, id ShapeID, rotate Direction, dCol int) {
	t.Helper()
	if !s.spawn(id, true) {
		t.Fatalf("spawn %v collided", id)
	}
	if rotate != 0 && !s.Rotate(rotate) {
		t.Fatalf("rotate %v failed", id)
	}
	step := 1
	if dCol < 0 {
		step, dCol = -1, -dCol
	}
	for range dCol {
		if !s.Move(step, 0) {
			t.Fatalf("move %v by %d failed", id, step)
		}
	}
	if !s.HardDrop() {
		t.Fatalf("hard drop %v failed", id)
	}
}

func TestFourIPiecesClearBottomRow(t *testing.T) {
	var clears []int
	s := newTestSession(t, Hooks{
		OnLinesCleared: func(count int, rows []int) { clears = append(clears, rows...) },
	}, func(st *Settings) {
		st.GravityRate = 0
		st.Level = 2
	})
	s.Step(0, Frame{})

	place(t, s, ShapeI, 0, -3) // columns 1-4
	place(t, s, ShapeI, 0, 1)  // columns 5-8
	place(t, s, ShapeI, CW, 3) // column 9, rows 17-20
	if s.Lines() != 0 || s.Score() != 0 {
		t.Fatalf("cleared early: lines=%d score=%d", s.Lines(), s.Score())
	}
	place(t, s, ShapeI, CW, 4) // column 10

	if s.Lines() != 1 {
		t.Errorf("Lines() = %d, want 1", s.Lines())
	}
	if want := 100 * 2; s.Score() != want {
		t.Errorf("Score() = %d, want %d", s.Score(), want)
	}
	if diff := cmp.Diff([]int{20}, clears); diff != "" {
		t.Errorf("cleared rows (-want +got):\n%s", diff)
	}
	// What remains of the two vertical pieces dropped one row.
	for col := 1; col <= 10; col++ {
		want := col >= 9
		if got := s.Field().At(col, 20).Filled; got != want {
			t.Errorf("row 20 column %d filled = %v, want %v", col, got, want)
		}
	}
	if s.Field().At(9, 17).Filled {
		t.Error("row 17 should be empty after the shift")
	}
}

func TestHoldTwiceIsNoop(t *testing.T) {
	s := newTestSession(t, Hooks{}, noGravity)
	s.Step(0, Frame{})

	if !s.Hold() {
		t.Fatal("first hold failed")
	}
	first, _ := s.Piece()
	snap := s.Snapshot()

	if s.Hold() {
		t.Error("second hold should be rejected")
	}
	second, _ := s.Piece()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("active piece changed (-first +second):\n%s", diff)
	}
	if !snap.HasHeld || snap.Held != ShapeI || first.Shape != ShapeJ {
		t.Errorf("held=%v active=%v, want held I and active J", snap.Held, first.Shape)
	}
	if s.Snapshot().HoldUsable {
		t.Error("hold should stay unusable until the next natural spawn")
	}
}

func TestHoldSwapsAfterNaturalSpawn(t *testing.T) {
	var held []ShapeID
	s := newTestSession(t, Hooks{
		OnHoldChanged: func(id ShapeID, usable bool) {
			if !usable {
				held = append(held, id)
			}
		},
	}, noGravity)
	s.Step(0, Frame{})

	s.Step(0, events(EventHold))     // hold I, active J
	s.Step(0, events(EventHardDrop)) // J locks, L spawns naturally
	s.Step(0, events(EventHold))     // swap L with I

	p, _ := s.Piece()
	if p.Shape != ShapeI {
		t.Errorf("active = %v, want I from the hold slot", p.Shape)
	}
	if p.Row != 0 || p.Col != 5 || p.Rotation != Rot0 {
		t.Errorf("swapped piece at (%d,%d) rotation %v, want spawn position", p.Col, p.Row, p.Rotation)
	}
	if diff := cmp.Diff([]ShapeID{ShapeI, ShapeL}, held); diff != "" {
		t.Errorf("held shapes (-want +got):\n%s", diff)
	}
}

func TestRestingPieceLocksAfterDelay(t *testing.T) {
	s := newTestSession(t, Hooks{}, func(st *Settings) {
		st.GravityRate = 100
		st.LockDelaySeconds = 0.5
	})

	s.Step(0, Frame{})
	s.Step(1.0, Frame{}) // falls to the floor, deadline 1.5
	if p, _ := s.Piece(); p.Row != 20 {
		t.Fatalf("piece at row %d, want 20", p.Row)
	}

	s.Step(1.4, Frame{})
	if s.Pieces() != 0 {
		t.Fatal("locked before the deadline")
	}

	s.Step(1.5, Frame{})
	if s.Pieces() != 1 {
		t.Fatalf("Pieces() = %d, want 1 after the deadline", s.Pieces())
	}
	for col := 4; col <= 7; col++ {
		if !s.Field().At(col, 20).Filled {
			t.Errorf("column %d of row 20 not filled", col)
		}
	}
	if p, _ := s.Piece(); p.Shape != ShapeJ || p.Row != 0 {
		t.Errorf("next piece %v at row %d, want J at spawn", p.Shape, p.Row)
	}
}

func TestAirbornePieceNeverLocks(t *testing.T) {
	s := newTestSession(t, Hooks{}, noGravity)
	s.Step(0, Frame{})
	s.Step(0.6, Frame{})
	s.Step(30, Frame{})

	if s.Pieces() != 0 {
		t.Errorf("airborne piece locked")
	}
}

func TestMoveRestartsLockDelay(t *testing.T) {
	s := newTestSession(t, Hooks{}, func(st *Settings) {
		st.GravityRate = 0
		st.LockDelaySeconds = 0.5
	})
	s.Step(0, Frame{})
	for s.Move(0, 1) {
	}

	s.Step(0.4, events(EventMoveLeft)) // deadline moves to 0.9
	s.Step(0.85, Frame{})
	if s.Pieces() != 0 {
		t.Fatal("locked before the restarted deadline")
	}
	s.Step(0.95, Frame{})
	if s.Pieces() != 1 {
		t.Error("did not lock at the restarted deadline")
	}
}

func TestGravityKeepsFraction(t *testing.T) {
	s := newTestSession(t, Hooks{}, func(st *Settings) { st.GravityRate = 1 })
	s.Step(0, Frame{})

	s.Step(0.5, Frame{})
	if p, _ := s.Piece(); p.Row != 0 {
		t.Fatalf("row = %d after half a unit, want 0", p.Row)
	}
	s.Step(1.0, Frame{})
	if p, _ := s.Piece(); p.Row != 1 {
		t.Errorf("row = %d after a whole unit, want 1", p.Row)
	}
}

func TestSoftDropMultipliesGravity(t *testing.T) {
	s := newTestSession(t, Hooks{}, func(st *Settings) {
		st.GravityRate = 1
		st.SoftDropFactor = 20
	})
	s.Step(0, Frame{})
	s.Step(0.5, Frame{SoftDrop: true})

	if p, _ := s.Piece(); p.Row != 10 {
		t.Errorf("row = %d, want 10", p.Row)
	}
	if s.Pieces() != 0 {
		t.Error("soft drop must not lock")
	}
}

func TestTRotationUsesThirdKick(t *testing.T) {
	s := newTestSession(t, Hooks{}, noGravity)
	s.Step(0, Frame{})
	fill(s.field, 20, 1, 2, 3, 4, 5)

	s.spawn(ShapeT, true)
	for s.Move(0, 1) {
	}
	if p, _ := s.Piece(); p.Row != 19 {
		t.Fatalf("T rests at row %d, want 19", p.Row)
	}

	// Both (0,0) and (-1,0) hit the stack in row 20; (-1,-1) is free.
	if !s.Rotate(CW) {
		t.Fatal("rotation failed")
	}
	p, _ := s.Piece()
	if p.Rotation != RotR || p.Col != 4 || p.Row != 18 {
		t.Errorf("T at (%d,%d) rotation %v, want (4,18) rotation R", p.Col, p.Row, p.Rotation)
	}
}

func TestRotationFailsWhenAllKicksBlocked(t *testing.T) {
	s := newTestSession(t, Hooks{}, noGravity)
	s.Step(0, Frame{})
	for s.Move(0, 1) {
	}
	// A lid right above the I on the floor: every kick either sinks
	// below row 20 or hits row 19.
	fill(s.field, 19, span(1, 10)...)

	before, _ := s.Piece()
	if s.Rotate(CW) {
		t.Fatal("rotation should fail")
	}
	after, _ := s.Piece()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("failed rotation changed the piece (-before +after):\n%s", diff)
	}
}

func TestHardDropLocksImmediately(t *testing.T) {
	var locked []Piece
	s := newTestSession(t, Hooks{
		OnPieceLocked: func(p Piece) { locked = append(locked, p) },
	}, nil)
	s.Step(0, Frame{})
	s.Step(0, events(EventHardDrop))

	if len(locked) != 1 {
		t.Fatalf("locked %d pieces, want 1", len(locked))
	}
	if locked[0].Row != 20 {
		t.Errorf("locked at row %d, want 20", locked[0].Row)
	}
	if s.Now() != 0 {
		t.Error("clock should not have advanced")
	}
	if s.Phase() != PhaseFalling {
		t.Errorf("phase = %v, want falling with the next piece", s.Phase())
	}
}

func TestSpawnOntoStackIsGameOver(t *testing.T) {
	gameOver := 0
	s := newTestSession(t, Hooks{OnGameOver: func() { gameOver++ }}, nil)
	fill(s.field, 0, 5)

	s.Step(0, Frame{})

	if !s.GameOver() || gameOver != 1 {
		t.Fatalf("GameOver() = %v, hook calls = %d", s.GameOver(), gameOver)
	}
	if _, ok := s.Piece(); ok {
		t.Error("no piece should be active after game over")
	}

	s.Step(1, events(EventMoveLeft, EventHold, EventHardDrop))
	if s.Pieces() != 0 || gameOver != 1 {
		t.Error("game over should ignore gameplay events")
	}
	s.Step(2, events(EventQuit))
	if !s.QuitRequested() {
		t.Error("quit should still be accepted")
	}
}

func TestLockInBufferEndsGameOnlyAtSpawn(t *testing.T) {
	var order []string
	s := newTestSession(t, Hooks{
		OnPieceLocked: func(Piece) { order = append(order, "lock") },
		OnGameOver:    func() { order = append(order, "over") },
	}, noGravity)
	for row := 1; row <= 20; row++ {
		fill(s.field, row, 4, 5, 6, 7)
	}

	s.Step(0, Frame{})               // I spawns in row 0 above the stack
	s.Step(0, events(EventHardDrop)) // locks in the buffer, J cannot spawn

	if !s.Field().At(4, 0).Filled {
		t.Error("I should be locked in row 0")
	}
	if diff := cmp.Diff([]string{"lock", "over"}, order); diff != "" {
		t.Errorf("event order (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestSession(t, Hooks{}, noGravity)
	s.Step(0, Frame{})
	snap := s.Snapshot()
	snap.Cells[len(snap.Cells)-1][0].Filled = true
	snap.Preview[0] = ShapeZ

	if s.Field().At(1, 20).Filled {
		t.Error("snapshot cells alias the field")
	}
	if s.Snapshot().Preview[0] == ShapeZ {
		t.Error("snapshot preview aliases the bag")
	}
	if len(snap.Preview) != DefaultSettings().PreviewLength {
		t.Errorf("preview length = %d", len(snap.Preview))
	}
}

func TestSameSeedSameGame(t *testing.T) {
	script := []TimedFrame{
		{At: 0},
		{At: 0.1, Frame: events(EventMoveLeft, EventRotateCW)},
		{At: 0.7, Frame: Frame{SoftDrop: true}},
		{At: 1.3, Frame: events(EventHardDrop)},
		{At: 1.4, Frame: events(EventHold)},
		{At: 2.0, Frame: events(EventRotateCCW, EventMoveRight, EventMoveRight)},
		{At: 5.5},
		{At: 9.0, Frame: events(EventHardDrop, EventHardDrop)},
		{At: 12.25, Frame: Frame{SoftDrop: true}},
	}

	run := func() Snapshot {
		s, err := NewSession(DefaultSettings(), rand.New(rand.NewSource(99)), Hooks{})
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		Play(s, script)
		return s.Snapshot()
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("replays diverged (-first +second):\n%s", diff)
	}
}

func TestNewSessionRejectsInvalidSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.PreviewLength = 9
	settings.FieldWidth = 2

	if _, err := NewSession(settings, identityRand{}, Hooks{}); err == nil {
		t.Error("expected an error for invalid settings")
	}
}
