package engine

// Event is a discrete player input.
type Event int

const (
	EventNone Event = iota
	EventMoveLeft
	EventMoveRight
	EventRotateCW
	EventRotateCCW
	EventHardDrop
	EventHold
	EventQuit
)

// String returns a short name for the event.
func (e Event) String() string {
	switch e {
	case EventMoveLeft:
		return "left"
	case EventMoveRight:
		return "right"
	case EventRotateCW:
		return "cw"
	case EventRotateCCW:
		return "ccw"
	case EventHardDrop:
		return "drop"
	case EventHold:
		return "hold"
	case EventQuit:
		return "quit"
	default:
		return "none"
	}
}

// Frame is the input sampled for one loop iteration: discrete events in
// arrival order and the level-triggered soft drop state.
type Frame struct {
	Events   []Event `json:"e,omitempty"`
	SoftDrop bool    `json:"s,omitempty"`
}

// Empty reports whether the frame carries no input at all.
func (f Frame) Empty() bool {
	return len(f.Events) == 0 && !f.SoftDrop
}

// Hooks are optional change notifications fired synchronously from Step.
// They are redraw hints; state is always available from Snapshot.
type Hooks struct {
	OnLinesCleared    func(count int, rows []int)
	OnPieceLocked     func(p Piece)
	OnGameOver        func()
	OnScoreChanged    func(score int)
	OnHoldChanged     func(held ShapeID, usable bool)
	OnPreviewAdvanced func(removed ShapeID)
}
