package engine

// Phase is the controller state.
type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseFalling
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseFalling:
		return "falling"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Piece is the live piece: a shape at a rotation state and an anchor.
// Cells are relative to the anchor.
type Piece struct {
	Shape    ShapeID
	Rotation Rotation
	Col, Row int
	Cells    [4]Point
}

// Absolute returns the field positions the piece covers.
func (p Piece) Absolute() [4]Point {
	var out [4]Point
	for i, c := range p.Cells {
		out[i] = Point{X: p.Col + c.X, Y: p.Row + c.Y}
	}
	return out
}

// Session owns one game: field, bag, score, hold slot, the live piece and
// its timers. All mutation goes through Step or the operation methods,
// which must be called from a single goroutine.
type Session struct {
	settings Settings
	field    *Field
	bag      *Bag
	score    *ScoreKeeper
	hooks    Hooks

	phase    Phase
	piece    Piece
	held     ShapeID
	hasHeld  bool
	holdUsed bool
	pieces   int
	quit     bool

	now       float64
	last      float64
	spawnedAt float64
	started   bool

	gravityDebt float64
	deadline    float64
	armed       bool
}

// NewSession creates a session in the spawning phase. The first Step
// spawns the first piece.
func NewSession(settings Settings, rng Rand, hooks Hooks) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		settings: settings,
		field:    NewField(settings.FieldWidth, settings.FieldHeight, settings.FieldOverflowHeight),
		bag:      NewBag(rng),
		score:    NewScoreKeeper(settings.ClearedLinesScore, settings.Level),
		hooks:    hooks,
		phase:    PhaseSpawning,
	}, nil
}

// Settings returns the settings the session was created with.
func (s *Session) Settings() Settings { return s.settings }

// Phase returns the current controller phase.
func (s *Session) Phase() Phase { return s.phase }

// GameOver reports whether the last spawn collided.
func (s *Session) GameOver() bool { return s.phase == PhaseGameOver }

// QuitRequested reports whether a quit event has been received.
func (s *Session) QuitRequested() bool { return s.quit }

// Piece returns the live piece and whether there is one.
func (s *Session) Piece() (Piece, bool) {
	return s.piece, s.phase == PhaseFalling
}

// Field exposes the playfield for read-only inspection.
func (s *Session) Field() *Field { return s.field }

// Score returns the running score.
func (s *Session) Score() int { return s.score.Score() }

// Lines returns the number of cleared rows.
func (s *Session) Lines() int { return s.score.Lines() }

// Pieces returns the number of locked pieces.
func (s *Session) Pieces() int { return s.pieces }

// Now returns the clock reading of the latest Step.
func (s *Session) Now() float64 { return s.now }

// Step advances the session to now, a monotonic reading in seconds, and
// applies one frame of input. Order: spawn if needed, events in arrival
// order, gravity, then the lock deadline.
func (s *Session) Step(now float64, in Frame) {
	if !s.started || now < s.now {
		s.last = now
	} else {
		s.last = s.now
	}
	s.now = now
	s.started = true

	if s.phase == PhaseSpawning {
		s.spawnNext()
	}

	for _, ev := range in.Events {
		s.apply(ev)
	}

	if s.phase != PhaseFalling {
		return
	}
	s.applyGravity(in.SoftDrop)
	s.serviceLockDelay()
}

func (s *Session) apply(ev Event) {
	if ev == EventQuit {
		s.quit = true
		return
	}
	if s.phase != PhaseFalling {
		return
	}
	switch ev {
	case EventMoveLeft:
		s.Move(-1, 0)
	case EventMoveRight:
		s.Move(1, 0)
	case EventRotateCW:
		s.Rotate(CW)
	case EventRotateCCW:
		s.Rotate(CCW)
	case EventHardDrop:
		s.HardDrop()
	case EventHold:
		s.Hold()
	}
}

// Gravity accrues only for the time the current piece has existed.
func (s *Session) applyGravity(softDrop bool) {
	from := max(s.last, s.spawnedAt)
	elapsed := s.now - from
	if elapsed <= 0 {
		return
	}
	rate := s.settings.GravityRate
	if softDrop {
		rate *= s.settings.SoftDropFactor
	}
	s.gravityDebt += rate * elapsed
	units := int(s.gravityDebt)
	s.gravityDebt -= float64(units)
	for range units {
		if !s.Move(0, 1) {
			s.rest()
			return
		}
	}
}

// rest arms the lock deadline for a piece that tried to fall and could not.
func (s *Session) rest() {
	if !s.armed {
		s.arm()
	}
}

func (s *Session) arm() {
	s.deadline = s.now + s.settings.LockDelaySeconds
	s.armed = true
}

func (s *Session) serviceLockDelay() {
	if !s.armed || s.now < s.deadline {
		return
	}
	if s.canFall() {
		s.armed = false
		return
	}
	s.lock()
}

func (s *Session) canFall() bool {
	return !s.field.Collides(s.piece.Cells, s.piece.Col, s.piece.Row+1)
}

// Move translates the live piece. It fails without side effects when the
// target collides; on success the lock deadline restarts.
func (s *Session) Move(dCol, dRow int) bool {
	if s.phase != PhaseFalling {
		return false
	}
	col, row := s.piece.Col+dCol, s.piece.Row+dRow
	if s.field.Collides(s.piece.Cells, col, row) {
		return false
	}
	s.piece.Col, s.piece.Row = col, row
	s.arm()
	return true
}

// Rotate turns the live piece one step, committing the first kick
// translation that does not collide. It is a no-op if all five fail.
func (s *Session) Rotate(dir Direction) bool {
	if s.phase != PhaseFalling {
		return false
	}
	to, cells, kicks := Rotate(ShapeOf(s.piece.Shape), s.piece.Rotation, s.piece.Cells, dir)
	for _, k := range kicks {
		col, row := s.piece.Col+k.X, s.piece.Row+k.Y
		if s.field.Collides(cells, col, row) {
			continue
		}
		s.piece.Rotation = to
		s.piece.Cells = cells
		s.piece.Col, s.piece.Row = col, row
		s.arm()
		return true
	}
	return false
}

// HardDrop moves the piece to its lowest reachable row and locks it at
// once, ignoring the lock deadline.
func (s *Session) HardDrop() bool {
	if s.phase != PhaseFalling {
		return false
	}
	s.piece.Row = s.dropRow()
	s.lock()
	return true
}

func (s *Session) dropRow() int {
	row := s.piece.Row
	for !s.field.Collides(s.piece.Cells, s.piece.Col, row+1) {
		row++
	}
	return row
}

// GhostRow returns the row the live piece would land on if dropped.
func (s *Session) GhostRow() int {
	if s.phase != PhaseFalling {
		return s.piece.Row
	}
	return s.dropRow()
}

// Hold stores the live piece, or swaps it with the held one, and spawns
// the replacement. Allowed once between natural spawns.
func (s *Session) Hold() bool {
	if s.phase != PhaseFalling || s.holdUsed {
		return false
	}
	current := s.piece.Shape
	s.holdUsed = true
	if !s.hasHeld {
		s.held, s.hasHeld = current, true
		s.notifyHold()
		s.spawn(s.draw(), false)
		return true
	}
	next := s.held
	s.held = current
	s.notifyHold()
	s.spawn(next, false)
	return true
}

func (s *Session) notifyHold() {
	if s.hooks.OnHoldChanged != nil && s.hasHeld {
		s.hooks.OnHoldChanged(s.held, !s.holdUsed)
	}
}

// lock commits the piece, clears rows, scores, and spawns the next piece.
// Locking inside the buffer is allowed; only the next spawn can end the game.
func (s *Session) lock() {
	p := s.piece
	s.field.Lock(p.Cells, p.Col, p.Row, ShapeOf(p.Shape).Color)
	s.pieces++
	s.armed = false
	if s.hooks.OnPieceLocked != nil {
		s.hooks.OnPieceLocked(p)
	}

	rows := s.field.ClearLines()
	if n := len(rows); n > 0 {
		if s.hooks.OnLinesCleared != nil {
			s.hooks.OnLinesCleared(n, rows)
		}
		if delta := s.score.Add(n); delta != 0 && s.hooks.OnScoreChanged != nil {
			s.hooks.OnScoreChanged(s.score.Score())
		}
	}

	s.phase = PhaseSpawning
	s.spawnNext()
}

func (s *Session) draw() ShapeID {
	id := s.bag.Produce()
	if s.hooks.OnPreviewAdvanced != nil {
		s.hooks.OnPreviewAdvanced(id)
	}
	return id
}

func (s *Session) spawnNext() {
	s.spawn(s.draw(), true)
}

// spawn places id at row 0 in the centre column. A colliding spawn ends the
// game. Only a natural spawn (not one caused by Hold) re-enables hold.
func (s *Session) spawn(id ShapeID, natural bool) bool {
	shape := ShapeOf(id)
	p := Piece{
		Shape:    id,
		Rotation: Rot0,
		Col:      (s.settings.FieldWidth + 1) / 2,
		Row:      0,
		Cells:    shape.Cells,
	}
	s.piece = p
	if s.field.Collides(p.Cells, p.Col, p.Row) {
		s.phase = PhaseGameOver
		s.armed = false
		if s.hooks.OnGameOver != nil {
			s.hooks.OnGameOver()
		}
		return false
	}

	s.phase = PhaseFalling
	s.spawnedAt = s.now
	s.gravityDebt = 0
	s.arm()
	if natural && s.holdUsed {
		s.holdUsed = false
		s.notifyHold()
	}
	return true
}

// Snapshot returns a deep copy of everything a renderer needs.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Width:      s.field.Width(),
		Height:     s.field.Height(),
		Overflow:   s.field.Overflow(),
		Cells:      s.field.Cells(),
		Held:       s.held,
		HasHeld:    s.hasHeld,
		HoldUsable: !s.holdUsed && s.phase == PhaseFalling,
		Preview:    s.bag.Upcoming(s.settings.PreviewLength),
		Score:      s.score.Score(),
		Lines:      s.score.Lines(),
		Level:      s.score.Level(),
		Pieces:     s.pieces,
		Phase:      s.phase,
		GameOver:   s.phase == PhaseGameOver,
		Now:        s.now,
	}
	if p, ok := s.Piece(); ok {
		snap.Active = &ActivePiece{
			Shape:    p.Shape,
			Rotation: p.Rotation,
			Col:      p.Col,
			Row:      p.Row,
			Cells:    p.Absolute(),
			Color:    ShapeOf(p.Shape).Color,
		}
		snap.GhostRow = s.dropRow()
	}
	return snap
}

// String renders the field and live piece as text, for debugging and tests.
func (s *Session) String() string {
	return s.Snapshot().String()
}
