package engine

// TimedFrame is one recorded Step call.
type TimedFrame struct {
	At float64 `json:"t"`
	Frame
}

// Recorder captures every step of a session so it can be replayed.
type Recorder struct {
	frames []TimedFrame
}

// Record appends one step. Events are copied.
func (r *Recorder) Record(now float64, f Frame) {
	tf := TimedFrame{At: now, Frame: Frame{SoftDrop: f.SoftDrop}}
	if len(f.Events) > 0 {
		tf.Events = append([]Event(nil), f.Events...)
	}
	r.frames = append(r.frames, tf)
}

// Frames returns the recorded steps.
func (r *Recorder) Frames() []TimedFrame {
	return r.frames
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.frames)
}

// Reset discards the recording.
func (r *Recorder) Reset() {
	r.frames = r.frames[:0]
}

// Script plays recorded frames back as both the Clock and the InputSource
// of a Runner. The Runner reads Uptime before Poll, so Uptime reports the
// time of the frame Poll is about to return.
type Script struct {
	frames []TimedFrame
	pos    int
}

// NewScript creates a script over frames.
func NewScript(frames []TimedFrame) *Script {
	return &Script{frames: frames}
}

// Uptime returns the timestamp of the next frame, or of the last one once
// the script is exhausted.
func (s *Script) Uptime() float64 {
	switch {
	case len(s.frames) == 0:
		return 0
	case s.pos < len(s.frames):
		return s.frames[s.pos].At
	default:
		return s.frames[len(s.frames)-1].At
	}
}

// Poll returns the next frame, or ErrInputClosed when none remain.
func (s *Script) Poll() (Frame, error) {
	if s.pos >= len(s.frames) {
		return Frame{}, ErrInputClosed
	}
	f := s.frames[s.pos].Frame
	s.pos++
	return f, nil
}

// Done reports whether every frame has been played.
func (s *Script) Done() bool {
	return s.pos >= len(s.frames)
}

// Play feeds frames straight into a session without a Runner.
func Play(s *Session, frames []TimedFrame) {
	for _, tf := range frames {
		s.Step(tf.At, tf.Frame)
	}
}
