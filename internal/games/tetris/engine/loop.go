package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ErrInputClosed is returned by an InputSource that will produce no more frames.
var ErrInputClosed = errors.New("engine: input closed")

// Clock is a monotonic time source in seconds.
type Clock interface {
	Uptime() float64
}

// InputSource yields the input gathered since the previous call. Poll must
// not block; with nothing pending it returns an empty frame.
type InputSource interface {
	Poll() (Frame, error)
}

// MonotonicClock reports seconds since it was created.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock starts a clock at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Uptime returns the elapsed seconds. time.Since uses the monotonic reading.
func (c *MonotonicClock) Uptime() float64 {
	return time.Since(c.start).Seconds()
}

// ChannelInput is an InputSource fed from other goroutines. Send never
// blocks: when the buffer is full the event is dropped.
type ChannelInput struct {
	events   chan Event
	softDrop atomic.Bool
	closed   atomic.Bool
}

// NewChannelInput creates an input with room for buffer pending events.
func NewChannelInput(buffer int) *ChannelInput {
	return &ChannelInput{events: make(chan Event, buffer)}
}

// Send queues an event. It reports false if the event was dropped.
func (c *ChannelInput) Send(ev Event) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

// SetSoftDrop records whether soft drop is currently held.
func (c *ChannelInput) SetSoftDrop(held bool) {
	c.softDrop.Store(held)
}

// Close stops the input. Pending events are still delivered.
func (c *ChannelInput) Close() {
	c.closed.Store(true)
}

// Poll drains pending events without blocking.
func (c *ChannelInput) Poll() (Frame, error) {
	f := Frame{SoftDrop: c.softDrop.Load()}
	for {
		select {
		case ev := <-c.events:
			f.Events = append(f.Events, ev)
		default:
			if len(f.Events) == 0 && c.closed.Load() {
				return Frame{}, ErrInputClosed
			}
			return f, nil
		}
	}
}

// Runner drives a Session: each iteration samples the clock once, polls
// input, steps the session and publishes a snapshot. Only Run mutates the
// session; Snapshot may be called from any goroutine.
type Runner struct {
	session  *Session
	clock    Clock
	input    InputSource
	interval time.Duration

	snap  atomic.Pointer[Snapshot]
	steps atomic.Int64
}

// NewRunner creates a runner. With interval > 0 iterations are paced by a
// ticker; with 0 the loop runs as fast as input arrives, which suits
// scripted input.
func NewRunner(s *Session, clock Clock, input InputSource, interval time.Duration) *Runner {
	r := &Runner{
		session:  s,
		clock:    clock,
		input:    input,
		interval: interval,
	}
	r.publish()
	return r
}

func (r *Runner) publish() {
	snap := r.session.Snapshot()
	r.snap.Store(&snap)
}

// Snapshot returns the latest committed state.
func (r *Runner) Snapshot() *Snapshot {
	return r.snap.Load()
}

// Steps returns the number of completed iterations.
func (r *Runner) Steps() int64 {
	return r.steps.Load()
}

// Run loops until the context is cancelled, a quit event arrives or the
// input is exhausted. Quit and exhausted input return nil.
func (r *Runner) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if r.interval > 0 {
		t := time.NewTicker(r.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		now := r.clock.Uptime()
		frame, err := r.input.Poll()
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("engine: poll input: %w", err)
		}

		r.session.Step(now, frame)
		r.publish()
		r.steps.Add(1)

		if r.session.QuitRequested() {
			return nil
		}
	}
}
