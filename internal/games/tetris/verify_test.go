package tetris

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVerifyRecordedGame(t *testing.T) {
	g := newTestGame(t, 2024)
	for i := 0; i < 1200; i++ {
		g.Step(float64(i)*frameStep, scriptedInput(i))
	}

	rec := g.Replay()
	snap, err := Verify(context.Background(), rec)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if diff := cmp.Diff(g.Snapshot(), snap); diff != "" {
		t.Errorf("headless snapshot differs (-live +verify):\n%s", diff)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	g := newTestGame(t, 2024)
	for i := 0; i < 300; i++ {
		g.Step(float64(i)*frameStep, scriptedInput(i))
	}

	rec := g.Replay()
	rec.Score += 100
	if _, err := Verify(context.Background(), rec); !errors.Is(err, ErrReplayMismatch) {
		t.Errorf("Verify error = %v, want ErrReplayMismatch", err)
	}
}

func TestVerifyHonorsCancel(t *testing.T) {
	g := newTestGame(t, 1)
	g.Step(0, scriptedInput(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Verify(ctx, g.Replay()); !errors.Is(err, context.Canceled) {
		t.Errorf("Verify error = %v, want context.Canceled", err)
	}
}
