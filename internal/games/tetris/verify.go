package tetris

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// ErrReplayMismatch is returned by Verify when re-simulation disagrees
// with the stored result.
var ErrReplayMismatch = errors.New("tetris: replay does not reproduce")

// Verify re-simulates r headlessly through an engine.Runner and checks the
// final score, lines and piece count against the stored summary. The final
// snapshot is returned in both cases.
func Verify(ctx context.Context, r *storage.Replay) (engine.Snapshot, error) {
	session, err := engine.NewSession(r.Settings, engine.NewRand(r.Seed), engine.Hooks{})
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("tetris: replay %s: %w", r.ID, err)
	}

	script := engine.NewScript(r.Frames)
	runner := engine.NewRunner(session, script, script, 0)
	if err := runner.Run(ctx); err != nil {
		return engine.Snapshot{}, fmt.Errorf("tetris: replay %s: %w", r.ID, err)
	}

	snap := *runner.Snapshot()
	if snap.Score != r.Score || snap.Lines != r.Lines || snap.Pieces != r.Pieces {
		return snap, fmt.Errorf("%w: stored score %d lines %d pieces %d, got %d/%d/%d",
			ErrReplayMismatch, r.Score, r.Lines, r.Pieces, snap.Score, snap.Lines, snap.Pieces)
	}
	return snap, nil
}
