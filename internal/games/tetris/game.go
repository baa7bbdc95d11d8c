// Package tetris adapts the engine to the platform: it maps platform
// actions to engine events, owns pause and restart, records every step for
// replays, and draws the game into a core.Screen.
package tetris

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// GameID is the registry and replay identifier.
const GameID = "tetris"

// How long a line-clear banner stays up, in engine seconds.
const bannerSeconds = 1.5

// Package-level variables for config/difficulty, set by the CLI.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets the config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset (easy, normal, hard, fixed).
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// LoadConfig loads the configuration file and applies the difficulty preset.
func LoadConfig() (config.TetrisConfig, error) {
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		return config.TetrisConfig{}, err
	}
	preset, err := config.ParsePreset(difficultyPreset)
	if err != nil {
		return config.TetrisConfig{}, err
	}
	config.ApplyTetrisPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return config.TetrisConfig{}, err
	}
	return cfg, nil
}

// LoadSettings returns validated engine settings for the current
// config path and preset.
func LoadSettings() (engine.Settings, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return engine.Settings{}, err
	}
	return cfg.Settings(), nil
}

// Game is one player's game, or the playback of a recorded one.
type Game struct {
	settings engine.Settings
	seed     int64
	seeds    *rand.Rand // seeds for restarts
	session  *engine.Session
	recorder engine.Recorder

	// Platform clock bookkeeping. Engine time starts at zero on the first
	// Step after Reset and does not advance while paused.
	started  bool
	origin   float64
	paused   bool
	pausedAt float64
	idle     float64
	engineT  float64

	banner      string
	bannerUntil float64
	quit        bool

	// Playback
	playback []engine.TimedFrame
	next     int
}

// New creates a game using the configured settings.
func New() *Game {
	return &Game{}
}

// NewReplay creates a game that plays frames back instead of reading input.
// Pause and quit still work during playback.
func NewReplay(seed int64, settings engine.Settings, frames []engine.TimedFrame) *Game {
	g := &Game{playback: frames}
	g.start(seed, settings)
	return g
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.Replaying() {
		return "Tetris (Replay)"
	}
	return "Tetris"
}

// Reset starts a new game. Settings come from the config file; when it
// cannot be loaded the built-in defaults are used.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if g.Replaying() {
		g.start(g.seed, g.settings)
		return
	}

	settings, err := LoadSettings()
	if err != nil {
		settings = engine.DefaultSettings()
	}
	g.seeds = rand.New(rand.NewSource(cfg.Seed))
	g.start(cfg.Seed, settings)
}

func (g *Game) start(seed int64, settings engine.Settings) {
	g.seed = seed
	g.settings = settings
	session, err := engine.NewSession(settings, engine.NewRand(seed), g.hooks())
	if err != nil {
		// Settings were validated by LoadSettings or came from a stored replay.
		panic("tetris: " + err.Error())
	}
	g.session = session
	g.recorder.Reset()
	g.started = false
	g.paused = false
	g.idle = 0
	g.engineT = 0
	g.banner = ""
	g.quit = false
	g.next = 0
}

func (g *Game) hooks() engine.Hooks {
	return engine.Hooks{
		OnLinesCleared: func(count int, _ []int) {
			g.banner = clearBanner(count)
			g.bannerUntil = g.engineT + bannerSeconds
		},
	}
}

func clearBanner(count int) string {
	switch count {
	case 1:
		return "SINGLE"
	case 2:
		return "DOUBLE"
	case 3:
		return "TRIPLE"
	default:
		return "TETRIS!"
	}
}

// Step maps one frame of platform input onto the engine.
func (g *Game) Step(now float64, in core.InputFrame) core.StepResult {
	if !g.started {
		g.started = true
		g.origin = now
	}

	if in.Has(core.ActionRestart) && g.finished() {
		g.restart()
		g.started = true
		g.origin = now
		return g.result()
	}

	if in.Has(core.ActionPause) && !g.session.GameOver() {
		if g.paused {
			g.idle += now - g.pausedAt
		} else {
			g.pausedAt = now
		}
		g.paused = !g.paused
	}
	if in.Has(core.ActionQuit) {
		g.quit = true
	}
	if g.paused {
		return g.result()
	}

	g.engineT = now - g.origin - g.idle

	if g.Replaying() {
		for g.next < len(g.playback) && g.playback[g.next].At <= g.engineT {
			tf := g.playback[g.next]
			g.session.Step(tf.At, tf.Frame)
			g.next++
		}
		return g.result()
	}

	if g.session.GameOver() {
		return g.result()
	}
	frame := toFrame(in)
	g.recorder.Record(g.engineT, frame)
	g.session.Step(g.engineT, frame)
	return g.result()
}

func (g *Game) restart() {
	if g.Replaying() {
		g.start(g.seed, g.settings)
		return
	}
	g.start(g.seeds.Int63(), g.settings)
}

// toFrame translates platform actions to engine events, keeping order.
func toFrame(in core.InputFrame) engine.Frame {
	var f engine.Frame
	for _, a := range in.Actions {
		switch a {
		case core.ActionLeft:
			f.Events = append(f.Events, engine.EventMoveLeft)
		case core.ActionRight:
			f.Events = append(f.Events, engine.EventMoveRight)
		case core.ActionRotateCW:
			f.Events = append(f.Events, engine.EventRotateCW)
		case core.ActionRotateCCW:
			f.Events = append(f.Events, engine.EventRotateCCW)
		case core.ActionHardDrop:
			f.Events = append(f.Events, engine.EventHardDrop)
		case core.ActionHold:
			f.Events = append(f.Events, engine.EventHold)
		case core.ActionSoftDrop:
			f.SoftDrop = true
		}
	}
	return f
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Quit: g.quit}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.session.Score(),
		Lines:    g.session.Lines(),
		GameOver: g.finished(),
		Paused:   g.paused,
	}
}

// finished is true once the game ended, or once playback ran out of frames.
func (g *Game) finished() bool {
	if g.Replaying() {
		return g.next >= len(g.playback)
	}
	return g.session.GameOver()
}

// Replaying reports whether this game plays back a recording.
func (g *Game) Replaying() bool {
	return g.playback != nil
}

// Snapshot returns the engine snapshot for determinism checks and rendering.
func (g *Game) Snapshot() engine.Snapshot {
	return g.session.Snapshot()
}

// Replay packages the recorded game for storage. It returns nil for
// playback games and for games with no recorded input.
func (g *Game) Replay() *storage.Replay {
	if g.Replaying() || g.recorder.Len() == 0 {
		return nil
	}
	frames := append([]engine.TimedFrame(nil), g.recorder.Frames()...)
	return &storage.Replay{
		ReplaySummary: storage.ReplaySummary{
			GameID:   GameID,
			Seed:     g.seed,
			Score:    g.session.Score(),
			Lines:    g.session.Lines(),
			Pieces:   g.session.Pieces(),
			Duration: time.Duration(g.session.Now() * float64(time.Second)),
		},
		Settings: g.settings,
		Frames:   frames,
	}
}
