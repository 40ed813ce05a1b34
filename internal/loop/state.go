package loop

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/engine"
	"github.com/tomz197/stackup/internal/input"
	"github.com/tomz197/stackup/internal/store"
)

// Muter switches feedback on and off.
type Muter interface {
	Toggle() bool
	Muted() bool
}

// Game is the per-player state around one engine: the best score, overlay
// timers and the collaborators events are dispatched to.
type Game struct {
	ctx    context.Context
	engine *engine.Engine
	store  store.BestScore
	sinks  []engine.Sink
	mute   Muter
	logger *log.Logger

	best       int
	newBest    bool
	flash      int // Ticks left on the "perfect" banner
	guard      int // Ticks left before a tap may restart
	ticks      int
	tickRate   int
	idleLimit  bool
	handle     *Handle
	shutdown   int // Ticks left on the shutdown screen, -1 when not shutting down
	lastInput  time.Time
	idle       time.Duration
	isInactive bool
	running    bool
}

// NewGame wraps e. A nil store keeps the best score in memory and a nil
// logger discards log output.
func NewGame(ctx context.Context, e *engine.Engine, opts Options) *Game {
	g := &Game{
		ctx:       ctx,
		engine:    e,
		store:     opts.Store,
		sinks:     opts.Sinks,
		mute:      opts.Mute,
		logger:    opts.Logger,
		lastInput: time.Now(),
		running:   true,
		tickRate:  opts.Tuning.TickRate,
		idleLimit: opts.DisconnectIdle,
		handle:    opts.Handle,
		shutdown:  -1,
	}
	if g.store == nil {
		g.store = store.NewMemory()
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if g.tickRate < 1 {
		g.tickRate = config.DefaultTuning().TickRate
	}
	best, err := g.store.Best(ctx)
	if err != nil {
		g.logger.Warn("read best score", "err", err)
	}
	g.best = best
	return g
}

// Running reports whether the player is still connected.
func (g *Game) Running() bool { return g.running }

// Best returns the best score known to this game.
func (g *Game) Best() int { return g.best }

// Update applies one tick of input, then advances the simulation.
func (g *Game) Update(in input.Input, now time.Time) {
	g.ticks++
	if in.Any() {
		g.lastInput = now
		g.isInactive = false
	}
	g.idle = now.Sub(g.lastInput)
	if g.idleLimit {
		switch {
		case g.idle > InactivityDisconnectUser:
			g.logger.Info("disconnecting idle player", "run", g.engine.RunID())
			g.running = false
		case g.idle > InactivityWarnUser:
			g.isInactive = true
		}
	}

	if in.Quit || in.Closed {
		g.running = false
	}
	if g.shutdown < 0 && g.handle.ShuttingDown() {
		g.shutdown = ShutdownDisplaySeconds * g.tickRate
		g.logger.Info("host shutting down", "run", g.engine.RunID())
	}
	if g.shutdown > 0 {
		g.shutdown--
	}
	if g.shutdown == 0 {
		g.running = false
	}
	if !g.running {
		return
	}

	if in.Mute && g.mute != nil {
		muted := g.mute.Toggle()
		g.logger.Debug("feedback toggled", "muted", muted)
	}

	switch g.engine.State() {
	case engine.StateMenu:
		if in.Taps > 0 || in.Restart {
			g.start()
		}
	case engine.StatePlaying:
		// One drop per tick so a fresh block always moves before it can land.
		if in.Taps > 0 {
			g.place()
		}
	case engine.StateGameOver:
		switch {
		case in.Revive:
			if g.engine.ReviveGame() {
				g.logger.Info("revived", "run", g.engine.RunID(), "score", g.engine.Score())
			}
		case in.Restart, in.Taps > 0 && g.guard == 0:
			g.start()
		}
	}

	g.engine.Step()
	if g.flash > 0 {
		g.flash--
	}
	if g.guard > 0 {
		g.guard--
	}
}

func (g *Game) start() {
	g.engine.StartGame()
	g.newBest = false
	g.flash = 0
	g.logger.Info("game started", "run", g.engine.RunID())
}

func (g *Game) place() {
	res := g.engine.PlaceBlock()
	g.logger.Debug("block placed",
		"run", g.engine.RunID(),
		"outcome", res.Outcome,
		"score", res.Score,
		"combo", res.Combo)
	engine.Dispatch(res.Events, g.sinks...)
	engine.Dispatch(res.Events, engine.SinkFunc(g.onEvent))
}

// onEvent reacts to the engine's events on the loop side.
func (g *Game) onEvent(e engine.Event) {
	switch ev := e.(type) {
	case engine.EventPerfect:
		g.flash = PerfectFlashTicks
	case engine.EventGameOver:
		g.guard = RestartGuardTicks
		g.submit(ev.FinalScore)
	}
}

func (g *Game) submit(score int) {
	best, improved, err := g.store.Submit(g.ctx, score)
	if err != nil {
		g.logger.Warn("save best score", "err", err)
		if score > g.best {
			g.best = score
			g.newBest = true
		}
		return
	}
	g.best = best
	g.newBest = improved
	g.logger.Info("game over",
		"run", g.engine.RunID(),
		"score", score,
		"best", best,
		"new_best", improved)
}
