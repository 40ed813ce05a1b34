// Package engine runs one stacking game: the Menu, Playing and GameOver
// lifecycle, placements, oscillation and the debris and particle
// simulation.
//
// An Engine is single-threaded. Every call runs to completion and the
// caller drives time by calling Step once per tick.
package engine

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/difficulty"
	"github.com/tomz197/stackup/internal/object"
	"github.com/tomz197/stackup/internal/physics"
	"github.com/tomz197/stackup/internal/placement"
	"github.com/tomz197/stackup/internal/tower"
)

// State is the lifecycle state of a game.
type State int

const (
	StateMenu State = iota
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game over"
	default:
		return "menu"
	}
}

// Result is what a placement did.
type Result struct {
	Outcome    placement.Outcome
	Score      int
	Combo      int
	Multiplier int
	Events     []Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for debris and particles.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// Engine is one game session.
type Engine struct {
	tuning config.Tuning
	model  difficulty.Model
	rng    *rand.Rand

	state      State
	tower      *tower.Tower
	moving     *object.Block
	debris     []object.Debris
	particles  []object.Particle
	score      int
	combo      int
	axis       object.Axis
	direction  float64
	hasRevived bool
	grow       bool // Grow the next spawn
	fatal      bool // The last debris is the block that ended the game
	camera     float64
	runID      string
	disposed   bool
}

// New creates an engine in the Menu state, showing the base block.
func New(t config.Tuning, opts ...Option) *Engine {
	e := &Engine{
		tuning:    t,
		model:     difficulty.FromTuning(t),
		tower:     tower.New(t),
		direction: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.tower.Reset(tower.Base(t))
	e.camera = e.cameraTarget()
	return e
}

// StartGame begins a fresh game from any state. Everything is reset and
// the first block starts oscillating along X.
func (e *Engine) StartGame() {
	if e.disposed {
		return
	}
	e.clearEntities()
	e.score = 0
	e.combo = 0
	e.axis = object.AxisX
	e.direction = 1
	e.hasRevived = false
	e.grow = false
	e.runID = uuid.NewString()
	e.tower.Reset(tower.Base(e.tuning))
	e.spawn()
	e.state = StatePlaying
}

// ReviveGame resumes a lost game once. The block that caused the loss is
// removed and a fresh one spawns above the tower; score and combo are kept.
// It reports whether the game was revived.
func (e *Engine) ReviveGame() bool {
	if e.disposed || e.state != StateGameOver || e.hasRevived {
		return false
	}
	e.hasRevived = true
	if e.fatal && len(e.debris) > 0 {
		e.debris = slices.Delete(e.debris, len(e.debris)-1, len(e.debris))
	}
	e.fatal = false
	e.moving = nil
	e.spawn()
	e.state = StatePlaying
	return true
}

// PlaceBlock drops the moving block onto the tower. It does nothing unless
// a game is being played.
func (e *Engine) PlaceBlock() Result {
	if e.disposed || e.state != StatePlaying || e.moving == nil {
		return Result{}
	}
	ref, ok := e.tower.Top()
	if !ok {
		return Result{}
	}

	moving := *e.moving
	e.moving = nil
	res := placement.Resolve(placement.Input{
		Moving:    moving,
		Reference: ref,
		Axis:      e.axis,
		Tolerance: e.model.Tolerance(e.score),
		Combo:     e.combo,
		Model:     e.model,
		MinSliver: e.tuning.MinSliverSize,
	})
	e.combo = res.Combo

	out := Result{Outcome: res.Outcome}
	switch res.Outcome {
	case placement.OutcomeMiss:
		e.lose(moving)
		out.Score = e.score
		out.Multiplier = 1
		out.Events = []Event{EventGameOver{FinalScore: e.score}, EventHeavyFeedback{}}
		return out
	case placement.OutcomePerfect:
		e.particles = append(e.particles,
			object.Burst(e.rng, res.Placed, e.tuning.ParticleBurst, e.tuning.ParticleSpeed)...)
		out.Events = append(out.Events, EventPerfect{Combo: e.combo}, EventLightFeedback{})
	case placement.OutcomePlaced:
		if res.Cut != nil {
			e.debris = append(e.debris, object.NewDebris(*res.Cut, e.cutVelocity(res.Delta), e.randomSpin()))
		}
		out.Events = append(out.Events, EventPlaced{}, EventLightFeedback{})
	}

	e.tower.Push(res.Placed)
	mult := e.model.Multiplier(e.combo)
	if e.tuning.ScoreMultiplied {
		e.score += mult
	} else {
		e.score++
	}
	e.grow = res.Grow
	e.axis = e.axis.Other()
	e.spawn()

	out.Score = e.score
	out.Combo = e.combo
	out.Multiplier = mult
	out.Events = append(out.Events, EventScoreUpdate{Score: e.score, Multiplier: mult})
	return out
}

// Step advances the game by one tick: oscillation, then debris, then
// particles, then the camera.
func (e *Engine) Step() {
	if e.disposed {
		return
	}
	if e.state == StatePlaying && e.moving != nil {
		e.direction = e.tower.Oscillate(e.moving, e.axis, e.direction, e.model.Speed(e.score))
	}

	ctx := object.UpdateContext{
		Gravity:       e.tuning.Gravity,
		Floor:         e.tuning.DebrisFloor,
		ParticleDecay: e.tuning.ParticleDecay,
	}
	for i := len(e.debris) - 1; i >= 0; i-- {
		if e.debris[i].Update(ctx) {
			if e.fatal && i == len(e.debris)-1 {
				e.fatal = false
			}
			e.debris = slices.Delete(e.debris, i, i+1)
		}
	}
	for i := len(e.particles) - 1; i >= 0; i-- {
		if e.particles[i].Update(ctx) {
			e.particles = slices.Delete(e.particles, i, i+1)
		}
	}

	e.camera += (e.cameraTarget() - e.camera) * e.tuning.CameraEase
}

// Dispose releases every entity. Later calls on the engine do nothing.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.state = StateMenu
	e.clearEntities()
	e.tower.Clear()
	e.fatal = false
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Score returns the running score.
func (e *Engine) Score() int { return e.score }

// Combo returns the number of consecutive perfect placements.
func (e *Engine) Combo() int { return e.combo }

// Multiplier returns the multiplier for the current combo.
func (e *Engine) Multiplier() int { return e.model.Multiplier(e.combo) }

// RunID identifies the current game. It is empty before the first game.
func (e *Engine) RunID() string { return e.runID }

// CanRevive reports whether ReviveGame would succeed.
func (e *Engine) CanRevive() bool {
	return !e.disposed && e.state == StateGameOver && !e.hasRevived
}

// Disposed reports whether Dispose has been called.
func (e *Engine) Disposed() bool { return e.disposed }

func (e *Engine) lose(moving object.Block) {
	var vel mgl64.Vec3
	vel[e.axis.Index()] = e.direction * e.model.Speed(e.score)
	e.debris = append(e.debris, object.NewDebris(moving, vel, e.randomSpin()))
	e.fatal = true
	e.combo = 0
	e.grow = false
	e.state = StateGameOver
}

// spawn puts a new moving block above the tower, starting on the negative
// side of the active axis.
func (e *Engine) spawn() {
	top, ok := e.tower.Top()
	if !ok {
		return
	}
	width, depth := top.Width, top.Depth
	if e.grow {
		width = e.model.Grow(width)
		depth = e.model.Grow(depth)
		e.grow = false
	}
	b, ok := e.tower.Spawn(e.axis, width, depth)
	if !ok {
		return
	}
	e.moving = &b
	e.direction = 1
}

func (e *Engine) cutVelocity(delta float64) mgl64.Vec3 {
	var vel mgl64.Vec3
	vel[e.axis.Index()] = physics.Sign(delta) * (e.tuning.DebrisBaseSpeed + math.Abs(delta)*e.tuning.DebrisDeltaFactor)
	vel[e.axis.Other().Index()] = e.spread(e.tuning.DebrisSpread)
	vel[1] = -e.rng.Float64() * e.tuning.DebrisSpread
	return vel
}

func (e *Engine) randomSpin() mgl64.Vec3 {
	s := e.tuning.DebrisSpin
	return mgl64.Vec3{e.spread(s), e.spread(s), e.spread(s)}
}

// spread returns a uniform value in [-r, r).
func (e *Engine) spread(r float64) float64 {
	return (e.rng.Float64()*2 - 1) * r
}

func (e *Engine) cameraTarget() float64 {
	top, ok := e.tower.Top()
	if !ok {
		return 0
	}
	return top.Top()
}

func (e *Engine) clearEntities() {
	e.moving = nil
	clear(e.debris)
	e.debris = e.debris[:0]
	clear(e.particles)
	e.particles = e.particles[:0]
	e.fatal = false
}
