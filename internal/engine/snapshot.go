package engine

import (
	"slices"

	"github.com/tomz197/stackup/internal/object"
)

// Snapshot is a read-only copy of everything a renderer draws. Mutating it
// has no effect on the engine.
type Snapshot struct {
	State      State
	Score      int
	Combo      int
	Multiplier int
	CanRevive  bool
	RunID      string
	Axis       object.Axis

	Tower     []object.Block
	Moving    *object.Block
	Debris    []object.Debris
	Particles []object.Particle
	Camera    float64 // Eased height the view follows
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:      e.state,
		Score:      e.score,
		Combo:      e.combo,
		Multiplier: e.Multiplier(),
		CanRevive:  e.CanRevive(),
		RunID:      e.runID,
		Axis:       e.axis,
		Tower:      e.tower.Blocks(),
		Debris:     slices.Clone(e.debris),
		Particles:  slices.Clone(e.particles),
		Camera:     e.camera,
	}
	if e.moving != nil {
		m := *e.moving
		s.Moving = &m
	}
	return s
}
