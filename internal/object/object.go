// Package object defines the plain data records the game simulates:
// blocks, falling debris and particles. Records carry geometry and motion
// only; renderers project them into their own resources every frame.
package object

// Axis is one of the two horizontal axes a block can oscillate along.
type Axis int

const (
	AxisX Axis = iota
	AxisZ
)

// Other returns the perpendicular horizontal axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisZ
	}
	return AxisX
}

// Index returns the component index of the axis in a Vec3.
func (a Axis) Index() int {
	if a == AxisX {
		return 0
	}
	return 2
}

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "z"
}

// UpdateContext carries the per-tick constants entities need.
type UpdateContext struct {
	Gravity       float64 // Subtracted from vertical velocity every tick
	Floor         float64 // Debris below this height is removed
	ParticleDecay float64 // Life lost by a particle every tick
}

// Updater is a simulated entity. Update advances it by one tick and
// reports whether it should be removed.
type Updater interface {
	Update(ctx UpdateContext) (remove bool)
}

var (
	_ Updater = (*Debris)(nil)
	_ Updater = (*Particle)(nil)
)
