// Package physics provides the kinematic integrators used by falling debris
// and particles. It is an Euler approximation advanced in fixed ticks;
// nothing here detects or resolves collisions.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up vector. Y is vertical; X and Z are the horizontal axes.
var Up = mgl64.Vec3{0, 1, 0}

// Body is a point mass with a position and a per-tick velocity.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// Integrate advances the body by one tick: position moves by the current
// velocity, then gravity is subtracted from the vertical velocity.
func (b *Body) Integrate(gravity float64) {
	b.Position = b.Position.Add(b.Velocity)
	if gravity != 0 {
		b.Velocity = b.Velocity.Sub(Up.Mul(gravity))
	}
}

// Spin is an orientation as Euler angles plus a per-tick angular velocity.
type Spin struct {
	Rotation        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// Integrate advances the rotation by one tick and keeps every angle in [-π, π].
func (s *Spin) Integrate() {
	r := s.Rotation.Add(s.AngularVelocity)
	for i := range r {
		r[i] = NormalizeAngle(r[i])
	}
	s.Rotation = r
}

// NormalizeAngle wraps a radian angle into [-π, π].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Sign returns -1 for negative values and 1 otherwise.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
