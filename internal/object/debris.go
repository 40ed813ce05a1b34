package object

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/stackup/internal/physics"
)

// Debris is a block fragment falling away from the tower.
type Debris struct {
	Block
	physics.Spin
	Velocity mgl64.Vec3
}

// NewDebris detaches a block with the given linear and angular velocity.
func NewDebris(b Block, velocity, angular mgl64.Vec3) Debris {
	return Debris{
		Block:    b,
		Spin:     physics.Spin{AngularVelocity: angular},
		Velocity: velocity,
	}
}

// Update moves, spins and drops the fragment. It is removed once it falls
// below the world floor.
func (d *Debris) Update(ctx UpdateContext) bool {
	body := physics.Body{Position: d.Position, Velocity: d.Velocity}
	body.Integrate(ctx.Gravity)
	d.Position = body.Position
	d.Velocity = body.Velocity
	d.Spin.Integrate()
	return d.Position.Y() < ctx.Floor
}
