package object

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/stackup/internal/physics"
)

// Particle is a short-lived spark. Life starts at 1 and decays to 0.
type Particle struct {
	physics.Body
	Life  float64
	Color colorful.Color
}

// Update drifts the particle and decays its life. It is removed once its
// life is used up.
func (p *Particle) Update(ctx UpdateContext) bool {
	p.Integrate(0)
	p.Life -= ctx.ParticleDecay
	return p.Life <= 0
}

// Opacity is the particle's visibility in [0, 1].
func (p Particle) Opacity() float64 {
	return math.Max(0, math.Min(1, p.Life))
}

// Burst creates count particles spread around the top rim of block, flying
// outward and slightly upward.
func Burst(rng *rand.Rand, block Block, count int, speed float64) []Particle {
	if count <= 0 {
		return nil
	}
	particles := make([]Particle, 0, count)
	top := block.Top()
	for i := 0; i < count; i++ {
		// Random direction around the rim
		angle := rng.Float64() * 2 * math.Pi
		dir := mgl64.Vec3{math.Cos(angle), 0, math.Sin(angle)}

		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())

		pos := mgl64.Vec3{
			block.Position.X() + dir.X()*block.Width/2,
			top,
			block.Position.Z() + dir.Z()*block.Depth/2,
		}
		vel := dir.Mul(spd).Add(physics.Up.Mul(spd * 0.5 * rng.Float64()))

		particles = append(particles, Particle{
			Body:  physics.Body{Position: pos, Velocity: vel},
			Life:  1,
			Color: block.Color,
		})
	}
	return particles
}
