package object

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Block is an axis-aligned box. Position is its center.
type Block struct {
	Position mgl64.Vec3
	Width    float64 // Extent along X
	Depth    float64 // Extent along Z
	Height   float64
	Layer    int
	Color    colorful.Color
}

// Extent returns the block size along axis.
func (b Block) Extent(axis Axis) float64 {
	if axis == AxisX {
		return b.Width
	}
	return b.Depth
}

// SetExtent sets the block size along axis.
func (b *Block) SetExtent(axis Axis, v float64) {
	if axis == AxisX {
		b.Width = v
	} else {
		b.Depth = v
	}
}

// Coord returns the block center coordinate along axis.
func (b Block) Coord(axis Axis) float64 {
	return b.Position[axis.Index()]
}

// SetCoord moves the block center along axis.
func (b *Block) SetCoord(axis Axis, v float64) {
	b.Position[axis.Index()] = v
}

// Top returns the height of the block's upper face.
func (b Block) Top() float64 {
	return b.Position.Y() + b.Height/2
}
