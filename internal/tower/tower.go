// Package tower holds the stack of placed blocks and the geometry of the
// block that oscillates above it.
package tower

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/object"
)

// Tower is an append-only stack of blocks. Index 0 is the base.
type Tower struct {
	blocks        []object.Block
	blockHeight   float64
	spawnDistance float64
	paletteCycle  int
}

// New creates an empty tower using the geometry in t.
func New(t config.Tuning) *Tower {
	return &Tower{
		blockHeight:   t.BlockHeight,
		spawnDistance: t.SpawnDistance,
		paletteCycle:  t.PaletteCycle,
	}
}

// Base returns the block every game starts on: centered at the origin with
// the maximum extents.
func Base(t config.Tuning) object.Block {
	return object.Block{
		Width:  t.MaxSize,
		Depth:  t.MaxSize,
		Height: t.BlockHeight,
		Color:  object.LayerColor(0, t.PaletteCycle),
	}
}

// Reset drops every block and starts over from base.
func (tw *Tower) Reset(base object.Block) {
	clear(tw.blocks)
	tw.blocks = append(tw.blocks[:0], base)
}

// Clear drops every block.
func (tw *Tower) Clear() {
	clear(tw.blocks)
	tw.blocks = tw.blocks[:0]
}

// Push places b on top.
func (tw *Tower) Push(b object.Block) {
	tw.blocks = append(tw.blocks, b)
}

// Len returns the number of blocks, base included.
func (tw *Tower) Len() int {
	return len(tw.blocks)
}

// Top returns the highest block.
func (tw *Tower) Top() (object.Block, bool) {
	if len(tw.blocks) == 0 {
		return object.Block{}, false
	}
	return tw.blocks[len(tw.blocks)-1], true
}

// Blocks returns a copy of the stack, base first.
func (tw *Tower) Blocks() []object.Block {
	out := make([]object.Block, len(tw.blocks))
	copy(out, tw.blocks)
	return out
}

// Spawn returns the next block to oscillate along axis with the given
// extents. It sits one layer above the top, aligned with the top on the
// other axis and a spawn distance behind it on axis.
func (tw *Tower) Spawn(axis object.Axis, width, depth float64) (object.Block, bool) {
	top, ok := tw.Top()
	if !ok {
		return object.Block{}, false
	}
	layer := len(tw.blocks)
	b := object.Block{
		Position: top.Position.Add(mgl64.Vec3{0, tw.blockHeight, 0}),
		Width:    width,
		Depth:    depth,
		Height:   tw.blockHeight,
		Layer:    layer,
		Color:    object.LayerColor(layer, tw.paletteCycle),
	}
	b.SetCoord(axis, top.Coord(axis)-tw.spawnDistance)
	return b, true
}

// Oscillate advances moving by speed in direction along axis and returns
// the direction for the next tick. The block turns around once it passes
// the spawn distance on either side of the top block.
func (tw *Tower) Oscillate(moving *object.Block, axis object.Axis, direction, speed float64) float64 {
	top, ok := tw.Top()
	if !ok || moving == nil {
		return direction
	}
	center := top.Coord(axis)
	pos := moving.Coord(axis) + direction*speed
	if offset := pos - center; math.Abs(offset) > tw.spawnDistance {
		pos = center + math.Copysign(tw.spawnDistance, offset)
		direction = -direction
	}
	moving.SetCoord(axis, pos)
	return direction
}
