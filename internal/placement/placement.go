// Package placement resolves a dropped block against the block below it.
//
// Resolution is pure: given the moving block, the reference block, the
// active axis, the current tolerance and combo it returns the outcome and
// the resulting geometry. Side effects (debris, score, events) belong to the
// caller.
package placement

import (
	"math"

	"github.com/tomz197/stackup/internal/difficulty"
	"github.com/tomz197/stackup/internal/object"
)

// Outcome classifies a placement.
type Outcome int

const (
	OutcomeNone    Outcome = iota // Nothing was placed
	OutcomePerfect                // Aligned within tolerance, no trim
	OutcomePlaced                 // Trimmed to the overlap
	OutcomeMiss                   // No overlap, the game ends
)

func (o Outcome) String() string {
	switch o {
	case OutcomePerfect:
		return "perfect"
	case OutcomePlaced:
		return "placed"
	case OutcomeMiss:
		return "miss"
	default:
		return "none"
	}
}

// Success reports whether the block stays on the tower.
func (o Outcome) Success() bool {
	return o == OutcomePerfect || o == OutcomePlaced
}

// Input is everything a placement depends on.
type Input struct {
	Moving    object.Block
	Reference object.Block
	Axis      object.Axis
	Tolerance float64
	Combo     int
	Model     difficulty.Model
	MinSliver float64 // Cut-offs not larger than this on both axes are dropped
}

// Result describes the outcome and resulting geometry.
type Result struct {
	Outcome Outcome
	Delta   float64 // Signed offset along the axis; 0 for a perfect placement
	Overlap float64
	Combo   int  // Combo after this placement
	Grow    bool // The next spawned block should grow

	Placed object.Block  // Trimmed block, valid on success
	Cut    *object.Block // Trimmed-off remainder, if large enough to fall
}

// Resolve computes the placement of in.Moving on in.Reference.
func Resolve(in Input) Result {
	axis := in.Axis
	delta := in.Moving.Coord(axis) - in.Reference.Coord(axis)

	var res Result
	if math.Abs(delta) < in.Tolerance {
		res.Outcome = OutcomePerfect
		res.Combo = in.Combo + 1
		res.Grow = in.Model.ShouldGrow(res.Combo)
		res.Overlap = in.Moving.Extent(axis)

		placed := in.Moving
		placed.SetCoord(axis, in.Reference.Coord(axis))
		res.Placed = placed
		return res
	}

	res.Delta = delta
	res.Combo = 0
	res.Overlap = in.Reference.Extent(axis) - math.Abs(delta)
	if res.Overlap <= 0 {
		res.Outcome = OutcomeMiss
		return res
	}
	res.Outcome = OutcomePlaced

	placed := in.Moving
	placed.SetExtent(axis, res.Overlap)
	placed.SetCoord(axis, in.Moving.Coord(axis)-delta/2)
	res.Placed = placed

	cutSize := in.Moving.Extent(axis) - res.Overlap
	if cutSize > in.MinSliver && in.Moving.Extent(axis.Other()) > in.MinSliver {
		cut := in.Moving
		cut.SetExtent(axis, cutSize)
		offset := res.Overlap/2 + cutSize/2
		cut.SetCoord(axis, placed.Coord(axis)+math.Copysign(offset, delta))
		res.Cut = &cut
	}
	return res
}
