package placement

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/stackup/internal/difficulty"
	"github.com/tomz197/stackup/internal/object"
)

var model = difficulty.Model{
	InitialTolerance: 0.3,
	FinalTolerance:   0.08,
	Ramp:             40,
	ComboThreshold:   3,
	GrowthStep:       0.15,
	MaxSize:          3,
}

func block(x, z float64) object.Block {
	return object.Block{Position: mgl64.Vec3{x, 1, z}, Width: 3, Depth: 3, Height: 1}
}

func input(movingX float64, combo int) Input {
	return Input{
		Moving:    block(movingX, 0),
		Reference: object.Block{Position: mgl64.Vec3{0, 0, 0}, Width: 3, Depth: 3, Height: 1},
		Axis:      object.AxisX,
		Tolerance: 0.3,
		Combo:     combo,
		Model:     model,
		MinSliver: 0.05,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		x       float64
		want    Outcome
		overlap float64
	}{
		{"aligned", 0, OutcomePerfect, 3},
		{"within tolerance", 0.29, OutcomePerfect, 3},
		{"negative within tolerance", -0.2, OutcomePerfect, 3},
		{"at tolerance", 0.3, OutcomePlaced, 2.7},
		{"half off", 1.5, OutcomePlaced, 1.5},
		{"half off negative", -1.5, OutcomePlaced, 1.5},
		{"exact width", 3, OutcomeMiss, 0},
		{"exact width negative", -3, OutcomeMiss, 0},
		{"beyond width", 4, OutcomeMiss, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(input(tt.x, 0))
			if res.Outcome != tt.want {
				t.Errorf("Outcome = %v, want %v", res.Outcome, tt.want)
			}
			if !approx(res.Overlap, tt.overlap) {
				t.Errorf("Overlap = %v, want %v", res.Overlap, tt.overlap)
			}
		})
	}
}

func TestResolvePerfect(t *testing.T) {
	res := Resolve(input(0.1, 1))

	if res.Delta != 0 {
		t.Errorf("Delta = %v, want snapped to 0", res.Delta)
	}
	if res.Combo != 2 {
		t.Errorf("Combo = %d, want 2", res.Combo)
	}
	if res.Grow {
		t.Error("Grow = true below the combo threshold")
	}
	if res.Placed.Position.X() != 0 {
		t.Errorf("placed x = %v, want snapped to reference 0", res.Placed.Position.X())
	}
	if res.Placed.Width != 3 || res.Placed.Depth != 3 {
		t.Errorf("placed extents = %vx%v, want untrimmed 3x3", res.Placed.Width, res.Placed.Depth)
	}
	if res.Cut != nil {
		t.Errorf("Cut = %+v, want nil", res.Cut)
	}
}

func TestResolvePerfectRequestsGrowth(t *testing.T) {
	res := Resolve(input(0, 2))
	if res.Combo != 3 || !res.Grow {
		t.Errorf("combo %d grow %v, want 3 true", res.Combo, res.Grow)
	}
	// Growth applies to the next spawn, never the block being placed.
	if res.Placed.Width != 3 {
		t.Errorf("placed width = %v, want 3", res.Placed.Width)
	}
}

func TestResolvePlacedTrims(t *testing.T) {
	res := Resolve(input(1, 4))

	if res.Combo != 0 {
		t.Errorf("Combo = %d, want reset to 0", res.Combo)
	}
	if res.Grow {
		t.Error("Grow = true for a trimmed placement")
	}
	if res.Delta != 1 {
		t.Errorf("Delta = %v, want 1", res.Delta)
	}

	// Moving spans [-0.5, 2.5], reference [-1.5, 1.5]: kept [-0.5, 1.5].
	if !approx(res.Placed.Width, 2) || res.Placed.Depth != 3 {
		t.Errorf("placed extents = %vx%v, want 2x3", res.Placed.Width, res.Placed.Depth)
	}
	if !approx(res.Placed.Position.X(), 0.5) {
		t.Errorf("placed x = %v, want 0.5", res.Placed.Position.X())
	}
	if res.Placed.Position.Y() != 1 || res.Placed.Position.Z() != 0 {
		t.Errorf("placed moved off axis: %v", res.Placed.Position)
	}

	// Cut spans [1.5, 2.5].
	if res.Cut == nil {
		t.Fatal("Cut = nil, want remainder")
	}
	if !approx(res.Cut.Width, 1) || res.Cut.Depth != 3 {
		t.Errorf("cut extents = %vx%v, want 1x3", res.Cut.Width, res.Cut.Depth)
	}
	if !approx(res.Cut.Position.X(), 2) {
		t.Errorf("cut x = %v, want 2", res.Cut.Position.X())
	}
}

func TestResolvePlacedNegativeSide(t *testing.T) {
	res := Resolve(input(-1, 0))

	if !approx(res.Placed.Position.X(), -0.5) {
		t.Errorf("placed x = %v, want -0.5", res.Placed.Position.X())
	}
	if res.Cut == nil || !approx(res.Cut.Position.X(), -2) {
		t.Errorf("cut = %+v, want centered at x=-2", res.Cut)
	}
}

func TestResolveAlongZ(t *testing.T) {
	in := input(0, 0)
	in.Axis = object.AxisZ
	in.Moving = block(0, 0.5)

	res := Resolve(in)
	if res.Outcome != OutcomePlaced {
		t.Fatalf("Outcome = %v, want placed", res.Outcome)
	}
	if res.Placed.Width != 3 || !approx(res.Placed.Depth, 2.5) {
		t.Errorf("placed extents = %vx%v, want 3x2.5", res.Placed.Width, res.Placed.Depth)
	}
	if !approx(res.Placed.Position.Z(), 0.25) || res.Placed.Position.X() != 0 {
		t.Errorf("placed position = %v, want z=0.25", res.Placed.Position)
	}
}

func TestResolveDropsSlivers(t *testing.T) {
	in := input(0.34, 0)
	in.Tolerance = 0.3
	in.MinSliver = 0.5

	res := Resolve(in)
	if res.Outcome != OutcomePlaced {
		t.Fatalf("Outcome = %v, want placed", res.Outcome)
	}
	if res.Cut != nil {
		t.Errorf("Cut = %+v, want nil for a sliver", res.Cut)
	}

	// A thin block produces no cut either, whatever the offset.
	in = input(1, 0)
	in.Moving.Depth = 0.01
	if res := Resolve(in); res.Cut != nil {
		t.Errorf("Cut = %+v, want nil for a thin block", res.Cut)
	}
}

func TestResolveMiss(t *testing.T) {
	res := Resolve(input(3, 5))
	if res.Outcome != OutcomeMiss {
		t.Fatalf("Outcome = %v, want miss", res.Outcome)
	}
	if res.Outcome.Success() {
		t.Error("miss reported as success")
	}
	if res.Combo != 0 {
		t.Errorf("Combo = %d, want 0", res.Combo)
	}
	if res.Cut != nil {
		t.Error("miss produced a cut")
	}
}
