package tower

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/object"
)

func newTower(t *testing.T) (*Tower, config.Tuning) {
	t.Helper()
	tuning := config.DefaultTuning()
	tw := New(tuning)
	tw.Reset(Base(tuning))
	return tw, tuning
}

func TestResetKeepsOnlyBase(t *testing.T) {
	tw, tuning := newTower(t)
	tw.Push(object.Block{Layer: 1})
	tw.Push(object.Block{Layer: 2})

	tw.Reset(Base(tuning))
	if tw.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tw.Len())
	}
	top, _ := tw.Top()
	if top.Width != tuning.MaxSize || top.Depth != tuning.MaxSize {
		t.Errorf("base extents = %vx%v, want %v", top.Width, top.Depth, tuning.MaxSize)
	}
	if top.Position != (mgl64.Vec3{}) {
		t.Errorf("base position = %v, want origin", top.Position)
	}
}

func TestClear(t *testing.T) {
	tw, _ := newTower(t)
	tw.Clear()
	if tw.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tw.Len())
	}
	if _, ok := tw.Top(); ok {
		t.Error("Top() ok on empty tower")
	}
	if _, ok := tw.Spawn(object.AxisX, 1, 1); ok {
		t.Error("Spawn() ok on empty tower")
	}
}

func TestSpawnGeometry(t *testing.T) {
	tw, tuning := newTower(t)
	top := object.Block{Position: mgl64.Vec3{0.5, 1, -0.25}, Width: 2, Depth: 2.5, Height: 1, Layer: 1}
	tw.Push(top)

	tests := []struct {
		axis object.Axis
		want mgl64.Vec3
	}{
		{object.AxisX, mgl64.Vec3{0.5 - tuning.SpawnDistance, 2, -0.25}},
		{object.AxisZ, mgl64.Vec3{0.5, 2, -0.25 - tuning.SpawnDistance}},
	}
	for _, tt := range tests {
		b, ok := tw.Spawn(tt.axis, 2, 2.5)
		if !ok {
			t.Fatalf("Spawn(%v) failed", tt.axis)
		}
		if !b.Position.ApproxEqual(tt.want) {
			t.Errorf("Spawn(%v) position = %v, want %v", tt.axis, b.Position, tt.want)
		}
		if b.Layer != 2 {
			t.Errorf("Spawn(%v) layer = %d, want 2", tt.axis, b.Layer)
		}
		if b.Color != object.LayerColor(2, tuning.PaletteCycle) {
			t.Errorf("Spawn(%v) color not taken from the palette", tt.axis)
		}
	}
}

func TestBlocksIsACopy(t *testing.T) {
	tw, _ := newTower(t)
	bs := tw.Blocks()
	bs[0].Width = 99
	if top, _ := tw.Top(); top.Width == 99 {
		t.Error("Blocks() exposed internal storage")
	}
}

func TestOscillateTurnsAround(t *testing.T) {
	tw, tuning := newTower(t)
	moving, _ := tw.Spawn(object.AxisX, 3, 3)

	dir := 1.0
	speed := 0.5
	turns := 0
	for i := 0; i < 200; i++ {
		next := tw.Oscillate(&moving, object.AxisX, dir, speed)
		if next != dir {
			turns++
		}
		dir = next
		if x := moving.Position.X(); math.Abs(x) > tuning.SpawnDistance+1e-9 {
			t.Fatalf("tick %d: x = %v beyond range %v", i, x, tuning.SpawnDistance)
		}
	}
	if turns < 2 {
		t.Errorf("direction flipped %d times, want at least 2", turns)
	}
	if moving.Position.Z() != 0 {
		t.Errorf("z drifted to %v", moving.Position.Z())
	}
}

func TestOscillateNil(t *testing.T) {
	tw, _ := newTower(t)
	if got := tw.Oscillate(nil, object.AxisX, -1, 1); got != -1 {
		t.Errorf("Oscillate(nil) = %v, want direction unchanged", got)
	}
}
