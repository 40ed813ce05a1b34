package loop

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/stackup/internal/draw"
	"github.com/tomz197/stackup/internal/engine"
	"github.com/tomz197/stackup/internal/object"
)

// Isometric camera. The pitch is atan(1/sqrt(2)), which makes the three
// visible faces of a cube equally foreshortened.
const (
	isoYaw   = math.Pi / 4
	isoPitch = 0.6154797086703873
)

// Lighting.
const (
	ambient = 0.45
)

var (
	lightDir  = mgl64.Vec3{-0.45, 1, 0.7}.Normalize()
	skyTop    = colorful.Color{R: 0.05, G: 0.06, B: 0.13}
	skyBottom = colorful.Color{R: 0.21, G: 0.17, B: 0.30}
	shadow    = colorful.Color{}
)

// Projection maps world coordinates to logical canvas coordinates.
type Projection struct {
	view   mgl64.Mat4
	scale  float64
	center draw.Point
}

// NewProjection creates an isometric projection for a width x height
// logical canvas. scale is logical units per world unit; the camera focus
// sits at focusY (a fraction of height).
func NewProjection(width, height, scale, focusY float64) Projection {
	return Projection{
		view:   mgl64.HomogRotate3DX(isoPitch).Mul4(mgl64.HomogRotate3DY(isoYaw)),
		scale:  scale,
		center: draw.Point{X: width / 2, Y: height * focusY},
	}
}

// Project returns the canvas position of v with the camera at height
// camera, and its depth. Larger depth is closer to the viewer.
func (p Projection) Project(v mgl64.Vec3, camera float64) (draw.Point, float64) {
	r := p.view.Mul4x1(v.Sub(mgl64.Vec3{0, camera, 0}).Vec4(1))
	return draw.Point{
		X: p.center.X + r.X()*p.scale,
		Y: p.center.Y - r.Y()*p.scale,
	}, r.Z()
}

// Facing reports whether a face with world normal n is turned toward the
// viewer.
func (p Projection) Facing(n mgl64.Vec3) bool {
	return p.view.Mul4x1(n.Vec4(0)).Z() > 1e-9
}

// Scale returns the number of logical units per world unit.
func (p Projection) Scale() float64 { return p.scale }

// Corner indices of a box. Bit 0 is +X, bit 1 is +Y, bit 2 is +Z.
var boxFaces = [6]struct {
	normal  mgl64.Vec3
	corners [4]int
}{
	{mgl64.Vec3{1, 0, 0}, [4]int{1, 3, 7, 5}},
	{mgl64.Vec3{-1, 0, 0}, [4]int{0, 4, 6, 2}},
	{mgl64.Vec3{0, 1, 0}, [4]int{2, 6, 7, 3}},
	{mgl64.Vec3{0, -1, 0}, [4]int{0, 1, 5, 4}},
	{mgl64.Vec3{0, 0, 1}, [4]int{4, 5, 7, 6}},
	{mgl64.Vec3{0, 0, -1}, [4]int{0, 2, 3, 1}},
}

// box is a block prepared for drawing.
type box struct {
	block    object.Block
	rotation mgl64.Quat
	depth    float64
	outline  bool
}

// Renderer draws snapshots onto a canvas.
type Renderer struct {
	proj      Projection
	boxes     []box
	corners   [8]mgl64.Vec3
	polygon   []draw.Point
	cullBelow float64 // World units under the camera that are never visible
}

// NewRenderer creates a renderer using proj.
func NewRenderer(proj Projection, viewHeight float64) *Renderer {
	return &Renderer{
		proj:      proj,
		polygon:   make([]draw.Point, 4),
		cullBelow: viewHeight/proj.Scale() + 2,
	}
}

// Draw paints the sky, every box back to front and the particles.
func (r *Renderer) Draw(c *draw.Canvas, s engine.Snapshot) {
	c.Fill(skyTop, skyBottom)

	r.boxes = r.boxes[:0]
	for _, b := range s.Tower {
		r.addBox(b, mgl64.QuatIdent(), false, s.Camera)
	}
	for _, d := range s.Debris {
		rot := mgl64.AnglesToQuat(d.Rotation.X(), d.Rotation.Y(), d.Rotation.Z(), mgl64.XYZ)
		r.addBox(d.Block, rot, false, s.Camera)
	}
	if s.Moving != nil {
		r.addBox(*s.Moving, mgl64.QuatIdent(), true, s.Camera)
	}
	slices.SortStableFunc(r.boxes, func(a, b box) int {
		switch {
		case a.depth < b.depth:
			return -1
		case a.depth > b.depth:
			return 1
		}
		return 0
	})
	for i := range r.boxes {
		r.drawBox(c, &r.boxes[i], s.Camera)
	}

	for _, p := range s.Particles {
		pt, _ := r.proj.Project(p.Position, s.Camera)
		c.Blend(pt.X, pt.Y, p.Color, p.Opacity())
	}
}

func (r *Renderer) addBox(b object.Block, rot mgl64.Quat, outline bool, camera float64) {
	if b.Top() < camera-r.cullBelow {
		return
	}
	_, depth := r.proj.Project(b.Position, camera)
	r.boxes = append(r.boxes, box{block: b, rotation: rot, depth: depth, outline: outline})
}

func (r *Renderer) drawBox(c *draw.Canvas, bx *box, camera float64) {
	b := bx.block
	half := mgl64.Vec3{b.Width / 2, b.Height / 2, b.Depth / 2}
	for i := range r.corners {
		offset := mgl64.Vec3{-half.X(), -half.Y(), -half.Z()}
		if i&1 != 0 {
			offset[0] = half.X()
		}
		if i&2 != 0 {
			offset[1] = half.Y()
		}
		if i&4 != 0 {
			offset[2] = half.Z()
		}
		r.corners[i] = b.Position.Add(bx.rotation.Rotate(offset))
	}

	for _, f := range boxFaces {
		normal := bx.rotation.Rotate(f.normal)
		if !r.proj.Facing(normal) {
			continue
		}
		for j, idx := range f.corners {
			r.polygon[j], _ = r.proj.Project(r.corners[idx], camera)
		}
		c.FillPolygon(r.polygon, Shade(b.Color, normal))
		if bx.outline {
			edge := b.Color.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.5).Clamped()
			for j := range r.polygon {
				c.DrawLine(r.polygon[j], r.polygon[(j+1)%len(r.polygon)], edge)
			}
		}
	}
}

// Shade darkens base for a face with the given normal using Lambert
// lighting over an ambient floor.
func Shade(base colorful.Color, normal mgl64.Vec3) colorful.Color {
	light := ambient + (1-ambient)*math.Max(0, normal.Normalize().Dot(lightDir))
	return base.BlendLab(shadow, 1-light).Clamped()
}
