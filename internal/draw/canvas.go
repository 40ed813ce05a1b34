// Package draw renders colored pixels to a terminal using half-block
// characters. Each terminal cell holds two vertically stacked pixels: the
// upper one is the foreground of '▀', the lower one its background.
package draw

import (
	"io"
	"math"
	"slices"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Point is a 2D coordinate in logical canvas space.
type Point struct {
	X, Y float64
}

// BlockUpperHalf is the only glyph the canvas emits.
const BlockUpperHalf = '▀'

// Canvas is a truecolor pixel buffer with 2x vertical resolution. Drawing
// uses logical coordinates that are scaled to the terminal size.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int              // termHeight * 2
	pixels         []colorful.Color // Flat slice: [y * termWidth + x]

	logicalWidth  float64
	logicalHeight float64 // In sub-pixels
	scaleX        float64
	scaleY        float64

	// 0-based terminal offset of the render area, for centering.
	offsetCol int
	offsetRow int

	// Reusable buffers
	scaledBuf       []Point
	intersectionBuf []float64
	numBuf          [20]byte
}

// NewScaledCanvas creates a canvas that maps logicalWidth x logicalHeight
// onto termWidth columns and termHeight rows.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]colorful.Color, c.subPixelHeight*termWidth)
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row where the canvas starts.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }
func (c *Canvas) OffsetRow() int { return c.offsetRow }

func (c *Canvas) TerminalWidth() int  { return c.termWidth }
func (c *Canvas) TerminalHeight() int { return c.termHeight }

func (c *Canvas) LogicalWidth() float64  { return c.logicalWidth }
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// Fill paints every pixel with a vertical gradient from top to bottom.
func (c *Canvas) Fill(top, bottom colorful.Color) {
	for y := 0; y < c.subPixelHeight; y++ {
		t := 0.0
		if c.subPixelHeight > 1 {
			t = float64(y) / float64(c.subPixelHeight-1)
		}
		col := top.BlendLab(bottom, t).Clamped()
		row := c.pixels[y*c.termWidth : (y+1)*c.termWidth]
		for x := range row {
			row[x] = col
		}
	}
}

// At returns the pixel at terminal pixel coordinates.
func (c *Canvas) At(px, py int) colorful.Color {
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.subPixelHeight {
		return colorful.Color{}
	}
	return c.pixels[py*c.termWidth+px]
}

func (c *Canvas) setPixel(x, y int, col colorful.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// SetFloat sets the pixel at logical coordinates.
func (c *Canvas) SetFloat(x, y float64, col colorful.Color) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), col)
}

// Blend mixes col into the pixel at logical coordinates by alpha in [0, 1].
func (c *Canvas) Blend(x, y float64, col colorful.Color, alpha float64) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.subPixelHeight {
		return
	}
	i := py*c.termWidth + px
	c.pixels[i] = c.pixels[i].BlendRgb(col, math.Max(0, math.Min(1, alpha)))
}

// DrawLine draws a line between logical points using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col colorful.Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillPolygon fills a polygon given in logical coordinates using a
// scanline pass in pixel space.
func (c *Canvas) FillPolygon(points []Point, col colorful.Color) {
	if len(points) < 3 {
		return
	}
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		minY = math.Min(minY, scaled[i].Y)
		maxY = math.Max(maxY, scaled[i].Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5
		xs := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = xs
		slices.Sort(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			xStart := max(int(math.Ceil(xs[i]-0.5)), 0)
			xEnd := min(int(math.Floor(xs[i+1]-0.5)), c.termWidth-1)
			for x := xStart; x <= xEnd; x++ {
				c.pixels[y*c.termWidth+x] = col
			}
		}
	}
}

// Render writes every cell of the canvas to w. Color escapes are only
// emitted when a color changes along a row.
func (c *Canvas) Render(w io.Writer) error {
	buf := make([]byte, 0, c.termWidth*c.termHeight*8)
	for row := 0; row < c.termHeight; row++ {
		buf = c.appendCursor(buf, c.offsetCol+1, c.offsetRow+row+1)
		var fg, bg [3]uint8
		first := true
		for col := 0; col < c.termWidth; col++ {
			top := rgb(c.pixels[(row*2)*c.termWidth+col])
			bottom := rgb(c.pixels[(row*2+1)*c.termWidth+col])
			if first || top != fg {
				buf = c.appendColor(buf, 38, top)
				fg = top
			}
			if first || bottom != bg {
				buf = c.appendColor(buf, 48, bottom)
				bg = bottom
			}
			first = false
			buf = append(buf, string(BlockUpperHalf)...)
		}
		buf = append(buf, ColorReset...)
	}
	_, err := w.Write(buf)
	return err
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// column and row relative to the canvas.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

func (c *Canvas) appendCursor(buf []byte, col, row int) []byte {
	buf = append(buf, "\033["...)
	buf = append(buf, strconv.AppendInt(c.numBuf[:0], int64(row), 10)...)
	buf = append(buf, ';')
	buf = append(buf, strconv.AppendInt(c.numBuf[:0], int64(col), 10)...)
	return append(buf, 'H')
}

// appendColor appends an SGR truecolor sequence; layer is 38 (fg) or 48 (bg).
func (c *Canvas) appendColor(buf []byte, layer int, v [3]uint8) []byte {
	buf = append(buf, "\033["...)
	buf = append(buf, strconv.AppendInt(c.numBuf[:0], int64(layer), 10)...)
	buf = append(buf, ";2"...)
	for _, ch := range v {
		buf = append(buf, ';')
		buf = append(buf, strconv.AppendInt(c.numBuf[:0], int64(ch), 10)...)
	}
	return append(buf, 'm')
}

func rgb(c colorful.Color) [3]uint8 {
	r, g, b := c.Clamped().RGB255()
	return [3]uint8{r, g, b}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
