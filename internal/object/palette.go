package object

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// paletteStops are the hues a tower walks through, in order. The last stop
// blends back into the first.
var paletteStops = []colorful.Color{
	mustHex("#e8615a"),
	mustHex("#f2a541"),
	mustHex("#f6d55c"),
	mustHex("#5bc0a0"),
	mustHex("#3c9ed8"),
	mustHex("#8a6fd1"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// LayerColor returns the color of the block at layer. The palette completes
// one loop through every stop each cycle layers, so equal layers modulo
// cycle share a color.
func LayerColor(layer, cycle int) colorful.Color {
	if cycle <= 0 {
		cycle = 1
	}
	layer %= cycle
	if layer < 0 {
		layer += cycle
	}

	pos := float64(layer) / float64(cycle) * float64(len(paletteStops))
	i := int(pos)
	t := pos - float64(i)
	from := paletteStops[i%len(paletteStops)]
	to := paletteStops[(i+1)%len(paletteStops)]
	return from.BlendHcl(to, t).Clamped()
}
