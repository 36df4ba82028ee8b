package led

import (
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit color triplet as handed to the LED writer.
type RGB [3]uint8

// The level gradient runs green → yellow → red. Yellow sits at the
// midpoint, matching the reference controller's status LEDs.
var gradient = []struct {
	pos   float64
	color colorful.Color
}{
	{0.0, colorful.Color{R: 0, G: 1, B: 0}},
	{0.5, colorful.Color{R: 1, G: 1, B: 0}},
	{1.0, colorful.Color{R: 1, G: 0, B: 0}},
}

// LevelColor maps an output level (0-100) to its status color.
// Pure and deterministic: identical input always yields identical color.
func LevelColor(level int) RGB {
	if level <= 0 {
		return RGB{0, 255, 0}
	}
	if level >= 100 {
		return RGB{255, 0, 0}
	}
	norm := float64(level) / 100.0

	// Find the two stops to interpolate between
	for i := 0; i < len(gradient)-1; i++ {
		c0, c1 := gradient[i], gradient[i+1]
		if norm < c0.pos || norm > c1.pos {
			continue
		}
		frac := (norm - c0.pos) / (c1.pos - c0.pos)
		blended := c0.color.BlendRgb(c1.color, frac)
		r, g, b := blended.RGB255()
		return RGB{r, g, b}
	}
	return RGB{255, 0, 0}
}

// Off is the color of an idle channel.
func Off() RGB {
	return RGB{0, 0, 0}
}
