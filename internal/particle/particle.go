// Package particle holds the decorative particle field: the particle records,
// the random seeding of a field and the per-frame physics step.
package particle

import (
	"image/color"
	"math"
)

// Bounds is the size of the drawing surface the field lives on.
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether (x, y) lies inside [0, Width] x [0, Height].
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// HSL is a hue/saturation/lightness color (hue: 0-360, saturation: 0-1, lightness: 0-1).
type HSL struct {
	H, S, L float64
}

// RGBA converts the color to an opaque color.RGBA.
func (c HSL) RGBA() color.RGBA {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	chroma := (1 - math.Abs(2*c.L-1)) * c.S
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := c.L - chroma/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

// Particle is one simulated point. Size, Opacity and Color never change after
// creation; only the position moves and the velocity flips sign on reflection.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Opacity float64
	Color   HSL
}

// Field is the ordered set of particles drawn each frame.
type Field []Particle

// Len returns the number of particles in the field.
func (f Field) Len() int {
	return len(f)
}
