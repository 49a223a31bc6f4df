package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Canvas is an offscreen ebiten image the driver renders frames into. Frames
// run during Update, so they cannot draw on the screen directly; Draw blits
// the canvas instead.
type Canvas struct {
	img *ebiten.Image
}

// NewCanvas creates a canvas. Its image is allocated on the first
// ResizeSurface.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Image returns the backing image, or nil before the first resize.
func (c *Canvas) Image() *ebiten.Image {
	return c.img
}

// ResizeSurface reallocates the backing image when the size changes.
func (c *Canvas) ResizeSurface(width, height float64) {
	w := max(int(math.Ceil(width)), 1)
	h := max(int(math.Ceil(height)), 1)
	if c.img != nil {
		b := c.img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
		c.img.Deallocate()
	}
	c.img = ebiten.NewImage(w, h)
}

func (c *Canvas) Clear() {
	if c.img == nil {
		return
	}
	c.img.Clear()
}

func (c *Canvas) FillCircle(x, y, radius float64, clr color.RGBA, alpha float64) {
	if c.img == nil {
		return
	}
	vector.DrawFilledCircle(c.img, float32(x), float32(y), float32(radius), withAlpha(clr, alpha), true)
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, clr color.RGBA, alpha, width float64) {
	if c.img == nil || alpha <= 0 {
		return
	}
	vector.StrokeLine(c.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), withAlpha(clr, alpha), true)
}

// withAlpha applies a [0,1] alpha to an opaque color.
func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(alpha) * 255))}
}
