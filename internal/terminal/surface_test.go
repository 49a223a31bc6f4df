package terminal

import (
	"image/color"
	"testing"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-field/internal/particle"
	"github.com/iburimskiy/particle-field/internal/render"
)

func TestResizeSurface(t *testing.T) {
	s := NewCellSurface(8, 16)
	w, h := s.UnitsFor(80, 24)
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 384.0, h)

	s.ResizeSurface(w, h)
	cols, rows := s.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)
	assert.Equal(t, ' ', s.Cell(79, 23).Ch)
}

func TestFillCircle(t *testing.T) {
	s := NewCellSurface(8, 16)
	s.ResizeSurface(80, 80) // 10 x 5 cells

	blue := particle.HSL{H: 230, S: 0.7, L: 0.6}.RGBA()
	s.FillCircle(20, 40, 1.5, blue, 0.3)
	s.FillCircle(79, 79, 2.5, particle.HSL{H: 200, S: 0.7, L: 0.6}.RGBA(), 0.6)
	s.FillCircle(-3, 10, 2, blue, 1) // off-surface, ignored

	c := s.Cell(2, 2)
	assert.Equal(t, smallDot, c.Ch)
	assert.Equal(t, termbox.ColorBlue, c.Fg)

	c = s.Cell(9, 4)
	assert.Equal(t, largeDot, c.Ch)
	assert.Equal(t, termbox.ColorCyan|termbox.AttrBold, c.Fg)
}

func TestDrawLineSkipsParticles(t *testing.T) {
	s := NewCellSurface(1, 1)
	s.ResizeSurface(10, 3)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	s.FillCircle(0.5, 1.5, 1, white, 1)
	s.FillCircle(9.5, 1.5, 1, white, 1)
	s.DrawLine(0.5, 1.5, 9.5, 1.5, white, 0.05, 1)

	assert.Equal(t, smallDot, s.Cell(0, 1).Ch)
	assert.Equal(t, smallDot, s.Cell(9, 1).Ch)
	for col := 1; col < 9; col++ {
		assert.Equal(t, linkDot, s.Cell(col, 1).Ch, "col %d", col)
	}
	assert.Equal(t, ' ', s.Cell(4, 0).Ch)

	s.Clear()
	s.DrawLine(0.5, 0.5, 9.5, 0.5, white, 0, 1)
	assert.Equal(t, ' ', s.Cell(4, 0).Ch, "zero-alpha links are not drawn")
}

func TestRendererOnCells(t *testing.T) {
	s := NewCellSurface(8, 16)
	s.ResizeSurface(800, 480)
	f := particle.Field{
		{X: 100, Y: 100, Size: 2, Opacity: 0.5, Color: particle.HSL{H: 210, S: 0.7, L: 0.6}},
		{X: 160, Y: 100, Size: 1, Opacity: 0.5, Color: particle.HSL{H: 210, S: 0.7, L: 0.6}},
	}
	stats := render.NewRenderer(render.DefaultOptions()).Render(s, f)
	require.Equal(t, 1, stats.Links)

	assert.Equal(t, largeDot, s.Cell(12, 6).Ch)
	assert.Equal(t, smallDot, s.Cell(20, 6).Ch)
	assert.Equal(t, linkDot, s.Cell(16, 6).Ch)
}

func TestCellColor(t *testing.T) {
	assert.Equal(t, termbox.ColorCyan, cellColor(particle.HSL{H: 200, S: 0.7, L: 0.6}.RGBA()))
	assert.Equal(t, termbox.ColorBlue, cellColor(particle.HSL{H: 230, S: 0.7, L: 0.6}.RGBA()))
	assert.Equal(t, termbox.ColorMagenta, cellColor(particle.HSL{H: 259, S: 0.7, L: 0.6}.RGBA()))
}
