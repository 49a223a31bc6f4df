package particle

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReseedAttributes(t *testing.T) {
	b := Bounds{Width: 800, Height: 600}
	p := DefaultParams()
	f := Reseed(NewSource(1), p, 50, b)

	require.Len(t, f, 50)
	for i, pt := range f {
		assert.True(t, b.Contains(pt.X, pt.Y), "particle %d at (%f, %f) outside bounds", i, pt.X, pt.Y)
		assert.GreaterOrEqual(t, pt.Size, 1.0)
		assert.LessOrEqual(t, pt.Size, 3.0)
		assert.GreaterOrEqual(t, pt.Opacity, 0.2)
		assert.LessOrEqual(t, pt.Opacity, 0.7)
		assert.GreaterOrEqual(t, pt.Color.H, 200.0)
		assert.Less(t, pt.Color.H, 260.0)
		assert.LessOrEqual(t, pt.VX, 0.25)
		assert.GreaterOrEqual(t, pt.VX, -0.25)
		assert.LessOrEqual(t, pt.VY, 0.25)
		assert.GreaterOrEqual(t, pt.VY, -0.25)
	}
}

func TestReseedDeterministic(t *testing.T) {
	b := Bounds{Width: 320, Height: 200}
	a := Reseed(NewSource(42), DefaultParams(), 20, b)
	c := Reseed(NewSource(42), DefaultParams(), 20, b)
	assert.Equal(t, a, c)
}

func TestReseedDegenerateCounts(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	assert.Empty(t, Reseed(NewSource(1), DefaultParams(), 0, b))
	assert.Empty(t, Reseed(NewSource(1), DefaultParams(), -3, b))
}

func TestStepMovesByVelocity(t *testing.T) {
	b := Bounds{Width: 800, Height: 600}
	f := Field{
		{X: 10, Y: 20, VX: 0.1, VY: -0.2},
		{X: 400, Y: 300, VX: -0.25, VY: 0.25},
	}
	Step(f, b)

	assert.InDelta(t, 10.1, f[0].X, 1e-9)
	assert.InDelta(t, 19.8, f[0].Y, 1e-9)
	assert.InDelta(t, 399.75, f[1].X, 1e-9)
	assert.InDelta(t, 300.25, f[1].Y, 1e-9)
	assert.Equal(t, 0.1, f[0].VX)
	assert.Equal(t, -0.2, f[0].VY)
}

func TestStepReflects(t *testing.T) {
	b := Bounds{Width: 800, Height: 600}
	f := Field{
		{X: 799.9, Y: 300, VX: 0.2, VY: 0},
		{X: 0.1, Y: 300, VX: -0.2, VY: 0},
		{X: 400, Y: 599.95, VX: 0, VY: 0.1},
		{X: 400, Y: 0.05, VX: 0, VY: -0.1},
	}
	Step(f, b)

	assert.InDelta(t, 800.1, f[0].X, 1e-9, "position overshoots rather than clamping")
	assert.Equal(t, -0.2, f[0].VX)
	assert.Equal(t, 0.2, f[1].VX)
	assert.Equal(t, -0.1, f[2].VY)
	assert.Equal(t, 0.1, f[3].VY)

	// The next step brings the particle back inside.
	Step(f, b)
	for i, p := range f {
		assert.True(t, b.Contains(p.X, p.Y), "particle %d not corrected: (%f, %f)", i, p.X, p.Y)
	}
}

func TestStepContainment(t *testing.T) {
	cases := []Bounds{
		{Width: 800, Height: 600},
		{Width: 10, Height: 10},
		{Width: 37, Height: 512},
	}
	for _, b := range cases {
		p := DefaultParams()
		f := Reseed(NewSource(7), p, 50, b)
		for n := 0; n < 5000; n++ {
			Step(f, b)
			for _, pt := range f {
				require.GreaterOrEqual(t, pt.X, -p.MaxSpeed)
				require.LessOrEqual(t, pt.X, b.Width+p.MaxSpeed)
				require.GreaterOrEqual(t, pt.Y, -p.MaxSpeed)
				require.LessOrEqual(t, pt.Y, b.Height+p.MaxSpeed)
			}
		}
	}
}

func TestStepDegenerateBounds(t *testing.T) {
	f := Field{{X: 0, Y: 0, VX: 0.1, VY: 0.1}}
	assert.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			Step(f, Bounds{})
		}
	})
}

func TestSimulatorReseedReplacesField(t *testing.T) {
	sim := NewSimulator(NewSource(3), DefaultParams())
	assert.Empty(t, sim.Field())

	old := sim.Reseed(50, Bounds{Width: 800, Height: 600})
	require.Len(t, old, 50)

	next := sim.Reseed(50, Bounds{Width: 400, Height: 300})
	require.Len(t, next, 50)
	assert.NotSame(t, &old[0], &next[0])
	for _, p := range sim.Field() {
		assert.True(t, Bounds{Width: 400, Height: 300}.Contains(p.X, p.Y))
	}
}

func TestHSLToRGBA(t *testing.T) {
	cases := []struct {
		in   HSL
		want color.RGBA
	}{
		{HSL{H: 0, S: 1, L: 0.5}, color.RGBA{R: 255, A: 255}},
		{HSL{H: 120, S: 1, L: 0.5}, color.RGBA{G: 255, A: 255}},
		{HSL{H: 210, S: 0.7, L: 0.6}, color.RGBA{R: 82, G: 153, B: 224, A: 255}},
		{HSL{H: 0, S: 0, L: 1}, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.RGBA(), "%+v", tc.in)
	}
}
