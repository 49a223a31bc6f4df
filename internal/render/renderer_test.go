package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-field/internal/particle"
)

func pair(distance float64) particle.Field {
	return particle.Field{
		{X: 100, Y: 100, Size: 2, Opacity: 0.5, Color: particle.HSL{H: 220, S: 0.7, L: 0.6}},
		{X: 100 + distance, Y: 100, Size: 1, Opacity: 0.3, Color: particle.HSL{H: 240, S: 0.7, L: 0.6}},
	}
}

func TestLinkAlpha(t *testing.T) {
	cases := []struct {
		d, want float64
	}{
		{0, 0.1},
		{50, 0.05},
		{75, 0.025},
		{100, 0},
		{250, 0},
		{-10, 0.1},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, LinkAlpha(tc.d, 100, 0.1), 1e-12, "distance %v", tc.d)
	}
	assert.Zero(t, LinkAlpha(10, 0, 0.1))
}

func TestRenderLinkAtHalfDistance(t *testing.T) {
	r := NewRenderer(DefaultOptions())
	rec := &Recorder{}
	stats := r.Render(rec, pair(50))

	assert.Equal(t, Stats{Particles: 2, Links: 1}, stats)
	require.Equal(t, 1, rec.Count(OpLine))
	line := rec.Calls[len(rec.Calls)-1]
	assert.Equal(t, OpLine, line.Op)
	assert.InDelta(t, 0.05, line.Alpha, 1e-12)
	assert.Equal(t, 1.0, line.Width)
	assert.Equal(t, DefaultOptions().LinkColor, line.Color)
	assert.Equal(t, 100.0, line.X1)
	assert.Equal(t, 150.0, line.X2)
}

func TestRenderLinkThreshold(t *testing.T) {
	r := NewRenderer(DefaultOptions())

	rec := &Recorder{}
	r.Render(rec, pair(100))
	assert.Zero(t, rec.Count(OpLine), "no link at exactly the threshold")

	r.Render(rec, pair(140))
	assert.Zero(t, rec.Count(OpLine))

	r.Render(rec, pair(0))
	require.Equal(t, 1, rec.Count(OpLine))
	assert.InDelta(t, 0.1, rec.Calls[len(rec.Calls)-1].Alpha, 1e-12)
}

func TestRenderCallOrder(t *testing.T) {
	r := NewRenderer(DefaultOptions())
	rec := &Recorder{}
	f := pair(30)
	r.Render(rec, f)

	require.Len(t, rec.Calls, 4)
	assert.Equal(t, OpClear, rec.Calls[0].Op)
	assert.Equal(t, OpCircle, rec.Calls[1].Op)
	assert.Equal(t, OpCircle, rec.Calls[2].Op)
	assert.Equal(t, OpLine, rec.Calls[3].Op)

	c := rec.Calls[1]
	assert.Equal(t, f[0].X, c.X1)
	assert.Equal(t, f[0].Size, c.Radius)
	assert.Equal(t, f[0].Opacity, c.Alpha)
	assert.Equal(t, f[0].Color.RGBA(), c.Color)
}

func TestRenderIsIdempotent(t *testing.T) {
	f := particle.Reseed(particle.NewSource(11), particle.DefaultParams(), 50, particle.Bounds{Width: 400, Height: 300})
	before := make(particle.Field, len(f))
	copy(before, f)

	r := NewRenderer(DefaultOptions())
	rec := &Recorder{}
	r.Render(rec, f)
	first := rec.Snapshot()
	r.Render(rec, f)
	second := rec.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, before, f, "render must not mutate the field")
}

func TestGridMatchesBruteForce(t *testing.T) {
	f := particle.Reseed(particle.NewSource(5), particle.DefaultParams(), 300, particle.Bounds{Width: 800, Height: 600})
	// Push a few particles outside the bounds; the grid must still find them.
	f[0].X, f[0].Y = -40, -40
	f[1].X, f[1].Y = -10, -60

	brute := NewRenderer(DefaultOptions())
	opts := DefaultOptions()
	opts.GridThreshold = 10
	gridded := NewRenderer(opts)

	a, b := &Recorder{}, &Recorder{}
	sa := brute.Render(a, f)
	sb := gridded.Render(b, f)

	assert.Equal(t, sa, sb)
	assert.Equal(t, a.Calls, b.Calls)
	assert.Positive(t, sa.Links)
}

func TestLinksOrdered(t *testing.T) {
	f := particle.Reseed(particle.NewSource(9), particle.DefaultParams(), 80, particle.Bounds{Width: 300, Height: 300})
	opts := DefaultOptions()
	opts.GridThreshold = 1
	links := NewRenderer(opts).Links(f)
	for k := 1; k < len(links); k++ {
		prev, cur := links[k-1], links[k]
		assert.True(t, prev.I < cur.I || (prev.I == cur.I && prev.J < cur.J), "links out of order at %d", k)
	}
	for _, l := range links {
		assert.Less(t, l.I, l.J)
	}
}

func TestRenderEmptyField(t *testing.T) {
	rec := &Recorder{}
	stats := NewRenderer(DefaultOptions()).Render(rec, nil)
	assert.Equal(t, Stats{}, stats)
	assert.Equal(t, []Call{{Op: OpClear}}, rec.Calls)
}
