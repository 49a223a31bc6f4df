package render

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/iburimskiy/particle-field/internal/particle"
)

// Options configures how links between particles are drawn.
type Options struct {
	LinkDistance float64    // pairs closer than this are linked
	LinkMaxAlpha float64    // alpha of a link between coincident particles
	LinkColor    color.RGBA // stroke color of links
	LineWidth    float64
	// GridThreshold switches pair search to a uniform grid once the field
	// holds more particles than this. Zero keeps the brute-force search.
	GridThreshold int
}

// DefaultOptions returns the link style of the page background effect.
func DefaultOptions() Options {
	return Options{
		LinkDistance: 100,
		LinkMaxAlpha: 0.1,
		LinkColor:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		LineWidth:    1,
	}
}

// Stats summarizes one rendered frame.
type Stats struct {
	Particles int
	Links     int
}

// Link is a pair of particle indices (I < J) close enough to be connected.
type Link struct {
	I, J     int
	Distance float64
}

// Renderer draws particles and their proximity links.
type Renderer struct {
	opts Options
	grid *grid
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the renderer's options.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
	r.grid = nil
}

// LinkAlpha returns the stroke alpha for two particles at distance d.
// It falls linearly from maxAlpha at d == 0 to zero at the threshold.
func LinkAlpha(d, threshold, maxAlpha float64) float64 {
	if threshold <= 0 {
		return 0
	}
	a := maxAlpha * (1 - d/threshold)
	return math.Max(0, math.Min(maxAlpha, a))
}

// Render clears s and draws f onto it. It never mutates f.
func (r *Renderer) Render(s Surface, f particle.Field) Stats {
	s.Clear()

	for _, p := range f {
		s.FillCircle(p.X, p.Y, p.Size, p.Color.RGBA(), p.Opacity)
	}

	links := r.Links(f)
	for _, l := range links {
		a, b := f[l.I], f[l.J]
		alpha := LinkAlpha(l.Distance, r.opts.LinkDistance, r.opts.LinkMaxAlpha)
		s.DrawLine(a.X, a.Y, b.X, b.Y, r.opts.LinkColor, alpha, r.opts.LineWidth)
	}

	return Stats{Particles: len(f), Links: len(links)}
}

// Links returns every pair of particles closer than the link distance,
// ordered by (I, J).
func (r *Renderer) Links(f particle.Field) []Link {
	if r.opts.GridThreshold > 0 && len(f) > r.opts.GridThreshold {
		return r.gridLinks(f)
	}
	return bruteForceLinks(f, r.opts.LinkDistance)
}

func bruteForceLinks(f particle.Field, threshold float64) []Link {
	var links []Link
	for i := range f {
		for j := i + 1; j < len(f); j++ {
			if d, ok := within(f[i], f[j], threshold); ok {
				links = append(links, Link{I: i, J: j, Distance: d})
			}
		}
	}
	return links
}

func (r *Renderer) gridLinks(f particle.Field) []Link {
	if r.grid == nil {
		r.grid = newGrid(r.opts.LinkDistance)
	}
	links := r.grid.pairs(f, r.opts.LinkDistance)
	slices.SortFunc(links, func(a, b Link) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})
	return links
}

func within(a, b particle.Particle, threshold float64) (float64, bool) {
	dx := a.X - b.X
	dy := a.Y - b.Y
	d := math.Sqrt(dx*dx + dy*dy)
	return d, d < threshold
}
