package particle

import (
	"math/rand"
)

// Source is the random number source used to seed particles.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Params controls the attributes given to freshly seeded particles.
type Params struct {
	MaxSpeed   float64 // velocity components are uniform in [-MaxSpeed, MaxSpeed]
	MinSize    float64
	MaxSize    float64
	MinOpacity float64
	MaxOpacity float64
	HueMin     float64
	HueMax     float64
	Saturation float64
	Lightness  float64
}

// DefaultParams returns the attribute ranges of the page background effect.
func DefaultParams() Params {
	return Params{
		MaxSpeed:   0.25,
		MinSize:    1,
		MaxSize:    3,
		MinOpacity: 0.2,
		MaxOpacity: 0.7,
		HueMin:     200,
		HueMax:     260,
		Saturation: 0.7,
		Lightness:  0.6,
	}
}

func between(rng Source, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// NewParticle draws one particle with a position uniform inside b.
func NewParticle(rng Source, p Params, b Bounds) Particle {
	return Particle{
		X:       rng.Float64() * b.Width,
		Y:       rng.Float64() * b.Height,
		VX:      between(rng, -p.MaxSpeed, p.MaxSpeed),
		VY:      between(rng, -p.MaxSpeed, p.MaxSpeed),
		Size:    between(rng, p.MinSize, p.MaxSize),
		Opacity: between(rng, p.MinOpacity, p.MaxOpacity),
		Color: HSL{
			H: between(rng, p.HueMin, p.HueMax),
			S: p.Saturation,
			L: p.Lightness,
		},
	}
}

// Reseed builds a brand new field of count particles inside b.
// A negative count yields an empty field.
func Reseed(rng Source, p Params, count int, b Bounds) Field {
	if count < 0 {
		count = 0
	}
	f := make(Field, count)
	for i := range f {
		f[i] = NewParticle(rng, p, b)
	}
	return f
}

// Step advances every particle by its velocity and reflects the velocity
// components of particles that left b. Positions are not clamped, so a
// particle may sit outside b by at most one step until the next call.
func Step(f Field, b Bounds) {
	for i := range f {
		p := &f[i]

		p.X += p.VX
		p.Y += p.VY

		if p.X < 0 || p.X > b.Width {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > b.Height {
			p.VY = -p.VY
		}
	}
}

// Simulator owns a field and re-creates it on demand.
type Simulator struct {
	rng    Source
	params Params
	field  Field
}

// NewSimulator creates a simulator with an empty field.
func NewSimulator(rng Source, params Params) *Simulator {
	return &Simulator{
		rng:    rng,
		params: params,
	}
}

// SetParams replaces the attribute ranges used by the next Reseed.
func (s *Simulator) SetParams(p Params) {
	s.params = p
}

// Params returns the attribute ranges used by Reseed.
func (s *Simulator) Params() Params {
	return s.params
}

// Reseed discards the current field and replaces it with count new particles.
func (s *Simulator) Reseed(count int, b Bounds) Field {
	s.field = Reseed(s.rng, s.params, count, b)
	return s.field
}

// Step advances the held field by one tick.
func (s *Simulator) Step(b Bounds) {
	Step(s.field, b)
}

// Field returns the current field. Callers must not keep it across a Reseed.
func (s *Simulator) Field() Field {
	return s.field
}
