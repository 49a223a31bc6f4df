// Package driver runs the simulate-then-render loop of a particle field and
// re-seeds the field when the viewport changes.
package driver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iburimskiy/particle-field/internal/particle"
	"github.com/iburimskiy/particle-field/internal/render"
)

// State is the lifecycle state of a Driver.
type State int

const (
	Uninitialized State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// ErrAlreadyRunning is returned when a running driver is started again.
var ErrAlreadyRunning = errors.New("driver: already running")

// Scheduler runs a callback before the next repaint. The callback is run
// once; it must request again to keep the loop going.
type Scheduler interface {
	RequestNextFrame(cb func())
}

// FrameInfo describes a completed frame.
type FrameInfo struct {
	Tick     uint64
	Bounds   particle.Bounds
	Stats    render.Stats
	Duration time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithFrameHook registers fn to be called after every frame.
func WithFrameHook(fn func(FrameInfo)) Option {
	return func(d *Driver) {
		d.onFrame = fn
	}
}

// Driver owns the simulator, the renderer and the surface they draw on.
// It is not safe for concurrent use; every method must be called from the
// goroutine that delivers frames.
type Driver struct {
	sim      *particle.Simulator
	renderer *render.Renderer
	surface  render.Surface
	count    int
	bounds   particle.Bounds
	state    State
	tick     uint64
	onFrame  func(FrameInfo)
	logger   *slog.Logger
}

// New creates an uninitialized driver that keeps count particles alive.
func New(sim *particle.Simulator, renderer *render.Renderer, count int, opts ...Option) *Driver {
	d := &Driver{
		sim:      sim,
		renderer: renderer,
		count:    count,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the driver's lifecycle state.
func (d *Driver) State() State { return d.state }

// Tick returns the number of frames run so far.
func (d *Driver) Tick() uint64 { return d.tick }

// Bounds returns the current surface bounds.
func (d *Driver) Bounds() particle.Bounds { return d.bounds }

// Count returns the configured particle count.
func (d *Driver) Count() int { return d.count }

// Field returns the field the next frame will draw.
func (d *Driver) Field() particle.Field { return d.sim.Field() }

// Renderer returns the renderer used for frames.
func (d *Driver) Renderer() *render.Renderer { return d.renderer }

// Simulator returns the simulator owning the field.
func (d *Driver) Simulator() *particle.Simulator { return d.sim }

func (d *Driver) init(s render.Surface, b particle.Bounds) error {
	if d.state == Running {
		return ErrAlreadyRunning
	}
	d.surface = s
	d.bounds = b
	d.resizeSurface()
	d.sim.Reseed(d.count, b)
	d.state = Running

	d.logger.Info("particle field started",
		"count", d.count,
		"width", b.Width,
		"height", b.Height,
	)
	return nil
}

// Start seeds the field and hands the first frame to sched. Each frame
// requests the next one, so the loop lasts as long as sched keeps running
// callbacks.
func (d *Driver) Start(s render.Surface, b particle.Bounds, sched Scheduler) error {
	if err := d.init(s, b); err != nil {
		return err
	}

	var loop func()
	loop = func() {
		d.Frame()
		sched.RequestNextFrame(loop)
	}
	sched.RequestNextFrame(loop)
	return nil
}

// Run runs one frame per value received on ticks, applying resizes between
// frames. An uninitialized driver is started on s first; a running one moves
// its frames onto s and keeps its field unless b differs from the current
// bounds. It returns ctx.Err() once ctx is done.
func (d *Driver) Run(ctx context.Context, s render.Surface, b particle.Bounds, ticks <-chan time.Time, resizes <-chan particle.Bounds) error {
	if d.state == Running {
		d.adopt(s, b)
	} else if err := d.init(s, b); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case nb := <-resizes:
			d.Resize(nb)
		case <-ticks:
			d.Frame()
		}
	}
}

// Frame steps the field once and renders it onto the surface.
// It does nothing before the driver is started.
func (d *Driver) Frame() render.Stats {
	if d.state != Running {
		return render.Stats{}
	}

	start := time.Now()
	d.sim.Step(d.bounds)
	stats := d.renderer.Render(d.surface, d.sim.Field())
	if p, ok := d.surface.(render.Presenter); ok {
		p.Present()
	}
	d.tick++

	if d.onFrame != nil {
		d.onFrame(FrameInfo{
			Tick:     d.tick,
			Bounds:   d.bounds,
			Stats:    stats,
			Duration: time.Since(start),
		})
	}
	return stats
}

// Resize records the new bounds and replaces the field with a fresh one of
// the same size. Before Start it only records the bounds.
func (d *Driver) Resize(b particle.Bounds) {
	d.bounds = b
	if d.state != Running {
		return
	}
	d.resizeSurface()
	d.sim.Reseed(d.count, b)
	d.logger.Debug("particle field reseeded", "width", b.Width, "height", b.Height, "count", d.count)
}

// adopt switches a running driver to draw on s.
func (d *Driver) adopt(s render.Surface, b particle.Bounds) {
	d.surface = s
	if b != d.bounds {
		d.Resize(b)
		return
	}
	d.resizeSurface()
}

func (d *Driver) resizeSurface() {
	if r, ok := d.surface.(render.Resizer); ok {
		r.ResizeSurface(d.bounds.Width, d.bounds.Height)
	}
}

// SetCount changes the particle count and re-seeds the field.
func (d *Driver) SetCount(n int) {
	d.count = n
	d.Resize(d.bounds)
}
