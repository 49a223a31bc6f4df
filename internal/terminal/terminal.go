// Package terminal renders the particle field into a terminal with termbox.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nsf/termbox-go"

	"github.com/iburimskiy/particle-field/internal/driver"
	"github.com/iburimskiy/particle-field/internal/particle"
)

// Terminal runs a driver against the terminal until the user quits.
type Terminal struct {
	surface  *CellSurface
	interval time.Duration
	logger   *slog.Logger
}

// New creates a terminal backend drawing one frame per interval.
func New(cellW, cellH float64, interval time.Duration, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminal{
		surface:  NewCellSurface(cellW, cellH),
		interval: interval,
		logger:   logger,
	}
}

// Run takes over the terminal and drives d until ctx is done or the user
// presses Esc, q or Ctrl-C.
func (t *Terminal) Run(ctx context.Context, d *driver.Driver) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resizes := make(chan particle.Bounds, 1)
	polled := make(chan struct{})
	go t.pollEvents(ctx, cancel, termbox.PollEvent, resizes, polled)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	w, h := t.surface.UnitsFor(termbox.Size())
	err := d.Run(ctx, t.surface, particle.Bounds{Width: w, Height: h}, ticker.C, resizes)

	stopPolling(cancel, termbox.Interrupt, polled)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// stopPolling shuts the event poller down. The context is cancelled first so
// a poller stuck handing over a resize gets back to poll, where the
// interrupt reaches it.
func stopPolling(cancel context.CancelFunc, interrupt func(), polled <-chan struct{}) {
	cancel()
	interrupt()
	<-polled
}

// pollEvents forwards resizes and turns quit keys into cancellation. It only
// returns on an interrupt event, so Run can always interrupt and wait for it.
func (t *Terminal) pollEvents(ctx context.Context, cancel context.CancelFunc, poll func() termbox.Event, resizes chan<- particle.Bounds, done chan<- struct{}) {
	defer close(done)

	for {
		switch ev := poll(); ev.Type {
		case termbox.EventKey:
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				cancel()
			}
		case termbox.EventResize:
			w, h := t.surface.UnitsFor(ev.Width, ev.Height)
			t.logger.Debug("terminal resized", "cols", ev.Width, "rows", ev.Height)
			select {
			case resizes <- particle.Bounds{Width: w, Height: h}:
			case <-ctx.Done():
			}
		case termbox.EventError:
			t.logger.Error("terminal event error", "error", ev.Err)
			cancel()
		case termbox.EventInterrupt:
			return
		}
	}
}
