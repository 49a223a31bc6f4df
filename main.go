package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/content"
	"github.com/iburimskiy/particle-field/internal/driver"
	"github.com/iburimskiy/particle-field/internal/game"
	"github.com/iburimskiy/particle-field/internal/particle"
	"github.com/iburimskiy/particle-field/internal/render"
	"github.com/iburimskiy/particle-field/internal/stream"
	"github.com/iburimskiy/particle-field/internal/telemetry"
	"github.com/iburimskiy/particle-field/internal/terminal"
	"github.com/iburimskiy/particle-field/internal/theme"
)

const (
	backendWindow   = "window"
	backendTerminal = "terminal"
	backendHeadless = "headless"
)

// ErrUnsupportedBackend is returned for an unknown -backend value.
var ErrUnsupportedBackend = errors.New("unsupported backend")

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backend := flag.String("backend", backendWindow, "Backend: window, terminal or headless")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	streamAddr := flag.String("stream", "", "Serve snapshots on this address, e.g. :8080")
	outputDir := flag.String("output-dir", "", "Output directory for CSV frame logs and config snapshot")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Field.Seed = *seed
	}
	if *streamAddr != "" {
		cfg.Stream.Addr = *streamAddr
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}

	logger, logFile, err := newLogger(*backend, cfg.Terminal.LogFile, *debug)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, *backend, cfg, *maxFrames)
	stop()
	if err != nil {
		slog.Error("particle field stopped", "error", err)
		if *backend == backendWindow {
			_ = zenity.Error(err.Error(), zenity.Title("Particle Field"))
		}
	}
	// os.Exit skips deferred calls, so the log file is closed by hand.
	if cerr := logFile.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "closing log file:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the JSON logger. The terminal backend owns stdout, so it
// logs to logPath instead; the returned closer releases that file.
func newLogger(backend, logPath string, debug bool) (*slog.Logger, io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if backend == backendTerminal {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})), closer, nil
}

func run(ctx context.Context, backend string, cfg *config.Config, maxFrames int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rngSeed := cfg.Field.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	out, err := telemetry.NewOutput(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}
	sink := telemetry.NewSink(cfg.Telemetry.Window, out, slog.Default())
	defer func() {
		if err := sink.Close(); err != nil {
			slog.Error("failed to close telemetry", "error", err)
		}
	}()

	var hub *stream.Hub
	if cfg.Stream.Addr != "" {
		hub = stream.NewHub(cfg.Stream.ClientBuffer, slog.Default())
		go func() {
			if err := stream.Serve(ctx, cfg.Stream.Addr, hub); err != nil {
				slog.Error("snapshot stream failed", "error", err)
			}
		}()
	}

	sim := particle.NewSimulator(particle.NewSource(rngSeed), cfg.Params())
	var d *driver.Driver
	d = driver.New(sim, render.NewRenderer(cfg.RenderOptions()), cfg.Field.Count,
		driver.WithFrameHook(func(fi driver.FrameInfo) {
			sink.Observe(fi)
			if hub != nil {
				hub.Publish(stream.NewSnapshot(fi.Tick, fi.Bounds, d.Field()))
			}
			if maxFrames > 0 && fi.Tick >= uint64(maxFrames) {
				slog.Info("max frames reached", "tick", fi.Tick)
				cancel()
			}
		}),
	)

	slog.Info("starting particle field",
		"backend", backend,
		"seed", rngSeed,
		"count", cfg.Field.Count,
		"max_frames", maxFrames,
	)

	switch backend {
	case backendWindow:
		return runWindow(ctx, d, cfg)
	case backendTerminal:
		t := terminal.New(cfg.Terminal.CellWidth, cfg.Terminal.CellHeight, cfg.FrameInterval(), slog.Default())
		return t.Run(ctx, d)
	case backendHeadless:
		return runHeadless(ctx, d, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}
}

func runWindow(ctx context.Context, d *driver.Driver, cfg *config.Config) error {
	themes, err := theme.NewController(theme.Category(cfg.Theme.Default))
	if err != nil {
		return err
	}

	var client *content.Client
	if cfg.Content.BaseURL != "" {
		client, err = content.NewClient(cfg.Content.BaseURL, cfg.Content.Timeout, cfg.Content.CarouselSize, slog.Default())
		if err != nil {
			return err
		}
	}

	g := game.New(ctx, d, themes, client, slog.Default())
	return game.Run(g, cfg.Window, cfg.Loop.FPS)
}

// runHeadless drives the field into a recorder at the configured frame rate.
func runHeadless(ctx context.Context, d *driver.Driver, cfg *config.Config) error {
	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()

	b := particle.Bounds{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	err := d.Run(ctx, &render.Recorder{}, b, ticker.C, nil)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
