package telemetry

import (
	"log/slog"

	"github.com/iburimskiy/particle-field/internal/driver"
)

// Sink collects frames from a driver, logs a summary per window and
// appends the window to the CSV output when one is configured.
type Sink struct {
	collector *Collector
	out       *Output
	logger    *slog.Logger
}

// NewSink creates a sink. out may be nil.
func NewSink(window int, out *Output, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		collector: NewCollector(window),
		out:       out,
		logger:    logger,
	}
}

// Observe is a driver frame hook.
func (s *Sink) Observe(fi driver.FrameInfo) {
	if !s.collector.Add(RecordFrom(fi)) {
		return
	}
	s.flush()
}

func (s *Sink) flush() {
	if s.collector.Len() == 0 {
		return
	}
	if err := s.out.WriteFrames(s.collector.Records()); err != nil {
		s.logger.Error("failed to write frame telemetry", "error", err)
	}
	s.logger.Info("frame window", "summary", s.collector.Flush())
}

// Close flushes any partial window and closes the output.
func (s *Sink) Close() error {
	s.flush()
	return s.out.Close()
}
