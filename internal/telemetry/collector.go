// Package telemetry records per-frame statistics of the particle loop.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/particle-field/internal/driver"
)

// FrameRecord is one frame as written to frames.csv.
type FrameRecord struct {
	Tick           uint64  `csv:"tick"`
	Width          float64 `csv:"width"`
	Height         float64 `csv:"height"`
	Particles      int     `csv:"particles"`
	Links          int     `csv:"links"`
	DurationMicros float64 `csv:"duration_us"`
}

// RecordFrom converts a driver frame into a record.
func RecordFrom(fi driver.FrameInfo) FrameRecord {
	return FrameRecord{
		Tick:           fi.Tick,
		Width:          fi.Bounds.Width,
		Height:         fi.Bounds.Height,
		Particles:      fi.Stats.Particles,
		Links:          fi.Stats.Links,
		DurationMicros: float64(fi.Duration.Nanoseconds()) / 1e3,
	}
}

// Summary aggregates a window of frames.
type Summary struct {
	Frames        int
	FirstTick     uint64
	LastTick      uint64
	MeanMicros    float64
	StdDevMicros  float64
	MaxMicros     float64
	MeanLinks     float64
	MeanParticles float64
}

// LogValue lets a Summary be passed straight to slog.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Uint64("first_tick", s.FirstTick),
		slog.Uint64("last_tick", s.LastTick),
		slog.Float64("mean_us", s.MeanMicros),
		slog.Float64("stddev_us", s.StdDevMicros),
		slog.Float64("max_us", s.MaxMicros),
		slog.Float64("mean_links", s.MeanLinks),
		slog.Float64("mean_particles", s.MeanParticles),
	)
}

// Collector buffers frame records until the window is full.
type Collector struct {
	window  int
	records []FrameRecord
}

// NewCollector creates a collector summarizing every window frames.
func NewCollector(window int) *Collector {
	if window <= 0 {
		window = 1
	}
	return &Collector{
		window:  window,
		records: make([]FrameRecord, 0, window),
	}
}

// Add appends a record and reports whether the window is full.
func (c *Collector) Add(r FrameRecord) bool {
	c.records = append(c.records, r)
	return len(c.records) >= c.window
}

// Len returns the number of buffered records.
func (c *Collector) Len() int {
	return len(c.records)
}

// Records returns the buffered records.
func (c *Collector) Records() []FrameRecord {
	return c.records
}

// Flush summarizes and clears the buffered records.
func (c *Collector) Flush() Summary {
	s := Summarize(c.records)
	c.records = c.records[:0]
	return s
}

// Summarize computes a Summary over records.
func Summarize(records []FrameRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	durations := make([]float64, len(records))
	links := make([]float64, len(records))
	particles := make([]float64, len(records))
	for i, r := range records {
		durations[i] = r.DurationMicros
		links[i] = float64(r.Links)
		particles[i] = float64(r.Particles)
	}

	s := Summary{
		Frames:        len(records),
		FirstTick:     records[0].Tick,
		LastTick:      records[len(records)-1].Tick,
		MeanMicros:    stat.Mean(durations, nil),
		MaxMicros:     floats.Max(durations),
		MeanLinks:     stat.Mean(links, nil),
		MeanParticles: stat.Mean(particles, nil),
	}
	if len(durations) > 1 {
		s.StdDevMicros = stat.StdDev(durations, nil)
	}
	return s
}
