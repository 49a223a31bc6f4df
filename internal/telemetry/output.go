package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/iburimskiy/particle-field/internal/config"
)

// Output writes frame records as CSV into a directory.
type Output struct {
	dir           string
	framesFile    *os.File
	headerWritten bool
}

// NewOutput creates the output directory and frames.csv.
// Returns nil if dir is empty (output disabled).
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	return &Output{dir: dir, framesFile: f}, nil
}

// WriteConfig saves the run configuration as YAML next to the CSV.
func (o *Output) WriteConfig(cfg *config.Config) error {
	if o == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(o.dir, "config.yaml"))
}

// WriteFrames appends records to frames.csv.
func (o *Output) WriteFrames(records []FrameRecord) error {
	if o == nil || len(records) == 0 {
		return nil
	}

	if !o.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, o.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, o.framesFile); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// Close closes frames.csv.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	return o.framesFile.Close()
}
