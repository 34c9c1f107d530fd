package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/wilds/config"
)

// PerfRecord is one row of perf.csv.
type PerfRecord struct {
	Tick           int32   `csv:"tick"`
	AvgTickUs      float64 `csv:"avg_tick_us"`
	MaxTickUs      float64 `csv:"max_tick_us"`
	TicksPerSecond float64 `csv:"tps"`
	WanderUs       float64 `csv:"wander_us"`
	PhysicsUs      float64 `csv:"physics_us"`
	CaptureUs      float64 `csv:"capture_us"`
	PromoteUs      float64 `csv:"promote_us"`
}

// NewPerfRecord flattens PerfStats into a CSV row.
func NewPerfRecord(tick int32, s PerfStats) PerfRecord {
	us := func(d time.Duration) float64 { return float64(d) / float64(time.Microsecond) }
	return PerfRecord{
		Tick:           tick,
		AvgTickUs:      us(s.AvgTickDuration),
		MaxTickUs:      us(s.MaxTickDuration),
		TicksPerSecond: s.TicksPerSecond,
		WanderUs:       us(s.PhaseAvg[PhaseWander]),
		PhysicsUs:      us(s.PhaseAvg[PhasePhysics]),
		CaptureUs:      us(s.PhaseAvg[PhaseCapture]),
		PromoteUs:      us(s.PhaseAvg[PhasePromote]),
	}
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File

	telemetryHeaderWritten bool
	perfHeaderWritten      bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.telemetryHeaderWritten {
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a perf record to perf.csv.
func (om *OutputManager) WritePerf(rec PerfRecord) error {
	if om == nil {
		return nil
	}

	records := []PerfRecord{rec}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() {
	if om == nil {
		return
	}
	if om.telemetryFile != nil {
		om.telemetryFile.Close()
	}
	if om.perfFile != nil {
		om.perfFile.Close()
	}
}
