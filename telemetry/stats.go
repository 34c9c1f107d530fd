package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	WildCount      int `csv:"wild"`
	CapturingCount int `csv:"capturing"`
	InventoryCount int `csv:"inventory"`
	SentOutCount   int `csv:"sent_out"`

	// Events during window
	Throws   int     `csv:"throws"`
	Hits     int     `csv:"hits"`
	Bounces  int     `csv:"bounces"`
	Expired  int     `csv:"expired"`
	Captures int     `csv:"captures"`
	Escapes  int     `csv:"escapes"`
	HitRate  float64 `csv:"hit_rate"`
	CapRate  float64 `csv:"capture_rate"`

	// Flight time distribution (throw to lock or expiry)
	FlightMean float64 `csv:"flight_mean"`
	FlightStd  float64 `csv:"flight_std"`
	FlightP50  float64 `csv:"flight_p50"`
	FlightP90  float64 `csv:"flight_p90"`
}

// ComputeFlightStats summarizes capsule flight times.
func ComputeFlightStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("wild", s.WildCount),
		slog.Int("capturing", s.CapturingCount),
		slog.Int("inventory", s.InventoryCount),
		slog.Int("sent_out", s.SentOutCount),
		slog.Int("throws", s.Throws),
		slog.Int("hits", s.Hits),
		slog.Int("bounces", s.Bounces),
		slog.Int("expired", s.Expired),
		slog.Int("captures", s.Captures),
		slog.Int("escapes", s.Escapes),
		slog.Float64("hit_rate", s.HitRate),
		slog.Float64("capture_rate", s.CapRate),
		slog.Float64("flight_mean", s.FlightMean),
		slog.Float64("flight_p50", s.FlightP50),
		slog.Float64("flight_p90", s.FlightP90),
	)
}
