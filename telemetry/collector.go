package telemetry

import "math"

// Collector accumulates capture-sandbox events within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	throws   int
	hits     int
	bounces  int
	expired  int
	captures int
	escapes  int

	flightTimes []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordThrow records a capsule throw.
func (c *Collector) RecordThrow() {
	c.throws++
}

// RecordHit records a capture attempt beginning (capsule locked on).
func (c *Collector) RecordHit() {
	c.hits++
}

// RecordBounce records a capsule bounce off an obstacle or the terrain.
func (c *Collector) RecordBounce() {
	c.bounces++
}

// RecordExpiry records a capsule removed without ever hitting a creature.
func (c *Collector) RecordExpiry() {
	c.expired++
}

// RecordCapture records a successful capture resolution.
func (c *Collector) RecordCapture() {
	c.captures++
}

// RecordEscape records a failed capture resolution.
func (c *Collector) RecordEscape() {
	c.escapes++
}

// RecordFlightTime records how long a capsule flew before locking or expiring.
func (c *Collector) RecordFlightTime(seconds float64) {
	c.flightTimes = append(c.flightTimes, seconds)
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush builds the stats for the completed window and starts a new one.
// The population counts are sampled by the caller at window end.
func (c *Collector) Flush(currentTick int32, wild, capturing, inventory, sentOut int) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		WildCount:       wild,
		CapturingCount:  capturing,
		InventoryCount:  inventory,
		SentOutCount:    sentOut,
		Throws:          c.throws,
		Hits:            c.hits,
		Bounces:         c.bounces,
		Expired:         c.expired,
		Captures:        c.captures,
		Escapes:         c.escapes,
	}
	if c.throws > 0 {
		s.HitRate = float64(c.hits) / float64(c.throws)
	}
	if resolved := c.captures + c.escapes; resolved > 0 {
		s.CapRate = float64(c.captures) / float64(resolved)
	}
	s.FlightMean, s.FlightStd, s.FlightP50, s.FlightP90 = ComputeFlightStats(c.flightTimes)

	c.windowStartTick = currentTick
	c.throws = 0
	c.hits = 0
	c.bounces = 0
	c.expired = 0
	c.captures = 0
	c.escapes = 0
	c.flightTimes = c.flightTimes[:0]

	return s
}

// WindowDurationTicks returns the window length in ticks.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
