package components

// CaptureState is the creature-side capture state machine.
type CaptureState uint8

const (
	StateIdle CaptureState = iota
	StateWalking
	StateCapturing
	StateCaptured
	StateCaptureFailed
)

// String returns the state name for logs and telemetry.
func (s CaptureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalking:
		return "walking"
	case StateCapturing:
		return "capturing"
	case StateCaptured:
		return "captured"
	case StateCaptureFailed:
		return "capture_failed"
	default:
		return "unknown"
	}
}

// Wandering reports whether the creature accepts wander movement this state.
func (s CaptureState) Wandering() bool {
	return s == StateIdle || s == StateWalking
}

// Creature bundles identity and capture state. The ID is stable and unique
// across the wild population and the inventory; a sent-out inventory copy
// reuses the ID of its inventory record so recall can find it.
type Creature struct {
	ID           int32
	SpeciesID    uint8
	State        CaptureState
	Visible      bool
	CaptureTimer float32 // seconds since capture began
	WanderTimer  float32 // seconds until next heading re-pick
}
