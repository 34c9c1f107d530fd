package components

// CapsulePhase tags which variant of the capsule state is live. A capsule is
// either flying under physics or locked onto a creature running the shake
// animation; the two never overlap.
type CapsulePhase uint8

const (
	CapsuleFlying CapsulePhase = iota
	CapsuleLocked
)

// NoTarget marks a capsule that has not begun a capture attempt.
const NoTarget int32 = -1

// Capsule is the thrown capture device. Life and the flight fields matter
// only while Flying; the lock timer, shake fields and base position only
// while Locked. WillCapture is sampled once, at the moment of the hit.
type Capsule struct {
	Phase CapsulePhase
	Life  float32 // remaining flight time before expiry
	Age   float32 // seconds since the throw

	LockTimer  float32 // seconds since lock began
	ShakePhase float32 // current shake progress, 0..1
	ShakeCount uint8   // completed shake cycles

	// Position the capsule locked at; the shake oscillates around it and
	// resolution matches the capturing creature by proximity to it.
	BaseX, BaseY, BaseZ float32

	TargetID    int32 // creature id this capsule attempted, NoTarget until a hit
	WillCapture bool  // outcome decided at hit time, revealed after the shakes
}

// Flying reports whether the capsule is still under physics integration.
func (c *Capsule) Flying() bool {
	return c.Phase == CapsuleFlying
}

// Locked reports whether the capsule has locked onto a creature.
func (c *Capsule) Locked() bool {
	return c.Phase == CapsuleLocked
}
