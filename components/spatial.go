package components

import "github.com/go-gl/mathgl/mgl32"

// Position represents an entity's world position.
type Position struct {
	X, Y, Z float32
}

// Vec returns the position as a vector.
func (p *Position) Vec() mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// SetVec assigns the position from a vector.
func (p *Position) SetVec(v mgl32.Vec3) {
	p.X, p.Y, p.Z = v[0], v[1], v[2]
}

// Velocity represents an entity's velocity.
type Velocity struct {
	X, Y, Z float32
}

// Vec returns the velocity as a vector.
func (v *Velocity) Vec() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// SetVec assigns the velocity from a vector.
func (v *Velocity) SetVec(w mgl32.Vec3) {
	v.X, v.Y, v.Z = w[0], w[1], w[2]
}

// Heading represents an entity's facing direction about the Y axis.
type Heading struct {
	Yaw float32 // radians
}
