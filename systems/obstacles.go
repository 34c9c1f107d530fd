package systems

import "github.com/go-gl/mathgl/mgl32"

// Obstacle is a static world-space axis-aligned box. Obstacles are built once
// at scene setup and only ever read afterwards; collision passes must never
// mutate the set they iterate.
type Obstacle struct {
	Pos mgl32.Vec3 // placement position, used for creature avoidance

	Min mgl32.Vec3 // world-space AABB corners
	Max mgl32.Vec3
}

// NewObstacle derives the world AABB from a position, a non-uniform scale and
// local-space corners. Corners are sorted per axis so a negative scale cannot
// produce an inverted box.
func NewObstacle(pos, scale, localMin, localMax mgl32.Vec3) Obstacle {
	var lo, hi mgl32.Vec3
	for i := 0; i < 3; i++ {
		a := pos[i] + scale[i]*localMin[i]
		b := pos[i] + scale[i]*localMax[i]
		if a <= b {
			lo[i], hi[i] = a, b
		} else {
			lo[i], hi[i] = b, a
		}
	}
	return Obstacle{Pos: pos, Min: lo, Max: hi}
}

// ClosestPoint returns the point on the box nearest to p.
func (o *Obstacle) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		clampFloat(p[0], o.Min[0], o.Max[0]),
		clampFloat(p[1], o.Min[1], o.Max[1]),
		clampFloat(p[2], o.Min[2], o.Max[2]),
	}
}
