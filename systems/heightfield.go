// Package systems contains the simulation systems for the capture sandbox.
package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// HeightField stores terrain elevation samples on a regular grid centered at
// the origin and answers interpolated height and normal queries. Immutable
// after construction.
//
// A zero-data field (NewFlat) still answers every query with a flat plane at
// y=0, so callers never need a nil or emptiness guard.
type HeightField struct {
	samples []float32
	cols    int
	rows    int

	cellSize float32
	halfX    float32 // half world extent along x
	halfZ    float32 // half world extent along z
}

// NewHeightField builds a height field from row-major samples indexed
// [col + row*cols]. The grid must be at least 2x2.
func NewHeightField(samples []float32, cols, rows int, cellSize float32) (*HeightField, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("height field grid must be at least 2x2, got %dx%d", cols, rows)
	}
	if len(samples) != cols*rows {
		return nil, fmt.Errorf("height field expects %d samples, got %d", cols*rows, len(samples))
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("height field cell size must be positive, got %f", cellSize)
	}
	return &HeightField{
		samples:  samples,
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		halfX:    float32(cols-1) * cellSize * 0.5,
		halfZ:    float32(rows-1) * cellSize * 0.5,
	}, nil
}

// NewFlat returns a height field with no backing data. All height queries
// answer 0 and all normal queries answer +Y.
func NewFlat() *HeightField {
	return &HeightField{cellSize: 1}
}

// FromNoise generates a height field procedurally with simplex noise.
// Heights span [0, heightScale].
func FromNoise(seed int64, cols, rows int, cellSize float32, noiseScale, heightScale float64) (*HeightField, error) {
	noise := opensimplex.NewNormalized(seed)
	samples := make([]float32, cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			v := noise.Eval2(float64(i)*noiseScale, float64(j)*noiseScale)
			samples[i+j*cols] = float32(v * heightScale)
		}
	}
	return NewHeightField(samples, cols, rows, cellSize)
}

// CellSize returns the grid cell size in world units.
func (h *HeightField) CellSize() float32 { return h.cellSize }

// Bounds returns the half extents of the grid in world units.
func (h *HeightField) Bounds() (halfX, halfZ float32) { return h.halfX, h.halfZ }

// sample returns the sample at (i,j), clamping indices so edge values are
// held constant past the grid border.
func (h *HeightField) sample(i, j int) float32 {
	i = clampInt(i, 0, h.cols-1)
	j = clampInt(j, 0, h.rows-1)
	return h.samples[i+j*h.cols]
}

// HeightAt returns the terrain height at world (x,z) by bilinear
// interpolation of the four enclosing samples. Queries outside the grid are
// clamped to the edge, never extrapolated.
func (h *HeightField) HeightAt(x, z float32) float32 {
	if h.cols <= 1 || h.rows <= 1 {
		return 0
	}

	// World to fractional grid coordinates
	u := (x + h.halfX) / h.cellSize
	v := (z + h.halfZ) / h.cellSize
	u = clampFloat(u, 0, float32(h.cols-1))
	v = clampFloat(v, 0, float32(h.rows-1))

	i := int(u)
	j := int(v)
	tx := u - float32(i)
	tz := v - float32(j)

	h00 := h.sample(i, j)
	h10 := h.sample(i+1, j)
	h01 := h.sample(i, j+1)
	h11 := h.sample(i+1, j+1)

	h0 := (1-tx)*h00 + tx*h10
	h1 := (1-tx)*h01 + tx*h11
	return (1-tz)*h0 + tz*h1
}

// NormalAt returns the terrain surface unit normal at world (x,z), computed
// by central differences at a one-cell step. Each call costs four HeightAt
// queries; callers doing per-frame slope checks for many entities should
// budget accordingly.
func (h *HeightField) NormalAt(x, z float32) mgl32.Vec3 {
	eps := h.cellSize
	hl := h.HeightAt(x-eps, z)
	hr := h.HeightAt(x+eps, z)
	hd := h.HeightAt(x, z-eps)
	hu := h.HeightAt(x, z+eps)

	gx := (hr - hl) / (2 * eps)
	gz := (hu - hd) / (2 * eps)
	n := mgl32.Vec3{-gx, 1, -gz}
	return n.Normalize()
}
