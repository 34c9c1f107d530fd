package systems

import (
	"math"
	"testing"
)

// ---------- construction ----------

func TestNewHeightField_RejectsSmallGrids(t *testing.T) {
	if _, err := NewHeightField([]float32{0, 0}, 1, 2, 1); err == nil {
		t.Error("expected error for 1-column grid")
	}
	if _, err := NewHeightField([]float32{0, 0}, 2, 1, 1); err == nil {
		t.Error("expected error for 1-row grid")
	}
}

func TestNewHeightField_RejectsSampleMismatch(t *testing.T) {
	if _, err := NewHeightField([]float32{0, 0, 0}, 2, 2, 1); err == nil {
		t.Error("expected error for sample count mismatch")
	}
}

func TestNewHeightField_RejectsNonPositiveCellSize(t *testing.T) {
	if _, err := NewHeightField(make([]float32, 4), 2, 2, 0); err == nil {
		t.Error("expected error for zero cell size")
	}
}

// ---------- height queries ----------

// 2x2 grid with cell size 2: corners at (±1, ±1).
func cornerField(t *testing.T) *HeightField {
	t.Helper()
	hf, err := NewHeightField([]float32{0, 1, 2, 3}, 2, 2, 2)
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}
	return hf
}

func TestHeightAt_CornersMatchSamples(t *testing.T) {
	hf := cornerField(t)

	cases := []struct {
		x, z, want float32
	}{
		{-1, -1, 0},
		{1, -1, 1},
		{-1, 1, 2},
		{1, 1, 3},
	}
	for _, c := range cases {
		got := hf.HeightAt(c.x, c.z)
		if math.Abs(float64(got-c.want)) > 1e-5 {
			t.Errorf("HeightAt(%v, %v) = %v, want %v", c.x, c.z, got, c.want)
		}
	}
}

func TestHeightAt_CenterIsBilinearAverage(t *testing.T) {
	hf := cornerField(t)

	got := hf.HeightAt(0, 0)
	if math.Abs(float64(got-1.5)) > 1e-5 {
		t.Errorf("HeightAt(0,0) = %v, want 1.5", got)
	}
}

func TestHeightAt_ClampsOutsideGrid(t *testing.T) {
	hf := cornerField(t)

	// Far past the +x,+z corner: edge sample held constant, no extrapolation
	got := hf.HeightAt(100, 100)
	if math.Abs(float64(got-3)) > 1e-5 {
		t.Errorf("HeightAt(100,100) = %v, want clamped corner value 3", got)
	}

	got = hf.HeightAt(-100, -100)
	if math.Abs(float64(got-0)) > 1e-5 {
		t.Errorf("HeightAt(-100,-100) = %v, want clamped corner value 0", got)
	}
}

func TestNewFlat_AnswersEveryQuery(t *testing.T) {
	hf := NewFlat()

	if got := hf.HeightAt(12.5, -40); got != 0 {
		t.Errorf("flat field height = %v, want 0", got)
	}

	n := hf.NormalAt(3, 3)
	if n.X() != 0 || n.Y() != 1 || n.Z() != 0 {
		t.Errorf("flat field normal = %v, want +Y", n)
	}
}

// ---------- normals ----------

func TestNormalAt_UnitLength(t *testing.T) {
	hf := cornerField(t)

	n := hf.NormalAt(0.3, -0.2)
	if math.Abs(float64(n.Len()-1)) > 1e-4 {
		t.Errorf("normal length = %v, want 1", n.Len())
	}
}

func TestNormalAt_TiltsAgainstSlope(t *testing.T) {
	// Plane rising along +x: normal leans toward -x, stays upward
	samples := []float32{
		0, 1, 2,
		0, 1, 2,
		0, 1, 2,
	}
	hf, err := NewHeightField(samples, 3, 3, 1)
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}

	n := hf.NormalAt(0, 0)
	if n.X() >= 0 {
		t.Errorf("normal X = %v, want negative for +x slope", n.X())
	}
	if n.Y() <= 0 {
		t.Errorf("normal Y = %v, want positive", n.Y())
	}
	if math.Abs(float64(n.Z())) > 1e-4 {
		t.Errorf("normal Z = %v, want ~0 for x-only slope", n.Z())
	}
}

func TestFromNoise_HeightsWithinScale(t *testing.T) {
	hf, err := FromNoise(42, 16, 16, 1, 0.1, 2.5)
	if err != nil {
		t.Fatalf("FromNoise: %v", err)
	}

	for x := float32(-7); x <= 7; x += 0.5 {
		for z := float32(-7); z <= 7; z += 0.5 {
			h := hf.HeightAt(x, z)
			if h < 0 || h > 2.5 {
				t.Fatalf("HeightAt(%v,%v) = %v outside [0, 2.5]", x, z, h)
			}
		}
	}
}
