package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewHeightfieldValidation(t *testing.T) {
	scale := mgl32.Vec3{1, 1, 1}
	if _, err := NewHeightfield(make([]float32, 4), 1, 4, scale); err == nil {
		t.Error("expected error for a single-row field")
	}
	if _, err := NewHeightfield(make([]float32, 5), 2, 2, scale); err == nil {
		t.Error("expected error for mismatched sample count")
	}
	if _, err := NewHeightfield(make([]float32, 4), 2, 2, scale); err != nil {
		t.Errorf("valid 2x2 field rejected: %v", err)
	}
}

func TestHeightAtFlatField(t *testing.T) {
	heights := []float32{7, 7, 7, 7, 7, 7, 7, 7, 7}
	hf, err := NewHeightfield(heights, 3, 3, mgl32.Vec3{2, 1, 2})
	if err != nil {
		t.Fatalf("NewHeightfield: %v", err)
	}
	for _, p := range [][2]float32{{0, 0}, {1.3, 2.7}, {4, 4}} {
		h, ok := hf.HeightAt(p[0], p[1])
		if !ok || h != 7 {
			t.Errorf("HeightAt(%v,%v) = (%v,%v), want (7,true)", p[0], p[1], h, ok)
		}
	}
}

func TestHeightAtBilinear(t *testing.T) {
	// 2x2 ramp: height = x + 2z in cell units, cell scale 4.
	heights := []float32{0, 1, 2, 3}
	hf, err := NewHeightfield(heights, 2, 2, mgl32.Vec3{4, 1, 4})
	if err != nil {
		t.Fatalf("NewHeightfield: %v", err)
	}
	h, ok := hf.HeightAt(2, 2) // cell-space (0.5, 0.5)
	if !ok {
		t.Fatal("center query out of bounds")
	}
	want := float32((0 + 1 + 2 + 3)) / 4
	if math.Abs(float64(h-want)) > 1e-6 {
		t.Errorf("HeightAt center = %v, want %v", h, want)
	}

	h, _ = hf.HeightAt(4, 0) // cell-space (1, 0)
	if h != 1 {
		t.Errorf("HeightAt(4,0) = %v, want 1", h)
	}
}

func TestHeightAtOutsideFootprint(t *testing.T) {
	hf, err := NewHeightfield(make([]float32, 4), 2, 2, mgl32.Vec3{4, 1, 4})
	if err != nil {
		t.Fatalf("NewHeightfield: %v", err)
	}
	for _, p := range [][2]float32{{-0.1, 0}, {0, -0.1}, {4.1, 0}, {0, 4.1}} {
		if _, ok := hf.HeightAt(p[0], p[1]); ok {
			t.Errorf("HeightAt(%v,%v) reported in-bounds", p[0], p[1])
		}
	}
}

func TestDefaultStaticBody(t *testing.T) {
	body := DefaultStaticBody()
	if body.Friction != 1.0 || body.Combine != CombineAverage {
		t.Errorf("DefaultStaticBody = %+v, want friction 1.0 averaged", body)
	}
}
