package models

import (
	"testing"

	"github.com/pkg/errors"
)

func TestRasterBasics(t *testing.T) {
	r := NewRaster(2, 3, []float64{1, 2, 3, 4, 5, 6}, [2]float64{2, -0.5}, [2]float64{100, 200})

	rows, cols := r.Dims()
	if rows != 2 || cols != 3 {
		t.Errorf("Expected dims 2x3, got %dx%d", rows, cols)
	}
	if r.Len() != 6 {
		t.Errorf("Expected 6 cells, got %d", r.Len())
	}
	if r.At(1, 2) != 6 {
		t.Errorf("Expected value 6 at (1,2), got %f", r.At(1, 2))
	}
	if r.Max() != 6 {
		t.Errorf("Expected max 6, got %f", r.Max())
	}

	values := r.Values()
	values[0] = 42
	if r.At(0, 0) != 1 {
		t.Errorf("Values must return a copy, raster changed to %f", r.At(0, 0))
	}
}

func TestRasterClone(t *testing.T) {
	r := NewRaster(2, 2, []float64{0, 1, 2, 3}, [2]float64{1, 1}, [2]float64{5, 6})
	c := r.Clone()
	c.Data.Set(0, 0, 9)

	if r.At(0, 0) != 0 {
		t.Errorf("Clone shares storage with source, got %f", r.At(0, 0))
	}
	if c.Origin != r.Origin || c.Spacing != r.Spacing {
		t.Errorf("Clone lost metadata: %v %v", c.Origin, c.Spacing)
	}
}

func TestCheckShape(t *testing.T) {
	a := NewRaster(2, 2, nil, [2]float64{1, 1}, [2]float64{})
	b := NewRaster(2, 2, nil, [2]float64{1, 1}, [2]float64{})
	c := NewRaster(2, 3, nil, [2]float64{1, 1}, [2]float64{})

	if err := CheckShape(a, b); err != nil {
		t.Errorf("Expected no error for equal shapes, got %v", err)
	}

	err := CheckShape(a, c)
	if err == nil {
		t.Fatal("Expected error for different shapes, got nil")
	}
	if errors.Cause(err) != ErrShapeMismatch {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

func TestMaskModeString(t *testing.T) {
	if ModeDiscoverFromMask.String() != "discover-from-mask" {
		t.Errorf("Unexpected mode name %q", ModeDiscoverFromMask.String())
	}
	if MaskMode(99).String() != "nothing" {
		t.Errorf("Unknown modes should print as nothing, got %q", MaskMode(99).String())
	}
}
