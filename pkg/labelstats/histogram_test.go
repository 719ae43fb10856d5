package labelstats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"

	"maskeval/internal/models"
)

func TestBinCount(t *testing.T) {
	cases := []struct {
		max      float64
		expected int
	}{
		{12.0, 13},
		{12.2, 14},
		{0.4, 2},
		{0, 1},
		{-3, 1},
		{math.NaN(), 1},
	}
	for _, c := range cases {
		if got := BinCount(c.max); got != c.expected {
			t.Errorf("BinCount(%f): expected %d, got %d", c.max, c.expected, got)
		}
	}
}

func TestBinIndex(t *testing.T) {
	cases := []struct {
		v        float64
		expected int
	}{
		{0, 0},
		{0.99, 0},
		{3.5, 3},
		{-0.5, 0},
		{9, 4},
		{4.999, 4},
	}
	for _, c := range cases {
		got, ok := BinIndex(c.v, 5)
		if !ok || got != c.expected {
			t.Errorf("BinIndex(%f, 5): expected %d, got %d (ok=%v)", c.v, c.expected, got, ok)
		}
	}
	if _, ok := BinIndex(math.NaN(), 5); ok {
		t.Error("Expected NaN to have no bin")
	}
}

// TestComputeHistogram verifies bins and normalization per label
func TestComputeHistogram(t *testing.T) {
	labels := raster(2, 3,
		1, 1, 0,
		2, 0, 1,
	)
	values := raster(2, 3,
		0.5, 2.2, 7.9,
		3.0, 1.0, 2.9,
	)

	h, err := ComputeHistogram(labels, values, models.LabelList{1, 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Global max 7.9 gives bins 0..8
	if h.NumBins() != 9 {
		t.Fatalf("Expected 9 bins, got %d", h.NumBins())
	}

	// Label 1: values 0.5, 2.2, 2.9 in two regions
	if math.Abs(h.Rows[0][0]-1.0/3) > tol || math.Abs(h.Rows[0][2]-2.0/3) > tol {
		t.Errorf("Label 1: unexpected row %v", h.Rows[0])
	}
	if h.Regions[0] != 2 {
		t.Errorf("Label 1: expected 2 regions, got %d", h.Regions[0])
	}

	// Label 2: single cell of 3.0
	if h.Rows[1][3] != 1 {
		t.Errorf("Label 2: expected all weight in bin 3, got %v", h.Rows[1])
	}

	for k := range h.Rows {
		if !scalar.EqualWithinAbs(h.RowSum(k), 1, 1e-9) {
			t.Errorf("Row %d sums to %f, expected 1", k, h.RowSum(k))
		}
	}
}

// TestComputeHistogramRowsSumToOne checks normalization on random data
func TestComputeHistogramRowsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ld := make([]float64, 40*25)
	vd := make([]float64, 40*25)
	for i := range ld {
		ld[i] = float64(rng.Intn(5))
		vd[i] = rng.Float64() * 35
	}
	labels := raster(40, 25, ld...)
	values := raster(40, 25, vd...)

	ids := models.LabelList{1, 2, 3, 4}
	h, err := ComputeHistogram(labels, values, ids)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Rows) != len(ids) {
		t.Fatalf("Expected %d rows, got %d", len(ids), len(h.Rows))
	}
	for k, id := range ids {
		if h.IDs[k] != id {
			t.Errorf("Row %d: expected id %d, got %d", k, id, h.IDs[k])
		}
		if !scalar.EqualWithinAbs(h.RowSum(k), 1, 1e-9) {
			t.Errorf("Row %d sums to %f, expected 1", k, h.RowSum(k))
		}
	}
}

// TestComputeHistogramEdges verifies max values, negatives and absent ids
func TestComputeHistogramEdges(t *testing.T) {
	labels := raster(1, 3, 1, 1, 1)
	values := raster(1, 3, -2, 4, 4)

	h, err := ComputeHistogram(labels, values, models.LabelList{1, 9})
	if err != nil {
		t.Fatal(err)
	}
	if h.NumBins() != 5 {
		t.Fatalf("Expected 5 bins, got %d", h.NumBins())
	}
	// The integer maximum lands in the last bin, the negative in bin 0
	if math.Abs(h.Rows[0][4]-2.0/3) > tol || math.Abs(h.Rows[0][0]-1.0/3) > tol {
		t.Errorf("Unexpected row %v", h.Rows[0])
	}
	if h.RowSum(1) != 0 || h.Regions[1] != 0 {
		t.Errorf("Expected empty row for absent id, got %v", h.Rows[1])
	}
}

func TestComputeHistogramShapeMismatch(t *testing.T) {
	_, err := ComputeHistogram(raster(1, 2, 1, 1), raster(2, 1, 1, 1), models.LabelList{1})
	if errors.Cause(err) != models.ErrShapeMismatch {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

// TestComputeHistogramNonFinite verifies infinite heights neither size nor fill bins
func TestComputeHistogramNonFinite(t *testing.T) {
	labels := raster(1, 3, 1, 1, 1)
	values := raster(1, 3, 3, math.Inf(1), math.Inf(-1))

	h, err := ComputeHistogram(labels, values, models.LabelList{1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if h.NumBins() != 4 {
		t.Fatalf("Expected 4 bins from the finite maximum 3, got %d", h.NumBins())
	}
	if math.Abs(h.Rows[0][3]-1.0/3) > tol {
		t.Errorf("Expected 1/3 in bin 3, got %v", h.Rows[0])
	}
	if math.Abs(h.RowSum(0)-1.0/3) > tol {
		t.Errorf("Expected infinite cells to have no bin, row sums to %f", h.RowSum(0))
	}

	allInf := raster(1, 2, math.Inf(1), math.Inf(1))
	h, err = ComputeHistogram(raster(1, 2, 1, 1), allInf, models.LabelList{1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if h.NumBins() != 1 || h.RowSum(0) != 0 {
		t.Errorf("Expected one empty bin, got %d bins summing to %f", h.NumBins(), h.RowSum(0))
	}

	for _, v := range []float64{math.Inf(1), math.Inf(-1)} {
		if _, ok := BinIndex(v, 5); ok {
			t.Errorf("Expected %f to have no bin", v)
		}
	}
	if BinCount(math.Inf(1)) != 1 {
		t.Errorf("Expected 1 bin for infinite maximum, got %d", BinCount(math.Inf(1)))
	}
}

// TestComputeHistogramNoIDs verifies the bin count survives an empty id list
func TestComputeHistogramNoIDs(t *testing.T) {
	h, err := ComputeHistogram(raster(1, 2, 0, 0), raster(1, 2, 1, 6.5), models.LabelList{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(h.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(h.Rows))
	}
	if h.NumBins() != 8 {
		t.Errorf("Expected 8 bins, got %d", h.NumBins())
	}
}
