package labelstats

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"maskeval/internal/models"
)

// Histogram is a table of normalized height frequencies, one row per mask id
type Histogram struct {
	// IDs gives the mask id of each row
	IDs models.LabelList

	// Rows holds the frequencies; column b counts values in [b, b+1)
	Rows [][]float64

	// Regions is the number of connected sub-labels found for each id
	Regions []int

	// Bins is the number of height bins, set even when there are no rows
	Bins int
}

// NumBins returns the number of height bins shared by all rows
func (h *Histogram) NumBins() int {
	return h.Bins
}

// RowSum returns the total frequency of row k
func (h *Histogram) RowSum(k int) float64 {
	return floats.Sum(h.Rows[k])
}

// BinCount returns the number of bins for values up to maxValue: bins cover
// 0..ceil(maxValue) inclusive, and there is always at least one. A non-finite
// maximum gets a single bin.
func BinCount(maxValue float64) int {
	if !finite(maxValue) || maxValue <= 0 {
		return 1
	}
	return int(math.Ceil(maxValue)) + 1
}

// BinIndex floors v to a bin and clamps it into 0..nbins-1. NaN and ±Inf
// have no bin.
func BinIndex(v float64, nbins int) (int, bool) {
	if !finite(v) {
		return 0, false
	}
	f := math.Floor(v)
	switch {
	case f < 0:
		return 0, true
	case f >= float64(nbins):
		return nbins - 1, true
	default:
		return int(f), true
	}
}

// ComputeHistogram builds the normalized height histogram of values under each id.
//
// The cells of an id are split into 4-connected sub-labels. With Np the cell
// count over all sub-labels, every cell adds 1/Np to the bin of its floored
// value, so a row sums to 1. The bin range comes from the maximum of the whole
// value raster so rows are directly comparable.
func ComputeHistogram(labels, values *models.Raster, ids models.LabelList) (*Histogram, error) {
	if err := models.CheckShape(labels, values); err != nil {
		return nil, err
	}

	nbins := BinCount(maxFinite(values))
	h := &Histogram{
		IDs:     append(models.LabelList(nil), ids...),
		Rows:    make([][]float64, 0, len(ids)),
		Regions: make([]int, 0, len(ids)),
		Bins:    nbins,
	}

	for _, id := range ids {
		row, regions := histogramRow(labels, values, id, nbins)
		h.Rows = append(h.Rows, row)
		h.Regions = append(h.Regions, regions)
	}
	return h, nil
}

func histogramRow(labels, values *models.Raster, id, nbins int) ([]float64, int) {
	row := make([]float64, nbins)

	comps := ConnectedComponents(labels, id)
	np := comps.Pixels()
	if np == 0 {
		return row, 0
	}

	inc := 1 / float64(np)
	_, cols := values.Dims()
	for cell, sub := range comps.Grid {
		if sub == 0 {
			continue
		}
		if b, ok := BinIndex(values.At(cell/cols, cell%cols), nbins); ok {
			row[b] += inc
		}
	}
	return row, comps.Count
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// maxFinite returns the largest finite sample, or NaN if there is none
func maxFinite(r *models.Raster) float64 {
	max := math.NaN()
	rows, _ := r.Dims()
	for i := 0; i < rows; i++ {
		for _, v := range r.Data.RawRowView(i) {
			if finite(v) && (math.IsNaN(max) || v > max) {
				max = v
			}
		}
	}
	return max
}
