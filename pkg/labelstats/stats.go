// Package labelstats computes per-label statistics of a label raster: plan
// area fractions, moments of an associated value raster and normalized
// height histograms.
//
// Every function returns one entry per id, in the order of the given
// LabelList, computed over exactly the cells equal to that id.
package labelstats

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"maskeval/internal/models"
)

// Moments holds the population statistics of the values under one label
type Moments struct {
	ID    int
	Count int
	Mean  float64
	Var   float64
	Std   float64
}

// PlanAreaFractions returns, per id, the share of all cells equal to that id
func PlanAreaFractions(labels *models.Raster, ids models.LabelList) []float64 {
	counts := make(map[int]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}

	rows, _ := labels.Dims()
	for i := 0; i < rows; i++ {
		for _, v := range labels.Data.RawRowView(i) {
			if v != math.Trunc(v) {
				continue
			}
			if _, ok := counts[int(v)]; ok {
				counts[int(v)]++
			}
		}
	}

	total := float64(labels.Len())
	out := make([]float64, len(ids))
	for k, id := range ids {
		out[k] = float64(counts[id]) / total
	}
	return out
}

// Select returns the values at every cell where labels equals id, in row-major order
func Select(labels, values *models.Raster, id int) ([]float64, error) {
	if err := models.CheckShape(labels, values); err != nil {
		return nil, err
	}

	target := float64(id)
	rows, cols := labels.Dims()
	var out []float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if labels.At(i, j) == target {
				out = append(out, values.At(i, j))
			}
		}
	}
	return out, nil
}

// MeanValues returns the population mean, variance and standard deviation of
// values under each id. An id with no cells gets NaN for all three.
func MeanValues(labels, values *models.Raster, ids models.LabelList) ([]Moments, error) {
	out := make([]Moments, len(ids))
	for k, id := range ids {
		sel, err := Select(labels, values, id)
		if err != nil {
			return nil, errors.Wrapf(err, "mask %d", id)
		}

		m := Moments{ID: id, Count: len(sel)}
		if len(sel) == 0 {
			m.Mean, m.Var, m.Std = math.NaN(), math.NaN(), math.NaN()
		} else {
			m.Mean, m.Var = stat.PopMeanVariance(sel, nil)
			m.Std = math.Sqrt(m.Var)
		}
		out[k] = m
	}
	return out, nil
}
