// Package geometry computes plan and frontal areas of a height raster.
package geometry

import (
	"math"

	"maskeval/internal/models"
)

// DefaultFrontalThreshold is the smallest height step, in height units, that
// counts as a building facade
const DefaultFrontalThreshold = 4.0

// TotalArea returns the pixel count times the absolute pixel area
func TotalArea(rows, cols int, spacing [2]float64) float64 {
	return float64(rows*cols) * math.Abs(spacing[0]*spacing[1])
}

// RasterArea is TotalArea for the shape and spacing of r
func RasterArea(r *models.Raster) float64 {
	rows, cols := r.Dims()
	return TotalArea(rows, cols, r.Spacing)
}

// FrontalAreas sums the upward height steps between neighbouring cells.
// ae accumulates steps along each row (east facing), an along each column
// (north facing). Steps smaller than threshold are ignored. The sums are raw
// areas; divide by the total area for fractions.
func FrontalAreas(r *models.Raster, threshold float64) (ae, an float64) {
	rows, cols := r.Dims()

	for i := 0; i < rows; i++ {
		for j := 0; j+1 < cols; j++ {
			ae += step(r.At(i, j), r.At(i, j+1), threshold)
		}
	}

	for j := 0; j < cols; j++ {
		for i := 0; i+1 < rows; i++ {
			an += step(r.At(i, j), r.At(i+1, j), threshold)
		}
	}

	return ae, an
}

// step is the height gained from a to b, or 0 when b is not higher or the
// gain is below threshold
func step(a, b, threshold float64) float64 {
	if b <= a {
		return 0
	}
	h := b - a
	if h < threshold {
		return 0
	}
	return h
}

// Fractions divides the frontal areas by the total area. A zero total area
// yields zero fractions.
func Fractions(ae, an, atot float64) (fe, fn float64) {
	if atot == 0 {
		return 0, 0
	}
	return ae / atot, an / atot
}
