package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Raster is a regular 2D grid of samples with its physical pixel spacing
// and global origin
type Raster struct {
	// Data holds the samples, rows x cols
	Data *mat.Dense

	// Spacing is the pixel size (dx, dy) in physical units
	Spacing [2]float64

	// Origin is the global coordinate of the first cell
	Origin [2]float64
}

// NewRaster wraps the row-major data in a Raster of the given shape
func NewRaster(rows, cols int, data []float64, spacing, origin [2]float64) *Raster {
	if data == nil {
		data = make([]float64, rows*cols)
	}
	return &Raster{
		Data:    mat.NewDense(rows, cols, data),
		Spacing: spacing,
		Origin:  origin,
	}
}

// Dims returns the number of rows and columns
func (r *Raster) Dims() (rows, cols int) {
	return r.Data.Dims()
}

// Len returns the number of cells
func (r *Raster) Len() int {
	rows, cols := r.Dims()
	return rows * cols
}

// At returns the sample at row i, column j
func (r *Raster) At(i, j int) float64 {
	return r.Data.At(i, j)
}

// SameShape reports whether both rasters have identical dimensions
func (r *Raster) SameShape(other *Raster) bool {
	ra, ca := r.Dims()
	rb, cb := other.Dims()
	return ra == rb && ca == cb
}

// Values returns the samples in row-major order. The slice is a copy.
func (r *Raster) Values() []float64 {
	rows, cols := r.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, r.Data.RawRowView(i)...)
	}
	return out
}

// Max returns the largest sample, or NaN for an empty raster
func (r *Raster) Max() float64 {
	if r.Len() == 0 {
		return math.NaN()
	}
	return floats.Max(r.Values())
}

// Clone returns a deep copy
func (r *Raster) Clone() *Raster {
	return &Raster{
		Data:    mat.DenseCopyOf(r.Data),
		Spacing: r.Spacing,
		Origin:  r.Origin,
	}
}

// Tile is a raster as read from a tile file
type Tile struct {
	*Raster

	// Path is the file the tile was read from
	Path string
}

// LabelList is an ascending, duplicate-free list of positive mask ids.
// Its order fixes the row order of every per-label output.
type LabelList []int

// MaskMode selects how the working label raster is derived
type MaskMode int

const (
	ModeNothing MaskMode = iota
	ModeClipOnTopography
	ModeClipOnMask
	ModeDiscoverFromMask
)

func (m MaskMode) String() string {
	switch m {
	case ModeClipOnTopography:
		return "clip-on-topography"
	case ModeClipOnMask:
		return "clip-on-mask"
	case ModeDiscoverFromMask:
		return "discover-from-mask"
	default:
		return "nothing"
	}
}
