package models

import (
	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned when two rasters entering a joint computation
// have different dimensions
var ErrShapeMismatch = errors.New("raster dimensions do not agree")

// CheckShape returns ErrShapeMismatch, annotated with both shapes, unless a and b
// have identical dimensions
func CheckShape(a, b *Raster) error {
	if a.SameShape(b) {
		return nil
	}
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	return errors.Wrapf(ErrShapeMismatch, "%dx%d vs %dx%d", ra, ca, rb, cb)
}
