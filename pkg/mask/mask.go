// Package mask derives the working label raster and the list of mask ids to
// analyse, either by clipping a continuous raster or by scanning an existing
// label raster.
package mask

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"maskeval/internal/models"
)

// ErrNothingToDo is returned when neither a clip value nor a mask raster is available
var ErrNothingToDo = errors.New("no mask file or clip value, nothing to do")

// ResolveMode picks the mask derivation mode from the available inputs.
// A clip value on the topography wins over a clip on the mask raster.
func ResolveMode(haveMask, haveData bool, clip *float64) models.MaskMode {
	switch {
	case clip != nil && haveData:
		return models.ModeClipOnTopography
	case clip != nil && haveMask:
		return models.ModeClipOnMask
	case haveMask:
		return models.ModeDiscoverFromMask
	default:
		return models.ModeNothing
	}
}

// FromClip returns a binary raster with 1 where r exceeds c and 0 elsewhere.
// The label list is always [1], even when no cell exceeds c.
func FromClip(r *models.Raster, c float64) (*models.Raster, models.LabelList) {
	rows, cols := r.Dims()
	out := models.NewRaster(rows, cols, nil, r.Spacing, r.Origin)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if r.At(i, j) > c {
				out.Data.Set(i, j, 1)
			}
		}
	}
	return out, models.LabelList{1}
}

// FromData returns the ids in 1..maxID that occur in r, ascending.
// Values that are not whole numbers are never ids.
func FromData(r *models.Raster, maxID int) models.LabelList {
	ids := models.LabelList{}
	if maxID < 1 {
		return ids
	}

	seen := make(map[int]struct{})
	rows, _ := r.Dims()
	for i := 0; i < rows; i++ {
		for _, v := range r.Data.RawRowView(i) {
			if v < 1 || v > float64(maxID) || v != math.Trunc(v) {
				continue
			}
			seen[int(v)] = struct{}{}
		}
	}

	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Build derives the label raster for the resolved mode. Inputs not needed by
// the mode may be nil. The source rasters are never modified.
func Build(mode models.MaskMode, maskRaster, dataRaster *models.Raster, clip float64, maxID int) (*models.Raster, models.LabelList, error) {
	switch mode {
	case models.ModeClipOnTopography:
		if dataRaster == nil {
			return nil, nil, errors.New("clip on topography requires a data raster")
		}
		labels, ids := FromClip(dataRaster, clip)
		return labels, ids, nil

	case models.ModeClipOnMask:
		if maskRaster == nil {
			return nil, nil, errors.New("clip on mask requires a mask raster")
		}
		labels, ids := FromClip(maskRaster, clip)
		return labels, ids, nil

	case models.ModeDiscoverFromMask:
		if maskRaster == nil {
			return nil, nil, errors.New("mask id discovery requires a mask raster")
		}
		return maskRaster.Clone(), FromData(maskRaster, maxID), nil

	default:
		return nil, nil, ErrNothingToDo
	}
}
