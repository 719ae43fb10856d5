package evaluation

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"maskeval/internal/models"
	"maskeval/pkg/geometry"
	"maskeval/pkg/labelstats"
	"maskeval/pkg/mask"
	"maskeval/pkg/raster"
	"maskeval/pkg/report"
	"maskeval/pkg/visualization"
)

// ErrNoInput is returned when neither a mask nor a data file is given
var ErrNoInput = errors.New("no data files provided")

// Params holds the evaluation inputs and options
type Params struct {
	// MaskFile is the label (or clip source) raster tile, optional
	MaskFile string

	// DataFile is the topography raster tile, optional
	DataFile string

	// Frontal enables frontal area fractions from the topography
	Frontal bool

	// FrontalThreshold is the smallest height step counted as a facade
	FrontalThreshold float64

	// MaxMaskNo is the largest mask id scanned for in the mask raster
	MaxMaskNo int

	// Clip, when set, masks every cell above this value
	Clip *float64

	// HistogramFile is where the height histogram table is written
	HistogramFile string

	// Plot enables writing the mask image to PlotFile
	Plot      bool
	PlotFile  string
	PlotWidth int

	// SaveMask, when non-empty, is the tile path the derived mask is saved to
	SaveMask string
}

// Results holds everything computed by a run
type Results struct {
	TotalArea float64

	// Frontal areas are raw sums, only set when Frontal was requested with a data file
	FrontalE, FrontalN float64

	Mode      models.MaskMode
	IDs       models.LabelList
	Labels    *models.Raster
	Ratios    []float64
	Moments   []labelstats.Moments
	Histogram *labelstats.Histogram
}

// Evaluator runs the mask statistics pipeline once
type Evaluator struct {
	params  *Params
	console *report.Console
	log     logrus.FieldLogger
	results Results
}

// NewEvaluator creates an evaluator writing its report to out
func NewEvaluator(params *Params, out io.Writer, log logrus.FieldLogger) *Evaluator {
	return &Evaluator{
		params:  params,
		console: report.NewConsole(out),
		log:     log,
	}
}

// Process loads the tiles, derives the mask, computes the statistics and
// writes the outputs. Nothing is written when inputs are missing or their
// shapes disagree.
func (e *Evaluator) Process() error {
	p := e.params
	if p.MaskFile == "" && p.DataFile == "" {
		return ErrNoInput
	}

	maskTile, dataTile, err := e.loadTiles()
	if err != nil {
		return err
	}

	// Area of the mask tile when present, otherwise of the topography
	areaTile := dataTile
	if maskTile != nil {
		areaTile = maskTile
	}
	e.results.TotalArea = geometry.RasterArea(areaTile.Raster)
	e.console.TotalArea(areaTile.Path, e.results.TotalArea)

	if dataTile != nil && p.Frontal {
		ae, an := geometry.FrontalAreas(dataTile.Raster, p.FrontalThreshold)
		e.results.FrontalE, e.results.FrontalN = ae, an
		fe, fn := geometry.Fractions(ae, an, e.results.TotalArea)
		e.console.FrontalFractions(dataTile.Path, fe, fn)
	}

	var maskRaster, dataRaster *models.Raster
	if maskTile != nil {
		maskRaster = maskTile.Raster
	}
	if dataTile != nil {
		dataRaster = dataTile.Raster
	}

	mode := mask.ResolveMode(maskRaster != nil, dataRaster != nil, p.Clip)
	e.results.Mode = mode
	e.log.WithField("mode", mode).Debug("Resolved mask mode")

	var clip float64
	if p.Clip != nil {
		clip = *p.Clip
	}
	labels, ids, err := mask.Build(mode, maskRaster, dataRaster, clip, p.MaxMaskNo)
	if err != nil {
		return err
	}
	e.results.Labels, e.results.IDs = labels, ids
	e.log.WithField("ids", ids).Info("Mask ids to evaluate")
	if len(ids) == 0 {
		e.log.Warn("No mask ids found, histogram will hold only the bin index column")
	}

	// Heights come from the topography, or from the mask raster itself
	values := dataRaster
	if values == nil {
		values = maskRaster
	}

	hist, err := labelstats.ComputeHistogram(labels, values, ids)
	if err != nil {
		return errors.Wrap(err, "histogram")
	}
	e.results.Histogram = hist
	if err := report.WriteHistogram(p.HistogramFile, hist); err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{"file": p.HistogramFile, "bins": hist.NumBins()}).Info("Wrote height histogram")

	e.results.Ratios = labelstats.PlanAreaFractions(labels, ids)
	e.console.PlanAreaFractions(ids, e.results.Ratios)

	if dataRaster != nil {
		moments, err := labelstats.MeanValues(labels, dataRaster, ids)
		if err != nil {
			return errors.Wrap(err, "mean values")
		}
		e.results.Moments = moments
		e.console.Moments(moments)
	}
	e.console.Regions(hist)

	if p.SaveMask != "" {
		if err := raster.WriteTile(p.SaveMask, labels); err != nil {
			return errors.Wrap(err, "save mask")
		}
		e.log.WithField("file", p.SaveMask).Info("Wrote mask tile")
	}

	if p.Plot {
		viewer := visualization.NewViewer(labels, ids)
		if err := viewer.SavePNG(p.PlotFile, p.PlotWidth); err != nil {
			// The statistics are already written; a failed image is not fatal
			e.log.WithError(err).Warn("Failed to save mask image")
		} else {
			e.log.WithField("file", p.PlotFile).Info("Wrote mask image")
		}
	}

	return nil
}

// GetResults returns the values computed by Process
func (e *Evaluator) GetResults() Results {
	return e.results
}

func (e *Evaluator) loadTiles() (maskTile, dataTile *models.Tile, err error) {
	if e.params.MaskFile != "" {
		if maskTile, err = raster.ReadTile(e.params.MaskFile); err != nil {
			return nil, nil, err
		}
		e.logTile("mask", maskTile)
	}

	if e.params.DataFile != "" {
		if dataTile, err = raster.ReadTile(e.params.DataFile); err != nil {
			return nil, nil, err
		}
		e.logTile("data", dataTile)

		if maskTile != nil {
			if err := models.CheckShape(dataTile.Raster, maskTile.Raster); err != nil {
				return nil, nil, errors.Wrap(err, "topography and mask files")
			}
		}
	}

	return maskTile, dataTile, nil
}

func (e *Evaluator) logTile(kind string, t *models.Tile) {
	rows, cols := t.Dims()
	e.log.WithFields(logrus.Fields{
		"file":    t.Path,
		"rows":    rows,
		"cols":    cols,
		"spacing": t.Spacing,
		"origin":  t.Origin,
	}).Debugf("Loaded %s tile", kind)
}
