// Package report formats the console summary and writes the histogram table.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"maskeval/pkg/labelstats"
)

// DefaultHistogramFile is the histogram table written to the working directory
const DefaultHistogramFile = "mask_height_histogram.dat"

// Console writes the human readable summary lines
type Console struct {
	w io.Writer
}

// NewConsole creates a console reporter writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// TotalArea reports the total domain area of the named file
func (c *Console) TotalArea(name string, atot float64) {
	fmt.Fprintf(c.w, "\n Total area of %s domain:\n Atot = %.4g m^2 \n\n", name, atot)
}

// FrontalFractions reports the east and north facing frontal area fractions
func (c *Console) FrontalFractions(name string, fe, fn float64) {
	fmt.Fprintf(c.w, "\n Frontal area fractions of %s:\n Ae/Atot = %.2f, An/Atot = %.2f\n\n", name, fe, fn)
}

// PlanAreaFractions reports one line per mask id
func (c *Console) PlanAreaFractions(ids []int, ratios []float64) {
	for k, id := range ids {
		fmt.Fprintf(c.w, " Mask %d plan area fraction = %.2f \n", id, ratios[k])
	}
}

// Moments reports mean, variance and standard deviation per mask id
func (c *Console) Moments(moments []labelstats.Moments) {
	for _, m := range moments {
		fmt.Fprintf(c.w, " Mask %d mean, var, std = %.2f, %.2f, %.2f \n", m.ID, m.Mean, m.Var, m.Std)
	}
}

// Regions reports the number of connected regions per mask id
func (c *Console) Regions(h *labelstats.Histogram) {
	for k, id := range h.IDs {
		fmt.Fprintf(c.w, " Mask %d connected regions = %d \n", id, h.Regions[k])
	}
}

// FormatHistogram writes the table: bin index 1..nbins in the first column,
// then one column of frequencies per mask id
func FormatHistogram(w io.Writer, h *labelstats.Histogram) error {
	bw := bufio.NewWriter(w)
	for b := 0; b < h.NumBins(); b++ {
		fmt.Fprintf(bw, "%d", b+1)
		for _, row := range h.Rows {
			fmt.Fprintf(bw, " %.18e", row[b])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteHistogram writes the table to path, replacing any existing file only
// once the new content is complete
func WriteHistogram(path string, h *labelstats.Histogram) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".histogram-*")
	if err != nil {
		return errors.Wrap(err, "failed to create histogram file")
	}
	defer os.Remove(tmp.Name())

	if err := FormatHistogram(tmp, h); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write histogram")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close histogram file")
	}

	return errors.Wrapf(os.Rename(tmp.Name(), path), "failed to move histogram to %s", path)
}
