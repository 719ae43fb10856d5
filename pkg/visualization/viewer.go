package visualization

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"maskeval/internal/models"
)

// Viewer renders a label raster as an image, one color per mask id
type Viewer struct {
	// labels is the derived label raster
	labels *models.Raster

	// palette maps each mask id to its color; cells of other values are background
	palette map[int]color.RGBA
}

// NewViewer creates a viewer for the label raster and the ids to highlight
func NewViewer(labels *models.Raster, ids models.LabelList) *Viewer {
	return &Viewer{
		labels:  labels,
		palette: Palette(ids),
	}
}

// Palette spreads the ids evenly around the HCL hue circle
func Palette(ids models.LabelList) map[int]color.RGBA {
	p := make(map[int]color.RGBA, len(ids))
	for k, id := range ids {
		hue := 360 * float64(k) / float64(len(ids))
		c := colorful.Hcl(hue, 0.6, 0.7).Clamped()
		r, g, b := c.RGB255()
		p[id] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// Render draws the raster at one pixel per cell; row 0 is the top image row
func (v *Viewer) Render() *image.RGBA {
	rows, cols := v.labels.Dims()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	background := color.RGBA{A: 255}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			c := background
			val := v.labels.At(i, j)
			if val == math.Trunc(val) {
				if pc, ok := v.palette[int(val)]; ok {
					c = pc
				}
			}
			img.SetRGBA(j, i, c)
		}
	}
	return img
}

// Scaled renders the raster with its longer side stretched to size pixels,
// keeping cells square
func (v *Viewer) Scaled(size int) (image.Image, error) {
	if size <= 0 {
		return nil, errors.Errorf("image size must be positive, got %d", size)
	}

	src := v.Render()
	b := src.Bounds()
	w, h := size, size
	if b.Dx() >= b.Dy() {
		h = int(math.Max(1, math.Round(float64(size)*float64(b.Dy())/float64(b.Dx()))))
	} else {
		w = int(math.Max(1, math.Round(float64(size)*float64(b.Dx())/float64(b.Dy()))))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return dst, nil
}

// SavePNG writes the scaled rendering to filename
func (v *Viewer) SavePNG(filename string, size int) error {
	img, err := v.Scaled(size)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to encode %s", filename)
	}
	return errors.Wrapf(file.Close(), "failed to close %s", filename)
}
