// Package raster reads and writes raster tiles stored as NumPy .npz archives.
//
// A tile archive holds three arrays: R (the 2D grid), dPx (pixel spacing,
// two values) and GlobOrig (global origin, two values).
package raster

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"

	"maskeval/internal/models"
)

// Array names inside a tile archive
const (
	KeyGrid    = "R"
	KeySpacing = "dPx"
	KeyOrigin  = "GlobOrig"
)

// ErrMissingArray is returned when a required array is absent from the archive
var ErrMissingArray = errors.New("array missing from tile")

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// array is a decoded npy array flattened in row-major order
type array struct {
	data  []float64
	shape []int
}

// archive is an open tile with its entry names keyed without the .npy suffix
type archive struct {
	r    *npz.Reader
	keys map[string]string
}

// ReadTile loads a raster tile from an .npz archive
func ReadTile(path string) (*models.Tile, error) {
	zr, err := npz.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open tile %s", path)
	}
	defer zr.Close()

	a := &archive{r: zr, keys: make(map[string]string, len(zr.Keys()))}
	for _, k := range zr.Keys() {
		a.keys[strings.TrimSuffix(k, ".npy")] = k
	}

	grid, err := a.read(KeyGrid)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if len(grid.shape) != 2 {
		return nil, errors.Errorf("%s: grid must be 2D, got shape %v", path, grid.shape)
	}
	if grid.shape[0] == 0 || grid.shape[1] == 0 {
		return nil, errors.Errorf("%s: grid is empty, shape %v", path, grid.shape)
	}

	spacing, err := a.pair(KeySpacing)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	// Tiles written without an origin are placed at (0, 0)
	var origin [2]float64
	if _, ok := a.keys[KeyOrigin]; ok {
		if origin, err = a.pair(KeyOrigin); err != nil {
			return nil, errors.Wrap(err, path)
		}
	}

	return &models.Tile{
		Raster: models.NewRaster(grid.shape[0], grid.shape[1], grid.data, spacing, origin),
		Path:   path,
	}, nil
}

// WriteTile saves a raster as an .npz archive readable by ReadTile and numpy.load
func WriteTile(path string, r *models.Raster) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tile-*.npz")
	if err != nil {
		return errors.Wrap(err, "failed to create tile file")
	}
	name := tmp.Name()
	tmp.Close()
	defer os.Remove(name)

	zw, err := npz.Create(name)
	if err != nil {
		return errors.Wrap(err, "failed to open tile archive")
	}
	arrays := []struct {
		name  string
		value interface{}
	}{
		{KeyGrid, r.Data},
		{KeySpacing, r.Spacing[:]},
		{KeyOrigin, r.Origin[:]},
	}
	for _, a := range arrays {
		if err := zw.Write(a.name+".npy", a.value); err != nil {
			zw.Close()
			return errors.Wrapf(err, "failed to add %s", a.name)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "failed to finish tile archive")
	}

	return errors.Wrap(os.Rename(name, path), "failed to move tile into place")
}

func (a *archive) pair(name string) ([2]float64, error) {
	var pair [2]float64
	arr, err := a.read(name)
	if err != nil {
		return pair, err
	}
	switch len(arr.data) {
	case 1:
		// A scalar spacing applies to both axes
		pair[0], pair[1] = arr.data[0], arr.data[0]
	case 2:
		pair[0], pair[1] = arr.data[0], arr.data[1]
	default:
		return pair, errors.Errorf("%s must hold 2 values, got %d", name, len(arr.data))
	}
	return pair, nil
}

func (a *archive) read(name string) (*array, error) {
	key, ok := a.keys[name]
	if !ok {
		return nil, errors.Wrap(ErrMissingArray, name)
	}
	arr, err := decodeArray(a.r, key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", name)
	}
	return arr, nil
}

// decodeArray reads one archive entry of any numeric or boolean dtype as float64
func decodeArray(zr *npz.Reader, key string) (*array, error) {
	hdr := zr.Header(key)
	if hdr == nil {
		return nil, errors.Errorf("no npy header for %s", key)
	}
	descr := hdr.Descr

	kind := descr.Type
	if len(kind) > 1 && strings.ContainsAny(kind[:1], "<>|=") {
		kind = kind[1:]
	}

	var (
		data []float64
		err  error
	)
	switch kind {
	case "f8":
		err = zr.Read(key, &data)
	case "f4":
		data, err = readAs[float32](zr, key)
	case "i8":
		data, err = readAs[int64](zr, key)
	case "i4":
		data, err = readAs[int32](zr, key)
	case "i2":
		data, err = readAs[int16](zr, key)
	case "i1":
		data, err = readAs[int8](zr, key)
	case "u8":
		data, err = readAs[uint64](zr, key)
	case "u4":
		data, err = readAs[uint32](zr, key)
	case "u2":
		data, err = readAs[uint16](zr, key)
	case "u1":
		data, err = readAs[uint8](zr, key)
	case "b1":
		var flags []bool
		err = zr.Read(key, &flags)
		data = make([]float64, len(flags))
		for i, v := range flags {
			if v {
				data[i] = 1
			}
		}
	default:
		return nil, errors.Errorf("unsupported dtype %q", descr.Type)
	}
	if err != nil {
		return nil, err
	}

	shape := append([]int(nil), descr.Shape...)
	if descr.Fortran && len(shape) == 2 && len(data) > 0 {
		data = fortranToRowMajor(data, shape[0], shape[1])
	}
	return &array{data: data, shape: shape}, nil
}

func readAs[T number](zr *npz.Reader, key string) ([]float64, error) {
	var v []T
	if err := zr.Read(key, &v); err != nil {
		return nil, err
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out, nil
}

func fortranToRowMajor(data []float64, rows, cols int) []float64 {
	// Column-major data is the row-major transpose
	t := mat.NewDense(cols, rows, data).T()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, mat.Row(nil, i, t)...)
	}
	return out
}
