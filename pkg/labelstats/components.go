package labelstats

import (
	"maskeval/internal/models"
)

// Components is the 4-connected sub-labeling of the cells carrying one mask id
type Components struct {
	// Grid holds the sub-label of every cell in row-major order, 0 outside the id
	Grid []int

	// Count is the number of sub-labels, numbered 1..Count in scan order
	Count int

	// Sizes holds the pixel count of sub-label k at index k-1
	Sizes []int
}

// Pixels returns the number of cells covered by all sub-labels
func (c Components) Pixels() int {
	n := 0
	for _, s := range c.Sizes {
		n += s
	}
	return n
}

// ConnectedComponents groups the cells equal to id into maximal 4-connected regions.
// It runs two raster passes over a disjoint-set forest indexed by row-major cell.
func ConnectedComponents(labels *models.Raster, id int) Components {
	rows, cols := labels.Dims()
	target := float64(id)

	// parent[k] == -1 marks a cell outside the id
	parent := make([]int, rows*cols)
	for k := range parent {
		parent[k] = -1
	}

	// First pass: every member starts as its own root and is joined to
	// member neighbours on the left and above
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if labels.At(i, j) != target {
				continue
			}
			k := i*cols + j
			parent[k] = k
			if j > 0 && parent[k-1] >= 0 {
				union(parent, k-1, k)
			}
			if i > 0 && parent[k-cols] >= 0 {
				union(parent, k-cols, k)
			}
		}
	}

	// Second pass: resolve roots and number them in order of first appearance
	c := Components{Grid: make([]int, rows*cols)}
	numbers := make(map[int]int)
	for k, p := range parent {
		if p < 0 {
			continue
		}
		root := find(parent, k)
		n, ok := numbers[root]
		if !ok {
			c.Count++
			n = c.Count
			numbers[root] = n
			c.Sizes = append(c.Sizes, 0)
		}
		c.Grid[k] = n
		c.Sizes[n-1]++
	}
	return c
}

// find returns the root of k, halving the path on the way up
func find(parent []int, k int) int {
	for parent[k] != k {
		parent[k] = parent[parent[k]]
		k = parent[k]
	}
	return k
}

// union attaches the larger root under the smaller so roots stay at the
// lowest cell index of their set
func union(parent []int, a, b int) {
	ra, rb := find(parent, a), find(parent, b)
	switch {
	case ra < rb:
		parent[rb] = ra
	case rb < ra:
		parent[ra] = rb
	}
}
