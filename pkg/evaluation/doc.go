// Package evaluation wires tile loading, mask derivation, statistics and
// reporting into a single pass over one or two raster tiles.
//
// The run consists of:
// 1. Loading the mask and/or topography tiles and checking their shapes agree
// 2. Reporting the total area and, on request, frontal area fractions
// 3. Deriving the label raster by clipping or by id discovery
// 4. Writing the per-label height histogram table
// 5. Reporting plan area fractions, height moments and region counts
// 6. Optionally saving the derived mask tile and a mask image
package evaluation
