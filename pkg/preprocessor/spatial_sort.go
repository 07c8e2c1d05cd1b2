package preprocessor

import (
	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/spatialindex"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

const maxSpatialSortAxisBins = 4096

// SpatialSortBinCounts. grid resolution for spatial sort: about SPATIAL_SORT_BIN_SIZE nodes per bin,
// each axis scaled by its extent. ok is false if the graph has at most minBins bins worth of nodes.
func SpatialSortBinCounts(g *da.Graph, minBins int) (int, int, bool) {
	binCount := g.NumberOfNodes() / pkg.SPATIAL_SORT_BIN_SIZE
	if binCount <= minBins {
		return 0, 0, false
	}

	bb := g.GetBoundingBox()
	latSpan := max(bb.LatSpan(), pkg.GRID_PADDING)
	lonSpan := max(bb.LonSpan(), pkg.GRID_PADDING)

	latCount := util.Clamp(int(float64(binCount)/latSpan/2), 1, maxSpatialSortAxisBins)
	lonCount := util.Clamp(int(float64(binCount)/lonSpan/2), 1, maxSpatialSortAxisBins)
	return latCount, lonCount, true
}

// ReorderSpatially. renumber nodes in grid bin order so that nearby nodes get nearby ids,
// out edges of every node stay sorted by (new) target id. g is left unchanged.
func ReorderSpatially(g *da.Graph, latCount, lonCount int) (*da.Graph, error) {
	grid, err := spatialindex.NewGrid(g, latCount, lonCount)
	if err != nil {
		return nil, err
	}
	sorted, _, err := g.SortByBinNumber(grid.NodeBins(), grid.BinCount())
	if err != nil {
		return nil, err
	}
	return sorted, nil
}
