package spatialindex

import (
	"errors"
	"math"
	"testing"

	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// pointGraph. graph with nodes at coords and no edges
func pointGraph(coords [][2]float64) *da.Graph {
	nodeInfos := make([]da.NodeInfo, len(coords))
	nodes := make([]da.Node, len(coords))
	for i, c := range coords {
		nodeInfos[i] = da.NewNodeInfo(int64(i), c[0], c[1])
		nodes[i] = da.NewNode(0, 0)
	}
	return da.NewGraph(nodeInfos, nodes, nil)
}

func randomCoords(rd *rand.Rand, n int, minLat, minLon, span float64) [][2]float64 {
	coords := make([][2]float64, n)
	for i := range coords {
		coords[i] = [2]float64{minLat + rd.Float64()*span, minLon + rd.Float64()*span}
	}
	return coords
}

func bruteForceClosest(coords [][2]float64, lat, lon float64) (da.Index, float64) {
	best := math.Inf(1)
	bestId := da.INVALID_NODE_ID
	for i, c := range coords {
		d := geo.CalculateHaversineDistanceMeter(lat, lon, c[0], c[1])
		if d < best {
			best = d
			bestId = da.Index(i)
		}
	}
	return bestId, best
}

func TestNewGridInvalidConfig(t *testing.T) {
	g := pointGraph([][2]float64{{0, 0}})
	for _, counts := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		_, err := NewGrid(g, counts[0], counts[1])
		assert.True(t, errors.Is(err, util.ErrInvalidConfiguration))
	}
}

func TestClosestEmpty(t *testing.T) {
	grid, err := NewGrid(pointGraph(nil), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, da.INVALID_NODE_ID, grid.Closest(1, 1))
	assert.True(t, grid.SelfCheck())
}

func TestClosestSquareCenter(t *testing.T) {
	coords := [][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	grid, err := NewGrid(pointGraph(coords), 2, 2)
	require.NoError(t, err)

	got, d := grid.ClosestWithDistance(0.5, 0.5)
	// the corners at lat 1 are closer, lon degrees shrink away from the equator
	assert.Contains(t, []da.Index{2, 3}, got)
	_, want := bruteForceClosest(coords, 0.5, 0.5)
	assert.InDelta(t, want, d, 1e-6)
	assert.Equal(t, da.Index(2), got)

	for i := 0; i < 10; i++ {
		assert.Equal(t, got, grid.Closest(0.5, 0.5))
	}
}

func TestClosestAtNode(t *testing.T) {
	rd := rand.New(rand.NewSource(1))
	coords := randomCoords(rd, 500, -6.4, 106.7, 0.3)
	grid, err := NewGrid(pointGraph(coords), 20, 20)
	require.NoError(t, err)

	for i, c := range coords {
		id, d := grid.ClosestWithDistance(c[0], c[1])
		assert.Equal(t, 0.0, d)
		assert.Equal(t, c, coords[id], "node %d", i)
	}
	assert.True(t, grid.SelfCheck())
}

func TestClosestMatchesBruteForce(t *testing.T) {
	rd := rand.New(rand.NewSource(99))
	coords := randomCoords(rd, 2000, 48.0, 11.0, 0.5)
	g := pointGraph(coords)

	testCases := []struct {
		name               string
		latCount, lonCount int
	}{
		{name: "single bin", latCount: 1, lonCount: 1},
		{name: "skewed", latCount: 3, lonCount: 17},
		{name: "fine", latCount: 64, lonCount: 64},
		{name: "finer than data", latCount: 400, lonCount: 300},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := NewGrid(g, tt.latCount, tt.lonCount)
			require.NoError(t, err)

			for q := 0; q < 300; q++ {
				// queries partly outside the bounding box
				lat := 47.5 + rd.Float64()*1.5
				lon := 10.5 + rd.Float64()*1.5
				wantId, wantD := bruteForceClosest(coords, lat, lon)
				gotId, gotD := grid.ClosestWithDistance(lat, lon)
				assert.Equal(t, wantId, gotId)
				assert.InDelta(t, wantD, gotD, 1e-6)
			}
		})
	}
}

func TestClosestFarOutside(t *testing.T) {
	coords := [][2]float64{{10, 10}, {10.01, 10.01}, {9.99, 10.02}}
	grid, err := NewGrid(pointGraph(coords), 5, 5)
	require.NoError(t, err)

	for _, q := range [][2]float64{{80, 10}, {-80, -170}, {10, 179}, {-10, 10.01}} {
		wantId, _ := bruteForceClosest(coords, q[0], q[1])
		assert.Equal(t, wantId, grid.Closest(q[0], q[1]))
	}

	assert.Equal(t, da.INVALID_NODE_ID, grid.Closest(math.NaN(), 10))
	assert.Equal(t, da.INVALID_NODE_ID, grid.Closest(91, 10))
}

func TestClosestDuplicateCoordinates(t *testing.T) {
	coords := [][2]float64{{1, 1}, {2, 2}, {1, 1}, {1, 1}}
	grid, err := NewGrid(pointGraph(coords), 3, 3)
	require.NoError(t, err)
	assert.Equal(t, da.Index(0), grid.Closest(1, 1))
	assert.True(t, grid.SelfCheck())
}

func TestGridBins(t *testing.T) {
	rd := rand.New(rand.NewSource(5))
	coords := randomCoords(rd, 1000, 0, 0, 1)
	grid, err := NewGrid(pointGraph(coords), 7, 9)
	require.NoError(t, err)
	assert.Equal(t, 63, grid.BinCount())

	members := 0
	for b := 0; b < grid.BinCount(); b++ {
		minLat, minLon, maxLat, maxLon := grid.BinRect(b)
		for _, u := range grid.BinNodes(b) {
			members++
			assert.Equal(t, da.Index(b), grid.NodeBins()[u])
			c := coords[u]
			assert.True(t, c[0] >= minLat && c[0] <= maxLat && c[1] >= minLon && c[1] <= maxLon)
		}
	}
	assert.Equal(t, len(coords), members)
	assert.Nil(t, grid.BinNodes(63))

	stats := grid.Stats()
	assert.Equal(t, 63, stats.Bins)
	assert.InDelta(t, 1000.0/63, stats.AvgBinSize, 1e-9)
	assert.LessOrEqual(t, stats.MinBinSize, stats.MaxBinSize)

	bb := grid.GetBoundingBox()
	assert.Less(t, bb.GetMinLat(), 0.0)
	assert.Greater(t, bb.GetMaxLon(), 1.0-0.001)
}

func TestCellIndex(t *testing.T) {
	step := 0.1
	for i := 0; i < 10; i++ {
		corner := float64(i) * step
		assert.Equal(t, i, cellIndex(corner, 0, step, 10))
	}
	assert.Equal(t, 0, cellIndex(-5, 0, step, 10))
	assert.Equal(t, 9, cellIndex(5, 0, step, 10))
}
