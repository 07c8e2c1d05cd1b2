package spatialindex

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"golang.org/x/sync/errgroup"
)

type GridStats struct {
	LatCount     int     `json:"lat_count"`
	LonCount     int     `json:"lon_count"`
	Bins         int     `json:"bins"`
	NonEmptyBins int     `json:"non_empty_bins"`
	MinBinSize   int     `json:"min_bin_size"`
	MaxBinSize   int     `json:"max_bin_size"`
	AvgBinSize   float64 `json:"avg_bin_size"`
}

func (grid *Grid) Stats() GridStats {
	stats := GridStats{
		LatCount:   grid.latCount,
		LonCount:   grid.lonCount,
		Bins:       grid.BinCount(),
		MinBinSize: math.MaxInt,
	}
	for b := 0; b < grid.BinCount(); b++ {
		size := len(grid.BinNodes(b))
		if size > 0 {
			stats.NonEmptyBins++
		}
		stats.MinBinSize = min(stats.MinBinSize, size)
		stats.MaxBinSize = max(stats.MaxBinSize, size)
	}
	stats.AvgBinSize = float64(len(grid.nodeRefs)) / float64(stats.Bins)
	return stats
}

var errSelfCheck = errors.New("grid self check failed")

// SelfCheck. every node is in exactly one bin, inside that bin's rectangle,
// and Closest at each node's coordinate is at distance 0.
func (grid *Grid) SelfCheck() bool {
	return grid.selfCheck() == nil
}

func (grid *Grid) selfCheck() error {
	n := grid.graph.NumberOfNodes()
	seen := make([]int, n)
	for b := 0; b < grid.BinCount(); b++ {
		minLat, minLon, maxLat, maxLon := grid.BinRect(b)
		for _, u := range grid.BinNodes(b) {
			if int(u) >= n {
				return fmt.Errorf("%w: bin %d holds invalid node %d", errSelfCheck, b, u)
			}
			seen[u]++
			lat, lon := grid.graph.GetNodeCoordinates(u)
			if lat < minLat || lat > maxLat || lon < minLon || lon > maxLon {
				return fmt.Errorf("%w: node %d outside bin %d", errSelfCheck, u, b)
			}
		}
	}
	for u, c := range seen {
		if c != 1 {
			return fmt.Errorf("%w: node %d is in %d bins", errSelfCheck, u, c)
		}
	}

	if n == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers
	var eg errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		eg.Go(func() error {
			for u := start; u < end; u++ {
				lat, lon := grid.graph.GetNodeCoordinates(da.Index(u))
				_, d := grid.ClosestWithDistance(lat, lon)
				if d != 0 {
					return fmt.Errorf("%w: closest to node %d is %f m away", errSelfCheck, u, d)
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
