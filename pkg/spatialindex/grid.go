package spatialindex

import (
	"math"

	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

// binBoundSlack. bin lower bounds are lowered by this much (meter) to absorb rounding differences
// between the s2 rectangle distance and the haversine node distance.
const binBoundSlack = 1e-3

// Grid. uniform lat/lon grid over the padded bounding box of a graph, for nearest node queries.
// node ids of bin b are nodeRefs[binOffsets[b]:binOffsets[b+1]].
// the grid holds a read-only reference to graph, graph must outlive the grid.
type Grid struct {
	graph    *da.Graph
	bbox     *da.BoundingBox
	latCount int
	lonCount int
	latStep  float64
	lonStep  float64

	binOffsets []da.Index
	nodeRefs   []da.Index
	nodeBin    []da.Index
}

// NewGrid. build a latCount x lonCount grid in O(n + latCount*lonCount) with a counting sort over bins.
func NewGrid(graph *da.Graph, latCount, lonCount int) (*Grid, error) {
	if latCount <= 0 || lonCount <= 0 {
		return nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration,
			"grid needs positive bin counts, got %dx%d", latCount, lonCount)
	}

	bbox := graph.GetBoundingBox().Pad(pkg.GRID_PADDING)
	grid := &Grid{
		graph:    graph,
		bbox:     bbox,
		latCount: latCount,
		lonCount: lonCount,
		latStep:  bbox.LatSpan() / float64(latCount),
		lonStep:  bbox.LonSpan() / float64(lonCount),
	}

	n := graph.NumberOfNodes()
	numBins := latCount * lonCount
	grid.nodeBin = make([]da.Index, n)
	binOffsets := make([]da.Index, numBins+1)

	graph.ForNodes(func(u da.Index, ni da.NodeInfo) {
		b := grid.binOf(ni.GetLat(), ni.GetLon())
		grid.nodeBin[u] = da.Index(b)
		binOffsets[b+1]++
	})

	for b := 0; b < numBins; b++ {
		binOffsets[b+1] += binOffsets[b]
	}

	next := make([]da.Index, numBins)
	copy(next, binOffsets[:numBins])
	grid.nodeRefs = make([]da.Index, n)
	for u := 0; u < n; u++ {
		b := grid.nodeBin[u]
		grid.nodeRefs[next[b]] = da.Index(u)
		next[b]++
	}
	grid.binOffsets = binOffsets

	return grid, nil
}

func (grid *Grid) latCorner(i int) float64 {
	return grid.bbox.GetMinLat() + float64(i)*grid.latStep
}

func (grid *Grid) lonCorner(j int) float64 {
	return grid.bbox.GetMinLon() + float64(j)*grid.lonStep
}

// cellIndex. proportional index corrected so that corner(i) <= x < corner(i+1) holds with the same corner formula
// used for bin rectangles. clamped to [0, count).
func cellIndex(x, lo, step float64, count int) int {
	i := util.Clamp(int(math.Floor((x-lo)/step)), 0, count-1)
	if i > 0 && x < lo+float64(i)*step {
		i--
	}
	if i < count-1 && x >= lo+float64(i+1)*step {
		i++
	}
	return i
}

func (grid *Grid) latIndex(lat float64) int {
	return cellIndex(lat, grid.bbox.GetMinLat(), grid.latStep, grid.latCount)
}

func (grid *Grid) lonIndex(lon float64) int {
	return cellIndex(lon, grid.bbox.GetMinLon(), grid.lonStep, grid.lonCount)
}

func (grid *Grid) binOf(lat, lon float64) int {
	return grid.latIndex(lat)*grid.lonCount + grid.lonIndex(lon)
}

// binRectDistance. lower bound (meter) of the distance from (lat, lon) to any node in bin (i, j)
func (grid *Grid) binRectDistance(i, j int, lat, lon float64) float64 {
	d := geo.RectDistanceMeter(grid.latCorner(i), grid.lonCorner(j), grid.latCorner(i+1), grid.lonCorner(j+1), lat, lon)
	return math.Max(0, d-binBoundSlack)
}

// beyondDistance. lower bound (meter) of the distance from (lat, lon) to every bin outside the square of bins
// with chebyshev radius r around (hi, hj). +inf if the square covers the whole grid.
// the bins outside the square lie in the four full-width/full-height strips beyond its sides.
func (grid *Grid) beyondDistance(hi, hj, r int, lat, lon float64) float64 {
	bound := math.Inf(1)
	minLat, maxLat := grid.bbox.GetMinLat(), grid.bbox.GetMaxLat()
	minLon, maxLon := grid.bbox.GetMinLon(), grid.bbox.GetMaxLon()

	if hi-r > 0 {
		bound = math.Min(bound, geo.RectDistanceMeter(minLat, minLon, grid.latCorner(hi-r), maxLon, lat, lon))
	}
	if hi+r < grid.latCount-1 {
		bound = math.Min(bound, geo.RectDistanceMeter(grid.latCorner(hi+r+1), minLon, maxLat, maxLon, lat, lon))
	}
	if hj-r > 0 {
		bound = math.Min(bound, geo.RectDistanceMeter(minLat, minLon, maxLat, grid.lonCorner(hj-r), lat, lon))
	}
	if hj+r < grid.lonCount-1 {
		bound = math.Min(bound, geo.RectDistanceMeter(minLat, grid.lonCorner(hj+r+1), maxLat, maxLon, lat, lon))
	}
	if math.IsInf(bound, 1) {
		return bound
	}
	return math.Max(0, bound-binBoundSlack)
}

// forRing. visit the in-grid bins at chebyshev distance exactly r from (hi, hj)
func (grid *Grid) forRing(hi, hj, r int, handle func(i, j int)) {
	inGrid := func(i, j int) bool {
		return i >= 0 && i < grid.latCount && j >= 0 && j < grid.lonCount
	}
	if r == 0 {
		if inGrid(hi, hj) {
			handle(hi, hj)
		}
		return
	}
	for j := hj - r; j <= hj+r; j++ {
		if inGrid(hi-r, j) {
			handle(hi-r, j)
		}
		if inGrid(hi+r, j) {
			handle(hi+r, j)
		}
	}
	for i := hi - r + 1; i <= hi+r-1; i++ {
		if inGrid(i, hj-r) {
			handle(i, hj-r)
		}
		if inGrid(i, hj+r) {
			handle(i, hj+r)
		}
	}
}

func validCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Closest. nearest node (great-circle distance) to (lat, lon).
// INVALID_NODE_ID if the grid has no nodes or (lat, lon) is not a valid coordinate.
func (grid *Grid) Closest(lat, lon float64) da.Index {
	id, _ := grid.ClosestWithDistance(lat, lon)
	return id
}

// ClosestWithDistance. nearest node & its distance in meter.
// best-first search over bins ordered by their rectangle distance, expanding square rings around the home bin
// of the (clipped) query until neither a queued bin nor the area beyond the current ring can hold a closer node.
// equal distances resolve to the smaller node id.
func (grid *Grid) ClosestWithDistance(lat, lon float64) (da.Index, float64) {
	if len(grid.nodeRefs) == 0 || !validCoordinate(lat, lon) {
		return da.INVALID_NODE_ID, math.Inf(1)
	}

	hi := grid.latIndex(util.Clamp(lat, grid.bbox.GetMinLat(), grid.bbox.GetMaxLat()))
	hj := grid.lonIndex(util.Clamp(lon, grid.bbox.GetMinLon(), grid.bbox.GetMaxLon()))

	pq := da.NewdAryHeapWithTieBreak[int](4, func(a, b int) bool { return a < b })
	pushRing := func(r int) {
		grid.forRing(hi, hj, r, func(i, j int) {
			b := i*grid.lonCount + j
			if grid.binOffsets[b] == grid.binOffsets[b+1] {
				return
			}
			pq.Insert(da.NewPriorityQueueNode(grid.binRectDistance(i, j, lat, lon), b))
		})
	}

	best := math.Inf(1)
	bestId := da.INVALID_NODE_ID

	r := 0
	pushRing(r)
	beyond := grid.beyondDistance(hi, hj, r, lat, lon)
	for {
		top := math.Inf(1)
		if !pq.IsEmpty() {
			top = pq.GetMinRank()
		}
		frontier := math.Min(top, beyond)
		if math.IsInf(frontier, 1) || frontier > best {
			break
		}

		if top <= beyond {
			binNode, _ := pq.ExtractMin()
			b := binNode.GetItem()
			for _, u := range grid.nodeRefs[grid.binOffsets[b]:grid.binOffsets[b+1]] {
				uLat, uLon := grid.graph.GetNodeCoordinates(u)
				d := geo.CalculateHaversineDistanceMeter(lat, lon, uLat, uLon)
				if d < best || (d == best && u < bestId) {
					best = d
					bestId = u
				}
			}
			continue
		}

		r++
		pushRing(r)
		beyond = grid.beyondDistance(hi, hj, r, lat, lon)
	}

	return bestId, best
}

func (grid *Grid) BinCount() int {
	return grid.latCount * grid.lonCount
}

func (grid *Grid) GetLatCount() int {
	return grid.latCount
}

func (grid *Grid) GetLonCount() int {
	return grid.lonCount
}

// GetBoundingBox. padded bounding box covered by the bins
func (grid *Grid) GetBoundingBox() *da.BoundingBox {
	return grid.bbox
}

// BinNodes. node ids in bin, in ascending id order. read-only view, nil for an invalid bin.
func (grid *Grid) BinNodes(bin int) []da.Index {
	if bin < 0 || bin >= grid.BinCount() {
		return nil
	}
	return grid.nodeRefs[grid.binOffsets[bin]:grid.binOffsets[bin+1]]
}

// NodeBins. bin of every node, indexed by node id. read-only view.
func (grid *Grid) NodeBins() []da.Index {
	return grid.nodeBin
}

// BinRect. rectangle of bin as (minLat, minLon, maxLat, maxLon)
func (grid *Grid) BinRect(bin int) (float64, float64, float64, float64) {
	i, j := bin/grid.lonCount, bin%grid.lonCount
	return grid.latCorner(i), grid.lonCorner(j), grid.latCorner(i+1), grid.lonCorner(j+1)
}
