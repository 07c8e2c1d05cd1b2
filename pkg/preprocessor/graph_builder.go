package preprocessor

import (
	"math"
	"slices"
	"sort"

	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"go.uber.org/zap"
)

type GraphBuilder struct {
	opts Options
	log  *zap.Logger
}

func NewGraphBuilder(opts Options, log *zap.Logger) *GraphBuilder {
	return &GraphBuilder{opts: opts, log: log}
}

// BuildGraph. build a graph from raw records without logging
func BuildGraph(nodes []RawNode, edges []RawEdge, opts Options) (*da.Graph, error) {
	return NewGraphBuilder(opts, zap.NewNop()).Build(nodes, edges)
}

// Build. nodes get dense ids in ascending external id order, edges are grouped by source & sorted by target.
// with SpatialSort on large graphs the nodes are renumbered by grid bin afterwards.
func (b *GraphBuilder) Build(rawNodes []RawNode, rawEdges []RawEdge) (*da.Graph, error) {
	if !b.opts.AccessTypes.Valid() {
		return nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "invalid access mask %d", b.opts.AccessTypes)
	}

	sortedNodes := make([]RawNode, len(rawNodes))
	copy(sortedNodes, rawNodes)
	sort.Slice(sortedNodes, func(i, j int) bool {
		return sortedNodes[i].ID < sortedNodes[j].ID
	})

	n := len(sortedNodes)
	if uint64(n) >= uint64(da.INVALID_NODE_ID) {
		return nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "too many nodes: %d", n)
	}

	nodeIDMap := make(map[int64]da.Index, n)
	nodeInfos := make([]da.NodeInfo, n)
	for i, rn := range sortedNodes {
		if i > 0 && sortedNodes[i-1].ID == rn.ID {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "duplicate node id %d", rn.ID)
		}
		if !(rn.Lat >= -90 && rn.Lat <= 90 && rn.Lon >= -180 && rn.Lon <= 180) {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "node %d has invalid coordinate (%f, %f)", rn.ID, rn.Lat, rn.Lon)
		}
		nodeIDMap[rn.ID] = da.Index(i)
		nodeInfos[i] = da.NewNodeInfo(rn.ID, rn.Lat, rn.Lon)
	}

	adj := make([][]da.Edge, n)
	numEdges := 0
	dropped := 0
	for _, re := range rawEdges {
		source, ok := nodeIDMap[re.Source]
		if !ok {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "edge references unknown node %d", re.Source)
		}
		target, ok := nodeIDMap[re.Target]
		if !ok {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "edge references unknown node %d", re.Target)
		}
		if math.IsNaN(re.Distance) || re.Distance < 0 || re.Distance > pkg.MAX_EDGE_DISTANCE {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "edge %d->%d has invalid distance %f", re.Source, re.Target, re.Distance)
		}
		if !re.Access.Valid() {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "edge %d->%d has invalid access mask %d", re.Source, re.Target, re.Access)
		}

		access := re.Access & b.opts.AccessTypes
		if access == pkg.ACCESS_NONE {
			dropped++
			continue
		}

		e := da.NewEdge(source, target, re.OneWay, re.RoadClass, access, edgeSpeed(re.Speed), re.Distance)
		adj[source] = append(adj[source], e)
		numEdges++
		if !re.OneWay {
			adj[target] = append(adj[target], e.Reverse())
			numEdges++
		}
	}
	if uint64(numEdges) >= uint64(da.INVALID_EDGE_ID) {
		return nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "too many edges: %d", numEdges)
	}

	nodes := make([]da.Node, n)
	edges := make([]da.Edge, 0, numEdges)
	for u := 0; u < n; u++ {
		slices.SortStableFunc(adj[u], func(a, b da.Edge) int {
			return int(int64(a.GetTarget()) - int64(b.GetTarget()))
		})
		begin := da.Index(len(edges))
		edges = append(edges, adj[u]...)
		nodes[u] = da.NewNode(begin, da.Index(len(edges)))
		adj[u] = nil
	}

	graph := da.NewGraph(nodeInfos, nodes, edges)
	b.log.Info("graph built", zap.Int("nodes", graph.NumberOfNodes()), zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("dropped_raw_edges", dropped), zap.String("access_types", b.opts.AccessTypes.String()))

	if !b.opts.SpatialSort {
		return graph, nil
	}

	latCount, lonCount, ok := SpatialSortBinCounts(graph, b.opts.MinBinsForSpatialSort)
	if !ok {
		b.log.Info("graph too small for spatial sort, skipped")
		return graph, nil
	}
	b.log.Info("Clustering graph nodes", zap.Int("lat_count", latCount), zap.Int("lon_count", lonCount))
	sorted, err := ReorderSpatially(graph, latCount, lonCount)
	if err != nil {
		return nil, err
	}
	b.log.Info("Clustering completed")
	return sorted, nil
}

// edgeSpeed. km/h rounded & capped to the storable range
func edgeSpeed(speed float64) uint8 {
	if math.IsNaN(speed) || speed <= 0 {
		return 0
	}
	return uint8(util.Clamp(math.Round(speed), 1, pkg.MAX_EDGE_SPEED))
}
