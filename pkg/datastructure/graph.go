package datastructure

import (
	"iter"
	"math"

	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

type Index uint32

const (
	INVALID_NODE_ID Index = math.MaxUint32
	INVALID_EDGE_ID Index = math.MaxUint32
)

// NodeInfo. external identity & coordinate (degree) of a node
type NodeInfo struct {
	id  int64
	lat float64
	lon float64
}

func NewNodeInfo(id int64, lat, lon float64) NodeInfo {
	return NodeInfo{id: id, lat: lat, lon: lon}
}

func (ni NodeInfo) GetID() int64 {
	return ni.id
}

func (ni NodeInfo) GetLat() float64 {
	return ni.lat
}

func (ni NodeInfo) GetLon() float64 {
	return ni.lon
}

// Node. outgoing edges of a node are edges[begin:end]
type Node struct {
	begin Index
	end   Index
}

func NewNode(begin, end Index) Node {
	return Node{begin: begin, end: end}
}

func (n Node) GetBegin() Index {
	return n.begin
}

func (n Node) GetEnd() Index {
	return n.end
}

func (n Node) EdgeCount() Index {
	return n.end - n.begin
}

// Edge. directed edge source->target.
// a bidirectional road is stored as two edges (forward & reverse), a one-way road as one.
type Edge struct {
	dist      float64 // meter
	source    Index
	target    Index
	access    pkg.AccessType
	roadClass pkg.RoadClass
	speed     uint8 // km/h
	oneWay    bool
}

func NewEdge(source, target Index, oneWay bool, roadClass pkg.RoadClass, access pkg.AccessType,
	speed uint8, dist float64) Edge {
	return Edge{
		source:    source,
		target:    target,
		oneWay:    oneWay,
		roadClass: roadClass,
		access:    access,
		speed:     speed,
		dist:      dist,
	}
}

func (e *Edge) GetSource() Index {
	return e.source
}

func (e *Edge) GetTarget() Index {
	return e.target
}

func (e *Edge) IsOneWay() bool {
	return e.oneWay
}

func (e *Edge) GetRoadClass() pkg.RoadClass {
	return e.roadClass
}

func (e *Edge) GetAccess() pkg.AccessType {
	return e.access
}

// GetEdgeSpeed. speed in km/h, the road class default if the edge has none
func (e *Edge) GetEdgeSpeed() float64 {
	if e.speed == 0 {
		return float64(e.roadClass.DefaultSpeed())
	}
	return float64(e.speed)
}

// GetLength. length in meter
func (e *Edge) GetLength() float64 {
	return e.dist
}

// Reverse. reverse record of a bidirectional edge
func (e *Edge) Reverse() Edge {
	r := *e
	r.source, r.target = e.target, e.source
	return r
}

// Graph. static road network in array-of-structs layout: node i owns edges[nodes[i].begin:nodes[i].end].
// immutable after construction, safe for concurrent readers.
type Graph struct {
	nodeInfos []NodeInfo
	nodes     []Node
	edges     []Edge
}

func NewGraph(nodeInfos []NodeInfo, nodes []Node, edges []Edge) *Graph {
	return &Graph{nodeInfos: nodeInfos, nodes: nodes, edges: edges}
}

func (g *Graph) NumberOfNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) CheckNode(u Index) error {
	if int(u) >= len(g.nodes) {
		return util.WrapErrorf(nil, util.ErrIndexOutOfRange, "node id %d out of range [0,%d)", u, len(g.nodes))
	}
	return nil
}

func (g *Graph) GetNodeInfo(u Index) (NodeInfo, error) {
	if err := g.CheckNode(u); err != nil {
		return NodeInfo{}, err
	}
	return g.nodeInfos[u], nil
}

func (g *Graph) GetNode(u Index) (Node, error) {
	if err := g.CheckNode(u); err != nil {
		return Node{}, err
	}
	return g.nodes[u], nil
}

func (g *Graph) GetEdge(e Index) (Edge, error) {
	if int(e) >= len(g.edges) {
		return Edge{}, util.WrapErrorf(nil, util.ErrIndexOutOfRange, "edge id %d out of range [0,%d)", e, len(g.edges))
	}
	return g.edges[e], nil
}

// EdgeRange. outgoing edges of u are edge ids [begin, end)
func (g *Graph) EdgeRange(u Index) (Index, Index, error) {
	if err := g.CheckNode(u); err != nil {
		return 0, 0, err
	}
	return g.nodes[u].begin, g.nodes[u].end, nil
}

func (g *Graph) GetOutDegree(u Index) Index {
	return g.nodes[u].end - g.nodes[u].begin
}

// ForOutEdgesOf. visit outgoing edges of u in storage order. u must be a valid node id.
func (g *Graph) ForOutEdgesOf(u Index, handle func(e *Edge, id Index)) {
	for e := g.nodes[u].begin; e < g.nodes[u].end; e++ {
		handle(&g.edges[e], e)
	}
}

// OutEdges. restartable view over outgoing edges of u. u must be a valid node id.
func (g *Graph) OutEdges(u Index) iter.Seq2[Index, *Edge] {
	return func(yield func(Index, *Edge) bool) {
		for e := g.nodes[u].begin; e < g.nodes[u].end; e++ {
			if !yield(e, &g.edges[e]) {
				return
			}
		}
	}
}

// GetNodeCoordinates. u must be a valid node id.
func (g *Graph) GetNodeCoordinates(u Index) (float64, float64) {
	ni := g.nodeInfos[u]
	return ni.lat, ni.lon
}

// GetHaversineDistanceFromUtoV. great-circle distance in meter
func (g *Graph) GetHaversineDistanceFromUtoV(u, v Index) float64 {
	uInfo := g.nodeInfos[u]
	vInfo := g.nodeInfos[v]
	return geo.CalculateHaversineDistanceMeter(uInfo.lat, uInfo.lon, vInfo.lat, vInfo.lon)
}

// GetBoundingBox. O(n) min/max of node coordinates. the zero box for an empty graph.
func (g *Graph) GetBoundingBox() *BoundingBox {
	if len(g.nodeInfos) == 0 {
		return NewBoundingBox(0, 0, 0, 0)
	}
	minLat, minLon := math.Inf(1), math.Inf(1)
	maxLat, maxLon := math.Inf(-1), math.Inf(-1)
	for _, ni := range g.nodeInfos {
		minLat = math.Min(minLat, ni.lat)
		minLon = math.Min(minLon, ni.lon)
		maxLat = math.Max(maxLat, ni.lat)
		maxLon = math.Max(maxLon, ni.lon)
	}
	return NewBoundingBox(minLat, minLon, maxLat, maxLon)
}

func (g *Graph) ForNodes(handle func(u Index, ni NodeInfo)) {
	for u, ni := range g.nodeInfos {
		handle(Index(u), ni)
	}
}

type GraphStats struct {
	NumberOfNodes int `json:"number_of_nodes"`
	NumberOfEdges int `json:"number_of_edges"`
	OneWayEdges   int `json:"one_way_edges"`
	FootEdges     int `json:"foot_edges"`
	BikeEdges     int `json:"bike_edges"`
	CarEdges      int `json:"car_edges"`
	MaxOutDegree  int `json:"max_out_degree"`
}

func (g *Graph) Stats() GraphStats {
	stats := GraphStats{NumberOfNodes: len(g.nodes), NumberOfEdges: len(g.edges)}
	for _, n := range g.nodes {
		stats.MaxOutDegree = max(stats.MaxOutDegree, int(n.EdgeCount()))
	}
	for i := range g.edges {
		e := &g.edges[i]
		if e.oneWay {
			stats.OneWayEdges++
		}
		if e.access&pkg.ACCESS_FOOT != 0 {
			stats.FootEdges++
		}
		if e.access&pkg.ACCESS_BIKE != 0 {
			stats.BikeEdges++
		}
		if e.access&pkg.ACCESS_CAR != 0 {
			stats.CarEdges++
		}
	}
	return stats
}
