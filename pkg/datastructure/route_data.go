package datastructure

import (
	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

// Route. node sequence of a path with its total length (meter) & travel time (second).
// empty nodes means no path, a single node means start == end.
type Route struct {
	nodes      []Index
	distance   float64
	time       float64
	accessType pkg.AccessType
}

func NewRoute(nodes []Index, distance, time float64, accessType pkg.AccessType) Route {
	return Route{nodes: nodes, distance: distance, time: time, accessType: accessType}
}

func (r *Route) GetNodes() []Index {
	return r.nodes
}

func (r *Route) GetDistance() float64 {
	return r.distance
}

func (r *Route) GetTime() float64 {
	return r.time
}

func (r *Route) GetAccessType() pkg.AccessType {
	return r.accessType
}

func (r *Route) Found() bool {
	return len(r.nodes) > 0
}

// RouteSummary. total distance & travel time of nodes.
// travel time of an edge is distance / min(edge speed, vehicleMaxSpeed).
// a consecutive pair without an edge accessible with accessType returns ErrReconstruction.
func (g *Graph) RouteSummary(nodes []Index, vehicleMaxSpeed float64, accessType pkg.AccessType) (Route, error) {
	return g.routeSummary(nodes, vehicleMaxSpeed, accessType, true)
}

// RouteSummaryLenient. same as RouteSummary but a pair without connecting edge adds nothing.
func (g *Graph) RouteSummaryLenient(nodes []Index, vehicleMaxSpeed float64, accessType pkg.AccessType) (Route, error) {
	return g.routeSummary(nodes, vehicleMaxSpeed, accessType, false)
}

func (g *Graph) routeSummary(nodes []Index, vehicleMaxSpeed float64, accessType pkg.AccessType,
	strict bool) (Route, error) {
	if vehicleMaxSpeed <= 0 {
		return Route{}, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "vehicle max speed must be positive, got %f", vehicleMaxSpeed)
	}
	for _, u := range nodes {
		if err := g.CheckNode(u); err != nil {
			return Route{}, err
		}
	}

	var distance, time float64
	for i := 1; i < len(nodes); i++ {
		a, b := nodes[i-1], nodes[i]
		e, ok := g.connectingEdge(a, b, accessType)
		if !ok {
			if strict {
				return Route{}, util.WrapErrorf(nil, util.ErrReconstruction, "no edge from node %d to node %d", a, b)
			}
			continue
		}
		speed := min(e.GetEdgeSpeed(), vehicleMaxSpeed) / 3.6 // m/s
		distance += e.dist
		time += e.dist / speed
	}

	path := make([]Index, len(nodes))
	copy(path, nodes)
	return NewRoute(path, distance, time, accessType), nil
}

// connectingEdge. shortest accessible edge a->b. scans the out edges of the endpoint with smaller out degree;
// on b's side a non one-way edge b->a stands for its reverse record a->b.
func (g *Graph) connectingEdge(a, b Index, accessType pkg.AccessType) (*Edge, bool) {
	var best *Edge
	consider := func(e *Edge) {
		if e.access&accessType == 0 {
			return
		}
		if best == nil || e.dist < best.dist {
			best = e
		}
	}

	if g.GetOutDegree(b) < g.GetOutDegree(a) {
		g.ForOutEdgesOf(b, func(e *Edge, _ Index) {
			if e.target == a && !e.oneWay {
				consider(e)
			}
		})
		if best != nil {
			return best, true
		}
		// one-way a->b has no reverse record
	}

	g.ForOutEdgesOf(a, func(e *Edge, _ Index) {
		if e.target == b {
			consider(e)
		}
	})
	return best, best != nil
}
