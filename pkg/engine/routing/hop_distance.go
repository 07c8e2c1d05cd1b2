package routing

import (
	"github.com/lintang-b-s/simpleroute/pkg/costfunction"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
)

// HopDistanceRouter. breadth first search, finds a path with the fewest edges.
// the first discovery of a node fixes its parent.
type HopDistanceRouter struct {
	graph  *da.Graph
	filter costfunction.EdgeFilter
	state  searchState
	queue  []da.Index
}

func NewHopDistanceRouter(graph *da.Graph, filter costfunction.EdgeFilter) *HopDistanceRouter {
	return &HopDistanceRouter{
		graph:  graph,
		filter: filter,
		state:  newSearchState(graph.NumberOfNodes()),
		queue:  make([]da.Index, 0, 1024),
	}
}

func (hr *HopDistanceRouter) Route(start, end da.Index, visitor PathVisitor) error {
	if err := checkEndpoints(hr.graph, start, end); err != nil {
		return err
	}
	hr.state.reset()
	hr.queue = hr.queue[:0]

	hr.state.label(start, start, 0)
	hr.queue = append(hr.queue, start)
	found := start == end

	for head := 0; head < len(hr.queue) && !found; head++ {
		u := hr.queue[head]
		uInfo := hr.state.get(u)
		uInfo.scanned = true
		hr.state.stats.Settled++

		for _, e := range hr.graph.OutEdges(u) {
			if !hr.filter.IsAllowed(e) {
				continue
			}
			v := e.GetTarget()
			if hr.state.labelled(v) {
				continue
			}
			hr.state.label(v, u, uInfo.dist+1)
			hr.state.stats.Relaxed++
			if v == end {
				found = true
				break
			}
			hr.queue = append(hr.queue, v)
		}
	}

	if found {
		hr.state.emitPath(start, end, visitor)
	}
	return nil
}

func (hr *HopDistanceRouter) LastSearchStats() SearchStats {
	return hr.state.stats
}
