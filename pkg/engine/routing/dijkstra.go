package routing

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/costfunction"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
)

// FrontierStrategy. priority queue used by DijkstraRouter
type FrontierStrategy uint8

const (
	// OrderedFrontier. indexed 4-ary heap with decrease-key, ties broken by node id
	OrderedFrontier FrontierStrategy = iota
	// LazyFrontier. binary heap without decrease-key, outdated entries are skipped on pop
	LazyFrontier
)

func (fs FrontierStrategy) String() string {
	switch fs {
	case OrderedFrontier:
		return "ordered"
	case LazyFrontier:
		return "lazy"
	default:
		return "unknown"
	}
}

func indexLess(a, b da.Index) bool {
	return a < b
}

// DijkstraRouter. label setting search on nonnegative weights of cost.
// with a heuristic the frontier key is dist + heuristic.LowerBound(haversine(v, end)) (A*).
type DijkstraRouter struct {
	graph     *da.Graph
	cost      costfunction.WeightedAccessFilter
	heuristic costfunction.Heuristic
	strategy  FrontierStrategy
	end       da.Index

	state     searchState
	heapNodes []da.PriorityQueueNode[da.Index]
	ordered   *da.MinHeap[da.Index]
	lazy      *da.LazyMinHeap[da.Index]
}

func NewDijkstraRouter(graph *da.Graph, cost costfunction.WeightedAccessFilter, strategy FrontierStrategy) *DijkstraRouter {
	return newDijkstraRouter(graph, cost, nil, strategy)
}

func newDijkstraRouter(graph *da.Graph, cost costfunction.WeightedAccessFilter, heuristic costfunction.Heuristic,
	strategy FrontierStrategy) *DijkstraRouter {
	n := graph.NumberOfNodes()
	dr := &DijkstraRouter{
		graph:     graph,
		cost:      cost,
		heuristic: heuristic,
		strategy:  strategy,
		end:       da.INVALID_NODE_ID,
		state:     newSearchState(n),
	}

	switch strategy {
	case LazyFrontier:
		dr.lazy = da.NewLazyMinHeap[da.Index](indexLess)
		dr.lazy.Preallocate(min(n, 1<<16))
	default:
		dr.strategy = OrderedFrontier
		dr.heapNodes = make([]da.PriorityQueueNode[da.Index], n)
		dr.ordered = da.NewdAryHeapWithTieBreak[da.Index](4, indexLess)
		dr.ordered.Preallocate(min(n, 1<<16))
	}
	return dr
}

func (dr *DijkstraRouter) GetStrategy() FrontierStrategy {
	return dr.strategy
}

func (dr *DijkstraRouter) Route(start, end da.Index, visitor PathVisitor) error {
	if err := checkEndpoints(dr.graph, start, end); err != nil {
		return err
	}
	found, err := dr.search(start, end)
	if err != nil {
		return err
	}
	if found {
		dr.state.emitPath(start, end, visitor)
	}
	return nil
}

// Distance. cost of the path found by the last search to u, INF_WEIGHT if u was not reached
func (dr *DijkstraRouter) Distance(u da.Index) float64 {
	if dr.graph.CheckNode(u) != nil {
		return pkg.INF_WEIGHT
	}
	return dr.state.dist(u)
}

func (dr *DijkstraRouter) LastSearchStats() SearchStats {
	return dr.state.stats
}

func (dr *DijkstraRouter) search(start, end da.Index) (bool, error) {
	dr.state.reset()
	dr.clearFrontier()
	dr.end = end

	sInfo := dr.state.label(start, start, 0)
	dr.setPotential(start, sInfo)
	dr.push(start, sInfo)

	found := false
	for {
		u, ok := dr.pop()
		if !ok {
			break
		}
		uInfo := dr.state.get(u)
		uInfo.scanned = true
		dr.state.stats.Settled++
		if u == end {
			found = true
			break
		}

		for _, e := range dr.graph.OutEdges(u) {
			if !dr.cost.IsAllowed(e) {
				continue
			}
			w := dr.cost.GetWeight(e)
			if w < 0 || w >= pkg.INF_WEIGHT || math.IsNaN(w) {
				continue
			}
			v := e.GetTarget()
			candidate := uInfo.dist + w

			if !dr.state.labelled(v) {
				vInfo := dr.state.label(v, u, candidate)
				dr.setPotential(v, vInfo)
				dr.push(v, vInfo)
				dr.state.stats.Relaxed++
				continue
			}

			vInfo := dr.state.get(v)
			if vInfo.scanned || candidate >= vInfo.dist {
				continue
			}
			vInfo.dist = candidate
			vInfo.parent = u
			if err := dr.decrease(v, vInfo); err != nil {
				return false, err
			}
			dr.state.stats.Relaxed++
		}
	}

	if dr.lazy != nil {
		dr.state.stats.StaleSkipped = dr.lazy.StaleSkipped()
	}
	return found, nil
}

func (dr *DijkstraRouter) setPotential(v da.Index, vInfo *VertexInfo) {
	if dr.heuristic == nil {
		vInfo.potential = 0
		return
	}
	vInfo.potential = dr.heuristic.LowerBound(dr.graph.GetHaversineDistanceFromUtoV(v, dr.end))
}

func key(vInfo *VertexInfo) float64 {
	return vInfo.dist + vInfo.potential
}

func (dr *DijkstraRouter) clearFrontier() {
	if dr.lazy != nil {
		dr.lazy.Clear()
		return
	}
	dr.ordered.Clear()
}

func (dr *DijkstraRouter) push(v da.Index, vInfo *VertexInfo) {
	if dr.lazy != nil {
		dr.lazy.Push(key(vInfo), v)
		return
	}
	hn := &dr.heapNodes[v]
	hn.Reset(key(vInfo), v)
	dr.ordered.Insert(hn)
}

func (dr *DijkstraRouter) decrease(v da.Index, vInfo *VertexInfo) error {
	if dr.lazy != nil {
		dr.lazy.Push(key(vInfo), v)
		return nil
	}
	if err := dr.ordered.DecreaseKey(&dr.heapNodes[v], key(vInfo)); err != nil {
		return fmt.Errorf("decrease key of node %d: %w", v, err)
	}
	return nil
}

func (dr *DijkstraRouter) pop() (da.Index, bool) {
	if dr.lazy != nil {
		for {
			u, _, ok := dr.lazy.PopFresh(func(item da.Index) float64 {
				return key(dr.state.get(item))
			})
			if !ok {
				return da.INVALID_NODE_ID, false
			}
			if !dr.state.get(u).scanned {
				return u, true
			}
		}
	}

	hn, err := dr.ordered.ExtractMin()
	if err != nil {
		return da.INVALID_NODE_ID, false
	}
	return hn.GetItem(), true
}
