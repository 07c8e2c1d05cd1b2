package routing

import (
	"github.com/lintang-b-s/simpleroute/pkg/costfunction"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
)

// AStarRouter. goal directed DijkstraRouter. the cost function must implement costfunction.Heuristic
// for the search to be directed, otherwise it runs as plain Dijkstra.
// the heuristic is consistent as long as no edge is shorter than the great-circle distance of its endpoints.
type AStarRouter struct {
	*DijkstraRouter
}

func NewAStarRouter(graph *da.Graph, cost costfunction.WeightedAccessFilter) *AStarRouter {
	h, _ := cost.(costfunction.Heuristic)
	return &AStarRouter{DijkstraRouter: newDijkstraRouter(graph, cost, h, OrderedFrontier)}
}

func (ar *AStarRouter) IsGoalDirected() bool {
	return ar.heuristic != nil
}
