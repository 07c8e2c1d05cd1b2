package routing

import (
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
)

// PathVisitor. called once per node of the found path, start first
type PathVisitor func(node da.Index)

type Router interface {
	// Route. search a path from start to end and hand its nodes to visitor in order.
	// no path is not an error: visitor is never called.
	Route(start, end da.Index, visitor PathVisitor) error
}

// ShortestPath. collect the nodes Route visits into a slice. empty if end is unreachable
func ShortestPath(r Router, start, end da.Index) ([]da.Index, error) {
	path := make([]da.Index, 0)
	err := r.Route(start, end, func(node da.Index) {
		path = append(path, node)
	})
	if err != nil {
		return nil, err
	}
	return path, nil
}

// SearchStats. counters of the last search of a router
type SearchStats struct {
	Settled      int
	Relaxed      int
	StaleSkipped int
}

type StatsReporter interface {
	LastSearchStats() SearchStats
}
