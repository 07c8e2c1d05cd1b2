package datastructure

import (
	"slices"

	"github.com/lintang-b-s/simpleroute/pkg/util"
)

// SortByBinNumber. renumber nodes so that nodes of the same bin get consecutive ids,
// bins in ascending order & nodes inside a bin in their old order.
// returns the new graph and newIds (old id -> new id). g is not modified.
func (g *Graph) SortByBinNumber(binOf []Index, numBins int) (*Graph, []Index, error) {
	n := g.NumberOfNodes()
	if len(binOf) != n {
		return nil, nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration,
			"bin assignment has %d entries, graph has %d nodes", len(binOf), n)
	}

	binNodes := make([][]Index, numBins) // old ids of the nodes in each bin
	for u := Index(0); u < Index(n); u++ {
		b := binOf[u]
		if int(b) >= numBins {
			return nil, nil, util.WrapErrorf(nil, util.ErrIndexOutOfRange,
				"node %d has bin %d, only %d bins", u, b, numBins)
		}
		binNodes[b] = append(binNodes[b], u)
	}

	newIds := make([]Index, n)
	newVid := Index(0)
	for b := range binNodes {
		for _, u := range binNodes[b] {
			newIds[u] = newVid
			newVid++
		}
	}

	return g.renumber(newIds), newIds, nil
}

// renumber. newIds must be a permutation of [0, n)
func (g *Graph) renumber(newIds []Index) *Graph {
	n := g.NumberOfNodes()
	oldIds := make([]Index, n)
	for u, v := range newIds {
		oldIds[v] = Index(u)
	}

	nodeInfos := make([]NodeInfo, n)
	nodes := make([]Node, n)
	edges := make([]Edge, 0, len(g.edges))

	for v := Index(0); v < Index(n); v++ {
		u := oldIds[v]
		nodeInfos[v] = g.nodeInfos[u]

		begin := Index(len(edges))
		g.ForOutEdgesOf(u, func(e *Edge, _ Index) {
			ne := *e
			ne.source = v
			ne.target = newIds[e.target]
			edges = append(edges, ne)
		})
		end := Index(len(edges))

		// out edges stay sorted by target in the new numbering
		slices.SortStableFunc(edges[begin:end], func(a, b Edge) int {
			return int(int64(a.target) - int64(b.target))
		})
		nodes[v] = NewNode(begin, end)
	}

	return NewGraph(nodeInfos, nodes, edges)
}
