package datastructure

// SelfCheck. structural consistency of the graph:
// node ranges are contiguous & cover every edge, each out edge of u has source u and a valid target,
// and every bidirectional edge has its reverse record with the same length & road class.
func (g *Graph) SelfCheck() bool {
	n := Index(len(g.nodes))
	if len(g.nodeInfos) != len(g.nodes) {
		return false
	}
	if n == 0 {
		return len(g.edges) == 0
	}

	if g.nodes[0].begin != 0 || int(g.nodes[n-1].end) != len(g.edges) {
		return false
	}
	for u := Index(0); u < n; u++ {
		node := g.nodes[u]
		if node.begin > node.end {
			return false
		}
		if u+1 < n && node.end != g.nodes[u+1].begin {
			return false
		}
	}

	for u := Index(0); u < n; u++ {
		for e := g.nodes[u].begin; e < g.nodes[u].end; e++ {
			edge := &g.edges[e]
			if edge.source != u || edge.target >= n {
				return false
			}
			if !edge.oneWay && !g.hasReverseEdge(edge) {
				return false
			}
		}
	}
	return true
}

func (g *Graph) hasReverseEdge(edge *Edge) bool {
	found := false
	g.ForOutEdgesOf(edge.target, func(r *Edge, _ Index) {
		if r.target == edge.source && !r.oneWay && r.dist == edge.dist && r.roadClass == edge.roadClass {
			found = true
		}
	})
	return found
}
