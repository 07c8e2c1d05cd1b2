package routing

import (
	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

// VertexInfo. per node label of a search. a label belongs to the current search only if its stamp matches
type VertexInfo struct {
	dist      float64
	potential float64
	parent    da.Index
	stamp     uint32
	scanned   bool
}

func (vi *VertexInfo) GetDist() float64 {
	return vi.dist
}

func (vi *VertexInfo) GetParent() da.Index {
	return vi.parent
}

func (vi *VertexInfo) IsScanned() bool {
	return vi.scanned
}

// searchState. labels of every node, allocated once per router. reset is O(1) except on stamp wrap around
type searchState struct {
	info  []VertexInfo
	stamp uint32
	path  []da.Index
	stats SearchStats
}

func newSearchState(numberOfNodes int) searchState {
	return searchState{
		info: make([]VertexInfo, numberOfNodes),
		path: make([]da.Index, 0, 64),
	}
}

func (s *searchState) reset() {
	s.stamp++
	if s.stamp == 0 {
		for i := range s.info {
			s.info[i] = VertexInfo{}
		}
		s.stamp = 1
	}
	s.path = s.path[:0]
	s.stats = SearchStats{}
}

func (s *searchState) labelled(u da.Index) bool {
	return s.info[u].stamp == s.stamp
}

// dist. INF_WEIGHT for nodes not reached in this search
func (s *searchState) dist(u da.Index) float64 {
	if !s.labelled(u) {
		return pkg.INF_WEIGHT
	}
	return s.info[u].dist
}

func (s *searchState) label(u, parent da.Index, dist float64) *VertexInfo {
	vi := &s.info[u]
	if vi.stamp != s.stamp {
		*vi = VertexInfo{stamp: s.stamp, potential: -1}
	}
	vi.dist = dist
	vi.parent = parent
	return vi
}

func (s *searchState) get(u da.Index) *VertexInfo {
	return &s.info[u]
}

// emitPath. walk parents back from end, then hand the nodes to visitor start first
func (s *searchState) emitPath(start, end da.Index, visitor PathVisitor) {
	for u := end; ; u = s.info[u].parent {
		s.path = append(s.path, u)
		if u == start {
			break
		}
	}
	for i := len(s.path) - 1; i >= 0; i-- {
		visitor(s.path[i])
	}
}

func checkEndpoints(g *da.Graph, start, end da.Index) error {
	if err := g.CheckNode(start); err != nil {
		return util.WrapErrorf(err, util.ErrIndexOutOfRange, "start node %d", start)
	}
	if err := g.CheckNode(end); err != nil {
		return util.WrapErrorf(err, util.ErrIndexOutOfRange, "end node %d", end)
	}
	return nil
}
