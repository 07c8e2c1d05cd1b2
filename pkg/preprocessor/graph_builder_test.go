package preprocessor

import (
	"errors"
	"testing"

	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

func TestBuildGraph(t *testing.T) {
	nodes := []RawNode{
		{ID: 30, Lat: 0, Lon: 0.003},
		{ID: 10, Lat: 0, Lon: 0.001},
		{ID: 20, Lat: 0, Lon: 0.002},
		{ID: 5, Lat: 0, Lon: 0},
	}
	edges := []RawEdge{
		{Source: 20, Target: 30, Distance: 100, RoadClass: pkg.RESIDENTIAL, Access: pkg.ACCESS_ALL},
		{Source: 5, Target: 10, Distance: 100, RoadClass: pkg.RESIDENTIAL, Access: pkg.ACCESS_ALL, Speed: 40.4},
		{Source: 10, Target: 20, Distance: 100, RoadClass: pkg.PRIMARY, Access: pkg.ACCESS_CAR, OneWay: true, Speed: 900},
	}

	g, err := BuildGraph(nodes, edges, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, g.SelfCheck())
	assert.Equal(t, 4, g.NumberOfNodes())
	assert.Equal(t, 5, g.NumberOfEdges())

	// dense ids follow external id order
	for i, want := range []int64{5, 10, 20, 30} {
		ni, err := g.GetNodeInfo(da.Index(i))
		require.NoError(t, err)
		assert.Equal(t, want, ni.GetID())
	}

	targets := []da.Index{}
	for _, e := range g.OutEdges(1) {
		targets = append(targets, e.GetTarget())
	}
	assert.Equal(t, []da.Index{0, 2}, targets)

	e, err := g.GetEdge(0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, e.GetEdgeSpeed())

	for _, e := range g.OutEdges(1) {
		if e.GetTarget() == 2 {
			assert.True(t, e.IsOneWay())
			assert.Equal(t, float64(pkg.MAX_EDGE_SPEED), e.GetEdgeSpeed())
		}
	}
	for _, e := range g.OutEdges(2) {
		assert.NotEqual(t, da.Index(1), e.GetTarget())
	}
}

func TestBuildGraphAccessFilter(t *testing.T) {
	nodes := []RawNode{{ID: 1, Lat: 0, Lon: 0}, {ID: 2, Lat: 0, Lon: 0.001}, {ID: 3, Lat: 0, Lon: 0.002}}
	edges := []RawEdge{
		{Source: 1, Target: 2, Distance: 10, RoadClass: pkg.FOOTWAY, Access: pkg.ACCESS_FOOT},
		{Source: 2, Target: 3, Distance: 10, RoadClass: pkg.PRIMARY, Access: pkg.ACCESS_ALL},
	}

	opts := DefaultOptions()
	opts.AccessTypes = pkg.ACCESS_CAR | pkg.ACCESS_BIKE
	g, err := BuildGraph(nodes, edges, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumberOfEdges())
	for i := 0; i < g.NumberOfEdges(); i++ {
		e, _ := g.GetEdge(da.Index(i))
		assert.Equal(t, pkg.ACCESS_CAR|pkg.ACCESS_BIKE, e.GetAccess())
	}
	assert.True(t, g.SelfCheck())

	opts.AccessTypes = pkg.AccessType(0xF0)
	_, err = BuildGraph(nodes, edges, opts)
	assert.True(t, errors.Is(err, util.ErrInvalidConfiguration))
}

func TestBuildGraphBadInput(t *testing.T) {
	nodes := []RawNode{{ID: 1, Lat: 0, Lon: 0}, {ID: 2, Lat: 0, Lon: 0.001}}

	testCases := []struct {
		name  string
		nodes []RawNode
		edges []RawEdge
	}{
		{name: "duplicate node", nodes: append([]RawNode{{ID: 1}}, nodes...)},
		{name: "invalid coordinate", nodes: []RawNode{{ID: 1, Lat: 95}}},
		{name: "unknown node", nodes: nodes, edges: []RawEdge{{Source: 1, Target: 7, Access: pkg.ACCESS_ALL}}},
		{name: "negative distance", nodes: nodes, edges: []RawEdge{{Source: 1, Target: 2, Distance: -1, Access: pkg.ACCESS_ALL}}},
		{name: "invalid access", nodes: nodes, edges: []RawEdge{{Source: 1, Target: 2, Distance: 1, Access: 64}}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildGraph(tt.nodes, tt.edges, DefaultOptions())
			assert.True(t, errors.Is(err, util.ErrBadParamInput))
		})
	}
}

func randomRawGraph(rd *rand.Rand, n int) ([]RawNode, []RawEdge) {
	nodes := make([]RawNode, n)
	for i := range nodes {
		nodes[i] = RawNode{ID: int64(i * 3), Lat: -6.3 + rd.Float64()*0.2, Lon: 106.7 + rd.Float64()*0.3}
	}
	edges := make([]RawEdge, 0, 3*n)
	for i := 1; i < n; i++ {
		edges = append(edges, RawEdge{
			Source: int64(rd.Intn(i) * 3), Target: int64(i * 3), Distance: 1 + rd.Float64()*500,
			RoadClass: pkg.RESIDENTIAL, Access: pkg.ACCESS_ALL, OneWay: rd.Intn(4) == 0,
		})
	}
	for i := 0; i < n; i++ {
		edges = append(edges, RawEdge{
			Source: int64(rd.Intn(n) * 3), Target: int64(rd.Intn(n) * 3), Distance: 1 + rd.Float64()*500,
			RoadClass: pkg.SECONDARY, Access: pkg.ACCESS_CAR, OneWay: true,
		})
	}
	return nodes, edges
}

func TestSpatialSort(t *testing.T) {
	rd := rand.New(rand.NewSource(11))
	nodes, edges := randomRawGraph(rd, 5000)

	plain, err := BuildGraph(nodes, edges, DefaultOptions())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.SpatialSort = true
	opts.MinBinsForSpatialSort = 2
	sorted, err := NewGraphBuilder(opts, zap.NewNop()).Build(nodes, edges)
	require.NoError(t, err)

	assert.True(t, sorted.SelfCheck())
	assert.Equal(t, plain.NumberOfNodes(), sorted.NumberOfNodes())
	assert.Equal(t, plain.NumberOfEdges(), sorted.NumberOfEdges())
	assert.Equal(t, plain.Stats(), sorted.Stats())

	// same multiset of (external source, external target, distance) edges
	type extEdge struct {
		s, t int64
		d    float64
	}
	collect := func(g *da.Graph) map[extEdge]int {
		m := map[extEdge]int{}
		for u := da.Index(0); u < da.Index(g.NumberOfNodes()); u++ {
			uInfo, _ := g.GetNodeInfo(u)
			for _, e := range g.OutEdges(u) {
				vInfo, _ := g.GetNodeInfo(e.GetTarget())
				m[extEdge{uInfo.GetID(), vInfo.GetID(), e.GetLength()}]++
			}
		}
		return m
	}
	assert.Equal(t, collect(plain), collect(sorted))

	// below the threshold the graph keeps its id order
	opts.MinBinsForSpatialSort = pkg.SPATIAL_SORT_MIN_BINS
	unsorted, err := BuildGraph(nodes, edges, opts)
	require.NoError(t, err)
	for u := da.Index(0); u < da.Index(unsorted.NumberOfNodes()); u++ {
		a, _ := unsorted.GetNodeInfo(u)
		b, _ := plain.GetNodeInfo(u)
		assert.Equal(t, a, b)
	}
}

func TestReorderSpatiallyInvalidGrid(t *testing.T) {
	g, err := BuildGraph([]RawNode{{ID: 1}}, nil, DefaultOptions())
	require.NoError(t, err)
	_, err = ReorderSpatially(g, 0, 3)
	assert.True(t, errors.Is(err, util.ErrInvalidConfiguration))
}
