package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/engine"
	"github.com/lintang-b-s/simpleroute/pkg/preprocessor"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

func testService(t *testing.T) *RoutingService {
	t.Helper()
	nodes := []preprocessor.RawNode{
		{ID: 1, Lat: -7.75, Lon: 110.37},
		{ID: 2, Lat: -7.75, Lon: 110.371},
		{ID: 3, Lat: -7.751, Lon: 110.371},
		{ID: 4, Lat: -7.8, Lon: 110.4},
	}
	edges := []preprocessor.RawEdge{
		{Source: 1, Target: 2, Distance: 110.3, RoadClass: pkg.PRIMARY, Access: pkg.ACCESS_ALL},
		{Source: 2, Target: 3, Distance: 110.6, RoadClass: pkg.PRIMARY, Access: pkg.ACCESS_ALL},
	}
	g, err := preprocessor.BuildGraph(nodes, edges, preprocessor.DefaultOptions())
	require.NoError(t, err)
	cfg := engine.DefaultConfig()
	cfg.LatCount, cfg.LonCount = 3, 3
	e, err := engine.NewEngine(g, cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	return NewRoutingService(zap.NewNop(), e, 10)
}

func TestShortestPath(t *testing.T) {
	rs := testService(t)

	res, err := rs.ShortestPath(RouteRequest{
		OriginLat: -7.75, OriginLon: 110.37, DestinationLat: -7.751, DestinationLon: 110.371,
	})
	require.NoError(t, err)
	assert.Equal(t, []da.Index{0, 1, 2}, res.Nodes)
	assert.InDelta(t, 220.9, res.Distance, 1e-9)
	// primary 80 km/h is below the car cap
	assert.InDelta(t, 220.9/(80/3.6), res.Eta, 1e-6)

	coords, _, err := polyline.DecodeCoords([]byte(res.Polyline))
	require.NoError(t, err)
	require.Len(t, coords, 3)
	assert.InDelta(t, -7.751, coords[2][0], 1e-5)
	assert.InDelta(t, 110.371, coords[2][1], 1e-5)
}

func TestShortestPathErrors(t *testing.T) {
	rs := testService(t)

	_, err := rs.ShortestPath(requestTo(-7.8, 110.4))
	assert.True(t, errors.Is(err, util.ErrNotFound))

	req := requestTo(-7.751, 110.371)
	req.Router = "floyd_warshall"
	_, err = rs.ShortestPath(req)
	assert.True(t, errors.Is(err, util.ErrBadParamInput))

	req = requestTo(-7.751, 110.371)
	req.Access = "boat"
	_, err = rs.ShortestPath(req)
	assert.True(t, errors.Is(err, util.ErrBadParamInput))
}

// requestTo. hop distance request from node 1 to (lat, lon)
func requestTo(lat, lon float64) RouteRequest {
	return RouteRequest{OriginLat: -7.75, OriginLon: 110.37, DestinationLat: lat, DestinationLon: lon, Router: "hop_distance"}
}

func TestShortestPaths(t *testing.T) {
	rs := testService(t)
	bad := requestTo(-7.751, 110.371)
	bad.Access = "boat"

	results := rs.ShortestPaths(context.Background(), []RouteRequest{
		requestTo(-7.751, 110.371),
		bad,
		requestTo(-7.8, 110.4),
		requestTo(-7.75, 110.371),
	})
	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.Len(t, results[0].Nodes, 3)
	assert.True(t, errors.Is(results[1].Err, util.ErrBadParamInput))
	assert.True(t, errors.Is(results[2].Err, util.ErrNotFound))
	assert.NoError(t, results[3].Err)
	assert.Len(t, results[3].Nodes, 2)
}

func TestNearest(t *testing.T) {
	rs := testService(t)

	n, err := rs.NearestNode(-7.7501, 110.3711)
	require.NoError(t, err)
	assert.Equal(t, da.Index(1), n.Node)
	assert.Equal(t, 110.371, n.Lon)

	nearby, err := rs.NearbyNodes(-7.75, 110.37, 0.2)
	require.NoError(t, err)
	require.Len(t, nearby, 3)
	assert.Equal(t, da.Index(0), nearby[0].Node)
	assert.Equal(t, 0.0, nearby[0].Distance)
}
