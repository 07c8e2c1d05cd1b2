package usecases

import (
	"context"

	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/engine"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/lintang-b-s/simpleroute/pkg/spatialindex"
)

type RoutingEngine interface {
	ShortestPath(q engine.RouteQuery) (engine.RouteResult, error)
	ShortestPaths(ctx context.Context, queries []engine.RouteQuery) []engine.BatchResult
	NearestNode(lat, lon float64) (da.Index, float64, error)
	NearbyNodes(lat, lon, radius float64, limit int) []spatialindex.NodeDistance
	NodeCoordinate(u da.Index) (geo.Coordinate, error)
}
