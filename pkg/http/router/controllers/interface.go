package controllers

import (
	"context"

	"github.com/lintang-b-s/simpleroute/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(req usecases.RouteRequest) (usecases.RouteSummary, error)
	ShortestPaths(ctx context.Context, reqs []usecases.RouteRequest) []usecases.BatchRouteResult
	NearestNode(lat, lon float64) (usecases.NodeResult, error)
	NearbyNodes(lat, lon, radius float64) ([]usecases.NodeResult, error)
}
