package usecases

import (
	"context"
	"strings"

	"github.com/lintang-b-s/simpleroute/pkg"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/engine"
	"github.com/lintang-b-s/simpleroute/pkg/engine/routing"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"go.uber.org/zap"
)

const (
	DefaultRouter = "dijkstra_set_time"
	DefaultAccess = "car"
)

type RouteRequest struct {
	OriginLat, OriginLon           float64
	DestinationLat, DestinationLon float64
	Router                         string // empty for DefaultRouter
	Access                         string // empty for DefaultAccess
}

type RouteSummary struct {
	Nodes    []da.Index
	Distance float64 // meter
	Eta      float64 // second
	Polyline string
}

type BatchRouteResult struct {
	RouteSummary
	Err error
}

type NodeResult struct {
	Node     da.Index
	Lat, Lon float64
	Distance float64 // meter from the query point
}

type RoutingService struct {
	log         *zap.Logger
	engine      RoutingEngine
	nearbyLimit int
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, nearbyLimit int) *RoutingService {
	return &RoutingService{
		log:         log,
		engine:      engine,
		nearbyLimit: nearbyLimit,
	}
}

func (rs *RoutingService) toQuery(req RouteRequest) (engine.RouteQuery, error) {
	routerName := req.Router
	if routerName == "" {
		routerName = DefaultRouter
	}
	rt, err := routing.ParseRouterType(routerName)
	if err != nil {
		return engine.RouteQuery{}, err
	}

	accessName := req.Access
	if accessName == "" {
		accessName = DefaultAccess
	}
	at, ok := pkg.GetAccessType(strings.ToLower(accessName))
	if !ok {
		return engine.RouteQuery{}, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown access type %q", req.Access)
	}

	return engine.RouteQuery{
		OriginLat:      req.OriginLat,
		OriginLon:      req.OriginLon,
		DestinationLat: req.DestinationLat,
		DestinationLon: req.DestinationLon,
		RouterType:     rt,
		AccessType:     at,
	}, nil
}

func summarize(res engine.RouteResult) (RouteSummary, error) {
	if !res.Route.Found() {
		return RouteSummary{}, util.WrapErrorf(nil, util.ErrNotFound, "no path found from node %d to node %d",
			res.Origin, res.Destination)
	}
	return RouteSummary{
		Nodes:    res.Route.GetNodes(),
		Distance: res.Route.GetDistance(),
		Eta:      res.Route.GetTime(),
		Polyline: geo.PolylineFromCoords(res.Coordinates),
	}, nil
}

func (rs *RoutingService) ShortestPath(req RouteRequest) (RouteSummary, error) {
	q, err := rs.toQuery(req)
	if err != nil {
		return RouteSummary{}, err
	}
	res, err := rs.engine.ShortestPath(q)
	if err != nil {
		return RouteSummary{}, err
	}
	return summarize(res)
}

// ShortestPaths. every request is answered, a request that fails gets its own Err
func (rs *RoutingService) ShortestPaths(ctx context.Context, reqs []RouteRequest) []BatchRouteResult {
	results := make([]BatchRouteResult, len(reqs))
	queries := make([]engine.RouteQuery, 0, len(reqs))
	queryOf := make([]int, 0, len(reqs))
	for i, req := range reqs {
		q, err := rs.toQuery(req)
		if err != nil {
			results[i].Err = err
			continue
		}
		queries = append(queries, q)
		queryOf = append(queryOf, i)
	}

	for j, res := range rs.engine.ShortestPaths(ctx, queries) {
		i := queryOf[j]
		if res.Err != nil {
			results[i].Err = res.Err
			continue
		}
		results[i].RouteSummary, results[i].Err = summarize(res.RouteResult)
	}
	rs.log.Debug("batch routes computed", zap.Int("requests", len(reqs)), zap.Int("valid", len(queries)))
	return results
}

func (rs *RoutingService) NearestNode(lat, lon float64) (NodeResult, error) {
	u, dist, err := rs.engine.NearestNode(lat, lon)
	if err != nil {
		return NodeResult{}, err
	}
	c, err := rs.engine.NodeCoordinate(u)
	if err != nil {
		return NodeResult{}, err
	}
	return NodeResult{Node: u, Lat: c.GetLat(), Lon: c.GetLon(), Distance: dist}, nil
}

// NearbyNodes. radius in km
func (rs *RoutingService) NearbyNodes(lat, lon, radius float64) ([]NodeResult, error) {
	nearby := rs.engine.NearbyNodes(lat, lon, radius, rs.nearbyLimit)
	results := make([]NodeResult, 0, len(nearby))
	for _, nd := range nearby {
		c, err := rs.engine.NodeCoordinate(nd.Node)
		if err != nil {
			return nil, err
		}
		results = append(results, NodeResult{Node: nd.Node, Lat: c.GetLat(), Lon: c.GetLon(), Distance: nd.Distance})
	}
	return results, nil
}
