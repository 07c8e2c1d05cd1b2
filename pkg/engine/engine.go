package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/concurrent"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/engine/routing"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/lintang-b-s/simpleroute/pkg/metrics"
	"github.com/lintang-b-s/simpleroute/pkg/spatialindex"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"go.uber.org/zap"
)

type Config struct {
	LatCount       int
	LonCount       int
	RouteCacheSize int // 0 disables the route cache
	NumWorkers     int // batch routing workers, defaults to GOMAXPROCS
}

func DefaultConfig() Config {
	return Config{
		LatCount:       100,
		LonCount:       100,
		RouteCacheSize: 1 << 14,
		NumWorkers:     runtime.GOMAXPROCS(0),
	}
}

type routerKey struct {
	routerType routing.RouterType
	accessType pkg.AccessType
}

type routeKey struct {
	start, end da.Index
	routerKey
}

// Engine. owns the road graph and its spatial indexes and answers route & nearest node queries.
// graph, grid and rtree are read only after NewEngine, every query gets its own router from a pool.
type Engine struct {
	graph   *da.Graph
	grid    *spatialindex.Grid
	rtree   *spatialindex.Rtree
	log     *zap.Logger
	metrics *metrics.Metrics
	cache   *lru.Cache[routeKey, da.Route]
	cfg     Config

	poolMu      sync.Mutex
	routerPools map[routerKey]*sync.Pool
}

// NewEngine. m may be nil
func NewEngine(graph *da.Graph, cfg Config, log *zap.Logger, m *metrics.Metrics) (*Engine, error) {
	log.Info("Building grid spatial index...", zap.Int("latCount", cfg.LatCount), zap.Int("lonCount", cfg.LonCount))
	grid, err := spatialindex.NewGrid(graph, cfg.LatCount, cfg.LonCount)
	if err != nil {
		return nil, err
	}
	log.Info("Grid spatial index built.", zap.Any("stats", grid.Stats()))

	rt := spatialindex.NewRtree()
	rt.Build(graph, log)

	var cache *lru.Cache[routeKey, da.Route]
	if cfg.RouteCacheSize > 0 {
		cache, err = lru.New[routeKey, da.Route](cfg.RouteCacheSize)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrInvalidConfiguration, "route cache size %d", cfg.RouteCacheSize)
		}
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.GOMAXPROCS(0)
	}

	m.SetGraphSize(graph.NumberOfNodes(), graph.NumberOfEdges())
	return &Engine{
		graph:       graph,
		grid:        grid,
		rtree:       rt,
		log:         log,
		metrics:     m,
		cache:       cache,
		cfg:         cfg,
		routerPools: make(map[routerKey]*sync.Pool),
	}, nil
}

func (e *Engine) GetGraph() *da.Graph {
	return e.graph
}

func (e *Engine) GetGrid() *spatialindex.Grid {
	return e.grid
}

// SelfCheck. structural checks of the graph and the grid, slow
func (e *Engine) SelfCheck() bool {
	ok := e.graph.SelfCheck()
	if !ok {
		e.log.Error("graph self check failed")
	}
	if !e.grid.SelfCheck() {
		e.log.Error("grid self check failed")
		ok = false
	}
	return ok
}

// NearestNode. closest node to (lat, lon) and its distance in meter. ErrNotFound for an empty graph or invalid coordinate.
func (e *Engine) NearestNode(lat, lon float64) (da.Index, float64, error) {
	u, dist := e.grid.ClosestWithDistance(lat, lon)
	e.metrics.ObserveNearest(u != da.INVALID_NODE_ID)
	if u == da.INVALID_NODE_ID {
		return u, 0, util.WrapErrorf(nil, util.ErrNotFound, "no node near %f,%f", lat, lon)
	}
	return u, dist, nil
}

// NearbyNodes. nodes within radius (km), nearest first
func (e *Engine) NearbyNodes(lat, lon, radius float64, limit int) []spatialindex.NodeDistance {
	return e.rtree.SearchWithinRadius(lat, lon, radius, limit)
}

func (e *Engine) NodeCoordinate(u da.Index) (geo.Coordinate, error) {
	ni, err := e.graph.GetNodeInfo(u)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return geo.NewCoordinate(ni.GetLat(), ni.GetLon()), nil
}

func (e *Engine) routerPool(key routerKey) (*sync.Pool, error) {
	e.poolMu.Lock()
	defer e.poolMu.Unlock()
	if pool, ok := e.routerPools[key]; ok {
		return pool, nil
	}

	// validate the router configuration once, the pool only builds routers known to construct
	first, err := routing.NewRouter(e.graph, key.routerType, key.accessType, pkg.VehicleMaxSpeed(key.accessType))
	if err != nil {
		return nil, err
	}
	pool := &sync.Pool{
		New: func() any {
			r, _ := routing.NewRouter(e.graph, key.routerType, key.accessType, pkg.VehicleMaxSpeed(key.accessType))
			return r
		},
	}
	pool.Put(first)
	e.routerPools[key] = pool
	return pool, nil
}

// Route. path from node start to node end. no path gives a route without nodes and a nil error.
func (e *Engine) Route(start, end da.Index, rt routing.RouterType, at pkg.AccessType) (da.Route, error) {
	if at == pkg.ACCESS_NONE || !at.Valid() {
		return da.Route{}, util.WrapErrorf(nil, util.ErrBadParamInput, "access type %s allows no travel mode", at)
	}
	key := routeKey{start: start, end: end, routerKey: routerKey{routerType: rt, accessType: at}}
	if e.cache != nil {
		if route, ok := e.cache.Get(key); ok {
			e.metrics.ObserveCache(true)
			return route, nil
		}
		e.metrics.ObserveCache(false)
	}

	pool, err := e.routerPool(key.routerKey)
	if err != nil {
		return da.Route{}, err
	}
	router := pool.Get().(routing.Router)
	defer pool.Put(router)

	begin := time.Now()
	nodes, err := routing.ShortestPath(router, start, end)
	took := time.Since(begin)
	if err != nil {
		e.metrics.ObserveRoute(rt.String(), "error", took, 0, 0)
		return da.Route{}, err
	}

	var stats routing.SearchStats
	if sr, ok := router.(routing.StatsReporter); ok {
		stats = sr.LastSearchStats()
	}
	result := "found"
	if len(nodes) == 0 {
		result = "not_found"
	}
	e.metrics.ObserveRoute(rt.String(), result, took, stats.Settled, stats.StaleSkipped)
	e.log.Debug("route search done", zap.String("router", rt.String()), zap.Uint32("start", uint32(start)),
		zap.Uint32("end", uint32(end)), zap.Int("pathNodes", len(nodes)), zap.Int("settled", stats.Settled),
		zap.Duration("took", took))

	route, err := e.graph.RouteSummary(nodes, pkg.VehicleMaxSpeed(at), at)
	if err != nil {
		return da.Route{}, err
	}
	if e.cache != nil {
		e.cache.Add(key, route)
	}
	return route, nil
}

type RouteQuery struct {
	OriginLat, OriginLon           float64
	DestinationLat, DestinationLon float64
	RouterType                     routing.RouterType
	AccessType                     pkg.AccessType
}

type RouteResult struct {
	Route       da.Route
	Origin      da.Index
	Destination da.Index
	Coordinates []geo.Coordinate
}

// ShortestPath. snap both coordinates to their nearest node and route between them
func (e *Engine) ShortestPath(q RouteQuery) (RouteResult, error) {
	origin, _, err := e.NearestNode(q.OriginLat, q.OriginLon)
	if err != nil {
		return RouteResult{}, err
	}
	destination, _, err := e.NearestNode(q.DestinationLat, q.DestinationLon)
	if err != nil {
		return RouteResult{}, err
	}

	route, err := e.Route(origin, destination, q.RouterType, q.AccessType)
	if err != nil {
		return RouteResult{}, err
	}

	coords := make([]geo.Coordinate, 0, len(route.GetNodes()))
	for _, u := range route.GetNodes() {
		lat, lon := e.graph.GetNodeCoordinates(u)
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}
	return RouteResult{Route: route, Origin: origin, Destination: destination, Coordinates: coords}, nil
}

type BatchResult struct {
	RouteResult
	Err error
}

// ShortestPaths. ShortestPath for every query on the engine's workers, results in query order.
// queries not started before ctx is done get ctx.Err().
func (e *Engine) ShortestPaths(ctx context.Context, queries []RouteQuery) []BatchResult {
	return concurrent.Map(ctx, e.cfg.NumWorkers, queries, func(ctx context.Context, q RouteQuery) BatchResult {
		if err := ctx.Err(); err != nil {
			return BatchResult{Err: err}
		}
		res, err := e.ShortestPath(q)
		return BatchResult{RouteResult: res, Err: err}
	})
}
