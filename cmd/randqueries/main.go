package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/concurrent"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/engine/routing"
	log "github.com/lintang-b-s/simpleroute/pkg/logger"
	"github.com/lintang-b-s/simpleroute/pkg/osmparser"
	"github.com/lintang-b-s/simpleroute/pkg/preprocessor"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	mapFile     = flag.String("f", "./data/map.osm.pbf", "openstreetmap file")
	numQueries  = flag.Int("n", 1000, "number of random queries")
	seed        = flag.Uint64("seed", 42, "random seed")
	access      = flag.String("access", "car", "travel mode: foot, bike, car or all")
	spatialSort = flag.Bool("s", false, "renumber nodes in spatial order before querying")
	workers     = flag.Int("workers", 8, "number of query workers")
	outFile     = flag.String("o", "rand_queries_result.csv", "per query result csv")
)

type spParam struct {
	row int
	s   da.Index
	t   da.Index
}

type routerResult struct {
	cost     float64
	nodes    int
	duration time.Duration
}

type spResult struct {
	spParam
	results []routerResult
}

func main() {
	flag.Parse()
	logger, err := log.NewDevelopment()
	if err != nil {
		panic(err)
	}

	at, ok := pkg.GetAccessType(*access)
	if !ok {
		logger.Fatal("unknown access type", zap.String("access", *access))
	}

	nodes, edges, err := osmparser.NewOSMParser(at, logger).Parse(context.Background(), *mapFile)
	if err != nil {
		logger.Fatal("parse map", zap.Error(err))
	}
	opts := preprocessor.DefaultOptions()
	opts.AccessTypes = at
	opts.SpatialSort = *spatialSort
	g, err := preprocessor.NewGraphBuilder(opts, logger).Build(nodes, edges)
	if err != nil {
		logger.Fatal("build graph", zap.Error(err))
	}
	if g.NumberOfNodes() == 0 {
		logger.Fatal("empty graph")
	}

	rd := rand.New(rand.NewSource(*seed))
	queries := make([]spParam, *numQueries)
	for i := range queries {
		queries[i] = spParam{
			row: i,
			s:   da.Index(rd.Intn(g.NumberOfNodes())),
			t:   da.Index(rd.Intn(g.NumberOfNodes())),
		}
	}

	routerTypes := routing.RouterTypes()
	vmax := pkg.VehicleMaxSpeed(at)
	routerPool := sync.Pool{
		New: func() any {
			routers := make([]routing.Router, len(routerTypes))
			for i, rt := range routerTypes {
				r, err := routing.NewRouter(g, rt, at, vmax)
				if err != nil {
					panic(err)
				}
				routers[i] = r
			}
			return routers
		},
	}

	calcsSP := func(_ context.Context, p spParam) spResult {
		routers := routerPool.Get().([]routing.Router)
		defer routerPool.Put(routers)

		res := spResult{spParam: p, results: make([]routerResult, len(routers))}
		for i, r := range routers {
			before := time.Now()
			path, err := routing.ShortestPath(r, p.s, p.t)
			if err != nil {
				panic(err)
			}
			duration := time.Since(before)

			cost := math.Inf(1)
			if len(path) > 0 {
				route, err := g.RouteSummary(path, vmax, at)
				if err != nil {
					panic(err)
				}
				cost = route.GetDistance()
				if routerTypes[i].IsTimeWeighted() {
					cost = route.GetTime()
				}
				if routerTypes[i] == routing.HOP_DISTANCE {
					cost = float64(len(path) - 1)
				}
			}
			res.results[i] = routerResult{cost: cost, nodes: len(path), duration: duration}
		}
		if (p.row+1)%100 == 0 {
			logger.Sugar().Infof("done query %v", p.row+1)
		}
		return res
	}

	begin := time.Now()
	results := concurrent.Map(context.Background(), *workers, queries, calcsSP)
	logger.Info("random queries done", zap.Int("queries", len(queries)), zap.Duration("took", time.Since(begin)))

	randfout, err := os.Create(*outFile)
	if err != nil {
		logger.Fatal("create result file", zap.Error(err))
	}
	defer randfout.Close()
	w := bufio.NewWriter(randfout)
	defer w.Flush()

	fmt.Fprint(w, "source,target")
	for _, rt := range routerTypes {
		fmt.Fprintf(w, ",%s_cost,%s_nodes,%s_ms", rt, rt, rt)
	}
	fmt.Fprintln(w)

	total := make([]time.Duration, len(routerTypes))
	mismatches := 0
	for _, res := range results {
		fmt.Fprintf(w, "%d,%d", res.s, res.t)
		for i, rr := range res.results {
			fmt.Fprintf(w, ",%f,%d,%.3f", rr.cost, rr.nodes, float64(rr.duration.Microseconds())/1000)
			total[i] += rr.duration
		}
		fmt.Fprintln(w)

		if !agree(routerTypes, res.results) {
			mismatches++
		}
	}

	for i, rt := range routerTypes {
		logger.Info("mean query time", zap.String("router", rt.String()),
			zap.Duration("mean", total[i]/time.Duration(max(len(results), 1))))
	}
	if mismatches > 0 {
		logger.Error("routers with the same metric disagree", zap.Int("queries", mismatches))
		os.Exit(1)
	}
}

// agree. routers minimizing the same metric must find paths of the same cost
func agree(routerTypes []routing.RouterType, results []routerResult) bool {
	var distCost, timeCost = math.NaN(), math.NaN()
	for i, rt := range routerTypes {
		if rt == routing.HOP_DISTANCE {
			continue
		}
		ref := &distCost
		if rt.IsTimeWeighted() {
			ref = &timeCost
		}
		c := results[i].cost
		if math.IsNaN(*ref) {
			*ref = c
			continue
		}
		if math.IsInf(c, 1) != math.IsInf(*ref, 1) {
			return false
		}
		if !math.IsInf(c, 1) && math.Abs(c-*ref) > 1e-6*math.Max(1, *ref) {
			return false
		}
	}
	return true
}
