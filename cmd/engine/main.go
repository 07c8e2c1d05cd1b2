package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/engine"
	"github.com/lintang-b-s/simpleroute/pkg/http"
	"github.com/lintang-b-s/simpleroute/pkg/http/usecases"
	"github.com/lintang-b-s/simpleroute/pkg/logger"
	"github.com/lintang-b-s/simpleroute/pkg/metrics"
	"github.com/lintang-b-s/simpleroute/pkg/osmparser"
	"github.com/lintang-b-s/simpleroute/pkg/preprocessor"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configFile  = flag.String("config", "", "config file (yaml/json/toml), ./config.yaml or ./data/config.yaml if empty")
	mapFile     = flag.String("f", "", "openstreetmap file (.osm.pbf, .osm, .osm.bz2), overrides GRAPH_FILE")
	selfCheck   = flag.Bool("c", false, "run graph & grid self checks after building, exit with status 1 if they fail")
	spatialSort = flag.Bool("s", false, "renumber nodes in spatial order, overrides SPATIAL_SORT")
	latCount    = flag.Int("lat_count", 0, "grid rows, overrides LAT_COUNT")
	lonCount    = flag.Int("lon_count", 0, "grid columns, overrides LON_COUNT")
	accessTypes = flag.Int("access", -1, "travel modes kept in the graph, bitmask foot=1 bike=2 car=4, overrides ACCESS_TYPES")
	port        = flag.Int("port", 0, "api port, overrides API_PORT")
	checkOnly   = flag.Bool("check_only", false, "build & self check the graph, do not serve")
	dev         = flag.Bool("dev", false, "human readable development logs")
)

func main() {
	flag.Parse()

	var (
		log *zap.Logger
		err error
	)
	if *dev {
		log, err = logger.NewDevelopment()
	} else {
		log, err = logger.New()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := util.ReadConfig(*configFile); err != nil {
		log.Fatal("read config", zap.Error(err))
	}
	applyFlags()

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	defer cleanup()

	routingEngine, reg, err := buildEngine(ctx, log)
	if err != nil {
		log.Fatal("build routing engine", zap.Error(err))
	}

	if *selfCheck || viper.GetBool("SELF_CHECK") {
		start := time.Now()
		if !routingEngine.SelfCheck() {
			log.Error("self check failed")
			os.Exit(1)
		}
		log.Info("self check passed", zap.Duration("took", time.Since(start)))
	}
	if *checkOnly {
		return
	}

	routingService := usecases.NewRoutingService(log, routingEngine, viper.GetInt("NEARBY_NODES_LIMIT"))
	api := http.NewServer(log).Use(ctx, log, routingService, reg)

	go func() {
		sig := http.GracefulShutdown()
		log.Info("simpleroute routing engine server stopping", zap.String("signal", sig.String()))
		cleanup()
	}()

	if err := api.Wait(); err != nil && ctx.Err() == nil {
		log.Error("api stopped", zap.Error(err))
	}
	log.Info("simpleroute routing engine server stopped")
}

func applyFlags() {
	if *mapFile != "" {
		viper.Set("GRAPH_FILE", *mapFile)
	}
	if *spatialSort {
		viper.Set("SPATIAL_SORT", true)
	}
	if *latCount > 0 {
		viper.Set("LAT_COUNT", *latCount)
	}
	if *lonCount > 0 {
		viper.Set("LON_COUNT", *lonCount)
	}
	if *accessTypes >= 0 {
		viper.Set("ACCESS_TYPES", *accessTypes)
	}
	if *port > 0 {
		viper.Set("API_PORT", *port)
	}
}

func buildEngine(ctx context.Context, log *zap.Logger) (*engine.Engine, *prometheus.Registry, error) {
	access := pkg.AccessType(viper.GetUint("ACCESS_TYPES"))

	start := time.Now()
	parser := osmparser.NewOSMParser(access, log)
	nodes, edges, err := parser.Parse(ctx, viper.GetString("GRAPH_FILE"))
	if err != nil {
		return nil, nil, err
	}
	log.Info("map parsed", zap.Duration("took", time.Since(start)))

	opts := preprocessor.DefaultOptions()
	opts.SpatialSort = viper.GetBool("SPATIAL_SORT")
	opts.AccessTypes = access
	graph, err := preprocessor.NewGraphBuilder(opts, log).Build(nodes, edges)
	if err != nil {
		return nil, nil, err
	}
	log.Info("road graph built", zap.Any("stats", graph.Stats()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cfg := engine.DefaultConfig()
	cfg.LatCount = viper.GetInt("LAT_COUNT")
	cfg.LonCount = viper.GetInt("LON_COUNT")
	cfg.RouteCacheSize = viper.GetInt("ROUTE_CACHE_SIZE")
	if n := viper.GetInt("NUM_WORKERS"); n > 0 {
		cfg.NumWorkers = n
	}
	routingEngine, err := engine.NewEngine(graph, cfg, log, metrics.NewMetrics(reg))
	if err != nil {
		return nil, nil, err
	}
	return routingEngine, reg, nil
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
