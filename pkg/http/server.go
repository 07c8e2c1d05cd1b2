package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/lintang-b-s/simpleroute/pkg/http/router"
	"github.com/lintang-b-s/simpleroute/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/simpleroute/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use. start the API in the background, Wait returns its error
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	routingService controllers.RoutingService,
	gatherer prometheus.Gatherer,
) *Server {
	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}
	opts := http_router.Options{
		UseRateLimit:   viper.GetBool("RATE_LIMIT"),
		RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
		Gatherer:       gatherer,
	}

	api := http_router.NewAPI(log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, config, routingService, opts)
	})
	s.g = g
	return s
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}

// GracefulShutdown. block until SIGINT or SIGTERM
func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	return <-quit
}
