package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/simpleroute/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/simpleroute/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/simpleroute/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

type Options struct {
	UseRateLimit   bool
	RateLimitRPS   float64
	RateLimitBurst int
	// Gatherer served on /metrics, prometheus.DefaultGatherer if nil
	Gatherer prometheus.Gatherer
}

// Handler. /api routes, /metrics and /healthz behind the middleware chain
func (api *API) Handler(routingService controllers.RoutingService, opts Options) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	group := router_helper.NewRouteGroup(router, "/api")
	routingRoutes := controllers.New(routingService, api.log)
	routingRoutes.Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log)}
	if opts.UseRateLimit {
		mwChain = append(mwChain, Limit(opts.RateLimitRPS, opts.RateLimitBurst))
	}
	return alice.New(mwChain...).Then(router)
}

// Run. serve until ctx is done or the listener fails
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	routingService controllers.RoutingService,
	opts Options,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(routingService, opts), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		if err := srv.Shutdown(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}
