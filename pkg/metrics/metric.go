package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "simpleroute"

// Metrics. query collectors of the engine. a nil *Metrics records nothing.
type Metrics struct {
	routeQueries   *prometheus.CounterVec
	routeDuration  *prometheus.HistogramVec
	settledNodes   *prometheus.HistogramVec
	staleSkipped   *prometheus.CounterVec
	nearestQueries *prometheus.CounterVec
	cacheRequests  *prometheus.CounterVec
	graphNodes     prometheus.Gauge
	graphEdges     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		routeQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_queries_total",
			Help:      "Total route queries by router and result",
		}, []string{"router", "result"}),
		routeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_query_duration_seconds",
			Help:      "Route search duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}, []string{"router"}),
		settledNodes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_settled_nodes",
			Help:      "Nodes settled per route search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"router"}),
		staleSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_stale_entries_total",
			Help:      "Outdated frontier entries skipped by lazy frontier searches",
		}, []string{"router"}),
		nearestQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nearest_node_queries_total",
			Help:      "Total nearest node queries by result",
		}, []string{"result"}),
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_cache_requests_total",
			Help:      "Route cache lookups by result",
		}, []string{"result"}), // "hit" or "miss"
		graphNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes of the loaded road graph",
		}),
		graphEdges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of directed edges of the loaded road graph",
		}),
	}
}

func (m *Metrics) ObserveRoute(router, result string, took time.Duration, settled, stale int) {
	if m == nil {
		return
	}
	m.routeQueries.WithLabelValues(router, result).Inc()
	m.routeDuration.WithLabelValues(router).Observe(took.Seconds())
	m.settledNodes.WithLabelValues(router).Observe(float64(settled))
	if stale > 0 {
		m.staleSkipped.WithLabelValues(router).Add(float64(stale))
	}
}

func (m *Metrics) ObserveNearest(found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "not_found"
	}
	m.nearestQueries.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) SetGraphSize(nodes, edges int) {
	if m == nil {
		return
	}
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
}
