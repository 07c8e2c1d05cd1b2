package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/http/usecases"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRoutingService struct {
	lastRequest usecases.RouteRequest
}

func (f *fakeRoutingService) ShortestPath(req usecases.RouteRequest) (usecases.RouteSummary, error) {
	f.lastRequest = req
	if req.DestinationLat == 1 {
		return usecases.RouteSummary{}, util.WrapErrorf(nil, util.ErrNotFound, "no path")
	}
	if req.DestinationLat == 2 {
		panic("boom")
	}
	return usecases.RouteSummary{Nodes: []da.Index{0, 1}, Distance: 12.5, Eta: 3, Polyline: "??"}, nil
}

func (f *fakeRoutingService) ShortestPaths(ctx context.Context, reqs []usecases.RouteRequest) []usecases.BatchRouteResult {
	results := make([]usecases.BatchRouteResult, len(reqs))
	for i, req := range reqs {
		results[i].RouteSummary, results[i].Err = f.ShortestPath(req)
	}
	return results
}

func (f *fakeRoutingService) NearestNode(lat, lon float64) (usecases.NodeResult, error) {
	return usecases.NodeResult{Node: 7, Lat: lat, Lon: lon, Distance: 0}, nil
}

func (f *fakeRoutingService) NearbyNodes(lat, lon, radius float64) ([]usecases.NodeResult, error) {
	return []usecases.NodeResult{{Node: 7}, {Node: 9, Distance: radius}}, nil
}

func newTestHandler(t *testing.T, svc *fakeRoutingService, opts Options) http.Handler {
	t.Helper()
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.NewRegistry()
	}
	return NewAPI(zap.NewNop()).Handler(svc, opts)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestComputeRoutes(t *testing.T) {
	svc := &fakeRoutingService{}
	h := newTestHandler(t, svc, Options{})

	rec := serve(h, http.MethodGet,
		"/api/computeRoutes?origin_lat=-7.75&origin_lon=110.37&destination_lat=-7.76&destination_lon=110.38&router=a_star_time&access=foot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data struct {
			Nodes    []int   `json:"nodes"`
			Eta      float64 `json:"eta"`
			Path     string  `json:"path"`
			Distance float64 `json:"distance"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []int{0, 1}, body.Data.Nodes)
	assert.Equal(t, 12.5, body.Data.Distance)
	assert.Equal(t, "a_star_time", svc.lastRequest.Router)
	assert.Equal(t, "foot", svc.lastRequest.Access)
	assert.Equal(t, -7.76, svc.lastRequest.DestinationLat)
}

func TestComputeRoutesErrors(t *testing.T) {
	h := newTestHandler(t, &fakeRoutingService{}, Options{})

	testCases := []struct {
		name   string
		target string
		want   int
	}{
		{name: "missing parameter", target: "/api/computeRoutes?origin_lat=1&origin_lon=1&destination_lat=1", want: http.StatusBadRequest},
		{name: "latitude out of range", target: "/api/computeRoutes?origin_lat=95&origin_lon=1&destination_lat=0&destination_lon=1", want: http.StatusBadRequest},
		{name: "unknown router", target: "/api/computeRoutes?origin_lat=0&origin_lon=1&destination_lat=0&destination_lon=1&router=bfs2", want: http.StatusBadRequest},
		{name: "no path", target: "/api/computeRoutes?origin_lat=0&origin_lon=1&destination_lat=1&destination_lon=1", want: http.StatusNotFound},
		{name: "panic is recovered", target: "/api/computeRoutes?origin_lat=0&origin_lon=1&destination_lat=2&destination_lon=1", want: http.StatusInternalServerError},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestComputeRoutesBatch(t *testing.T) {
	h := newTestHandler(t, &fakeRoutingService{}, Options{})

	rec := serve(h, http.MethodPost, "/api/computeRoutes",
		`{"queries":[{"origin_lat":0,"origin_lon":0,"destination_lat":0,"destination_lon":1},
		{"origin_lat":0,"origin_lon":0,"destination_lat":1,"destination_lon":1}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Route *struct {
				Nodes []int `json:"nodes"`
			} `json:"route"`
			Error string `json:"error"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.NotNil(t, body.Data[0].Route)
	assert.Equal(t, []int{0, 1}, body.Data[0].Route.Nodes)
	assert.Nil(t, body.Data[1].Route)
	assert.NotEmpty(t, body.Data[1].Error)

	rec = serve(h, http.MethodPost, "/api/computeRoutes", `{"queries":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/computeRoutes", strings.NewReader(`queries=1`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestNearestAndNearbyNodes(t *testing.T) {
	h := newTestHandler(t, &fakeRoutingService{}, Options{})

	rec := serve(h, http.MethodGet, "/api/nearestNode?lat=-7.75&lon=110.37", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"node":7`)

	rec = serve(h, http.MethodGet, "/api/nearbyNodes?lat=-7.75&lon=110.37&radius=0.5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"node":9`)

	rec = serve(h, http.MethodGet, "/api/nearbyNodes?lat=-7.75&lon=110.37&radius=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()
	h := newTestHandler(t, &fakeRoutingService{}, Options{Gatherer: reg})

	rec := serve(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_counter_total 1")
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, &fakeRoutingService{}, Options{UseRateLimit: true, RateLimitRPS: 0.001, RateLimitBurst: 2})

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(h, http.MethodGet, "/api/nearestNode?lat=0&lon=0", "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRealIP(t *testing.T) {
	for _, tt := range []struct {
		header, value, want string
	}{
		{header: "X-Real-IP", value: "10.0.0.1", want: "10.0.0.1"},
		{header: "X-Forwarded-For", value: "192.168.1.2, 10.0.0.3", want: "192.168.1.2"},
		{header: "X-Forwarded-For", value: "not-an-ip", want: ""},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(tt.header, tt.value)
		assert.Equal(t, tt.want, realIP(req))
	}
}
