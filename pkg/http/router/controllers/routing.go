package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/simpleroute/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/simpleroute/pkg/http/usecases"
	"go.uber.org/zap"
)

const maxBatchBodyBytes = 1 << 20

type routingAPI struct {
	routingService RoutingService
	validator      *requestValidator
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		validator:      newRequestValidator(),
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.shortestPath)
	group.POST("/computeRoutes", api.shortestPaths)
	group.GET("/nearestNode", api.nearestNode)
	group.GET("/nearbyNodes", api.nearbyNodes)
}

func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()

	if request.OriginLat, err = parseFloatParam(query, "origin_lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.OriginLon, err = parseFloatParam(query, "origin_lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.DestinationLat, err = parseFloatParam(query, "destination_lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.DestinationLon, err = parseFloatParam(query, "destination_lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Router = query.Get("router")
	request.Access = query.Get("access")

	if err := api.validator.check(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	res, err := api.routingService.ShortestPath(request.toUsecase())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// shortestPaths. batch of route queries in a json body, answered in order
func (api *routingAPI) shortestPaths(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request batchShortestPathRequest

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBodyBytes)).Decode(&request)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.validator.check(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	reqs := make([]usecases.RouteRequest, 0, len(request.Queries))
	for _, q := range request.Queries {
		reqs = append(reqs, q.toUsecase())
	}
	results := api.routingService.ShortestPaths(r.Context(), reqs)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewBatchShortestPathResponse(results)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) nearestNode(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestNodeRequest
		err     error
	)
	query := r.URL.Query()
	if request.Lat, err = parseFloatParam(query, "lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lon, err = parseFloatParam(query, "lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.check(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	node, err := api.routingService.NearestNode(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNodeResponse(node)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *routingAPI) nearbyNodes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearbyNodesRequest
		err     error
	)
	query := r.URL.Query()
	if request.Lat, err = parseFloatParam(query, "lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lon, err = parseFloatParam(query, "lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Radius, err = parseFloatParam(query, "radius"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.check(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	nodes, err := api.routingService.NearbyNodes(request.Lat, request.Lon, request.Radius)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNodesResponse(nodes)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
