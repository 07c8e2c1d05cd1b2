package controllers

import (
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/http/usecases"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"min=-180,max=180"`
	Router         string  `json:"router" validate:"omitempty,oneof=hop_distance dijkstra_set_distance dijkstra_set_time dijkstra_prio_queue_distance dijkstra_prio_queue_time a_star_distance a_star_time"`
	Access         string  `json:"access" validate:"omitempty,oneof=foot bike car all"`
}

func (r shortestPathRequest) toUsecase() usecases.RouteRequest {
	return usecases.RouteRequest{
		OriginLat:      r.OriginLat,
		OriginLon:      r.OriginLon,
		DestinationLat: r.DestinationLat,
		DestinationLon: r.DestinationLon,
		Router:         r.Router,
		Access:         r.Access,
	}
}

type batchShortestPathRequest struct {
	Queries []shortestPathRequest `json:"queries" validate:"required,min=1,max=1000,dive"`
}

type shortestPathResponse struct {
	Nodes []da.Index `json:"nodes"`
	Eta   float64    `json:"eta"`
	Path  string     `json:"path"`
	Dist  float64    `json:"distance"`
}

func NewShortestPathResponse(res usecases.RouteSummary) shortestPathResponse {
	return shortestPathResponse{
		Nodes: res.Nodes,
		Eta:   res.Eta,
		Path:  res.Polyline,
		Dist:  res.Distance,
	}
}

type batchShortestPathResponse struct {
	Route *shortestPathResponse `json:"route,omitempty"`
	Error string                `json:"error,omitempty"`
}

func NewBatchShortestPathResponse(results []usecases.BatchRouteResult) []batchShortestPathResponse {
	resp := make([]batchShortestPathResponse, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			resp = append(resp, batchShortestPathResponse{Error: res.Err.Error()})
			continue
		}
		route := NewShortestPathResponse(res.RouteSummary)
		resp = append(resp, batchShortestPathResponse{Route: &route})
	}
	return resp
}

type nearestNodeRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type nearbyNodesRequest struct {
	Lat    float64 `json:"lat" validate:"min=-90,max=90"`
	Lon    float64 `json:"lon" validate:"min=-180,max=180"`
	Radius float64 `json:"radius" validate:"gt=0,max=10"`
}

type nodeResponse struct {
	Node     da.Index `json:"node"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Distance float64  `json:"distance"`
}

func NewNodeResponse(n usecases.NodeResult) nodeResponse {
	return nodeResponse{Node: n.Node, Lat: n.Lat, Lon: n.Lon, Distance: n.Distance}
}

func NewNodesResponse(ns []usecases.NodeResult) []nodeResponse {
	resp := make([]nodeResponse, 0, len(ns))
	for _, n := range ns {
		resp = append(resp, NewNodeResponse(n))
	}
	return resp
}
