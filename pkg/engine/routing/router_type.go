package routing

import (
	"strings"

	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/lintang-b-s/simpleroute/pkg/costfunction"
	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

type RouterType uint8

const (
	HOP_DISTANCE RouterType = iota
	DIJKSTRA_SET_DISTANCE
	DIJKSTRA_SET_TIME
	DIJKSTRA_PRIO_QUEUE_DISTANCE
	DIJKSTRA_PRIO_QUEUE_TIME
	A_STAR_DISTANCE
	A_STAR_TIME
)

var routerTypeNames = [...]string{
	HOP_DISTANCE:                 "hop_distance",
	DIJKSTRA_SET_DISTANCE:        "dijkstra_set_distance",
	DIJKSTRA_SET_TIME:            "dijkstra_set_time",
	DIJKSTRA_PRIO_QUEUE_DISTANCE: "dijkstra_prio_queue_distance",
	DIJKSTRA_PRIO_QUEUE_TIME:     "dijkstra_prio_queue_time",
	A_STAR_DISTANCE:              "a_star_distance",
	A_STAR_TIME:                  "a_star_time",
}

func (rt RouterType) String() string {
	if int(rt) >= len(routerTypeNames) {
		return "unknown"
	}
	return routerTypeNames[rt]
}

// RouterTypes. every router type, in enum order
func RouterTypes() []RouterType {
	types := make([]RouterType, 0, len(routerTypeNames))
	for i := range routerTypeNames {
		types = append(types, RouterType(i))
	}
	return types
}

// IsTimeWeighted. true if the router minimizes travel time instead of distance or hops
func (rt RouterType) IsTimeWeighted() bool {
	return rt == DIJKSTRA_SET_TIME || rt == DIJKSTRA_PRIO_QUEUE_TIME || rt == A_STAR_TIME
}

func ParseRouterType(s string) (RouterType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range routerTypeNames {
		if n == name {
			return RouterType(i), nil
		}
	}
	return 0, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown router type %q", s)
}

// NewRouter. router of type rt over g restricted to edges that allow accessType.
// vehicleMaxSpeed (km/h) caps edge speeds for the time weighted routers.
func NewRouter(g *da.Graph, rt RouterType, accessType pkg.AccessType, vehicleMaxSpeed float64) (Router, error) {
	switch rt {
	case HOP_DISTANCE:
		filter, err := costfunction.NewAccessFilter(accessType)
		if err != nil {
			return nil, err
		}
		return NewHopDistanceRouter(g, filter), nil
	case DIJKSTRA_SET_DISTANCE, DIJKSTRA_PRIO_QUEUE_DISTANCE, A_STAR_DISTANCE:
		cost, err := costfunction.NewDistanceCostFunction(accessType)
		if err != nil {
			return nil, err
		}
		return newWeightedRouter(g, rt, cost), nil
	case DIJKSTRA_SET_TIME, DIJKSTRA_PRIO_QUEUE_TIME, A_STAR_TIME:
		cost, err := costfunction.NewTimeCostFunction(accessType, vehicleMaxSpeed)
		if err != nil {
			return nil, err
		}
		return newWeightedRouter(g, rt, cost), nil
	default:
		return nil, util.WrapErrorf(nil, util.ErrInvalidConfiguration, "unknown router type %d", rt)
	}
}

func newWeightedRouter(g *da.Graph, rt RouterType, cost costfunction.WeightedAccessFilter) Router {
	switch rt {
	case A_STAR_DISTANCE, A_STAR_TIME:
		return NewAStarRouter(g, cost)
	case DIJKSTRA_PRIO_QUEUE_DISTANCE, DIJKSTRA_PRIO_QUEUE_TIME:
		return NewDijkstraRouter(g, cost, LazyFrontier)
	default:
		return NewDijkstraRouter(g, cost, OrderedFrontier)
	}
}
