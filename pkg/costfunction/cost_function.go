package costfunction

import (
	"github.com/lintang-b-s/simpleroute/pkg"
)

type EdgeAttributes interface {
	GetEdgeSpeed() float64
	GetLength() float64
	GetAccess() pkg.AccessType
	GetRoadClass() pkg.RoadClass
}

// EdgeFilter. decides whether a router may traverse an edge
type EdgeFilter interface {
	IsAllowed(e EdgeAttributes) bool
}

// WeightedAccessFilter. EdgeFilter with a nonnegative traversal cost
type WeightedAccessFilter interface {
	EdgeFilter
	GetWeight(e EdgeAttributes) float64
}

// Heuristic. admissible estimate of the remaining cost given the great-circle distance (meter) to the target
type Heuristic interface {
	LowerBound(distMeter float64) float64
}
