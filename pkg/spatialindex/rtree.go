package spatialindex

import (
	"sort"

	da "github.com/lintang-b-s/simpleroute/pkg/datastructure"
	"github.com/lintang-b-s/simpleroute/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree. r-tree over node coordinates for radius queries (snapping candidates).
// keys are [lon, lat].
type Rtree struct {
	tr *rtree.RTreeG[da.Index]
}

type NodeDistance struct {
	Node     da.Index
	Distance float64 // meter
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. insert every node of graph as a point
func (rt *Rtree) Build(graph *da.Graph, log *zap.Logger) {
	n := graph.NumberOfNodes()
	log.Info("Building R-tree spatial index...", zap.Int("nodes", n))

	step := max(n/10, 1)
	graph.ForNodes(func(u da.Index, ni da.NodeInfo) {
		if int(u)%step == 0 {
			log.Debug("Building R-tree spatial index...", zap.Float64("progress", 100*float64(u)/float64(n)))
		}
		p := [2]float64{ni.GetLon(), ni.GetLat()}
		rt.tr.Insert(p, p, u)
	})

	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius. nodes within radius (km) of (qLat, qLon), nearest first, at most limit (all if limit <= 0).
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64, limit int) []NodeDistance {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius*1.5)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius*1.5)

	radiusM := radius * 1000
	results := make([]NodeDistance, 0, 16)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, u da.Index) bool {
			d := geo.CalculateHaversineDistanceMeter(qLat, qLon, min[1], min[0])
			if d <= radiusM {
				results = append(results, NodeDistance{Node: u, Distance: d})
			}
			return true
		})

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Node < results[j].Node
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
