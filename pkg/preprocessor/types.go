package preprocessor

import "github.com/lintang-b-s/simpleroute/pkg"

// RawNode. node record from the ingestion step
type RawNode struct {
	ID  int64
	Lat float64
	Lon float64
}

// RawEdge. road segment between two raw nodes, referenced by their external ids.
// a bidirectional segment is given once and expanded into a forward & reverse edge.
type RawEdge struct {
	Source    int64
	Target    int64
	Distance  float64 // meter
	Speed     float64 // km/h, 0 = road class default
	RoadClass pkg.RoadClass
	Access    pkg.AccessType
	OneWay    bool
}

type Options struct {
	// SpatialSort renumbers nodes by grid bin for memory locality of graph searches
	SpatialSort bool
	// AccessTypes. edges without any of these modes are dropped, kept edges are restricted to them
	AccessTypes pkg.AccessType
	// MinBinsForSpatialSort. spatial sort is skipped unless nodes/SPATIAL_SORT_BIN_SIZE exceeds this
	MinBinsForSpatialSort int
}

func DefaultOptions() Options {
	return Options{
		SpatialSort:           false,
		AccessTypes:           pkg.ACCESS_ALL,
		MinBinsForSpatialSort: pkg.SPATIAL_SORT_MIN_BINS,
	}
}
