package pkg

import "math"

const (
	INF_WEIGHT float64 = 1e15

	// GRID_PADDING is added on every side of the graph bounding box (degree) so nodes on the border still fall inside a bin.
	GRID_PADDING = 0.001

	// spatial reordering uses bins of about this many nodes
	SPATIAL_SORT_BIN_SIZE = 1024
	// and is skipped for graphs with fewer bins than this
	SPATIAL_SORT_MIN_BINS = 100

	MAX_EDGE_SPEED    = math.MaxUint8 // km/h
	MAX_EDGE_DISTANCE = 1e7           // meter
)

// AccessType. bitmask of travel modes allowed on an edge
type AccessType uint8

const (
	ACCESS_FOOT AccessType = 1 << iota
	ACCESS_BIKE
	ACCESS_CAR

	ACCESS_NONE AccessType = 0
	ACCESS_ALL  AccessType = ACCESS_FOOT | ACCESS_BIKE | ACCESS_CAR
)

func (at AccessType) Valid() bool {
	return at&^ACCESS_ALL == 0
}

func (at AccessType) String() string {
	if at == ACCESS_NONE {
		return "none"
	}
	s := ""
	if at&ACCESS_FOOT != 0 {
		s += "foot,"
	}
	if at&ACCESS_BIKE != 0 {
		s += "bike,"
	}
	if at&ACCESS_CAR != 0 {
		s += "car,"
	}
	if !at.Valid() {
		s += "invalid,"
	}
	return s[:len(s)-1]
}

func GetAccessType(mode string) (AccessType, bool) {
	switch mode {
	case "foot":
		return ACCESS_FOOT, true
	case "bike":
		return ACCESS_BIKE, true
	case "car":
		return ACCESS_CAR, true
	case "all":
		return ACCESS_ALL, true
	default:
		return ACCESS_NONE, false
	}
}

// VehicleMaxSpeed. max speed (km/h) of the agent traveling with access type at. the fastest mode in the mask wins.
func VehicleMaxSpeed(at AccessType) float64 {
	speed := 0.0
	if at&ACCESS_FOOT != 0 {
		speed = 5.0
	}
	if at&ACCESS_BIKE != 0 {
		speed = 15.0
	}
	if at&ACCESS_CAR != 0 {
		speed = 130.0
	}
	return speed
}

type RoadClass uint8

// enum buat osm highway buat routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
// order matters, lower value = more important road
const (
	MOTORWAY       RoadClass = 0
	TRUNK          RoadClass = 1
	PRIMARY        RoadClass = 2
	SECONDARY      RoadClass = 3
	TERTIARY       RoadClass = 4
	UNCLASSIFIED   RoadClass = 5
	RESIDENTIAL    RoadClass = 6
	SERVICE        RoadClass = 7
	MOTORWAY_LINK  RoadClass = 8
	TRUNK_LINK     RoadClass = 9
	PRIMARY_LINK   RoadClass = 10
	SECONDARY_LINK RoadClass = 11
	TERTIARY_LINK  RoadClass = 12
	LIVING_STREET  RoadClass = 13
	ROAD           RoadClass = 14
	TRACK          RoadClass = 15
	CYCLEWAY       RoadClass = 16
	PATH           RoadClass = 17
	FOOTWAY        RoadClass = 18
	PEDESTRIAN     RoadClass = 19
	STEPS          RoadClass = 20
	UNKNOWN        RoadClass = 21
)

type roadClassInfo struct {
	name   string
	speed  uint8 // km/h
	access AccessType
}

var roadClasses = [...]roadClassInfo{
	MOTORWAY:       {"motorway", 120, ACCESS_CAR},
	TRUNK:          {"trunk", 100, ACCESS_CAR},
	PRIMARY:        {"primary", 80, ACCESS_ALL},
	SECONDARY:      {"secondary", 70, ACCESS_ALL},
	TERTIARY:       {"tertiary", 60, ACCESS_ALL},
	UNCLASSIFIED:   {"unclassified", 50, ACCESS_ALL},
	RESIDENTIAL:    {"residential", 30, ACCESS_ALL},
	SERVICE:        {"service", 20, ACCESS_ALL},
	MOTORWAY_LINK:  {"motorway_link", 80, ACCESS_CAR},
	TRUNK_LINK:     {"trunk_link", 70, ACCESS_CAR},
	PRIMARY_LINK:   {"primary_link", 60, ACCESS_ALL},
	SECONDARY_LINK: {"secondary_link", 50, ACCESS_ALL},
	TERTIARY_LINK:  {"tertiary_link", 40, ACCESS_ALL},
	LIVING_STREET:  {"living_street", 10, ACCESS_ALL},
	ROAD:           {"road", 40, ACCESS_ALL},
	TRACK:          {"track", 15, ACCESS_FOOT | ACCESS_BIKE},
	CYCLEWAY:       {"cycleway", 15, ACCESS_BIKE},
	PATH:           {"path", 5, ACCESS_FOOT | ACCESS_BIKE},
	FOOTWAY:        {"footway", 5, ACCESS_FOOT},
	PEDESTRIAN:     {"pedestrian", 5, ACCESS_FOOT},
	STEPS:          {"steps", 3, ACCESS_FOOT},
	UNKNOWN:        {"unknown", 30, ACCESS_ALL},
}

func (rc RoadClass) String() string {
	if int(rc) >= len(roadClasses) {
		return roadClasses[UNKNOWN].name
	}
	return roadClasses[rc].name
}

// DefaultSpeed. default speed in km/h
func (rc RoadClass) DefaultSpeed() uint8 {
	if int(rc) >= len(roadClasses) {
		return roadClasses[UNKNOWN].speed
	}
	return roadClasses[rc].speed
}

func (rc RoadClass) DefaultAccess() AccessType {
	if int(rc) >= len(roadClasses) {
		return roadClasses[UNKNOWN].access
	}
	return roadClasses[rc].access
}

func GetRoadClass(roadType string) RoadClass {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "unclassified":
		return UNCLASSIFIED
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "road":
		return ROAD
	case "track":
		return TRACK
	case "cycleway":
		return CYCLEWAY
	case "path", "bridleway":
		return PATH
	case "footway", "corridor":
		return FOOTWAY
	case "pedestrian":
		return PEDESTRIAN
	case "steps":
		return STEPS
	default:
		return UNKNOWN
	}
}
