package osmparser

import (
	"strconv"
	"strings"

	"github.com/lintang-b-s/simpleroute/pkg"
	"github.com/paulmach/osm"
)

var acceptedHighway = map[string]struct{}{
	"motorway":       {},
	"motorway_link":  {},
	"trunk":          {},
	"trunk_link":     {},
	"primary":        {},
	"primary_link":   {},
	"secondary":      {},
	"secondary_link": {},
	"tertiary":       {},
	"tertiary_link":  {},
	"unclassified":   {},
	"residential":    {},
	"service":        {},
	"living_street":  {},
	"road":           {},
	"track":          {},
	"cycleway":       {},
	"path":           {},
	"bridleway":      {},
	"footway":        {},
	"corridor":       {},
	"pedestrian":     {},
	"steps":          {},
}

func acceptOsmWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	if way.Tags.Find("area") == "yes" {
		return false
	}
	_, ok := acceptedHighway[way.Tags.Find("highway")]
	return ok
}

func isRestricted(value string) bool {
	return value == "no" || value == "private" || value == "restricted"
}

func isAllowed(value string) bool {
	return value == "yes" || value == "designated" || value == "permissive" || value == "destination"
}

// wayAccess. travel modes of a way: road class default, overridden by access, foot, bicycle & motor vehicle tags
func wayAccess(way *osm.Way, roadClass pkg.RoadClass) pkg.AccessType {
	access := roadClass.DefaultAccess()
	if isRestricted(way.Tags.Find("access")) {
		access = pkg.ACCESS_NONE
	}

	modeTags := []struct {
		mode pkg.AccessType
		keys []string
	}{
		{pkg.ACCESS_FOOT, []string{"foot"}},
		{pkg.ACCESS_BIKE, []string{"bicycle"}},
		{pkg.ACCESS_CAR, []string{"motor_vehicle", "motorcar"}},
	}
	for _, mt := range modeTags {
		for _, key := range mt.keys {
			val := way.Tags.Find(key)
			if isAllowed(val) {
				access |= mt.mode
			} else if isRestricted(val) {
				access &^= mt.mode
			}
		}
	}
	return access
}

// wayDirection. oneway & whether the way runs against its node order
func wayDirection(way *osm.Way, roadClass pkg.RoadClass) (bool, bool) {
	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return true, true
	case "no", "false", "0":
		return false, false
	}
	if way.Tags.Find("junction") == "roundabout" {
		return true, false
	}
	if roadClass == pkg.MOTORWAY {
		return true, false
	}
	return false, false
}

// parseMaxSpeed. maxspeed tag in km/h, 0 if missing or not numeric
func parseMaxSpeed(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = 1.60934
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "knots"):
		factor = 1.852
		value = strings.TrimSuffix(value, "knots")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || speed <= 0 {
		return 0
	}
	return speed * factor
}
