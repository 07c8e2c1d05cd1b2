package geo

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/simpleroute/pkg/util"
)

// NewLatLonRect. s2 rectangle [minLat,maxLat]x[minLon,maxLon] in degree. longitude runs eastward from minLon to maxLon,
// lat & lon are clamped to their valid range.
func NewLatLonRect(minLat, minLon, maxLat, maxLon float64) s2.Rect {
	minLat, maxLat = util.Clamp(minLat, -90, 90), util.Clamp(maxLat, -90, 90)
	minLon, maxLon = util.Clamp(minLon, -180, 180), util.Clamp(maxLon, -180, 180)
	return s2.Rect{
		Lat: r1.Interval{Lo: util.DegreeToRadians(minLat), Hi: util.DegreeToRadians(maxLat)},
		Lng: s1.IntervalFromEndpoints(util.DegreeToRadians(minLon), util.DegreeToRadians(maxLon)),
	}
}

// RectDistanceMeter. minimum great-circle distance (meter) from (lat, lon) to any point of the lat/lon rectangle
// [minLat,maxLat]x[minLon,maxLon]. zero if the point is inside.
func RectDistanceMeter(minLat, minLon, maxLat, maxLon float64, lat, lon float64) float64 {
	rect := NewLatLonRect(minLat, minLon, maxLat, maxLon)
	if rect.IsEmpty() {
		return 0
	}
	return rect.DistanceToLatLng(s2.LatLngFromDegrees(lat, lon)).Radians() * earthRadiusM
}
