package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// DistanceFunc returns a non-negative distance in kilometers between two points.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

// Haversine returns the great-circle distance in kilometers between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// EquirectangularDist returns an approximate distance in kilometers.
// Close to Haversine over country-sized extents, cheaper to compute.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*math.Pi/180) * math.Pi / 180
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusKm
}

// MetricByName maps a metric name to its DistanceFunc.
func MetricByName(name string) (DistanceFunc, error) {
	switch name {
	case "", "haversine":
		return Haversine, nil
	case "equirectangular":
		return EquirectangularDist, nil
	}
	return nil, fmt.Errorf("unknown distance metric %q", name)
}

// ValidCoord reports whether lat/lng are finite and within range.
func ValidCoord(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
