// Package geo provides great-circle geometry over WGS-ish spherical earth.
package geo

import "math"

// EarthRadiusKM is the mean earth radius used for great-circle distance.
const EarthRadiusKM = 6371.0

// DistanceKM returns the haversine great-circle distance in kilometers
// between two coordinate pairs. Symmetric; zero for identical points.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}
