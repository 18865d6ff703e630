package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371

// Distance returns the great-circle distance between two coordinates in
// kilometers using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRad(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// HotspotID derives a stable identity from coordinates rounded to 4 decimal
// places, so repeated analysis of the same rounded coordinate yields the
// same id. User-submitted locations are prefixed "custom_".
func HotspotID(lat, lon float64, custom bool) string {
	id := fmt.Sprintf("%.4f_%.4f", lat, lon)
	if custom {
		return "custom_" + id
	}
	return id
}

// DisplayCoords formats a coordinate pair as a human-readable fallback for a
// location name, e.g. "12.34°, 56.78°".
func DisplayCoords(lat, lon float64) string {
	return fmt.Sprintf("%.2f°, %.2f°", lat, lon)
}
