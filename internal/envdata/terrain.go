package envdata

import (
	"fmt"
	"hash/fnv"
	"math"
)

// Vegetation index, elevation and slope are not available from the weather
// source. They are estimated from the coordinates alone: a hash of the
// rounded coordinate pair is mapped into the plausible range of each field.
// This is intentionally approximate stand-in data, kept deterministic so the
// same coordinate always produces the same observation.

func estimateTerrain(lat, lon float64) (ndvi, elevation, slope float64) {
	ndvi = 0.4 + 0.2*coordUniform(lat, lon, "ndvi")
	elevation = math.Abs(lat)*10 + 100*coordUniform(lat, lon, "elevation")
	slope = 20 * coordUniform(lat, lon, "slope")
	return ndvi, elevation, slope
}

// coordUniform maps a salted coordinate hash into [0, 1).
func coordUniform(lat, lon float64, salt string) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%.4f:%.4f", salt, lat, lon)
	return float64(h.Sum64()%1_000_000) / 1_000_000
}
