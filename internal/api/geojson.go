package api

import (
	"github.com/emberwatch/wildfire-intel/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func hotspotsToGeoJSON(hotspots []models.AnalyzedHotspot) FeatureCollection {
	features := make([]Feature, 0, len(hotspots))

	for _, h := range hotspots {
		props := map[string]any{
			"id":          h.ID,
			"location":    h.EnvData.LocationName,
			"brightness":  h.FireData.Brightness,
			"acq_date":    h.FireData.AcqDate,
			"temperature": h.EnvData.Temperature,
			"humidity":    h.EnvData.Humidity,
			"wind_speed":  h.EnvData.WindSpeed,
			"rainfall":    h.EnvData.Rainfall,
			"ndvi":        h.EnvData.NDVI,
		}
		if h.Prediction != nil {
			props["risk_level"] = h.Prediction.RiskLevel.String()
			props["explanation"] = h.Prediction.Explanation
			if h.Prediction.Source != "" {
				props["source"] = h.Prediction.Source
			}
		}

		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{h.FireData.Lon, h.FireData.Lat},
			},
			Properties: props,
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func firesToGeoJSON(fires []models.ActiveFire) FeatureCollection {
	features := make([]Feature, 0, len(fires))

	for _, fire := range fires {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{fire.Lon, fire.Lat},
			},
			Properties: map[string]any{
				"brightness": fire.Brightness,
				"acq_date":   fire.AcqDate,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
