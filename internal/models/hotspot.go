package models

import "time"

// ActiveFire is a single raw thermal-anomaly detection from the fire feed.
type ActiveFire struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Brightness float64 `json:"brightness"` // Kelvin, VIIRS I-Band 4 brightness temp
	AcqDate    string  `json:"acq_date"`
}

// EnvData is a normalized environmental observation for one coordinate.
// Immutable once produced; created per query, never persisted.
type EnvData struct {
	LocationName string  `json:"locationName"`
	Temperature  float64 `json:"temperature"` // °C
	Humidity     float64 `json:"humidity"`    // %
	WindSpeed    float64 `json:"windSpeed"`   // km/h
	Rainfall     float64 `json:"rainfall"`    // mm, last 24h
	NDVI         float64 `json:"ndvi"`
	Elevation    float64 `json:"elevation"` // meters
	Slope        float64 `json:"slope"`     // degrees
}

// PredictionResult is a risk classification with a human-readable explanation.
type PredictionResult struct {
	RiskLevel   RiskLevel `json:"riskLevel"`
	Explanation string    `json:"explanation"`
	Source      string    `json:"source,omitempty"` // "remote-model" or empty for heuristic
}

// AnalyzedHotspot is the unit the dashboard consumes: one fire detection (or
// user-submitted coordinate) with its environmental data and risk prediction.
// Replaced wholesale on re-analysis, never mutated.
type AnalyzedHotspot struct {
	ID         string            `json:"id"`
	FireData   ActiveFire        `json:"fireData"`
	EnvData    EnvData           `json:"envData"`
	Prediction *PredictionResult `json:"prediction,omitempty"`
}

// EvaluationMetrics is the remote model's self-reported accuracy.
type EvaluationMetrics struct {
	Accuracy           float64 `json:"accuracy"`
	Precision          float64 `json:"precision"`
	Recall             float64 `json:"recall"`
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
}

// TimelineForecast is one entry of the monthly forecast pass-through.
type TimelineForecast struct {
	Month    string  `json:"month"`
	Year     int     `json:"year"`
	Prob     float64 `json:"prob"`
	Risk     string  `json:"risk"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Rain     float64 `json:"rain"`
	Wind     float64 `json:"wind,omitempty"`
}

// AnalysisRecord is one row of the analysis history.
type AnalysisRecord struct {
	HotspotID  string
	Latitude   float64
	Longitude  float64
	Brightness float64
	RiskLevel  RiskLevel
	Source     string
	Custom     bool
	AnalyzedAt time.Time
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (f ActiveFire) Coordinates() Coordinates {
	return Coordinates{
		Latitude:  f.Lat,
		Longitude: f.Lon,
	}
}
