package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/emberwatch/wildfire-intel/internal/config"
	"github.com/emberwatch/wildfire-intel/internal/models"
)

// RemoteModel is the narrow interface to the prediction service. The model
// itself is an opaque external capability; it is never reimplemented here.
type RemoteModel interface {
	Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error)
}

type PredictionRequest struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Rainfall    float64 `json:"rainfall"`
	NDVI        float64 `json:"ndvi"`
	Elevation   float64 `json:"elevation"`
}

type PredictionResponse struct {
	FireProbability float64 `json:"fire_probability"`
	RiskLevel       string  `json:"risk_level"`
}

// Client talks to the model service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(cfg config.PredictorConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Predict sends the feature vector to POST /predict.
func (c *Client) Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error) {
	var resp PredictionResponse
	if err := c.post(ctx, "/predict", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Timeline fetches the monthly forecast from POST /predict/timeline. The
// result is passed through to presentation untouched; an empty slice is
// returned on any failure.
func (c *Client) Timeline(ctx context.Context, lat, lon float64) ([]models.TimelineForecast, error) {
	req := map[string]float64{"lat": lat, "lon": lon}
	var resp []models.TimelineForecast
	if err := c.post(ctx, "/predict/timeline", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Evaluate asks the model service to self-report accuracy against the
// current fire set via POST /evaluate. There is no local fallback: accuracy
// self-reporting without the remote model is meaningless.
func (c *Client) Evaluate(ctx context.Context, fires []models.ActiveFire) (*models.EvaluationMetrics, error) {
	coords := make([]map[string]float64, 0, len(fires))
	for _, f := range fires {
		coords = append(coords, map[string]float64{"lat": f.Lat, "lon": f.Lon})
	}

	var resp models.EvaluationMetrics
	if err := c.post(ctx, "/evaluate", coords, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return nil
}
