package predictor

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberwatch/wildfire-intel/internal/config"
	"github.com/emberwatch/wildfire-intel/internal/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(config.PredictorConfig{BaseURL: "http://model.test", Timeout: 5 * time.Second})
	httpmock.ActivateNonDefault(c.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestClient_Predict_Success(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, "http://model.test/predict",
		httpmock.NewStringResponder(http.StatusOK, `{"fire_probability": 0.42, "risk_level": "Medium"}`))

	resp, err := c.Predict(context.Background(), PredictionRequest{Lat: 1, Lon: 2, Temperature: 25})

	require.NoError(t, err)
	assert.InDelta(t, 0.42, resp.FireProbability, 1e-9)
	assert.Equal(t, "Medium", resp.RiskLevel)
}

func TestClient_Predict_ServerError(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, "http://model.test/predict",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"detail": "model not loaded"}`))

	_, err := c.Predict(context.Background(), PredictionRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestClient_Predict_MalformedBody(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, "http://model.test/predict",
		httpmock.NewStringResponder(http.StatusOK, `{not json`))

	_, err := c.Predict(context.Background(), PredictionRequest{})

	require.Error(t, err)
}

func TestClient_Timeline_Success(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, "http://model.test/predict/timeline",
		httpmock.NewStringResponder(http.StatusOK,
			`[{"month": "Jan", "year": 2026, "prob": 0.2, "risk": "Low", "temp": 10, "humidity": 70, "rain": 5}]`))

	forecast, err := c.Timeline(context.Background(), 37.77, -122.41)

	require.NoError(t, err)
	require.Len(t, forecast, 1)
	assert.Equal(t, "Jan", forecast[0].Month)
	assert.Equal(t, 2026, forecast[0].Year)
}

func TestClient_Evaluate_Success(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, "http://model.test/evaluate",
		httpmock.NewStringResponder(http.StatusOK,
			`{"accuracy": 85.5, "precision": 80.0, "recall": 75.0, "total_predictions": 40, "correct_predictions": 34}`))

	metrics, err := c.Evaluate(context.Background(), []models.ActiveFire{{Lat: 1, Lon: 2}})

	require.NoError(t, err)
	assert.InDelta(t, 85.5, metrics.Accuracy, 1e-9)
	assert.Equal(t, 40, metrics.TotalPredictions)
	assert.Equal(t, 34, metrics.CorrectPredictions)
}

func TestClient_Evaluate_Failure(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, "http://model.test/evaluate",
		httpmock.NewStringResponder(http.StatusBadGateway, ``))

	metrics, err := c.Evaluate(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, metrics)
}
