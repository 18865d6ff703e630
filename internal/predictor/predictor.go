// Package predictor derives a discrete wildfire risk level and explanation
// from an environmental observation. It is a two-tier strategy chain: the
// remote model is tried first, and any remote failure falls through silently
// to a deterministic heuristic scorer.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/emberwatch/wildfire-intel/internal/firms"
	"github.com/emberwatch/wildfire-intel/internal/geo"
	"github.com/emberwatch/wildfire-intel/internal/models"
)

// ErrUnavailable is returned when no prediction of any kind can be
// constructed. It is the only predictor failure that reaches the user.
var ErrUnavailable = errors.New("prediction unavailable")

// nearbyFireRadiusKm bounds the proximity factor of the heuristic tier.
const nearbyFireRadiusKm = 100

// Predictor produces PredictionResults. Either tier may be exercised alone
// in tests by passing a nil remote or a stub fire source.
type Predictor struct {
	remote RemoteModel
	fires  firms.Source
}

func New(remote RemoteModel, fires firms.Source) *Predictor {
	return &Predictor{
		remote: remote,
		fires:  fires,
	}
}

// Predict classifies the observation. coords carries the query location when
// known; without it the heuristic tier skips fire proximity entirely.
func (p *Predictor) Predict(ctx context.Context, env models.EnvData, coords *models.Coordinates) (models.PredictionResult, error) {
	if p.remote != nil {
		result, err := p.remotePredict(ctx, env, coords)
		if err == nil {
			return result, nil
		}
		slog.Warn("remote model unavailable, falling back to heuristic", "error", err)
	}

	return p.heuristicPredict(ctx, env, coords)
}

func (p *Predictor) remotePredict(ctx context.Context, env models.EnvData, coords *models.Coordinates) (models.PredictionResult, error) {
	req := PredictionRequest{
		Temperature: env.Temperature,
		Humidity:    env.Humidity,
		WindSpeed:   env.WindSpeed,
		Rainfall:    env.Rainfall,
		NDVI:        env.NDVI,
		Elevation:   env.Elevation,
	}
	if coords != nil {
		req.Lat = coords.Latitude
		req.Lon = coords.Longitude
	}

	resp, err := p.remote.Predict(ctx, req)
	if err != nil {
		return models.PredictionResult{}, err
	}
	if resp.FireProbability < 0 || resp.FireProbability > 1 {
		return models.PredictionResult{}, fmt.Errorf("malformed probability: %f", resp.FireProbability)
	}
	if models.ParseRiskLevel(resp.RiskLevel).String() != resp.RiskLevel {
		return models.PredictionResult{}, fmt.Errorf("malformed risk level: %q", resp.RiskLevel)
	}

	return models.PredictionResult{
		RiskLevel: models.ParseRiskLevel(resp.RiskLevel),
		Explanation: fmt.Sprintf("XGBoost Model Prediction: %.2f%% probability. Risk Level: %s. (Temp: %.1f°C, Wind: %.1fkm/h)",
			resp.FireProbability*100, resp.RiskLevel, env.Temperature, env.WindSpeed),
		Source: "remote-model",
	}, nil
}

// heuristicPredict is the deterministic tier: a pure function of the
// observation, the coordinates and the current fire-detection set. If the
// fire feed itself fails here there is no further fallback.
func (p *Predictor) heuristicPredict(ctx context.Context, env models.EnvData, coords *models.Coordinates) (models.PredictionResult, error) {
	nearbyFires := 0
	nearest := math.Inf(1)

	if coords != nil {
		fires, err := p.fires.ActiveFires(ctx)
		if err != nil {
			return models.PredictionResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		for _, fire := range fires {
			distance := geo.Distance(coords.Latitude, coords.Longitude, fire.Lat, fire.Lon)
			if distance < nearest {
				nearest = distance
			}
			if distance < nearbyFireRadiusKm {
				nearbyFires++
			}
		}
	}

	score, factors := ScoreEnvironment(env, nearbyFires)

	return models.PredictionResult{
		RiskLevel:   LevelForScore(score),
		Explanation: heuristicExplanation(env, nearbyFires, nearest, factors),
	}, nil
}
