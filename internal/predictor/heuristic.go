package predictor

import (
	"fmt"
	"strings"

	"github.com/emberwatch/wildfire-intel/internal/models"
)

// ScoreEnvironment accumulates the deterministic risk score and the list of
// contributing factors for an observation. The checks run in a fixed order
// and are independent of each other; the mid-NDVI band scores without
// contributing factor text.
func ScoreEnvironment(env models.EnvData, nearbyFires int) (int, []string) {
	score := 0
	var factors []string

	if env.Temperature > 35 {
		score += 3
		factors = append(factors, "extreme heat")
	} else if env.Temperature > 30 {
		score += 2
		factors = append(factors, "high temperature")
	}

	if env.Humidity < 30 {
		score += 3
		factors = append(factors, "low humidity")
	} else if env.Humidity < 50 {
		score += 1
		factors = append(factors, "moderate humidity")
	}

	if env.WindSpeed > 25 {
		score += 2
		factors = append(factors, "strong winds")
	} else if env.WindSpeed > 15 {
		score += 1
		factors = append(factors, "moderate winds")
	}

	if env.Rainfall < 2 {
		score += 2
		factors = append(factors, "dry conditions")
	}

	if env.NDVI > 0.6 {
		score += 2
		factors = append(factors, "dense vegetation")
	} else if env.NDVI > 0.4 {
		score += 1
	}

	if env.Slope > 20 {
		score += 1
		factors = append(factors, "steep terrain")
	}

	if nearbyFires > 0 {
		score += 3
		factors = append(factors, fmt.Sprintf("%d active fire(s) within 100km", nearbyFires))
	}

	return score, factors
}

// LevelForScore maps a risk score to its level. The thresholds are exact
// contract: >=10 Extreme, >=7 High, >=4 Medium, else Low.
func LevelForScore(score int) models.RiskLevel {
	switch {
	case score >= 10:
		return models.RiskLevelExtreme
	case score >= 7:
		return models.RiskLevelHigh
	case score >= 4:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func heuristicExplanation(env models.EnvData, nearbyFires int, nearestKm float64, factors []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Risk assessment for %s: ", env.LocationName)

	if nearbyFires > 0 {
		fmt.Fprintf(&b, "%d active fire(s) detected within 100km (nearest: %.1fkm). ", nearbyFires, nearestKm)
	} else {
		b.WriteString("No active fires detected within 100km. ")
	}

	if len(factors) > 0 {
		fmt.Fprintf(&b, "Risk factors: %s. ", strings.Join(factors, ", "))
	}

	fmt.Fprintf(&b, "Environmental conditions: %.1f°C, %.0f%% humidity, %.1f km/h winds, %.1fmm rain.",
		env.Temperature, env.Humidity, env.WindSpeed, env.Rainfall)

	return b.String()
}
