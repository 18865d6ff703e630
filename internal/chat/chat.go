// Package chat generates the analyst responses shown in the dashboard chat
// panel. Responses are deterministic templates over an analyzed hotspot;
// there is no model behind them.
package chat

import (
	"fmt"
	"strings"

	"github.com/emberwatch/wildfire-intel/internal/models"
)

var safetyRecommendations = map[models.RiskLevel][]string{
	models.RiskLevelExtreme: {
		"Immediate Evacuation: Be prepared to leave immediately if advised by authorities.",
		"Stay Informed: Monitor local emergency channels continuously.",
		"Defensible Space: Ensure all flammable materials are removed from the immediate vicinity of structures.",
	},
	models.RiskLevelHigh: {
		"Alertness: Stay aware of changing weather conditions.",
		"Preparation: Have an emergency kit ready.",
		"Restriction: Avoid any outdoor burning or spark-generating activities.",
	},
	models.RiskLevelMedium: {
		"Caution: Exercise care with any fire-related activities.",
		"Maintenance: clear dry leaves and debris from gutters and yards.",
	},
	models.RiskLevelLow: {
		"Standard Safety: Follow standard fire safety regulations.",
		"Reporting: Report any unattended fires immediately.",
	},
}

// SafetyRecommendations returns the advisory list for a risk level.
func SafetyRecommendations(level models.RiskLevel) []string {
	if recs, ok := safetyRecommendations[level]; ok {
		return recs
	}
	return safetyRecommendations[models.RiskLevelLow]
}

// AnalystResponse answers a free-text query about a hotspot. A nil context
// means no location has been analyzed yet.
func AnalystResponse(query string, context *models.AnalyzedHotspot) string {
	q := strings.ToLower(query)

	if context == nil {
		if strings.Contains(q, "hello") || strings.Contains(q, "hi") || strings.Contains(q, "help") {
			return "Hello. I am the WildfireIntel Analyst. I can assist you by analyzing wildfire risks for specific locations. Please select a location on the map or search for a city to begin a detailed assessment."
		}
		return "To provide a specific analysis, please select a location on the map or enter coordinates in the panel."
	}

	env := context.EnvData
	risk := models.RiskLevelLow
	if context.Prediction != nil {
		risk = context.Prediction.RiskLevel
	}
	elevated := risk == models.RiskLevelExtreme || risk == models.RiskLevelHigh

	switch {
	case containsAny(q, "risk", "safe", "danger", "status"):
		return riskResponse(env, risk, elevated)

	case containsAny(q, "weather", "temp", "wind", "rain"):
		return fmt.Sprintf("**Environmental Report for %s:**\n- Temperature: %.1f°C\n- Humidity: %.0f%%\n- Wind Speed: %.1f km/h\n- Rainfall (24h): %.1f mm\n\nThese factors are fed directly into our predictive XGBoost model.",
			env.LocationName, env.Temperature, env.Humidity, env.WindSpeed, env.Rainfall)

	case containsAny(q, "why", "cause"):
		if elevated {
			return fmt.Sprintf("The high risk is a result of the 'Fire Weather Index' components aligning dangerously. Specifically, the combination of **%.1f km/h winds** and **%.0f%% humidity** creates an environment where a spark could spread rapidly before containment is possible.",
				env.WindSpeed, env.Humidity)
		}
		return fmt.Sprintf("The risk is currently low because moisture levels (Humidity: %.0f%%, Rain: %.1fmm) are sufficient to prevent rapid fire spread in the current vegetation conditions.",
			env.Humidity, env.Rainfall)

	case containsAny(q, "future", "tomorrow", "change", "forecast"):
		return "Based on our 1-year predictive timeline (visible in the chart), risks fluctuate with seasonal patterns. Please refer to the timeline graph in the analysis panel for a detailed monthly breakdown. Generally, risk increases as local temperatures peak and rainfall minimizes."

	case containsAny(q, "do", "recommend", "prepare", "safety"):
		return fmt.Sprintf("**Safety Advisories for %s Risk Level:**\n- %s\n\n*Disclaimer: Always follow official instructions from local emergency services.*",
			risk, strings.Join(SafetyRecommendations(risk), "\n- "))
	}

	return fmt.Sprintf("I am analyzing **%s**. \nCurrent Risk: **%s**.\n\nYou can ask me about:\n- Specific weather factors\n- Why the risk is high/low\n- Safety recommendations\n- Future forecasts",
		env.LocationName, risk)
}

func riskResponse(env models.EnvData, risk models.RiskLevel, elevated bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Currently, the wildfire risk in **%s** is assessed as **%s**. \n\n", env.LocationName, risk)

	b.WriteString("**Reasoning:** ")
	if elevated {
		b.WriteString("This elevated risk is primarily driven by ")
		var causes []string
		if env.Temperature > 30 {
			causes = append(causes, fmt.Sprintf("high temperatures (%.1f°C)", env.Temperature))
		}
		if env.Humidity < 30 {
			causes = append(causes, fmt.Sprintf("critically low humidity (%.0f%%)", env.Humidity))
		}
		if env.WindSpeed > 20 {
			causes = append(causes, fmt.Sprintf("strong winds (%.1f km/h)", env.WindSpeed))
		}
		if env.NDVI > 0.5 {
			causes = append(causes, "dense dry vegetation")
		}
		if env.Rainfall < 2 {
			causes = append(causes, "lack of recent rainfall")
		}
		b.WriteString(strings.Join(causes, ", ") + ".")
	} else {
		fmt.Fprintf(&b, "Conditions are relatively stable. Temperatures are moderate (%.1f°C) and humidity is sufficient (%.0f%%) to suppress rapid ignition.",
			env.Temperature, env.Humidity)
	}

	return b.String()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
