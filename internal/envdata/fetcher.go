package envdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/emberwatch/wildfire-intel/internal/config"
	"github.com/emberwatch/wildfire-intel/internal/geo"
	"github.com/emberwatch/wildfire-intel/internal/geocode"
	"github.com/emberwatch/wildfire-intel/internal/models"
)

// Provider returns a normalized environmental observation for a coordinate.
type Provider interface {
	Fetch(ctx context.Context, lat, lon float64, name string) models.EnvData
}

// Fetcher merges live Open-Meteo weather with estimated terrain fields and a
// reverse-geocoded display name. It is total: any failure degrades to a
// deterministic latitude-based estimate, never an error.
type Fetcher struct {
	baseURL  string
	geocoder geocode.Geocoder
	client   *http.Client
}

func NewFetcher(cfg config.WeatherConfig, geocoder geocode.Geocoder) *Fetcher {
	return &Fetcher{
		baseURL:  cfg.BaseURL,
		geocoder: geocoder,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type weatherResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		Rain        float64 `json:"rain"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Fetch resolves a display name and current weather for the coordinate. If
// name is non-empty it is used as-is; a failed reverse geocode degrades to a
// formatted coordinate string without failing the call.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64, name string) models.EnvData {
	locationName := name
	if locationName == "" {
		resolved, err := f.geocoder.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			slog.Warn("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
			locationName = geo.DisplayCoords(lat, lon)
		} else {
			locationName = resolved
		}
	}

	weather, err := f.fetchWeather(ctx, lat, lon)
	if err != nil {
		slog.Warn("weather fetch failed, using estimated observation", "lat", lat, "lon", lon, "error", err)
		return FallbackEnvData(lat, lon, name)
	}

	ndvi, elevation, slope := estimateTerrain(lat, lon)

	return models.EnvData{
		LocationName: locationName,
		Temperature:  weather.Current.Temperature,
		Humidity:     weather.Current.Humidity,
		WindSpeed:    weather.Current.WindSpeed,
		Rainfall:     weather.Current.Rain,
		NDVI:         ndvi,
		Elevation:    elevation,
		Slope:        slope,
	}
}

func (f *Fetcher) fetchWeather(ctx context.Context, lat, lon float64) (*weatherResponse, error) {
	url := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=temperature_2m,relative_humidity_2m,rain,wind_speed_10m&forecast_days=1",
		f.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return &data, nil
}

// FallbackEnvData is the fully synthetic observation used when the weather
// source is unreachable: temperature falls off with distance from the
// equator, the remaining fields are fixed defaults. Deterministic and total.
func FallbackEnvData(lat, lon float64, name string) models.EnvData {
	if name == "" {
		name = fmt.Sprintf("%.2f, %.2f", lat, lon)
	}
	baseTemp := 35 - (math.Abs(lat)/90)*50
	return models.EnvData{
		LocationName: name,
		Temperature:  baseTemp,
		Humidity:     50,
		WindSpeed:    10,
		Rainfall:     0,
		NDVI:         0.5,
		Elevation:    100,
		Slope:        5,
	}
}
