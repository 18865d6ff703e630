package envdata

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/emberwatch/wildfire-intel/internal/config"
	"github.com/emberwatch/wildfire-intel/internal/geocode"
)

// stubGeocoder implements geocode.Geocoder for testing.
type stubGeocoder struct {
	name string
	err  error
}

func (s *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.name, nil
}

func (s *stubGeocoder) Search(ctx context.Context, query string) (geocode.SearchResult, error) {
	return geocode.SearchResult{}, errors.New("not implemented")
}

func newTestFetcher(t *testing.T, g geocode.Geocoder) *Fetcher {
	t.Helper()
	f := NewFetcher(config.WeatherConfig{BaseURL: "http://weather.test/v1/forecast"}, g)
	httpmock.ActivateNonDefault(f.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return f
}

const weatherBody = `{"current": {"temperature_2m": 31.4, "relative_humidity_2m": 28, "rain": 0.2, "wind_speed_10m": 19.7}}`

func TestFetch_MergesWeatherAndEstimates(t *testing.T) {
	f := newTestFetcher(t, &stubGeocoder{name: "Los Angeles, California"})
	httpmock.RegisterResponder(http.MethodGet, `=~^http://weather\.test/v1/forecast`,
		httpmock.NewStringResponder(http.StatusOK, weatherBody))

	env := f.Fetch(context.Background(), 34.0522, -118.2437, "")

	assert.Equal(t, "Los Angeles, California", env.LocationName)
	assert.InDelta(t, 31.4, env.Temperature, 1e-9)
	assert.InDelta(t, 28, env.Humidity, 1e-9)
	assert.InDelta(t, 19.7, env.WindSpeed, 1e-9)
	assert.InDelta(t, 0.2, env.Rainfall, 1e-9)

	// Estimated fields stay inside their documented ranges.
	assert.GreaterOrEqual(t, env.NDVI, 0.4)
	assert.Less(t, env.NDVI, 0.6)
	assert.GreaterOrEqual(t, env.Elevation, 34.0522*10)
	assert.GreaterOrEqual(t, env.Slope, 0.0)
	assert.Less(t, env.Slope, 20.0)
}

func TestFetch_ProvidedNameSkipsGeocoding(t *testing.T) {
	f := newTestFetcher(t, &stubGeocoder{err: errors.New("should not be called")})
	httpmock.RegisterResponder(http.MethodGet, `=~^http://weather\.test/`,
		httpmock.NewStringResponder(http.StatusOK, weatherBody))

	env := f.Fetch(context.Background(), 34.05, -118.24, "Your Location")

	assert.Equal(t, "Your Location", env.LocationName)
}

func TestFetch_GeocodeFailureDegradesToCoordinateName(t *testing.T) {
	f := newTestFetcher(t, &stubGeocoder{err: errors.New("geocoder down")})
	httpmock.RegisterResponder(http.MethodGet, `=~^http://weather\.test/`,
		httpmock.NewStringResponder(http.StatusOK, weatherBody))

	env := f.Fetch(context.Background(), 12.341, 56.782, "")

	assert.Equal(t, "12.34°, 56.78°", env.LocationName)
	assert.InDelta(t, 31.4, env.Temperature, 1e-9, "weather data must survive a geocoding failure")
}

func TestFetch_WeatherFailureReturnsSyntheticFallback(t *testing.T) {
	f := newTestFetcher(t, &stubGeocoder{name: "Somewhere"})
	httpmock.RegisterResponder(http.MethodGet, `=~^http://weather\.test/`,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	env := f.Fetch(context.Background(), 45, 7, "")

	// baseTemp = 35 - (|45|/90)*50 = 10
	assert.InDelta(t, 10, env.Temperature, 1e-9)
	assert.InDelta(t, 50, env.Humidity, 1e-9)
	assert.InDelta(t, 10, env.WindSpeed, 1e-9)
	assert.InDelta(t, 0, env.Rainfall, 1e-9)
	assert.InDelta(t, 0.5, env.NDVI, 1e-9)
	assert.InDelta(t, 100, env.Elevation, 1e-9)
	assert.InDelta(t, 5, env.Slope, 1e-9)
}

func TestFallbackEnvData_Deterministic(t *testing.T) {
	first := FallbackEnvData(-33.8688, 151.2093, "")
	second := FallbackEnvData(-33.8688, 151.2093, "")
	assert.Equal(t, first, second)

	// Equator is hottest, poles coldest.
	assert.InDelta(t, 35, FallbackEnvData(0, 0, "").Temperature, 1e-9)
	assert.InDelta(t, -15, FallbackEnvData(90, 0, "").Temperature, 1e-9)
	assert.InDelta(t, -15, FallbackEnvData(-90, 0, "").Temperature, 1e-9)
}

func TestEstimateTerrain_Deterministic(t *testing.T) {
	n1, e1, s1 := estimateTerrain(37.77, -122.41)
	n2, e2, s2 := estimateTerrain(37.77, -122.41)

	assert.Equal(t, n1, n2)
	assert.Equal(t, e1, e2)
	assert.Equal(t, s1, s2)

	// Different coordinates should not collapse onto one estimate.
	n3, _, _ := estimateTerrain(-33.8688, 151.2093)
	assert.NotEqual(t, n1, n3)
}
