package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/emberwatch/wildfire-intel/internal/config"
)

// Geocoder resolves coordinates to display names and free-text queries to
// coordinates.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
	Search(ctx context.Context, query string) (SearchResult, error)
}

// SearchResult is one forward-geocoding match.
type SearchResult struct {
	DisplayName string
	Lat         float64
	Lon         float64
}

// Client implements Geocoder against the nominatim API.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(cfg config.GeocoderConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode resolves a coordinate pair to a display name.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	u := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f&zoom=10", c.baseURL, lat, lon)

	var data reverseResponse
	if err := c.doRequest(ctx, u, &data); err != nil {
		return "", err
	}
	if data.DisplayName == "" {
		return "", fmt.Errorf("no display name for %f, %f", lat, lon)
	}
	return data.DisplayName, nil
}

type searchResponse struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search forward-geocodes a free-text location name.
func (c *Client) Search(ctx context.Context, query string) (SearchResult, error) {
	u := fmt.Sprintf("%s/search?format=json&q=%s", c.baseURL, url.QueryEscape(query))

	var data []searchResponse
	if err := c.doRequest(ctx, u, &data); err != nil {
		return SearchResult{}, err
	}
	if len(data) == 0 {
		return SearchResult{}, fmt.Errorf("no results for %q", query)
	}

	var result SearchResult
	result.DisplayName = data[0].DisplayName
	if _, err := fmt.Sscanf(data[0].Lat, "%f", &result.Lat); err != nil {
		return SearchResult{}, fmt.Errorf("error parsing latitude %q: %w", data[0].Lat, err)
	}
	if _, err := fmt.Sscanf(data[0].Lon, "%f", &result.Lon); err != nil {
		return SearchResult{}, fmt.Errorf("error parsing longitude %q: %w", data[0].Lon, err)
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

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
