package geocode

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedGeocoder wraps a Geocoder with a TTL cache. Only successful results
// are cached so transient failures can be retried.
type CachedGeocoder struct {
	inner Geocoder
	cache *gocache.Cache
}

func NewCachedGeocoder(inner Geocoder, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("rev:%.4f,%.4f", lat, lon)
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}
	name, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, name)
	return name, nil
}

func (c *CachedGeocoder) Search(ctx context.Context, query string) (SearchResult, error) {
	key := "fwd:" + query
	if v, ok := c.cache.Get(key); ok {
		return v.(SearchResult), nil
	}
	result, err := c.inner.Search(ctx, query)
	if err != nil {
		return SearchResult{}, err
	}
	c.cache.SetDefault(key, result)
	return result, nil
}
