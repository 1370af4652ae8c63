// Package geocode resolves place names to coordinates through a
// Nominatim-compatible search endpoint. The pipeline only ever needs one
// lookup per market: the "Downtown <city>" reference point.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Point is a latitude/longitude pair
type Point struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a free-form place description to coordinates
type Geocoder interface {
	Lookup(ctx context.Context, place string) (Point, error)
}

// NominatimClient is a Geocoder backed by a Nominatim search endpoint
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient creates a geocoding client
func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup resolves a place name to its best-match coordinates
func (c *NominatimClient) Lookup(ctx context.Context, place string) (Point, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Point{}, err
	}
	// Nominatim rejects requests without an identifying agent
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, fmt.Errorf("geocode decode failed: %w", err)
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("no geocoding match for %q", place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad latitude in geocode result: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad longitude in geocode result: %w", err)
	}

	return Point{Lat: lat, Lon: lon}, nil
}
