// Package rates consumes the external mortgage-rate time series used to
// enrich sale records: an observations API in the FRED shape, returning one
// average 30-year rate per week.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Observation is one published rate at a date
type Observation struct {
	Date time.Time
	Rate float64
}

// Series is a date-ordered rate series
type Series []Observation

// Feed fetches the full rate series
type Feed interface {
	Fetch(ctx context.Context) (Series, error)
}

// AsOf returns the most recent rate at or before t (backward as-of lookup).
// A date before the first observation falls back to the earliest known rate.
func (s Series) AsOf(t time.Time) float64 {
	if len(s) == 0 {
		return 0
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].Date.After(t) })
	if i == 0 {
		return s[0].Rate
	}
	return s[i-1].Rate
}

// Latest returns the newest known rate
func (s Series) Latest() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Rate
}

// Client fetches observations from a FRED-style API
type Client struct {
	baseURL  string
	apiKey   string
	seriesID string
	client   *http.Client
}

// NewClient creates a rate series client
func NewClient(baseURL, apiKey, seriesID string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		seriesID: seriesID,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Fetch downloads the full series, skipping unpublished ("." valued) entries
func (c *Client) Fetch(ctx context.Context) (Series, error) {
	params := url.Values{}
	params.Set("series_id", c.seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	endpoint := fmt.Sprintf("%s/fred/series/observations?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var payload observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("rate feed decode failed: %w", err)
	}

	series := make(Series, 0, len(payload.Observations))
	for _, obs := range payload.Observations {
		if obs.Value == "." {
			continue // not published for that week
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			continue
		}
		rate, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		series = append(series, Observation{Date: date, Rate: rate})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}
