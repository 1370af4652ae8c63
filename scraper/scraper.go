// Package scraper talks to the property-search service. The service itself is
// opaque from this side: a location, a listing kind and a date window go in,
// tabular property records come out.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"estate-adviser/database"
)

// Kind selects which listings a query returns
type Kind string

const (
	KindSold    Kind = "sold"
	KindForSale Kind = "for_sale"
)

// ErrNoData means the source had nothing for the requested window. Ingestion
// treats this as an empty window, never as a fatal failure.
var ErrNoData = errors.New("scraper: no listings for window")

// Source is the opaque property data source
type Source interface {
	Query(ctx context.Context, location string, kind Kind, from, to time.Time) ([]database.Property, error)
}

// Client is a Source backed by the HTTP scrape service
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a scrape service client. Window queries routinely take
// minutes on the source side, hence the long timeout.
func NewClient(baseURL string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Minute,
		},
	}
}

type queryRequest struct {
	Location    string `json:"location"`
	ListingType Kind   `json:"listing_type"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
}

type queryResponse struct {
	Properties []database.Property `json:"properties"`
}

// Query fetches all records for one location/kind/date window
func (c *Client) Query(ctx context.Context, location string, kind Kind, from, to time.Time) ([]database.Property, error) {
	body, err := json.Marshal(queryRequest{
		Location:    location,
		ListingType: kind,
		DateFrom:    from.Format("2006-01-02"),
		DateTo:      to.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/api/v1/properties/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return nil, ErrNoData
	default:
		return nil, fmt.Errorf("scrape service returned status %d", resp.StatusCode)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("scrape decode failed: %w", err)
	}
	if len(payload.Properties) == 0 {
		return nil, ErrNoData
	}

	return payload.Properties, nil
}
