package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeriesAsOf(t *testing.T) {
	series := Series{
		{Date: day(2020, time.January, 2), Rate: 3.72},
		{Date: day(2020, time.June, 4), Rate: 3.18},
		{Date: day(2021, time.January, 7), Rate: 2.65},
	}

	tests := []struct {
		name     string
		at       time.Time
		expected float64
	}{
		{"before first observation", day(2019, time.May, 1), 3.72},
		{"exact match", day(2020, time.June, 4), 3.18},
		{"between observations", day(2020, time.September, 15), 3.18},
		{"after last observation", day(2023, time.March, 1), 2.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := series.AsOf(tt.at); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSeriesEmpty(t *testing.T) {
	var series Series
	if got := series.AsOf(day(2020, time.January, 1)); got != 0 {
		t.Errorf("empty series should return 0, got %v", got)
	}
	if got := series.Latest(); got != 0 {
		t.Errorf("empty series should return 0, got %v", got)
	}
}

func TestSeriesLatest(t *testing.T) {
	series := Series{
		{Date: day(2024, time.January, 4), Rate: 6.62},
		{Date: day(2024, time.June, 6), Rate: 6.99},
	}
	if got := series.Latest(); got != 6.99 {
		t.Errorf("expected 6.99, got %v", got)
	}
}

func TestClientFetchSkipsUnpublished(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("series_id") != "MORTGAGE30US" {
			t.Errorf("unexpected series_id %q", r.URL.Query().Get("series_id"))
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("unexpected api_key %q", r.URL.Query().Get("api_key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"observations": [
			{"date": "2024-06-06", "value": "6.99"},
			{"date": "2024-06-13", "value": "."},
			{"date": "2024-01-04", "value": "6.62"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "MORTGAGE30US")
	series, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("expected 2 published observations, got %d", len(series))
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("series must come back date-ordered")
	}
	if series[0].Rate != 6.62 || series[1].Rate != 6.99 {
		t.Errorf("unexpected rates: %v, %v", series[0].Rate, series[1].Rate)
	}
}

func TestClientFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "MORTGAGE30US")
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected an error on a non-200 response")
	}
}
