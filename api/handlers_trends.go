package api

import (
	"net/http"

	"estate-adviser/database"
)

// handleTrendChart aggregates the yearly average sale price for a market,
// optionally narrowed to comparable properties.
func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	filter := database.TrendFilter{
		Style:        r.URL.Query().Get("style"),
		MinBeds:      getFloatParam(r, "min_beds", 0),
		MaxBeds:      getFloatParam(r, "max_beds", 0),
		MinBaths:     getFloatParam(r, "min_baths", 0),
		MaxBaths:     getFloatParam(r, "max_baths", 0),
		MinSqft:      getFloatParam(r, "min_sqft", 0),
		MaxSqft:      getFloatParam(r, "max_sqft", 0),
		MinStories:   getFloatParam(r, "min_stories", 0),
		MaxStories:   getFloatParam(r, "max_stories", 0),
		MinYearBuilt: getIntParam(r, "year_built", 0),
	}

	report, err := s.svc.TrendChart(location, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
