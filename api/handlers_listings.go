package api

import (
	"net/http"

	"estate-adviser/adviser"
)

// handleActiveListings serves ranked multi-year price forecasts for a
// market's live listings.
//
// Query parameters: location (required), min_price, max_price (inclusive list
// price bounds), year (ranking year), amount (result cap), planned_rate
// (mortgage rate override for the projection).
func (s *Server) handleActiveListings(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	opts := adviser.ForecastOptions{
		MinPrice:    getFloatPtrParam(r, "min_price"),
		MaxPrice:    getFloatPtrParam(r, "max_price"),
		TargetYear:  getIntParam(r, "year", 0),
		Limit:       getIntParam(r, "amount", 0),
		PlannedRate: getFloatPtrParam(r, "planned_rate"),
	}

	listings, err := s.svc.ForecastListings(r.Context(), location, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(listings),
		"listings": listings,
	})
}
