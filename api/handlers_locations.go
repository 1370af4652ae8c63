package api

import (
	"net/http"
)

// handleListLocations returns every market with a trained model
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.svc.ListLocations()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
}

// handleAddLocation ingests a market's sale history and trains its model.
// Runs to completion on the request; callers are expected to not issue
// concurrent adds for the same market.
func (s *Server) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if err := s.svc.IngestAndTrain(r.Context(), location); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Location " + location + " added successfully",
	})
}

// handleDeleteLocation removes a market's history, model and cached forecasts
func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if err := s.svc.DeleteMarket(r.Context(), location); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Location " + location + " deleted",
	})
}
