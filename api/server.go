// Package api exposes the adviser operations over HTTP. The layer is thin on
// purpose: parameter parsing, error-to-status mapping, JSON encoding —
// everything substantive lives in the adviser service.
package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"estate-adviser/adviser"
)

// Server handles HTTP API requests
type Server struct {
	svc *adviser.Service
}

// NewServer creates a new API server instance
func NewServer(svc *adviser.Service) *Server {
	return &Server{svc: svc}
}

// Handler builds the route mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/locations", s.handleListLocations)
	mux.HandleFunc("POST /api/locations", s.handleAddLocation)
	mux.HandleFunc("DELETE /api/locations/{location}", s.handleDeleteLocation)

	mux.HandleFunc("GET /api/active-listings", s.handleActiveListings)
	mux.HandleFunc("GET /api/trend-chart", s.handleTrendChart)

	return mux
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// Ingestion runs on the request; generous write deadline
		WriteTimeout: 60 * time.Minute,
		ReadTimeout:  30 * time.Second,
	}

	log.Printf("🚀 API server listening on %s", addr)
	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
