package adviser

import (
	"context"
	"log"
	"time"
)

// Refresher periodically re-ingests and retrains every market with a stored
// model, keeping forecasts anchored to fresh history. Markets are processed
// sequentially: ingestion for a market must never run concurrently with
// itself, and one loop guarantees that.
type Refresher struct {
	svc      *Service
	interval time.Duration
	done     chan bool
}

// NewRefresher creates a market refresher
func NewRefresher(svc *Service, interval time.Duration) *Refresher {
	return &Refresher{
		svc:      svc,
		interval: interval,
		done:     make(chan bool),
	}
}

// Start begins the refresh loop
func (r *Refresher) Start() {
	log.Printf("🔄 Market refresher started (every %v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refreshAll()
		case <-r.done:
			log.Println("🔄 Market refresher stopped")
			return
		}
	}
}

// Stop stops the refresh loop
func (r *Refresher) Stop() {
	r.done <- true
}

// refreshAll reruns ingestion and training for every stored market,
// skip-and-continue on per-market failures.
func (r *Refresher) refreshAll() {
	locations, err := r.svc.ListLocations()
	if err != nil {
		log.Printf("⚠️  Failed to list markets for refresh: %v", err)
		return
	}

	refreshed := 0
	for _, loc := range locations {
		if err := r.svc.IngestAndTrain(context.Background(), loc.Location); err != nil {
			log.Printf("⚠️  Refresh failed for %s: %v", loc.Location, err)
			continue
		}
		refreshed++
	}

	log.Printf("🔄 Refreshed %d/%d markets", refreshed, len(locations))
}
