package adviser

import (
	"context"
	"errors"
	"log"
	"time"

	"estate-adviser/database"
	"estate-adviser/helpers"
	"estate-adviser/modelstore"
	"estate-adviser/pipeline"
	"estate-adviser/rates"
	"estate-adviser/regress"
	"estate-adviser/scraper"
)

// IngestAndTrain reconciles freshly scraped sales into the persisted dataset
// for a market, trains a model over the combined history and publishes it.
//
// Callers must serialize runs per market: the delete-then-append boundary
// step is not transaction-isolated against a concurrent ingestion.
func (s *Service) IngestAndTrain(ctx context.Context, location string) error {
	loc, city, state, err := FormatLocation(location)
	if err != nil {
		return err
	}
	log.Printf("🏠 Ingesting historical sales for %s", loc)

	persisted, err := s.records.ReadMarket(city, state)
	if err != nil {
		return err
	}

	resume := time.Date(s.pipelineCfg.HistStartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	if boundary := maxSoldDate(persisted); boundary != nil {
		// The last recorded day may have been only partially captured at the
		// previous run; re-delete and re-scrape from it rather than after it.
		if _, err := s.records.DeleteMarket(city, state, boundary); err != nil {
			return err
		}
		persisted = pruneFrom(persisted, *boundary)
		resume = *boundary
		log.Printf("🏠 Resuming %s ingestion from %s (%d rows kept)", loc, boundary.Format("2006-01-02"), len(persisted))
	}

	fresh := s.scrapeHistory(ctx, loc, city, state, resume)
	if len(fresh) > 0 {
		if err := s.records.BulkAppend(fresh); err != nil {
			return err
		}
	}

	combined := append(persisted, fresh...)
	return s.train(ctx, loc, city, state, combined)
}

// scrapeHistory walks fixed-size date windows from the resume point to now.
// Every window is an independent scrape; a failed window is logged and
// skipped, so a total source outage degrades to an empty result instead of
// aborting the ingestion.
func (s *Service) scrapeHistory(ctx context.Context, loc, city, state string, resume time.Time) []database.Property {
	var fresh []database.Property

	now := s.now()
	start := resume
	for start.Before(now) {
		end := start.AddDate(0, 0, s.pipelineCfg.HistBatchIncrDays)

		rows, err := s.source.Query(ctx, loc, scraper.KindSold, start, end)
		switch {
		case errors.Is(err, scraper.ErrNoData):
			log.Printf("🏠 Window %s..%s: no sales", start.Format("2006-01-02"), end.Format("2006-01-02"))
		case err != nil:
			log.Printf("⚠️  Window %s..%s failed: %v", start.Format("2006-01-02"), end.Format("2006-01-02"), err)
		default:
			log.Printf("🏠 Window %s..%s: %d sales", start.Format("2006-01-02"), end.Format("2006-01-02"), len(rows))
			fresh = append(fresh, stampMarket(rows, city, state)...)
		}

		start = end.AddDate(0, 0, 1)
	}

	return fresh
}

// train runs the training pipeline over the combined history, fits and
// evaluates a model, and publishes it with its quality score. Nothing is
// published when the score cannot be measured.
func (s *Service) train(ctx context.Context, loc, city, state string, records []database.Property) error {
	series, err := s.rates.Fetch(ctx)
	if err != nil {
		// Rate enrichment degrades rather than aborting the ingestion
		log.Printf("⚠️  Mortgage rate feed unavailable: %v", err)
		series = rates.Series{}
	}

	downtown, err := s.geocoder.Lookup(ctx, "Downtown "+city)
	if err != nil {
		return err
	}

	rows := pipeline.TrainingPipeline{City: city, Downtown: downtown, Rates: series}.Run(records)

	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i := range rows {
		X[i] = rows[i].Features()
		y[i] = *rows[i].SoldPrice
	}

	trainer := regress.Trainer{
		Trees:        s.trainingCfg.Trees,
		TestFraction: s.trainingCfg.TestFraction,
		Seed:         s.trainingCfg.Seed,
		MinRows:      s.trainingCfg.MinRows,
	}
	forest, eval, err := trainer.Train(X, y)
	if err != nil {
		return err
	}

	model := &modelstore.Model{
		Market:    modelstore.Key(city, state),
		Score:     eval.Score(),
		TrainedAt: s.now(),
		Forest:    forest,
	}
	if err := s.models.Put(model); err != nil {
		return err
	}

	// Forecasts computed against the previous model are stale now
	if err := s.cache.Invalidate(ctx, loc); err != nil {
		log.Printf("⚠️  Failed to invalidate forecast cache for %s: %v", loc, err)
	}

	log.Printf("📈 Published model for %s: score %.2f, MAE %s on %d rows",
		loc, model.Score, helpers.FormatUSD(eval.MAE), len(rows))
	return nil
}

// maxSoldDate returns the latest sale date among persisted rows, nil when the
// market has no dated history yet.
func maxSoldDate(rows []database.Property) *time.Time {
	var max *time.Time
	for i := range rows {
		d := rows[i].LastSoldDate
		if d == nil {
			continue
		}
		if max == nil || d.After(*max) {
			max = d
		}
	}
	return max
}

// pruneFrom drops rows sold at or after the boundary, mirroring in memory
// what DeleteMarket removed from the store.
func pruneFrom(rows []database.Property, boundary time.Time) []database.Property {
	var kept []database.Property
	for i := range rows {
		if rows[i].LastSoldDate != nil && !rows[i].LastSoldDate.Before(boundary) {
			continue
		}
		kept = append(kept, rows[i])
	}
	return kept
}

// stampMarket enforces the store invariant that city and state are always
// populated, filling them from the queried market when the source omits them.
func stampMarket(rows []database.Property, city, state string) []database.Property {
	for i := range rows {
		if rows[i].City == "" {
			rows[i].City = city
		}
		if rows[i].State == "" {
			rows[i].State = state
		}
	}
	return rows
}
