// Package adviser contains the market-facing operations: incremental
// historical ingestion with reconciliation, model training and publishing,
// cached forecast serving, and market lifecycle management.
package adviser

import (
	"context"
	"math"
	"time"

	"estate-adviser/config"
	"estate-adviser/database"
	"estate-adviser/geocode"
	"estate-adviser/modelstore"
	"estate-adviser/rates"
	"estate-adviser/scraper"
)

// RecordStore is the persisted historical-sales contract
type RecordStore interface {
	ReadMarket(city, state string) ([]database.Property, error)
	BulkAppend(rows []database.Property) error
	DeleteMarket(city, state string, soldFrom *time.Time) (int64, error)
	MarketTrend(city, state string, filter database.TrendFilter) ([]database.TrendPoint, error)
	MarketStyles(city, state string) ([]string, error)
}

// ModelStore is the trained-model persistence contract
type ModelStore interface {
	Put(model *modelstore.Model) error
	Get(market string) (*modelstore.Model, error)
	Delete(market string) error
	List() ([]modelstore.Location, error)
}

// ForecastCache is the TTL cache contract for raw forecast sets
type ForecastCache interface {
	Get(ctx context.Context, location string, dest interface{}) bool
	Set(ctx context.Context, location string, value interface{}) error
	Invalidate(ctx context.Context, location string) error
}

// Service wires the stores and external sources into the adviser operations
type Service struct {
	records  RecordStore
	models   ModelStore
	source   scraper.Source
	rates    rates.Feed
	geocoder geocode.Geocoder
	cache    ForecastCache

	pipelineCfg config.PipelineConfig
	trainingCfg config.TrainingConfig

	now func() time.Time
}

// NewService creates the adviser service
func NewService(
	records RecordStore,
	models ModelStore,
	source scraper.Source,
	rateFeed rates.Feed,
	geocoder geocode.Geocoder,
	cache ForecastCache,
	pipelineCfg config.PipelineConfig,
	trainingCfg config.TrainingConfig,
) *Service {
	return &Service{
		records:     records,
		models:      models,
		source:      source,
		rates:       rateFeed,
		geocoder:    geocoder,
		cache:       cache,
		pipelineCfg: pipelineCfg,
		trainingCfg: trainingCfg,
		now:         time.Now,
	}
}

// ListLocations enumerates every market with a trained model
func (s *Service) ListLocations() ([]modelstore.Location, error) {
	return s.models.List()
}

// DeleteMarket removes a market's history, model and cached forecasts
func (s *Service) DeleteMarket(ctx context.Context, location string) error {
	loc, city, state, err := FormatLocation(location)
	if err != nil {
		return err
	}

	if _, err := s.records.DeleteMarket(city, state, nil); err != nil {
		return err
	}
	if err := s.models.Delete(modelstore.Key(city, state)); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, loc)
}

// TrendReport is the market trend chart response
type TrendReport struct {
	Styles               []string              `json:"styles"`
	AvgYearPercentChange *float64              `json:"avg_year_percent_change"`
	ChartData            []database.TrendPoint `json:"chart_data"`
}

// TrendChart aggregates the market's yearly average sale price, optionally
// narrowed to comparable properties.
func (s *Service) TrendChart(location string, filter database.TrendFilter) (*TrendReport, error) {
	_, city, state, err := FormatLocation(location)
	if err != nil {
		return nil, err
	}

	styles, err := s.records.MarketStyles(city, state)
	if err != nil {
		return nil, err
	}
	if filter.Style != "" && !contains(styles, filter.Style) {
		return nil, &database.ValidationError{Field: "style", Reason: "unknown style for market"}
	}

	points, err := s.records.MarketTrend(city, state, filter)
	if err != nil {
		return nil, err
	}

	report := &TrendReport{Styles: styles, ChartData: points}
	var sum float64
	var n int
	for _, p := range points {
		if p.PctChange != nil {
			sum += *p.PctChange
			n++
		}
	}
	if n > 0 {
		avg := math.Round(sum/float64(n)*100) / 100
		report.AvgYearPercentChange = &avg
	}
	return report, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
