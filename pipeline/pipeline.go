package pipeline

import (
	"time"

	"estate-adviser/database"
	"estate-adviser/geocode"
	"estate-adviser/rates"
)

// Density scan defaults for the sale-price anomaly filter, applied to
// standardized prices.
const (
	PriceEps    = 0.5
	PriceMinPts = 5
)

// common returns the cleaning stages shared by both pipeline variants,
// everything up to and including the sold-year derivation point.
func common(city string, training bool) []Stage {
	return []Stage{
		FilterCity(city),
		Impute(),
		DropIncomplete(training),
	}
}

// tail returns the post-rate stages shared by both variants
func tail(downtown geocode.Point) []Stage {
	return []Stage{
		DeriveAge(),
		DeriveDistance(downtown),
		IQRFilter("sqft", func(r Row) float64 { return *r.Sqft }),
		IQRFilter("year_built", func(r Row) float64 { return *r.YearBuilt }),
		IQRFilter("distance_to_downtown", func(r Row) float64 { return r.DistanceKm }),
	}
}

// TrainingPipeline cleans label-bearing sale records into a trainable dataset
type TrainingPipeline struct {
	City     string
	Downtown geocode.Point
	Rates    rates.Series
}

// Run applies the training composition: shared cleaning, sale-date features,
// the backward as-of rate join, outlier trimming and price-anomaly removal.
func (p TrainingPipeline) Run(records []database.Property) []Row {
	stages := common(p.City, true)
	stages = append(stages, DeriveSoldYear(), AsOfRate(p.Rates))
	stages = append(stages, tail(p.Downtown)...)
	stages = append(stages, PriceAnomalies(PriceEps, PriceMinPts))
	return run(FromProperties(records), stages)
}

// InferencePipeline cleans live listings for batch prediction. No labels: the
// sale year is stamped with the current year (the forecaster substitutes
// projection years over it) and the rate is planned or latest-known.
type InferencePipeline struct {
	City        string
	Downtown    geocode.Point
	Rates       rates.Series
	PlannedRate *float64
}

// Run applies the inference composition
func (p InferencePipeline) Run(records []database.Property) []Row {
	rate := p.Rates.Latest()
	if p.PlannedRate != nil {
		rate = *p.PlannedRate
	}

	stages := common(p.City, false)
	stages = append(stages, StampSoldYear(time.Now().Year()), FixedRate(rate))
	stages = append(stages, tail(p.Downtown)...)
	return run(FromProperties(records), stages)
}
