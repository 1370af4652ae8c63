// Package pipeline turns raw scraped property records into model-ready rows.
//
// Cleaning is a sequence of pure, named stages over an immutable input slice:
// each stage returns a new slice and never mutates what it was given, so every
// cleaning rule is testable on its own. Two compositions exist — the training
// variant (label-bearing rows, outlier and anomaly filtering) and the
// inference variant (label-free listings, caller-supplied or latest rate) —
// sharing the common stages.
package pipeline

import (
	"estate-adviser/database"
)

// Row is a property record plus the derived model features
type Row struct {
	database.Property

	Baths      float64
	SoldYear   int
	Age        float64
	DistanceKm float64
	Rate       float64 // prevailing mortgage rate for the sale (or planned rate at inference)
}

// FeatureNames documents the feature vector layout, in order. Identifier,
// address and post-hoc pricing columns are deliberately absent: they either
// leak the label or carry no numeric signal.
var FeatureNames = []string{
	"zip_code", "beds", "baths", "sqft", "lot_sqft", "year_built",
	"stories", "hoa_fee", "parking_garage",
	"sold_year", "age", "distance_to_downtown", "mortgage_rate",
}

// Features returns the model feature vector for a cleaned row. Only called
// after DropIncomplete, so the required pointers are non-nil.
func (r *Row) Features() []float64 {
	return []float64{
		float64(*r.ZipCode),
		*r.Beds,
		r.Baths,
		*r.Sqft,
		*r.LotSqft,
		*r.YearBuilt,
		*r.Stories,
		*r.HoaFee,
		*r.ParkingGarage,
		float64(r.SoldYear),
		r.Age,
		r.DistanceKm,
		r.Rate,
	}
}

// FromProperties wraps raw records into pipeline rows
func FromProperties(records []database.Property) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{Property: rec}
	}
	return rows
}

// CalcBaths combines full and half bath counts into the single derived
// bathroom feature. Absent counts contribute zero.
func CalcBaths(fullBaths, halfBaths *float64) float64 {
	baths := 0.0
	if fullBaths != nil {
		baths += *fullBaths
	}
	if halfBaths != nil {
		baths += 0.5 * *halfBaths
	}
	return baths
}
