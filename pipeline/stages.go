package pipeline

import (
	"log"
	"math"

	"github.com/umahmood/haversine"

	"estate-adviser/geocode"
	"estate-adviser/rates"
)

// Stage is one named cleaning step: a pure transformation from rows to rows
type Stage struct {
	Name  string
	Apply func([]Row) []Row
}

// run applies stages in order, logging how each one shrinks the working set
func run(rows []Row, stages []Stage) []Row {
	for _, stage := range stages {
		before := len(rows)
		rows = stage.Apply(rows)
		if len(rows) != before {
			log.Printf("🧹 %s: %d → %d rows", stage.Name, before, len(rows))
		}
	}
	return rows
}

// FilterCity keeps only records belonging to the target city
func FilterCity(city string) Stage {
	return Stage{Name: "filter_city", Apply: func(rows []Row) []Row {
		var out []Row
		for _, r := range rows {
			if r.City == city {
				out = append(out, r)
			}
		}
		return out
	}}
}

// Impute zero-fills the attributes where absence means "none", defaults the
// style, and derives the combined bath count.
func Impute() Stage {
	return Stage{Name: "impute", Apply: func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			if r.LotSqft == nil {
				r.LotSqft = f64(0)
			}
			if r.ParkingGarage == nil {
				r.ParkingGarage = f64(0)
			}
			if r.HoaFee == nil {
				r.HoaFee = f64(0)
			}
			if r.Stories == nil {
				r.Stories = f64(0)
			}
			if r.Beds == nil {
				r.Beds = f64(0)
			}
			if r.Style == nil {
				s := "OTHER"
				r.Style = &s
			}
			if r.Sqft == nil && *r.Style == "LAND" {
				r.Sqft = f64(0)
			}
			r.Baths = CalcBaths(r.FullBaths, r.HalfBaths)
			out[i] = r
		}
		return out
	}}
}

// DropIncomplete removes rows that cannot produce a complete feature vector.
// Training additionally demands the label and its date.
func DropIncomplete(training bool) Stage {
	return Stage{Name: "drop_incomplete", Apply: func(rows []Row) []Row {
		var out []Row
		for _, r := range rows {
			if r.ZipCode == nil || r.Beds == nil || r.Sqft == nil || r.YearBuilt == nil ||
				r.LotSqft == nil || r.ParkingGarage == nil ||
				r.Latitude == nil || r.Longitude == nil {
				continue
			}
			if training && (r.SoldPrice == nil || r.LastSoldDate == nil) {
				continue
			}
			out = append(out, r)
		}
		return out
	}}
}

// DeriveSoldYear extracts the sale year from the sale date
func DeriveSoldYear() Stage {
	return Stage{Name: "derive_sold_year", Apply: func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			r.SoldYear = r.LastSoldDate.Year()
			out[i] = r
		}
		return out
	}}
}

// StampSoldYear sets a fixed sale year on every row. Inference rows carry no
// sale date; the forecaster substitutes each projection year over this value.
func StampSoldYear(year int) Stage {
	return Stage{Name: "stamp_sold_year", Apply: func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			r.SoldYear = year
			out[i] = r
		}
		return out
	}}
}

// AsOfRate attaches the most recent known mortgage rate at or before each
// row's sale date (backward as-of join).
func AsOfRate(series rates.Series) Stage {
	return Stage{Name: "asof_rate", Apply: func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			r.Rate = series.AsOf(*r.LastSoldDate)
			out[i] = r
		}
		return out
	}}
}

// FixedRate attaches one rate to every row: a caller-planned rate, or the
// latest known one, for inference.
func FixedRate(rate float64) Stage {
	return Stage{Name: "fixed_rate", Apply: func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			r.Rate = rate
			out[i] = r
		}
		return out
	}}
}

// DeriveAge computes property age at sale time and drops rows whose build
// year postdates the sale (future-built anomalies).
func DeriveAge() Stage {
	return Stage{Name: "derive_age", Apply: func(rows []Row) []Row {
		var out []Row
		for _, r := range rows {
			r.Age = float64(r.SoldYear) - *r.YearBuilt
			if r.Age < 0 {
				continue
			}
			out = append(out, r)
		}
		return out
	}}
}

// DeriveDistance computes the great-circle distance from each property to the
// downtown reference point, rounded to 0.1 km.
func DeriveDistance(downtown geocode.Point) Stage {
	ref := haversine.Coord{Lat: downtown.Lat, Lon: downtown.Lon}
	return Stage{Name: "derive_distance", Apply: func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			_, km := haversine.Distance(haversine.Coord{Lat: *r.Latitude, Lon: *r.Longitude}, ref)
			r.DistanceKm = math.Round(km*10) / 10
			out[i] = r
		}
		return out
	}}
}

// IQRFilter drops rows whose value for one column falls outside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR], computed on the current working set. Filters
// are sequential: later columns see the subset trimmed by earlier ones.
func IQRFilter(name string, value func(Row) float64) Stage {
	return Stage{Name: "iqr_" + name, Apply: func(rows []Row) []Row {
		if len(rows) < 4 {
			return rows
		}
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = value(r)
		}
		q1, q3 := quartiles(values)
		lo, hi := outlierBounds(q1, q3)

		var out []Row
		for i, r := range rows {
			if values[i] >= lo && values[i] <= hi {
				out = append(out, r)
			}
		}
		return out
	}}
}

// PriceAnomalies drops rows whose sale price lands in the noise cluster of a
// density scan over standardized prices. Training only: it needs the label.
func PriceAnomalies(eps float64, minPts int) Stage {
	return Stage{Name: "price_anomalies", Apply: func(rows []Row) []Row {
		if len(rows) < minPts {
			return rows
		}
		prices := make([]float64, len(rows))
		for i, r := range rows {
			prices[i] = *r.SoldPrice
		}
		labels := dbscan1D(standardize(prices), eps, minPts)

		var out []Row
		for i, r := range rows {
			if labels[i] != noiseLabel {
				out = append(out, r)
			}
		}
		return out
	}}
}

func f64(v float64) *float64 {
	return &v
}
