package pipeline

import (
	"testing"
	"time"

	"estate-adviser/database"
	"estate-adviser/geocode"
	"estate-adviser/rates"
)

func f(v float64) *float64 { return &v }

func TestCalcBaths(t *testing.T) {
	tests := []struct {
		name      string
		fullBaths *float64
		halfBaths *float64
		expected  float64
	}{
		{"both absent", nil, nil, 0.0},
		{"full only", f(2), nil, 2.0},
		{"half only", nil, f(1), 0.5},
		{"both present", f(2), f(1), 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcBaths(tt.fullBaths, tt.halfBaths); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestOutlierBounds(t *testing.T) {
	// Q1=100, Q3=200 → IQR=100 → keep range [-50, 350]
	lo, hi := outlierBounds(100, 200)
	if lo != -50 || hi != 350 {
		t.Fatalf("expected bounds [-50, 350], got [%v, %v]", lo, hi)
	}

	tests := []struct {
		value float64
		kept  bool
	}{
		{349, true},
		{351, false},
		{-49, true},
		{-51, false},
		{350, true},
		{-50, true},
	}
	for _, tt := range tests {
		kept := tt.value >= lo && tt.value <= hi
		if kept != tt.kept {
			t.Errorf("value %v: expected kept=%v, got %v", tt.value, tt.kept, kept)
		}
	}
}

func TestIQRFilterDropsOutliers(t *testing.T) {
	// Tight cluster plus one far outlier
	values := []float64{100, 101, 102, 103, 104, 105, 106, 107, 5000}
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{Property: database.Property{Sqft: f(v)}}
	}

	out := IQRFilter("sqft", func(r Row) float64 { return *r.Sqft }).Apply(rows)

	if len(out) != len(rows)-1 {
		t.Fatalf("expected %d rows after filtering, got %d", len(rows)-1, len(out))
	}
	for _, r := range out {
		if *r.Sqft == 5000 {
			t.Error("outlier survived the IQR filter")
		}
	}
}

func TestImpute(t *testing.T) {
	land := "LAND"
	rows := []Row{
		{Property: database.Property{FullBaths: f(2), HalfBaths: f(1)}},
		{Property: database.Property{Style: &land}},
	}

	out := Impute().Apply(rows)

	first := out[0]
	if *first.LotSqft != 0 || *first.ParkingGarage != 0 || *first.HoaFee != 0 ||
		*first.Stories != 0 || *first.Beds != 0 {
		t.Error("absent numeric attributes should impute to zero")
	}
	if *first.Style != "OTHER" {
		t.Errorf("absent style should default to OTHER, got %q", *first.Style)
	}
	if first.Baths != 2.5 {
		t.Errorf("expected derived baths 2.5, got %v", first.Baths)
	}

	second := out[1]
	if second.Sqft == nil || *second.Sqft != 0 {
		t.Error("LAND records should impute sqft to zero")
	}

	// Input rows stay untouched
	if rows[0].LotSqft != nil {
		t.Error("stage mutated its input")
	}
}

func TestDropIncomplete(t *testing.T) {
	zip := 98101
	complete := Row{Property: database.Property{
		ZipCode: &zip, Beds: f(3), Sqft: f(1500), YearBuilt: f(1990),
		LotSqft: f(4000), ParkingGarage: f(1), Latitude: f(47.6), Longitude: f(-122.3),
		SoldPrice: f(500000), LastSoldDate: timePtr(2021, time.March, 5),
	}}

	missingSqft := complete
	missingSqft.Sqft = nil

	unlabeled := complete
	unlabeled.SoldPrice = nil
	unlabeled.LastSoldDate = nil

	rows := []Row{complete, missingSqft, unlabeled}

	if got := DropIncomplete(true).Apply(rows); len(got) != 1 {
		t.Errorf("training mode: expected 1 complete row, got %d", len(got))
	}
	if got := DropIncomplete(false).Apply(rows); len(got) != 2 {
		t.Errorf("inference mode: expected 2 rows (label not required), got %d", len(got))
	}
}

func TestDeriveAgeDropsFutureBuilt(t *testing.T) {
	rows := []Row{
		{Property: database.Property{YearBuilt: f(1990)}, SoldYear: 2020},
		{Property: database.Property{YearBuilt: f(2025)}, SoldYear: 2020},
	}

	out := DeriveAge().Apply(rows)
	if len(out) != 1 {
		t.Fatalf("expected future-built row to drop, got %d rows", len(out))
	}
	if out[0].Age != 30 {
		t.Errorf("expected age 30, got %v", out[0].Age)
	}
}

func TestAsOfRate(t *testing.T) {
	series := rates.Series{
		{Date: date(2020, time.January, 2), Rate: 3.72},
		{Date: date(2021, time.January, 7), Rate: 2.65},
		{Date: date(2022, time.January, 6), Rate: 3.22},
	}
	rows := []Row{
		{Property: database.Property{LastSoldDate: timePtr(2021, time.June, 15)}},
		{Property: database.Property{LastSoldDate: timePtr(2019, time.June, 15)}},
	}

	out := AsOfRate(series).Apply(rows)
	if out[0].Rate != 2.65 {
		t.Errorf("expected latest rate at-or-before the sale (2.65), got %v", out[0].Rate)
	}
	if out[1].Rate != 3.72 {
		t.Errorf("sale predating the series should use the earliest rate, got %v", out[1].Rate)
	}
}

func TestDeriveDistance(t *testing.T) {
	downtown := geocode.Point{Lat: 47.6062, Lon: -122.3321}
	rows := []Row{
		{Property: database.Property{Latitude: f(47.6062), Longitude: f(-122.3321)}},
		{Property: database.Property{Latitude: f(47.7), Longitude: f(-122.3321)}},
	}

	out := DeriveDistance(downtown).Apply(rows)
	if out[0].DistanceKm != 0 {
		t.Errorf("downtown itself should be 0 km away, got %v", out[0].DistanceKm)
	}
	// ~0.094 degrees of latitude ≈ 10.4 km
	if out[1].DistanceKm < 9 || out[1].DistanceKm > 12 {
		t.Errorf("expected roughly 10 km, got %v", out[1].DistanceKm)
	}
}

func timePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
