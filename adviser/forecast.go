package adviser

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"estate-adviser/modelstore"
	"estate-adviser/pipeline"
	"estate-adviser/rates"
	"estate-adviser/scraper"
)

// Prediction is one projected-year price for a listing
type Prediction struct {
	Year          int      `json:"sold_year"`
	Price         *float64 `json:"sold_price"`
	PercentChange *float64 `json:"percentage"` // vs list price; nil when not computable
}

// ForecastedListing is a live listing with its multi-year price projections
type ForecastedListing struct {
	PropertyURL        string       `json:"property_url"`
	MLS                *string      `json:"mls"`
	MLSID              *string      `json:"mls_id"`
	Status             string       `json:"status"`
	Style              *string      `json:"style"`
	Street             *string      `json:"street"`
	Unit               *string      `json:"unit"`
	City               string       `json:"city"`
	State              string       `json:"state"`
	ZipCode            *int         `json:"zip_code"`
	Beds               *float64     `json:"beds"`
	FullBaths          *float64     `json:"full_baths"`
	HalfBaths          *float64     `json:"half_baths"`
	Baths              float64      `json:"baths"`
	Sqft               *float64     `json:"sqft"`
	LotSqft            *float64     `json:"lot_sqft"`
	YearBuilt          *float64     `json:"year_built"`
	Stories            *float64     `json:"stories"`
	HoaFee             *float64     `json:"hoa_fee"`
	ParkingGarage      *float64     `json:"parking_garage"`
	DaysOnMLS          *int64       `json:"days_on_mls"`
	ListPrice          *float64     `json:"list_price"`
	ListDate           *time.Time   `json:"list_date"`
	LastSoldDate       *time.Time   `json:"last_sold_date"`
	PricePerSqft       *float64     `json:"price_per_sqft"`
	Latitude           *float64     `json:"latitude"`
	Longitude          *float64     `json:"longitude"`
	PrimaryPhoto       *string      `json:"primary_photo"`
	AltPhotos          []string     `json:"alt_photos"`
	DistanceToDowntown float64      `json:"distance_to_downtown"`
	Predictions        []Prediction `json:"predicted_prices"`
}

// ForecastOptions narrows and ranks the served forecast set
type ForecastOptions struct {
	MinPrice    *float64
	MaxPrice    *float64
	TargetYear  int // ranking year; 0 means the current year
	Limit       int // result cap applied after ranking; 0 means unlimited
	PlannedRate *float64
}

// ForecastListings returns ranked price forecasts for a market's live
// listings. The expensive scrape+predict step is cached per market with a
// TTL; filtering and ranking always run fresh over the raw cached set.
func (s *Service) ForecastListings(ctx context.Context, location string, opts ForecastOptions) ([]ForecastedListing, error) {
	loc, city, state, err := FormatLocation(location)
	if err != nil {
		return nil, err
	}

	var raw []ForecastedListing
	if !s.cache.Get(ctx, loc, &raw) {
		raw, err = s.computeForecasts(ctx, loc, city, state, opts.PlannedRate)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, loc, raw); err != nil {
			log.Printf("⚠️  Failed to cache forecasts for %s: %v", loc, err)
		}
	}

	targetYear := opts.TargetYear
	if targetYear == 0 {
		targetYear = s.now().Year()
	}
	return FilterListings(raw, opts.MinPrice, opts.MaxPrice, targetYear, opts.Limit), nil
}

// computeForecasts runs the full serve path: scrape live listings, clean them
// in inference mode, explode across projection years, predict, and regroup.
// A missing model or an empty listing window is a valid empty result here,
// not a failure.
func (s *Service) computeForecasts(ctx context.Context, loc, city, state string, plannedRate *float64) ([]ForecastedListing, error) {
	model, err := s.models.Get(modelstore.Key(city, state))
	if errors.Is(err, modelstore.ErrModelNotFound) {
		log.Printf("🔮 No trained model for %s", loc)
		return []ForecastedListing{}, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	listings, err := s.source.Query(ctx, loc, scraper.KindForSale, now.AddDate(0, 0, -s.pipelineCfg.ActiveListingDays), now)
	if errors.Is(err, scraper.ErrNoData) {
		log.Printf("🔮 No active listings for %s", loc)
		return []ForecastedListing{}, nil
	}
	if err != nil {
		return nil, err
	}
	log.Printf("🔮 Forecasting %d active listings for %s", len(listings), loc)

	series, err := s.rates.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️  Mortgage rate feed unavailable: %v", err)
		series = rates.Series{}
	}
	downtown, err := s.geocoder.Lookup(ctx, "Downtown "+city)
	if err != nil {
		return nil, err
	}

	rows := pipeline.InferencePipeline{
		City:        city,
		Downtown:    downtown,
		Rates:       series,
		PlannedRate: plannedRate,
	}.Run(listings)

	results := make([]ForecastedListing, len(rows))
	for i := range rows {
		results[i] = listingFromRow(rows[i])
	}

	// Explode each listing across the projection years, substituting the year
	// and rebuilding the age feature, then regroup predictions per listing.
	for _, year := range projectionYears(now.Year(), s.pipelineCfg.YearsToPredict) {
		for i := range rows {
			projected := rows[i]
			projected.SoldYear = year
			projected.Age = float64(year) - *projected.YearBuilt

			price := model.Forest.Predict(projected.Features())
			results[i].Predictions = append(results[i].Predictions, prediction(year, price, rows[i].ListPrice))
		}
	}

	return results, nil
}

// projectionYears returns the forecast years: every 2 years from the current
// year through the horizon.
func projectionYears(currentYear, horizon int) []int {
	var years []int
	for offset := 0; offset <= horizon; offset += 2 {
		years = append(years, currentYear+offset)
	}
	return years
}

// prediction builds one projected-year entry, normalizing non-finite numeric
// outputs to explicit absent values.
func prediction(year int, price float64, listPrice *float64) Prediction {
	p := Prediction{Year: year}
	if finite(price) {
		p.Price = &price
	}
	if p.Price != nil && listPrice != nil && *listPrice != 0 {
		pct := (price / *listPrice - 1) * 100
		if finite(pct) {
			p.PercentChange = &pct
		}
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func listingFromRow(r pipeline.Row) ForecastedListing {
	var photos []string
	if r.AltPhotos != nil && *r.AltPhotos != "" {
		photos = strings.Split(*r.AltPhotos, ", ")
	}
	return ForecastedListing{
		PropertyURL:        r.PropertyURL,
		MLS:                r.MLS,
		MLSID:              r.MLSID,
		Status:             r.Status,
		Style:              r.Style,
		Street:             r.Street,
		Unit:               r.Unit,
		City:               r.City,
		State:              r.State,
		ZipCode:            r.ZipCode,
		Beds:               r.Beds,
		FullBaths:          r.FullBaths,
		HalfBaths:          r.HalfBaths,
		Baths:              r.Baths,
		Sqft:               r.Sqft,
		LotSqft:            r.LotSqft,
		YearBuilt:          r.YearBuilt,
		Stories:            r.Stories,
		HoaFee:             r.HoaFee,
		ParkingGarage:      r.ParkingGarage,
		DaysOnMLS:          r.DaysOnMLS,
		ListPrice:          r.ListPrice,
		ListDate:           r.ListDate,
		LastSoldDate:       r.LastSoldDate,
		PricePerSqft:       r.PricePerSqft,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		PrimaryPhoto:       r.PrimaryPhoto,
		AltPhotos:          photos,
		DistanceToDowntown: r.DistanceKm,
	}
}
