package database

import (
	"strings"
)

// TrendFilter narrows the market trend aggregation to comparable properties.
// Zero values mean "no constraint".
type TrendFilter struct {
	Style        string
	MinBeds      float64
	MaxBeds      float64
	MinBaths     float64
	MaxBaths     float64
	MinSqft      float64
	MaxSqft      float64
	MinStories   float64
	MaxStories   float64
	MinYearBuilt int
}

// TrendPoint is one year of the market trend chart
type TrendPoint struct {
	Year           int      `json:"year"`
	AvgPrice       float64  `json:"avg_price"`
	PropertiesSold int64    `json:"properties_sold"`
	PctChange      *float64 `json:"percentage_change"`
}

// MarketTrend aggregates average sale price per year for a market, with the
// year-over-year percentage change computed in SQL.
func (r *PropertyRepository) MarketTrend(city, state string, filter TrendFilter) ([]TrendPoint, error) {
	conds, args := buildTrendConditions(city, state, filter)

	query := `
		WITH yearly AS (
			SELECT
				EXTRACT(YEAR FROM last_sold_date)::int AS year,
				AVG(sold_price) AS avg_price,
				COUNT(*) AS properties_sold
			FROM historical_properties
			WHERE ` + strings.Join(conds, " AND ") + `
			GROUP BY 1
		)
		SELECT
			year,
			avg_price,
			properties_sold,
			ROUND((100.0 * (avg_price - LAG(avg_price) OVER (ORDER BY year))
				/ NULLIF(LAG(avg_price) OVER (ORDER BY year), 0))::numeric, 2) AS pct_change
		FROM yearly
		ORDER BY year`

	var points []TrendPoint
	if err := r.db.db.Raw(query, args...).Scan(&points).Error; err != nil {
		return nil, WrapStoreError("market trend", err)
	}
	return points, nil
}

// MarketStyles returns the distinct property styles recorded for a market
func (r *PropertyRepository) MarketStyles(city, state string) ([]string, error) {
	var styles []string
	err := r.db.db.Raw(`
		SELECT DISTINCT style FROM historical_properties
		WHERE city = ? AND state = ? AND style IS NOT NULL
		ORDER BY style`, capitalize(city), strings.ToUpper(state)).Scan(&styles).Error
	if err != nil {
		return nil, WrapStoreError("market styles", err)
	}
	return styles, nil
}

// buildTrendConditions assembles WHERE clauses for MarketTrend. Split out so
// the filter translation is testable without a database.
func buildTrendConditions(city, state string, f TrendFilter) ([]string, []interface{}) {
	conds := []string{
		"city = ?",
		"state = ?",
		"sold_price IS NOT NULL",
		"last_sold_date IS NOT NULL",
	}
	args := []interface{}{capitalize(city), strings.ToUpper(state)}

	add := func(cond string, val interface{}) {
		conds = append(conds, cond)
		args = append(args, val)
	}

	if f.Style != "" {
		add("style = ?", f.Style)
	}
	if f.MinBeds > 0 {
		add("beds >= ?", f.MinBeds)
	}
	if f.MaxBeds > 0 {
		add("beds <= ?", f.MaxBeds)
	}
	if f.MinBaths > 0 {
		add("COALESCE(full_baths, 0) + 0.5 * COALESCE(half_baths, 0) >= ?", f.MinBaths)
	}
	if f.MaxBaths > 0 {
		add("COALESCE(full_baths, 0) + 0.5 * COALESCE(half_baths, 0) <= ?", f.MaxBaths)
	}
	if f.MinSqft > 0 {
		add("sqft >= ?", f.MinSqft)
	}
	if f.MaxSqft > 0 {
		add("sqft <= ?", f.MaxSqft)
	}
	if f.MinStories > 0 {
		add("stories >= ?", f.MinStories)
	}
	if f.MaxStories > 0 {
		add("stories <= ?", f.MaxStories)
	}
	if f.MinYearBuilt > 0 {
		add("year_built >= ?", f.MinYearBuilt)
	}

	return conds, args
}
