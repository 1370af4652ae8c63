package adviser

import "sort"

// FilterListings applies the serving-side view over a raw forecast set:
// inclusive list-price bounds, descending rank by percent change at the
// target year (listings without a forecast for that year sort last), and a
// result cap applied only after ranking.
func FilterListings(listings []ForecastedListing, minPrice, maxPrice *float64, targetYear, limit int) []ForecastedListing {
	filtered := make([]ForecastedListing, 0, len(listings))
	for _, l := range listings {
		if minPrice != nil && (l.ListPrice == nil || *l.ListPrice < *minPrice) {
			continue
		}
		if maxPrice != nil && (l.ListPrice == nil || *l.ListPrice > *maxPrice) {
			continue
		}
		filtered = append(filtered, l)
	}

	rank := make([]*float64, len(filtered))
	for i := range filtered {
		rank[i] = percentChangeAt(filtered[i], targetYear)
	}

	order := make([]int, len(filtered))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rank[order[a]], rank[order[b]]
		if ra == nil {
			return false
		}
		if rb == nil {
			return true
		}
		return *ra > *rb
	})

	ranked := make([]ForecastedListing, len(filtered))
	for i, idx := range order {
		ranked[i] = filtered[idx]
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func percentChangeAt(l ForecastedListing, year int) *float64 {
	for _, p := range l.Predictions {
		if p.Year == year {
			return p.PercentChange
		}
	}
	return nil
}
