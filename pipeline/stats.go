package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// quartiles returns Q1 and Q3 of a sample
func quartiles(values []float64) (q1, q3 float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return q1, q3
}

// outlierBounds returns the inclusive IQR keep-range for given quartiles
func outlierBounds(q1, q3 float64) (lo, hi float64) {
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// standardize maps a sample to z-scores so the density scan's eps is scale-free
func standardize(values []float64) []float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return make([]float64, len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}
