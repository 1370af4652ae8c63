package regress

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Evaluation holds the held-out metrics of a trained model
type Evaluation struct {
	R2                float64 `json:"r2"`
	MAE               float64 `json:"mae"`
	MSE               float64 `json:"mse"`
	RMSE              float64 `json:"rmse"`
	ExplainedVariance float64 `json:"explained_variance"`
}

// Score converts R² to the published 0-100 quality score, rounded to 2 decimals
func (e Evaluation) Score() float64 {
	return math.Round(e.R2*100*100) / 100
}

// Evaluate computes regression metrics for predictions against actuals
func Evaluate(actual, predicted []float64) Evaluation {
	n := float64(len(actual))
	mean := stat.Mean(actual, nil)

	var absErr, sqErr, ssTot float64
	residuals := make([]float64, len(actual))
	for i := range actual {
		d := actual[i] - predicted[i]
		residuals[i] = d
		absErr += math.Abs(d)
		sqErr += d * d
		ssTot += (actual[i] - mean) * (actual[i] - mean)
	}

	mse := sqErr / n
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - sqErr/ssTot
	}
	explained := 0.0
	if v := stat.Variance(actual, nil); v > 0 {
		explained = 1 - stat.Variance(residuals, nil)/v
	}

	return Evaluation{
		R2:                r2,
		MAE:               absErr / n,
		MSE:               mse,
		RMSE:              math.Sqrt(mse),
		ExplainedVariance: explained,
	}
}
