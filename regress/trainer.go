package regress

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInsufficientData means the dataset cannot support a stable train/test
// split. Training fails loudly in that case: a model is never published with
// an unmeasurable score.
var ErrInsufficientData = errors.New("regress: insufficient rows for a stable split")

// Trainer fits and evaluates a forest with reproducible parameters
type Trainer struct {
	Trees        int
	TestFraction float64
	Seed         int64
	MinRows      int
}

// Train splits the labeled dataset, fits a forest on the training part and
// evaluates it on the held-out part.
func (t *Trainer) Train(X [][]float64, y []float64) (*Forest, Evaluation, error) {
	if len(X) < t.MinRows {
		return nil, Evaluation{}, fmt.Errorf("%w: %d rows, need at least %d", ErrInsufficientData, len(X), t.MinRows)
	}

	trainX, testX, trainY, testY := Split(X, y, t.TestFraction, t.Seed)

	forest := NewForest(t.Trees, t.Seed)
	forest.Fit(trainX, trainY)

	predicted := make([]float64, len(testX))
	for i, x := range testX {
		predicted[i] = forest.Predict(x)
	}

	return forest, Evaluate(testY, predicted), nil
}

// Split partitions a dataset into train and test parts with a seeded shuffle,
// so the same seed and fraction always produce the same partition.
func Split(X [][]float64, y []float64, testFraction float64, seed int64) (trainX, testX [][]float64, trainY, testY []float64) {
	n := len(X)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := int(math.Round(float64(n) * testFraction))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	for i, p := range perm {
		if i < nTest {
			testX = append(testX, X[p])
			testY = append(testY, y[p])
		} else {
			trainX = append(trainX, X[p])
			trainY = append(trainY, y[p])
		}
	}
	return trainX, testX, trainY, testY
}
