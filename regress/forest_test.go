package regress

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// syntheticDataset builds a noiseless linear relation y = 3*x0 + 2*x1 + 10
func syntheticDataset(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := rng.Float64() * 100
		x1 := rng.Float64() * 50
		X[i] = []float64{x0, x1}
		y[i] = 3*x0 + 2*x1 + 10
	}
	return X, y
}

func TestTrainerRejectsSmallDatasets(t *testing.T) {
	tr := &Trainer{Trees: 10, TestFraction: 0.2, Seed: 42, MinRows: 50}
	X, y := syntheticDataset(10, 1)

	_, _, err := tr.Train(X, y)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestTrainerIsDeterministic(t *testing.T) {
	X, y := syntheticDataset(200, 7)
	tr := &Trainer{Trees: 20, TestFraction: 0.2, Seed: 42, MinRows: 50}

	_, first, err := tr.Train(X, y)
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}
	_, second, err := tr.Train(X, y)
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}

	if first.Score() != second.Score() {
		t.Errorf("same seed produced different scores: %v vs %v", first.Score(), second.Score())
	}
	if first.MAE != second.MAE {
		t.Errorf("same seed produced different MAE: %v vs %v", first.MAE, second.MAE)
	}
}

func TestForestLearnsLinearSignal(t *testing.T) {
	X, y := syntheticDataset(300, 3)
	tr := &Trainer{Trees: 30, TestFraction: 0.2, Seed: 42, MinRows: 50}

	_, eval, err := tr.Train(X, y)
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}
	if eval.R2 < 0.8 {
		t.Errorf("expected a strong fit on a noiseless linear signal, R2=%v", eval.R2)
	}
	if eval.Score() < 0 || eval.Score() > 100 {
		t.Errorf("score must land in [0, 100], got %v", eval.Score())
	}
}

func TestForestPredictConstantTarget(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{42, 42, 42, 42, 42, 42}

	forest := NewForest(5, 1)
	forest.Fit(X, y)

	if got := forest.Predict([]float64{3.5}); got != 42 {
		t.Errorf("constant target should predict exactly, got %v", got)
	}
}

func TestSplitSizesAndDeterminism(t *testing.T) {
	X, y := syntheticDataset(100, 5)

	trainX, testX, trainY, testY := Split(X, y, 0.2, 42)
	if len(testX) != 20 || len(trainX) != 80 {
		t.Fatalf("expected 80/20 split, got %d/%d", len(trainX), len(testX))
	}
	if len(trainY) != len(trainX) || len(testY) != len(testX) {
		t.Fatal("feature and label partitions disagree in size")
	}

	_, testX2, _, testY2 := Split(X, y, 0.2, 42)
	for i := range testY {
		if testY[i] != testY2[i] || testX[i][0] != testX2[i][0] {
			t.Fatal("same seed produced a different partition")
		}
	}
}

func TestSplitClampsTinyFractions(t *testing.T) {
	X, y := syntheticDataset(10, 2)

	_, testX, _, _ := Split(X, y, 0.0, 42)
	if len(testX) != 1 {
		t.Errorf("zero fraction should still hold out one row, got %d", len(testX))
	}

	trainX, _, _, _ := Split(X, y, 1.0, 42)
	if len(trainX) != 1 {
		t.Errorf("full fraction should still keep one training row, got %d", len(trainX))
	}
}

func TestEvaluatePerfectPrediction(t *testing.T) {
	actual := []float64{100, 200, 300, 400}
	eval := Evaluate(actual, actual)

	if eval.R2 != 1 {
		t.Errorf("expected R2=1 for perfect predictions, got %v", eval.R2)
	}
	if eval.MAE != 0 || eval.MSE != 0 || eval.RMSE != 0 {
		t.Errorf("expected zero errors, got MAE=%v MSE=%v RMSE=%v", eval.MAE, eval.MSE, eval.RMSE)
	}
	if eval.Score() != 100 {
		t.Errorf("perfect fit should score 100, got %v", eval.Score())
	}
}

func TestEvaluateMeanPredictor(t *testing.T) {
	actual := []float64{10, 20, 30, 40}
	predicted := []float64{25, 25, 25, 25}

	eval := Evaluate(actual, predicted)
	if math.Abs(eval.R2) > 1e-9 {
		t.Errorf("mean predictor should give R2=0, got %v", eval.R2)
	}
	if eval.MAE != 10 {
		t.Errorf("expected MAE 10, got %v", eval.MAE)
	}
}
