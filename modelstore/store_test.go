package modelstore

import (
	"errors"
	"testing"
	"time"

	"estate-adviser/regress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func fittedForest() *regress.Forest {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
	y := []float64{10, 20, 30, 40, 50, 60, 70, 80}
	forest := regress.NewForest(3, 42)
	forest.Fit(X, y)
	return forest
}

func TestKey(t *testing.T) {
	if got := Key("Seattle", "WA"); got != "seattle_wa" {
		t.Errorf("expected seattle_wa, got %q", got)
	}
}

func TestDisplayLocation(t *testing.T) {
	tests := []struct {
		market   string
		expected string
	}{
		{"seattle_wa", "Seattle, WA"},
		{"austin_tx", "Austin, TX"},
		{"malformed", "malformed"},
	}
	for _, tt := range tests {
		if got := DisplayLocation(tt.market); got != tt.expected {
			t.Errorf("DisplayLocation(%q): expected %q, got %q", tt.market, tt.expected, got)
		}
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	store := openTestStore(t)

	trainedAt := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	original := &Model{Market: "seattle_wa", Score: 87.5, TrainedAt: trainedAt, Forest: fittedForest()}
	if err := store.Put(original); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	loaded, err := store.Get("seattle_wa")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.Market != "seattle_wa" || loaded.Score != 87.5 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if !loaded.TrainedAt.Equal(trainedAt) {
		t.Errorf("expected trained-at %v, got %v", trainedAt, loaded.TrainedAt)
	}
	if loaded.Forest == nil {
		t.Fatal("forest lost in serialization")
	}

	// The restored forest must predict identically to the original
	for _, x := range []float64{1.5, 4.2, 7.9} {
		want := original.Forest.Predict([]float64{x})
		if got := loaded.Forest.Predict([]float64{x}); got != want {
			t.Errorf("restored forest diverges at %v: %v vs %v", x, got, want)
		}
	}
}

func TestGetMissingModel(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get("nowhere_xx"); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestPutReplacesPrevious(t *testing.T) {
	store := openTestStore(t)

	first := &Model{Market: "seattle_wa", Score: 70, TrainedAt: time.Now(), Forest: fittedForest()}
	second := &Model{Market: "seattle_wa", Score: 91, TrainedAt: time.Now(), Forest: fittedForest()}
	if err := store.Put(first); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(second); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Get("seattle_wa")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Score != 91 {
		t.Errorf("expected the retrained model, got score %v", loaded.Score)
	}

	locations, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 1 {
		t.Errorf("retraining must not duplicate listings, got %d", len(locations))
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	model := &Model{Market: "seattle_wa", Score: 80, TrainedAt: time.Now(), Forest: fittedForest()}
	if err := store.Put(model); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("seattle_wa"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get("seattle_wa"); !errors.Is(err, ErrModelNotFound) {
		t.Error("model still readable after deletion")
	}
	if err := store.Delete("seattle_wa"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound on double delete, got %v", err)
	}

	locations, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 0 {
		t.Errorf("deleted market still listed: %v", locations)
	}
}

func TestList(t *testing.T) {
	store := openTestStore(t)

	for _, m := range []struct {
		market string
		score  float64
	}{
		{"seattle_wa", 85},
		{"austin_tx", 78.5},
	} {
		model := &Model{Market: m.market, Score: m.score, TrainedAt: time.Now(), Forest: fittedForest()}
		if err := store.Put(model); err != nil {
			t.Fatal(err)
		}
	}

	locations, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locations))
	}

	byMarket := make(map[string]Location)
	for _, l := range locations {
		byMarket[l.Market] = l
	}
	if l := byMarket["seattle_wa"]; l.Location != "Seattle, WA" || l.Score != 85 {
		t.Errorf("unexpected listing: %+v", l)
	}
	if l := byMarket["austin_tx"]; l.Location != "Austin, TX" || l.Score != 78.5 {
		t.Errorf("unexpected listing: %+v", l)
	}
}
