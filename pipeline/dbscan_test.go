package pipeline

import "testing"

func TestDbscan1DLabelsNoise(t *testing.T) {
	// A dense cluster around 0 and a lone far point
	values := []float64{0.0, 0.1, 0.2, 0.3, 0.15, 9.0}

	labels := dbscan1D(values, 0.5, 4)

	for i := 0; i < 5; i++ {
		if labels[i] == noiseLabel {
			t.Errorf("cluster member %v flagged as noise", values[i])
		}
	}
	if labels[5] != noiseLabel {
		t.Errorf("expected isolated point to be noise, got label %d", labels[5])
	}
}

func TestDbscan1DTwoClusters(t *testing.T) {
	values := []float64{0, 0.1, 0.2, 0.3, 10, 10.1, 10.2, 10.3}

	labels := dbscan1D(values, 0.5, 3)

	if labels[0] == noiseLabel || labels[4] == noiseLabel {
		t.Fatal("dense points should not be noise")
	}
	if labels[0] == labels[4] {
		t.Error("separated clusters received the same label")
	}
	for i := 1; i < 4; i++ {
		if labels[i] != labels[0] {
			t.Errorf("point %v should share the first cluster's label", values[i])
		}
	}
}

func TestDbscan1DSmallInputAllNoise(t *testing.T) {
	labels := dbscan1D([]float64{1, 2}, 0.5, 4)
	for i, l := range labels {
		if l != noiseLabel {
			t.Errorf("index %d: expected noise with too few neighbors, got %d", i, l)
		}
	}
}

func TestStandardize(t *testing.T) {
	z := standardize([]float64{2, 4, 6})
	if z[1] != 0 {
		t.Errorf("mean value should standardize to 0, got %v", z[1])
	}
	if z[0] >= 0 || z[2] <= 0 {
		t.Errorf("expected symmetric z-scores, got %v and %v", z[0], z[2])
	}

	// Constant input must not divide by zero
	z = standardize([]float64{5, 5, 5})
	for _, v := range z {
		if v != 0 {
			t.Errorf("constant input should standardize to zeros, got %v", v)
		}
	}
}
