package pipeline

import "sort"

const noiseLabel = -1

// dbscan1D runs density-based clustering over one-dimensional values and
// returns a cluster label per input position, noiseLabel for outliers.
//
// In one dimension the neighborhood structure is interval-based, so a single
// sorted sweep with a sliding window replaces the general region queries:
// a point is core when at least minPts values (itself included) lie within
// eps of it, and consecutive core points within eps of each other chain into
// one cluster. Border points adopt the cluster of a core point in reach.
func dbscan1D(values []float64, eps float64, minPts int) []int {
	n := len(values)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = noiseLabel
	}
	if n == 0 {
		return labels
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	// neighborCount[k] = points within eps of the k-th smallest value
	neighborCount := make([]int, n)
	lo, hi := 0, 0
	for k := 0; k < n; k++ {
		v := values[order[k]]
		for values[order[lo]] < v-eps {
			lo++
		}
		if hi < k {
			hi = k
		}
		for hi+1 < n && values[order[hi+1]] <= v+eps {
			hi++
		}
		neighborCount[k] = hi - lo + 1
	}

	cluster := -1
	prevCore := -1 // sorted position of the previous core point
	for k := 0; k < n; k++ {
		if neighborCount[k] < minPts {
			continue
		}
		if prevCore < 0 || values[order[k]]-values[order[prevCore]] > eps {
			cluster++ // too far from the last core point: new cluster
		}
		labels[order[k]] = cluster

		// Claim border points: non-core neighbors within eps on both sides
		for j := k - 1; j >= 0 && values[order[k]]-values[order[j]] <= eps; j-- {
			if labels[order[j]] == noiseLabel {
				labels[order[j]] = cluster
			}
		}
		for j := k + 1; j < n && values[order[j]]-values[order[k]] <= eps; j++ {
			if neighborCount[j] < minPts && labels[order[j]] == noiseLabel {
				labels[order[j]] = cluster
			}
		}
		prevCore = k
	}

	return labels
}
