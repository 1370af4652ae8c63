// Package regress implements the regression model used for price prediction:
// an ensemble of CART regression trees over bootstrap samples, with a seeded
// random source so a retrain over the same dataset reproduces the same model
// and the same quality score.
package regress

import (
	"math"
	"math/rand"
	"sort"
)

const (
	maxTreeDepth   = 32
	minSamplesLeaf = 2
)

// TreeNode is a node of a regression tree. Exported fields so a fitted forest
// can be gob-serialized into the model blob store.
type TreeNode struct {
	Leaf      bool
	Value     float64 // mean of samples, set on leaves
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// Forest is a random-forest regressor: each tree is fit on a bootstrap sample
// with a random feature subset considered at every split.
type Forest struct {
	Trees []*TreeNode
	Seed  int64
}

// NewForest creates an unfitted forest of the given size
func NewForest(trees int, seed int64) *Forest {
	return &Forest{
		Trees: make([]*TreeNode, trees),
		Seed:  seed,
	}
}

// Fit builds every tree of the ensemble
func (f *Forest) Fit(X [][]float64, y []float64) {
	rng := rand.New(rand.NewSource(f.Seed))
	n := len(X)
	numFeatures := 0
	if n > 0 {
		numFeatures = len(X[0])
	}
	// Features considered per split, the usual p/3 regression heuristic
	mtry := numFeatures / 3
	if mtry < 1 {
		mtry = 1
	}

	for t := range f.Trees {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.Trees[t] = buildTree(X, y, sample, mtry, 0, rng)
	}
}

// Predict returns the ensemble mean for one feature vector
func (f *Forest) Predict(x []float64) float64 {
	sum := 0.0
	for _, root := range f.Trees {
		sum += predictTree(root, x)
	}
	return sum / float64(len(f.Trees))
}

func predictTree(node *TreeNode, x []float64) float64 {
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func buildTree(X [][]float64, y []float64, idx []int, mtry, depth int, rng *rand.Rand) *TreeNode {
	if len(idx) < 2*minSamplesLeaf || depth >= maxTreeDepth {
		return leaf(y, idx)
	}

	feature, threshold, ok := bestSplit(X, y, idx, mtry, rng)
	if !ok {
		return leaf(y, idx)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < minSamplesLeaf || len(right) < minSamplesLeaf {
		return leaf(y, idx)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(X, y, left, mtry, depth+1, rng),
		Right:     buildTree(X, y, right, mtry, depth+1, rng),
	}
}

func leaf(y []float64, idx []int) *TreeNode {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return &TreeNode{Leaf: true, Value: sum / float64(len(idx))}
}

// bestSplit scans a random feature subset for the split with the lowest
// total squared error. Candidate thresholds are midpoints between adjacent
// distinct values.
func bestSplit(X [][]float64, y []float64, idx []int, mtry int, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(X[idx[0]])
	candidates := rng.Perm(numFeatures)[:mtry]

	bestSSE := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	order := make([]int, len(idx))
	for _, feature := range candidates {
		copy(order, idx)
		f := feature
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		// Prefix sums over the sorted order let every split position be
		// scored in constant time.
		var sumL, sumSqL float64
		var sumR, sumSqR float64
		for _, i := range order {
			sumR += y[i]
			sumSqR += y[i] * y[i]
		}

		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			sumL += y[i]
			sumSqL += y[i] * y[i]
			sumR -= y[i]
			sumSqR -= y[i] * y[i]

			v, next := X[i][f], X[order[pos+1]][f]
			if v == next {
				continue
			}
			nL, nR := float64(pos+1), float64(len(order)-pos-1)
			if int(nL) < minSamplesLeaf || int(nR) < minSamplesLeaf {
				continue
			}

			sse := (sumSqL - sumL*sumL/nL) + (sumSqR - sumR*sumR/nR)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (v + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}
