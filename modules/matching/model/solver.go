package model

import "math"

// Assignment is the result of MaximumWeightMatching. RowToCol[i] is the
// column matched to row i.
type Assignment struct {
	RowToCol []int
	Total    float64
}

// MaximumWeightMatching solves maximum-weight bipartite matching on a square
// weight matrix via the Hungarian (Kuhn-Munkres) algorithm in O(n^3).
// The matrix must already be padded to square by
// the caller (dummy rows/columns carrying weight 0) and vetoed pairs must
// already be represented by a large negative finite sentinel, not -Inf;
// see ForbiddenSentinel. Iteration order is fixed (row-major, ascending
// column index), so two calls on identical input produce an identical
// assignment: ties break deterministically by (row, col) indices.
func MaximumWeightMatching(weights [][]float64) Assignment {
	n := len(weights)
	if n == 0 {
		return Assignment{}
	}

	// The classic Hungarian algorithm solves minimum cost; negate to solve
	// maximum weight.
	cost := make([][]float64, n)
	for i := range weights {
		cost[i] = make([]float64, n)
		for j := range weights[i] {
			cost[i][j] = -weights[i][j]
		}
	}

	rowToCol := hungarianMinCost(cost)

	total := 0.0
	for i, j := range rowToCol {
		total += weights[i][j]
	}
	return Assignment{RowToCol: rowToCol, Total: total}
}

// ForbiddenSentinel returns a weight low enough that the optimizer always
// prefers any chain of real edges over touching a single forbidden one
// (sentinel + n*max_real_weight < 0). maxRealWeight must be an
// upper bound on any real (non-forbidden) pairwise score.
func ForbiddenSentinel(n int, maxRealWeight float64) float64 {
	if maxRealWeight < 0 {
		maxRealWeight = 0
	}
	return -(maxRealWeight*float64(n) + 1)
}

// hungarianMinCost is the standard O(n^3) square assignment-problem solver
// (Kuhn-Munkres with row/column potentials). 1-indexed internally to match
// the textbook formulation; returns a 0-indexed row->col mapping.
func hungarianMinCost(a [][]float64) []int {
	n := len(a)
	const inf = math.MaxFloat64 / 4

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j] = row assigned to column j (1-indexed), 0 = none
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := 0; j <= n; j++ {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}
