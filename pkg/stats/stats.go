// Package stats provides small numeric helpers over score distributions.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of vals, 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	return stat.Mean(vals, nil)
}

// Quantile returns the p-quantile (p in [0, 1]) of vals, 0 for an empty
// slice. The input is not modified.
func Quantile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
