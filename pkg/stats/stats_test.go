package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
}

func TestQuantile(t *testing.T) {
	assert.Zero(t, Quantile(nil, 0.5))

	vals := []float64{3, 1, 2, 4}
	q := Quantile(vals, 0.5)

	assert.GreaterOrEqual(t, q, 1.0)
	assert.LessOrEqual(t, q, 4.0)
	assert.Equal(t, []float64{3, 1, 2, 4}, vals, "input is left untouched")
}
