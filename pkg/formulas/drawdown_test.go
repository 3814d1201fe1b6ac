package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxDrawdown_MonotonicGrowthHasNoDrawdown(t *testing.T) {
	points := MaxDrawdown([]float64{0.01, 0.02, 0.01, 0.03})
	assert.Equal(t, 0.0, points.MaxDrawdown)
}

func TestMaxDrawdown_SingleDip(t *testing.T) {
	// Up, down 10%, recover past the peak.
	returns := []float64{0.10, -0.10, 0.20}
	points := MaxDrawdown(returns)

	assert.InDelta(t, -0.10, points.MaxDrawdown, 1e-9)
	assert.Equal(t, 0, points.PeakIndex)
	assert.Equal(t, 1, points.TroughIndex)
	assert.Equal(t, 2, points.RecoveryIndex)
}

func TestMaxDrawdown_NeverRecovers(t *testing.T) {
	returns := []float64{0.05, -0.20, 0.01}
	points := MaxDrawdown(returns)

	assert.Less(t, points.MaxDrawdown, 0.0)
	assert.Equal(t, 1, points.TroughIndex)
	assert.Equal(t, -1, points.RecoveryIndex)
}

func TestMaxDrawdown_FirstTroughWinsOnTies(t *testing.T) {
	// Two identical 50% dips; the earlier trough must be reported.
	returns := []float64{1.0, -0.5, 1.0, -0.5}
	points := MaxDrawdown(returns)

	assert.InDelta(t, -0.5, points.MaxDrawdown, 1e-9)
	assert.Equal(t, 1, points.TroughIndex)
	assert.Equal(t, 0, points.PeakIndex)
	assert.Equal(t, 2, points.RecoveryIndex)
}

func TestMaxDrawdown_DeepLateDipBeatsShallowEarlyDip(t *testing.T) {
	returns := []float64{-0.05, 0.10, -0.20}
	points := MaxDrawdown(returns)

	assert.Equal(t, 2, points.TroughIndex)
	assert.InDelta(t, -0.20, points.MaxDrawdown, 1e-9)
}
