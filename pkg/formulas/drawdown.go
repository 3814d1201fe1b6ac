package formulas

// DrawdownPoints locates the maximum drawdown of a return series within the
// series itself. Indices refer to positions in the input slice; RecoveryIndex
// is -1 when the series never regains the pre-drawdown peak.
type DrawdownPoints struct {
	MaxDrawdown   float64 // Deepest drawdown as a fraction, always <= 0
	PeakIndex     int     // Running peak in effect at the trough
	TroughIndex   int     // Deepest point of the drawdown
	RecoveryIndex int     // First index at or after the trough back at the peak, or -1
}

// MaxDrawdown scans a periodic return series for its maximum drawdown.
//
// The series is compounded into a cumulative growth curve, a running peak is
// tracked, and drawdown is (cumulative - peak) / peak. The trough is the
// first occurrence of the deepest drawdown, the peak index is the first index
// where the running peak in effect at the trough was set, and recovery is the
// first index from the trough onward whose cumulative value reaches that
// peak again.
func MaxDrawdown(returns []float64) DrawdownPoints {
	if len(returns) == 0 {
		return DrawdownPoints{RecoveryIndex: -1}
	}

	cumulative := make([]float64, len(returns))
	runningPeak := make([]float64, len(returns))

	growth := 1.0
	peak := 0.0
	for i, r := range returns {
		growth *= 1 + r
		cumulative[i] = growth
		if growth > peak {
			peak = growth
		}
		runningPeak[i] = peak
	}

	trough := 0
	maxDrawdown := 0.0
	for i := range cumulative {
		if runningPeak[i] == 0 {
			continue
		}
		drawdown := (cumulative[i] - runningPeak[i]) / runningPeak[i]
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
			trough = i
		}
	}

	// First index where the peak value in effect at the trough was reached.
	peakIndex := 0
	for i := 0; i <= trough; i++ {
		if runningPeak[i] == runningPeak[trough] {
			peakIndex = i
			break
		}
	}

	recovery := -1
	for i := trough; i < len(cumulative); i++ {
		if cumulative[i] >= runningPeak[trough] {
			recovery = i
			break
		}
	}

	return DrawdownPoints{
		MaxDrawdown:   maxDrawdown,
		PeakIndex:     peakIndex,
		TroughIndex:   trough,
		RecoveryIndex: recovery,
	}
}
