package regime

import (
	"math"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/series"
)

// Fixed regime constants. These are empirically chosen and deliberately not
// configurable, so repeated runs over the same window stay reproducible.
const (
	trendingThreshold  = 0.62
	revertingThreshold = 0.40

	minLag    = 2
	maxLag    = 20
	minPoints = 3

	hurstFloor   = 0.1
	hurstCeil    = 0.9
	hurstDefault = 0.5

	// RecommendedWindow is the minimum 1m close count for a stable estimate.
	RecommendedWindow = 40
)

// Estimate computes a roughness/persistence coefficient from the close
// series via a log-log slope fit of lag-difference dispersion. It is a
// simplified Hurst-style estimator, not a rigorous rescaled-range one.
// Any degeneracy (short series, zero variance, non-finite logs) resolves to
// the undetermined default 0.5 and never to an error.
func Estimate(closes []float64) float64 {
	if len(closes) < minLag*4 {
		return hurstDefault
	}
	top := maxLag
	if cap4 := len(closes) / 4; top > cap4 {
		top = cap4
	}
	var logLags, logStds []float64
	for lag := minLag; lag <= top; lag++ {
		d := series.Diff(closes, lag)
		if len(d) < 2 {
			continue
		}
		_, sd := series.MeanStd(d)
		if sd <= 0 || !series.Finite(sd) {
			continue
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logStds = append(logStds, math.Log(sd))
	}
	if len(logLags) < minPoints {
		return hurstDefault
	}
	slope, ok := leastSquaresSlope(logLags, logStds)
	if !ok || !series.Finite(slope) {
		return hurstDefault
	}
	return series.Clamp(slope, hurstFloor, hurstCeil)
}

// Classify buckets a roughness coefficient into a market regime.
func Classify(h float64) models.Regime {
	switch {
	case h > trendingThreshold:
		return models.RegimeTrending
	case h < revertingThreshold:
		return models.RegimeMeanReverting
	default:
		return models.RegimeNoise
	}
}

// Read runs the full classifier over a snapshot's 1m candles: roughness
// estimate, regime bucket, and the wash-trading fraction of the window.
func Read(candles []models.Candle) models.RegimeReading {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	h := Estimate(closes)
	return models.RegimeReading{
		Hurst:        h,
		Regime:       Classify(h),
		WashFraction: WashFraction(candles),
	}
}

func leastSquaresSlope(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if n < 2 {
		return 0, false
	}
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0, false
	}
	return (n*sxy - sx*sy) / den, true
}
