package indicators

import (
	"fmt"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/series"
)

const (
	macdFast   = 5
	macdSlow   = 13
	macdSignal = 3

	emaFastSpan = 7
	emaSlowSpan = 25

	rocNormPct = 0.3 // full-score momentum over 5 bars
)

// MACD computes an intraday-tuned (5,13,3) MACD histogram and scores the
// histogram's sign together with its momentum direction.
func MACD(snap *models.Snapshot) models.IndicatorResult {
	closes := closes1m(snap)
	if len(closes) < macdSlow+macdSignal {
		return models.NoData(NameMACD, "insufficient history")
	}
	fast := series.EMA(closes, macdFast)
	slow := series.EMA(closes, macdSlow)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal := series.EMA(macd, macdSignal)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}
	h := hist[len(hist)-1]
	hPrev := hist[len(hist)-2]
	res := models.IndicatorResult{
		Name:    NameMACD,
		Display: fmt.Sprintf("%.4f / %.4f", macd[len(macd)-1], signal[len(signal)-1]),
	}
	switch {
	case h > 0 && h > hPrev:
		res.Score, res.Detail = 1.0, "histogram rising"
	case h > 0:
		res.Score, res.Detail = 0.3, "positive but fading"
	case h < 0 && h < hPrev:
		res.Score, res.Detail = -1.0, "histogram falling"
	case h < 0:
		res.Score, res.Detail = -0.3, "negative but fading"
	default:
		res.Detail = "crossing zero"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// EMACross scores the fast/slow EMA relation combined with where the current
// price sits relative to the fast EMA.
func EMACross(snap *models.Snapshot) models.IndicatorResult {
	closes := closes1m(snap)
	if len(closes) < emaSlowSpan {
		return models.NoData(NameEMACross, "insufficient history")
	}
	fast := series.LastEMA(closes, emaFastSpan)
	slow := series.LastEMA(closes, emaSlowSpan)
	p := price(snap)
	res := models.IndicatorResult{Name: NameEMACross, Display: fmt.Sprintf("%.4f / %.4f", fast, slow)}
	switch {
	case fast > slow && p > fast:
		res.Score, res.Detail = 1.0, "price > EMA7 > EMA25"
	case fast > slow:
		res.Score, res.Detail = 0.3, "EMA7 > EMA25, pullback"
	case fast < slow && p < fast:
		res.Score, res.Detail = -1.0, "price < EMA7 < EMA25"
	case fast < slow:
		res.Score, res.Detail = -0.3, "EMA7 < EMA25, bounce"
	default:
		res.Detail = "EMAs interleaved"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// RateOfChange compares price now vs 3 and 5 bars ago; score scales linearly
// with the 5-bar momentum, clipped to ±1 by the fixed 0.3% normalization.
func RateOfChange(snap *models.Snapshot) models.IndicatorResult {
	closes := closes1m(snap)
	if len(closes) < 6 {
		return models.NoData(NameROC, "insufficient history")
	}
	last := closes[len(closes)-1]
	roc5 := pctChange(last, closes[len(closes)-6])
	roc3 := pctChange(last, closes[len(closes)-4])
	res := models.IndicatorResult{
		Name:    NameROC,
		Display: fmt.Sprintf("3m: %+.3f%% | 5m: %+.3f%%", roc3, roc5),
	}
	switch {
	case roc5 > 0.15 && roc3 > 0:
		res.Score = series.Clamp(roc5/rocNormPct, -1, 1)
		res.Detail = fmt.Sprintf("positive momentum %+.3f%%", roc5)
	case roc5 < -0.15 && roc3 < 0:
		res.Score = series.Clamp(roc5/rocNormPct, -1, 1)
		res.Detail = fmt.Sprintf("negative momentum %+.3f%%", roc5)
	default:
		res.Detail = fmt.Sprintf("no clear momentum (%+.3f%%)", roc5)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}
