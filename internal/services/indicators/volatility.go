package indicators

import (
	"fmt"
	"math"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/series"
)

const (
	bollPeriod = 20
	bollWidth  = 2.0
	atrPeriod  = 9
)

// Bollinger reports the price position inside a (20, 2) band as %B plus the
// bandwidth as a display-only figure.
func Bollinger(snap *models.Snapshot) models.IndicatorResult {
	closes := closes1m(snap)
	if len(closes) < bollPeriod {
		return models.NoData(NameBollinger, "insufficient history")
	}
	mid, _ := series.SMA(closes, bollPeriod)
	std, _ := series.Std(closes, bollPeriod)
	upper := mid + bollWidth*std
	lower := mid - bollWidth*std
	p := price(snap)

	pctB := 50.0
	if upper > lower {
		pctB = (p - lower) / (upper - lower) * 100
	}
	bw := 0.0
	if mid > 0 {
		bw = (upper - lower) / mid * 100
	}

	res := models.IndicatorResult{
		Name:    NameBollinger,
		Display: fmt.Sprintf("%.1f%% (BW %.2f%%)", pctB, bw),
	}
	switch {
	case pctB < 5:
		res.Score, res.Detail = 1.0, fmt.Sprintf("lower band (%.0f%%)", pctB)
	case pctB > 95:
		res.Score, res.Detail = -1.0, fmt.Sprintf("upper band (%.0f%%)", pctB)
	case pctB < 35:
		res.Score, res.Detail = 0.4, fmt.Sprintf("low zone (%.0f%%)", pctB)
	case pctB > 65:
		res.Score, res.Detail = -0.4, fmt.Sprintf("high zone (%.0f%%)", pctB)
	default:
		res.Detail = fmt.Sprintf("mid band (%.0f%%)", pctB)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// ATR is purely informational (weight 0) but its percentage figure drives the
// estimated-move calculation downstream, so it is never dropped from the bank.
func ATR(snap *models.Snapshot) models.IndicatorResult {
	atr, atrPct, ok := atrValue(snap)
	if !ok {
		return models.NoData(NameATR, "insufficient history")
	}
	return models.IndicatorResult{
		Name:    NameATR,
		Display: fmt.Sprintf("±%.4f (±%.3f%%)", atr, atrPct),
		Label:   models.LabelNeutral,
		Detail:  fmt.Sprintf("expected range ±%.3f%% per bar", atrPct),
	}
}

// ATRPct exposes the range figure the aggregator consumes directly, avoiding
// any parsing of display strings.
func ATRPct(snap *models.Snapshot) float64 {
	_, atrPct, ok := atrValue(snap)
	if !ok {
		return 0
	}
	return atrPct
}

func atrValue(snap *models.Snapshot) (atr, atrPct float64, ok bool) {
	cs := snap.Candles1m
	if len(cs) < atrPeriod+1 {
		return 0, 0, false
	}
	trs := make([]float64, 0, atrPeriod)
	for i := len(cs) - atrPeriod; i < len(cs); i++ {
		prevClose := cs[i-1].Close
		tr := cs[i].High - cs[i].Low
		if v := math.Abs(cs[i].High - prevClose); v > tr {
			tr = v
		}
		if v := math.Abs(cs[i].Low - prevClose); v > tr {
			tr = v
		}
		trs = append(trs, tr)
	}
	atr, _ = series.SMA(trs, atrPeriod)
	p := price(snap)
	if p <= 0 || !series.Finite(atr) {
		return 0, 0, false
	}
	return atr, atr / p * 100, true
}

// CandlePattern classifies the last 1m bar into a basic single-candle shape.
func CandlePattern(snap *models.Snapshot) models.IndicatorResult {
	cs := snap.Candles1m
	if len(cs) == 0 {
		return models.NoData(NamePattern, "insufficient history")
	}
	b := cs[len(cs)-1]
	body := math.Abs(b.Close - b.Open)
	rng := b.High - b.Low
	lowerWick := math.Min(b.Open, b.Close) - b.Low
	upperWick := b.High - math.Max(b.Open, b.Close)

	pattern, score := "Neutral", 0.0
	if rng > 0 {
		switch {
		case body > rng*0.8 && b.Close > b.Open:
			pattern, score = "Bullish Marubozu", 1.0
		case body > rng*0.8 && b.Close < b.Open:
			pattern, score = "Bearish Marubozu", -1.0
		case lowerWick > body*2 && upperWick < body*0.5:
			pattern, score = "Hammer", 1.0
		case upperWick > body*2 && lowerWick < body*0.5:
			pattern, score = "Shooting Star", -1.0
		case body < rng*0.1:
			pattern, score = "Doji", 0.0
		case b.Close > b.Open:
			pattern, score = "Bullish", 0.5
		default:
			pattern, score = "Bearish", -0.5
		}
	}
	return models.IndicatorResult{
		Name:    NamePattern,
		Display: pattern,
		Label:   models.LabelForScore(score),
		Score:   score,
		Detail:  pattern,
	}
}
