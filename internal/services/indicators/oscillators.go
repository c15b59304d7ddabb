package indicators

import (
	"fmt"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/series"
)

const (
	rsiPeriod      = 9
	stochKPeriod   = 5
	stochSmooth    = 3
	williamsPeriod = 14
)

// RSI computes a fast 9-period relative strength index on 1m closes.
// Tiers: <30 deep oversold, <45 low zone, >70 deep overbought, >55 high zone.
func RSI(snap *models.Snapshot) models.IndicatorResult {
	closes := closes1m(snap)
	if len(closes) < rsiPeriod+1 {
		return models.NoData(NameRSI, "insufficient history")
	}
	gains := make([]float64, 0, rsiPeriod)
	losses := make([]float64, 0, rsiPeriod)
	for i := len(closes) - rsiPeriod; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains = append(gains, d)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -d)
		}
	}
	avgGain, _ := series.SMA(gains, rsiPeriod)
	avgLoss, _ := series.SMA(losses, rsiPeriod)

	var rsi float64
	switch {
	case avgLoss == 0 && avgGain == 0:
		rsi = 50
	case avgLoss == 0:
		rsi = 100
	default:
		rsi = 100 - 100/(1+avgGain/avgLoss)
	}

	res := models.IndicatorResult{Name: NameRSI, Display: fmt.Sprintf("%.1f", rsi)}
	switch {
	case rsi < 30:
		res.Score, res.Detail = 1.0, fmt.Sprintf("oversold (%.1f)", rsi)
	case rsi > 70:
		res.Score, res.Detail = -1.0, fmt.Sprintf("overbought (%.1f)", rsi)
	case rsi < 45:
		res.Score, res.Detail = 0.4, fmt.Sprintf("low zone (%.1f)", rsi)
	case rsi > 55:
		res.Score, res.Detail = -0.4, fmt.Sprintf("high zone (%.1f)", rsi)
	default:
		res.Detail = fmt.Sprintf("neutral (%.1f)", rsi)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// Stochastic computes an ultrafast (5,3) stochastic oscillator.
func Stochastic(snap *models.Snapshot) models.IndicatorResult {
	cs := snap.Candles1m
	need := stochKPeriod + 2*stochSmooth
	if len(cs) < need {
		return models.NoData(NameStochastic, "insufficient history")
	}
	// Raw %K per bar, then two rounds of 3-bar smoothing for K and D.
	raw := make([]float64, 0, len(cs))
	for i := stochKPeriod - 1; i < len(cs); i++ {
		lo, hi := cs[i].Low, cs[i].High
		for j := i - stochKPeriod + 1; j <= i; j++ {
			if cs[j].Low < lo {
				lo = cs[j].Low
			}
			if cs[j].High > hi {
				hi = cs[j].High
			}
		}
		if hi == lo {
			raw = append(raw, 50)
			continue
		}
		raw = append(raw, (cs[i].Close-lo)/(hi-lo)*100)
	}
	kSeries := rollingMean(raw, stochSmooth)
	if len(kSeries) < stochSmooth {
		return models.NoData(NameStochastic, "insufficient history")
	}
	k := kSeries[len(kSeries)-1]
	d, _ := series.SMA(kSeries, stochSmooth)

	res := models.IndicatorResult{Name: NameStochastic, Display: fmt.Sprintf("K=%.1f D=%.1f", k, d)}
	switch {
	case k < 20 && d < 20:
		res.Score, res.Detail = 1.0, fmt.Sprintf("oversold K=%.0f", k)
	case k > 80 && d > 80:
		res.Score, res.Detail = -1.0, fmt.Sprintf("overbought K=%.0f", k)
	case k > d && k < 50:
		res.Score, res.Detail = 0.5, "K crossing D from below"
	case k < d && k > 50:
		res.Score, res.Detail = -0.5, "K crossing D from above"
	default:
		res.Detail = fmt.Sprintf("mid zone K=%.0f", k)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// WilliamsR computes the 14-period Williams %R.
func WilliamsR(snap *models.Snapshot) models.IndicatorResult {
	cs := snap.Candles1m
	if len(cs) < williamsPeriod {
		return models.NoData(NameWilliamsR, "insufficient history")
	}
	tail := cs[len(cs)-williamsPeriod:]
	hi, lo := tail[0].High, tail[0].Low
	for _, c := range tail {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}
	if hi == lo {
		return models.NoData(NameWilliamsR, "flat window")
	}
	wr := (hi - snap.LastClose()) / (hi - lo) * -100

	res := models.IndicatorResult{Name: NameWilliamsR, Display: fmt.Sprintf("%.1f", wr)}
	switch {
	case wr < -80:
		res.Score, res.Detail = 1.0, fmt.Sprintf("oversold (%.0f)", wr)
	case wr > -20:
		res.Score, res.Detail = -1.0, fmt.Sprintf("overbought (%.0f)", wr)
	default:
		res.Detail = fmt.Sprintf("mid zone (%.0f)", wr)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// rollingMean computes the trailing window mean at each index >= window-1.
func rollingMean(xs []float64, window int) []float64 {
	if len(xs) < window || window <= 0 {
		return nil
	}
	out := make([]float64, 0, len(xs)-window+1)
	sum := 0.0
	for i, v := range xs {
		sum += v
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}
