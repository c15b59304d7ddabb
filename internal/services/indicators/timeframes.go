package indicators

import (
	"fmt"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/series"
)

const (
	tfEMASpan     = 7
	tfLookback    = 5
	tfChangeMinPc = 0.1
)

// Trend5m scores the 5-minute timeframe trend.
func Trend5m(snap *models.Snapshot) models.IndicatorResult {
	return tfTrend(NameTrend5m, snap.Candles5m)
}

// Trend15m scores the 15-minute timeframe trend.
func Trend15m(snap *models.Snapshot) models.IndicatorResult {
	return tfTrend(NameTrend15m, snap.Candles15m)
}

// Trend1h scores the hourly timeframe trend.
func Trend1h(snap *models.Snapshot) models.IndicatorResult {
	return tfTrend(NameTrend1h, snap.Candles1h)
}

// tfTrend is the shared higher-timeframe evaluator: the close must sit on the
// right side of its EMA and the lookback change must clear a minimum slope
// before the frame counts as trending.
func tfTrend(name string, candles []models.Candle) models.IndicatorResult {
	if len(candles) < tfEMASpan+tfLookback {
		return models.NoData(name, "insufficient history")
	}
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	last := closes[len(closes)-1]
	ema := series.LastEMA(closes, tfEMASpan)
	change := pctChange(last, closes[len(closes)-1-tfLookback])

	res := models.IndicatorResult{
		Name:    name,
		Display: fmt.Sprintf("%+.2f%% vs EMA%d", change, tfEMASpan),
	}
	switch {
	case last > ema && change > tfChangeMinPc:
		res.Score, res.Detail = 0.8, "uptrend confirmed"
	case last < ema && change < -tfChangeMinPc:
		res.Score, res.Detail = -0.8, "downtrend confirmed"
	default:
		res.Detail = "no clear trend"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}
