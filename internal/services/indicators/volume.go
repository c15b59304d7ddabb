package indicators

import (
	"fmt"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/regime"
	"PulseCast/internal/services/series"
)

const (
	obvEMASpan    = 10
	relVolWindow  = 20
	buySellWindow = 10
)

// OBVTrend scores the on-balance-volume slope against its own EMA.
func OBVTrend(snap *models.Snapshot) models.IndicatorResult {
	cs := snap.Candles1m
	if len(cs) < obvEMASpan {
		return models.NoData(NameOBV, "insufficient history")
	}
	obv := make([]float64, len(cs))
	for i := 1; i < len(cs); i++ {
		switch {
		case cs[i].Close > cs[i-1].Close:
			obv[i] = obv[i-1] + cs[i].Volume
		case cs[i].Close < cs[i-1].Close:
			obv[i] = obv[i-1] - cs[i].Volume
		default:
			obv[i] = obv[i-1]
		}
	}
	ema := series.EMA(obv, obvEMASpan)
	last := obv[len(obv)-1]
	trend := last - obv[len(obv)-5]
	vsEMA := last - ema[len(ema)-1]

	res := models.IndicatorResult{Name: NameOBV, Display: fmt.Sprintf("Δ5m: %+.0f", trend)}
	switch {
	case vsEMA > 0 && trend > 0:
		res.Score, res.Detail = 1.0, "OBV above EMA and rising"
	case vsEMA < 0 && trend < 0:
		res.Score, res.Detail = -1.0, "OBV below EMA and falling"
	default:
		res.Detail = "OBV mixed"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// VWAPDeviation scores the price's deviation from the window VWAP; stretched
// prices lean contrarian toward the mean.
func VWAPDeviation(snap *models.Snapshot) models.IndicatorResult {
	cs := snap.Candles1m
	if len(cs) < 2 {
		return models.NoData(NameVWAP, "insufficient history")
	}
	var num, den float64
	for _, c := range cs {
		num += c.Close * c.Volume
		den += c.Volume
	}
	if den <= 0 {
		return models.NoData(NameVWAP, "zero volume window")
	}
	vwap := num / den
	dev := pctChange(price(snap), vwap)

	res := models.IndicatorResult{Name: NameVWAP, Display: fmt.Sprintf("VWAP=%.4f (%+.3f%%)", vwap, dev)}
	switch {
	case dev > 0.1:
		res.Score, res.Detail = -0.5, fmt.Sprintf("price %+.2f%% above VWAP", dev)
	case dev < -0.1:
		res.Score, res.Detail = 0.5, fmt.Sprintf("price %+.2f%% below VWAP", dev)
	default:
		res.Detail = fmt.Sprintf("price ≈ VWAP (%+.3f%%)", dev)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// RelativeVolume compares the last bar's volume to its 20-bar mean. The ratio
// is discounted by the wash-trading fraction of the window before
// thresholding, so spoofed volume inflates the signal less.
func RelativeVolume(snap *models.Snapshot) models.IndicatorResult {
	cs := snap.Candles1m
	if len(cs) < relVolWindow+1 {
		return models.NoData(NameRelVolume, "insufficient history")
	}
	vols := make([]float64, len(cs))
	for i, c := range cs {
		vols[i] = c.Volume
	}
	mean, _ := series.SMA(vols[:len(vols)-1], relVolWindow)
	if mean <= 0 {
		return models.NoData(NameRelVolume, "zero volume window")
	}
	ratio := vols[len(vols)-1] / mean
	wash := regime.WashFraction(cs)
	adj := ratio * (1 - wash)
	change1m := pctChange(cs[len(cs)-1].Close, cs[len(cs)-2].Close)

	res := models.IndicatorResult{Name: NameRelVolume, Display: fmt.Sprintf("%.2fx (vs %dm mean)", ratio, relVolWindow)}
	if wash > 0 {
		res.Display = fmt.Sprintf("%.2fx (%.0f%% wash-discounted)", ratio, wash*100)
	}
	switch {
	case adj > 2.0 && change1m > 0:
		res.Score, res.Detail = 1.0, fmt.Sprintf("%.1fx volume on up bar", adj)
	case adj > 2.0 && change1m < 0:
		res.Score, res.Detail = -1.0, fmt.Sprintf("%.1fx volume on down bar", adj)
	case adj > 1.3 && change1m > 0:
		res.Score, res.Detail = 0.5, fmt.Sprintf("elevated volume, rising (%.1fx)", adj)
	case adj > 1.3 && change1m < 0:
		res.Score, res.Detail = -0.5, fmt.Sprintf("elevated volume, falling (%.1fx)", adj)
	default:
		res.Detail = fmt.Sprintf("normal volume (%.1fx)", adj)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// BuySellRatio measures taker buy share of recent flow. A live trade tape
// from a secondary venue is preferred; candle taker-buy proportions are the
// fallback. The display always discloses which source was used.
func BuySellRatio(snap *models.Snapshot) models.IndicatorResult {
	ratio, source, ok := buyShare(snap)
	if !ok {
		return models.NoData(NameBuySell, "no flow data")
	}
	res := models.IndicatorResult{
		Name:    NameBuySell,
		Display: fmt.Sprintf("%.1f%% buys (%s)", ratio, source),
	}
	// One slope across the whole range keeps the score continuous at the
	// 60/40 tier boundaries; the tiers only pick the narrative.
	res.Score = series.Clamp((ratio-50)/25, -1, 1)
	switch {
	case ratio > 60:
		res.Detail = fmt.Sprintf("buyers dominate (%.0f%%)", ratio)
	case ratio < 40:
		res.Detail = fmt.Sprintf("sellers dominate (%.0f%%)", ratio)
	default:
		res.Detail = fmt.Sprintf("balanced flow (%.0f%%)", ratio)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

func buyShare(snap *models.Snapshot) (pct float64, source string, ok bool) {
	if d := snap.Deriv; d != nil && d.HasTape {
		total := d.TapeBuyVolume + d.TapeSellVolume
		if total > 0 {
			src := d.TapeSource
			if src == "" {
				src = "tape"
			}
			return d.TapeBuyVolume / total * 100, src + " tape", true
		}
	}
	cs := snap.Candles1m
	if len(cs) < buySellWindow {
		return 0, "", false
	}
	var buy, total float64
	for _, c := range cs[len(cs)-buySellWindow:] {
		buy += c.TakerBuyVolume
		total += c.QuoteVolume
	}
	if total <= 0 {
		return 50, "candles", true
	}
	return buy / total * 100, "candles", true
}

// TradeActivity scores unusually high trade counts in the direction of the
// concurrent 5-bar price change.
func TradeActivity(snap *models.Snapshot) models.IndicatorResult {
	cs := snap.Candles1m
	if len(cs) < 6 {
		return models.NoData(NameActivity, "insufficient history")
	}
	counts := make([]float64, len(cs))
	for i, c := range cs {
		counts[i] = float64(c.TradeCount)
	}
	mean5, _ := series.SMA(counts, 5)
	max, _ := series.Max(counts, 0)
	if max <= 0 {
		return models.NoData(NameActivity, "no trade counts")
	}
	pct := mean5 / max * 100
	res := models.IndicatorResult{Name: NameActivity, Display: fmt.Sprintf("%.0f trades/min (5m mean)", mean5)}
	if pct > 70 {
		change5m := pctChange(cs[len(cs)-1].Close, cs[len(cs)-6].Close)
		if change5m > 0 {
			res.Score, res.Detail = 0.7, fmt.Sprintf("high activity on rally (%.0f%%)", pct)
		} else {
			res.Score, res.Detail = -0.7, fmt.Sprintf("high activity on selloff (%.0f%%)", pct)
		}
	} else {
		res.Detail = fmt.Sprintf("normal activity (%.0f%%)", pct)
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}
