package indicators

import (
	"fmt"

	"PulseCast/internal/domain/models"
)

// FundingRate reads the perp funding rate contrarian: heavily positive
// funding means crowded longs paying shorts, which historically precedes
// pullbacks, and vice versa.
func FundingRate(snap *models.Snapshot) models.IndicatorResult {
	d := snap.Deriv
	if d == nil || !d.HasFunding {
		return models.NoData(NameFunding, "futures data unavailable")
	}
	pct := d.FundingRate * 100
	res := models.IndicatorResult{Name: NameFunding, Display: fmt.Sprintf("%+.4f%%", pct)}
	switch {
	case pct > 0.05:
		res.Score, res.Detail = -0.5, "longs crowded, paying shorts"
	case pct < -0.05:
		res.Score, res.Detail = 0.5, "shorts crowded, paying longs"
	default:
		res.Detail = "funding near neutral"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// OpenInterestChange scores the joint move of open interest and price:
// rising OI confirms the current price direction, falling OI on a down move
// reads as short covering.
func OpenInterestChange(snap *models.Snapshot) models.IndicatorResult {
	d := snap.Deriv
	if d == nil || !d.HasOIChange {
		return models.NoData(NameOIChange, "futures data unavailable")
	}
	cs := snap.Candles1m
	if len(cs) < 6 {
		return models.NoData(NameOIChange, "insufficient history")
	}
	change5m := pctChange(cs[len(cs)-1].Close, cs[len(cs)-6].Close)
	oi := d.OIChangePct

	res := models.IndicatorResult{Name: NameOIChange, Display: fmt.Sprintf("%+.2f%%", oi)}
	switch {
	case oi > 0.5 && change5m > 0:
		res.Score, res.Detail = 0.8, "new longs entering on rally"
	case oi > 0.5 && change5m < 0:
		res.Score, res.Detail = -0.8, "new shorts entering on selloff"
	case oi < -0.5 && change5m < 0:
		res.Score, res.Detail = 0.5, "positions closing, likely short covering"
	default:
		res.Detail = "open interest stable"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// LongShortRatio reads the retail account positioning contrarian: a skewed
// crowd tends to be wrong at short horizons.
func LongShortRatio(snap *models.Snapshot) models.IndicatorResult {
	d := snap.Deriv
	if d == nil || !d.HasLongShort {
		return models.NoData(NameLongShort, "futures data unavailable")
	}
	longPct := d.LongRatio * 100
	res := models.IndicatorResult{
		Name:    NameLongShort,
		Display: fmt.Sprintf("%.0f%% long / %.0f%% short", longPct, d.ShortRatio*100),
	}
	switch {
	case longPct > 60:
		res.Score, res.Detail = -0.4, "crowd skewed long"
	case longPct < 40:
		res.Score, res.Detail = 0.4, "crowd skewed short"
	default:
		res.Detail = "positioning balanced"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}
