package indicators

import (
	"fmt"
	"math"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/regime"
)

// FearGreed reads the market-wide Fear & Greed index contrarian: extreme
// fear scores bullish, extreme greed bearish.
func FearGreed(snap *models.Snapshot) models.IndicatorResult {
	s := snap.Sent
	if s == nil {
		return models.NoData(NameFearGreed, "sentiment feed unavailable")
	}
	res := models.IndicatorResult{
		Name:    NameFearGreed,
		Display: fmt.Sprintf("%d (%s)", s.Value, s.Classification),
	}
	switch {
	case s.Value <= 20:
		res.Score, res.Detail = 0.8, "extreme fear, contrarian buy zone"
	case s.Value <= 40:
		res.Score, res.Detail = 0.4, "fear, mild contrarian long"
	case s.Value >= 80:
		res.Score, res.Detail = -0.8, "extreme greed, contrarian sell zone"
	case s.Value >= 60:
		res.Score, res.Detail = -0.4, "greed, mild contrarian short"
	default:
		res.Detail = "sentiment neutral"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// CrossVenueDivergence compares the primary price with a secondary venue's
// reference price. A gap tends to close toward the reference, so the score
// points toward the cheaper side.
func CrossVenueDivergence(snap *models.Snapshot) models.IndicatorResult {
	if snap.ReferencePrice <= 0 {
		return models.NoData(NameCrossVenue, "reference venue unavailable")
	}
	p := price(snap)
	if p <= 0 {
		return models.NoData(NameCrossVenue, "no primary price")
	}
	divPct := (p - snap.ReferencePrice) / snap.ReferencePrice * 100
	res := models.IndicatorResult{
		Name:    NameCrossVenue,
		Display: fmt.Sprintf("%+.3f%% vs %s", divPct, snap.RefSource),
	}
	if math.Abs(divPct) > 0.05 {
		if divPct > 0 {
			res.Score, res.Detail = -0.3, "trading rich vs reference venue"
		} else {
			res.Score, res.Detail = 0.3, "trading cheap vs reference venue"
		}
	} else {
		res.Detail = "venues aligned"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// RegimeHurst is informational: it surfaces the regime classification in the
// indicator table but never contributes to the score (its weight is zero and
// its influence flows through the weight table instead).
func RegimeHurst(snap *models.Snapshot) models.IndicatorResult {
	if len(snap.Candles1m) < regime.RecommendedWindow {
		return models.NoData(NameRegimeHurst, "insufficient history")
	}
	r := regime.Read(snap.Candles1m)
	return models.IndicatorResult{
		Name:    NameRegimeHurst,
		Display: fmt.Sprintf("H=%.2f (%s)", r.Hurst, r.Regime),
		Label:   models.LabelNeutral,
		Score:   0,
		Detail:  fmt.Sprintf("wash fraction %.0f%%", r.WashFraction*100),
	}
}
