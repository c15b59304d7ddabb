package indicators

import (
	"fmt"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/series"
)

const bookDepth = 10

// BookImbalance scores the bid/ask volume imbalance over the top levels of
// the book. The venue the book came from is disclosed in the display.
func BookImbalance(snap *models.Snapshot) models.IndicatorResult {
	b := snap.Book
	if b == nil || len(b.Bids) == 0 || len(b.Asks) == 0 {
		return models.NoData(NameBookImbal, "order book unavailable")
	}
	bidVol := sideVolume(b.Bids, bookDepth)
	askVol := sideVolume(b.Asks, bookDepth)
	total := bidVol + askVol
	if total <= 0 {
		return models.NoData(NameBookImbal, "empty book levels")
	}
	obi := (bidVol - askVol) / total * 100

	res := models.IndicatorResult{
		Name:    NameBookImbal,
		Display: fmt.Sprintf("%+.1f%% (%s, top %d)", obi, b.Source, bookDepth),
	}
	if obi > 15 || obi < -15 {
		res.Score = series.Clamp(obi/30, -1, 1)
		if obi > 0 {
			res.Detail = "bid wall dominates"
		} else {
			res.Detail = "ask wall dominates"
		}
	} else {
		res.Score = obi / 100
		res.Detail = "book roughly balanced"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

// BidAskSpread scores the relative top-of-book spread. Tight spreads read as
// healthy liquidity, wide spreads as a mild warning.
func BidAskSpread(snap *models.Snapshot) models.IndicatorResult {
	b := snap.Book
	if b == nil || len(b.Bids) == 0 || len(b.Asks) == 0 {
		return models.NoData(NameSpread, "order book unavailable")
	}
	bid, ask := b.Bids[0].Price, b.Asks[0].Price
	if bid <= 0 || ask < bid {
		return models.NoData(NameSpread, "crossed or empty book")
	}
	spreadPct := (ask - bid) / bid * 100

	res := models.IndicatorResult{
		Name:    NameSpread,
		Display: fmt.Sprintf("%.4f%% (%s)", spreadPct, b.Source),
	}
	switch {
	case spreadPct < 0.01:
		res.Score, res.Detail = 0.2, "tight spread, liquid market"
	case spreadPct > 0.05:
		res.Score, res.Detail = -0.3, "wide spread, thin liquidity"
	default:
		res.Detail = "normal spread"
	}
	res.Label = models.LabelForScore(res.Score)
	return res
}

func sideVolume(levels []models.BookLevel, depth int) float64 {
	if depth > len(levels) {
		depth = len(levels)
	}
	sum := 0.0
	for _, l := range levels[:depth] {
		sum += l.Size
	}
	return sum
}
