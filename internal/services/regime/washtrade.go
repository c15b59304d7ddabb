package regime

import (
	"math"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/series"
)

const (
	// A bar is suspect when its volume is an outlier vs the window yet the
	// candle body barely moved. The fraction only discounts the
	// relative-volume indicator's confidence, it never blocks anything.
	washVolumeZ = 2.0
	washBodyPct = 0.0002 // |close-open|/close below 0.02%
)

// WashFraction estimates the share of bars whose volume/price-movement
// profile is consistent with artificial activity.
func WashFraction(candles []models.Candle) float64 {
	if len(candles) < 10 {
		return 0
	}
	vols := make([]float64, len(candles))
	for i, c := range candles {
		vols[i] = c.Volume
	}
	mean, std := series.MeanStd(vols)
	if std <= 0 {
		return 0
	}
	flagged := 0
	for _, c := range candles {
		if c.Close <= 0 {
			continue
		}
		z := (c.Volume - mean) / std
		body := math.Abs(c.Close-c.Open) / c.Close
		if z > washVolumeZ && body < washBodyPct {
			flagged++
		}
	}
	return float64(flagged) / float64(len(candles))
}
