package forecast

import (
	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/indicators"
)

// baseWeights is the static importance per indicator. Zero means
// informational only: the indicator shows in the table but is excluded from
// both sides of the weighted average.
var baseWeights = map[string]float64{
	indicators.NameRSI:         1.5,
	indicators.NameMACD:        1.5,
	indicators.NameEMACross:    1.2,
	indicators.NameBollinger:   1.0,
	indicators.NameStochastic:  1.0,
	indicators.NameWilliamsR:   0.8,
	indicators.NameATR:         0.0,
	indicators.NameROC:         1.8,
	indicators.NameOBV:         1.0,
	indicators.NameVWAP:        1.2,
	indicators.NameRelVolume:   1.3,
	indicators.NamePattern:     0.7,
	indicators.NameBookImbal:   2.0,
	indicators.NameSpread:      0.5,
	indicators.NameBuySell:     2.0,
	indicators.NameActivity:    0.8,
	indicators.NameFunding:     1.0,
	indicators.NameOIChange:    1.0,
	indicators.NameLongShort:   0.6,
	indicators.NameTrend5m:     1.5,
	indicators.NameTrend15m:    1.2,
	indicators.NameTrend1h:     1.0,
	indicators.NameFearGreed:   0.8,
	indicators.NameCrossVenue:  0.4,
	indicators.NameRegimeHurst: 0.0,
}

// regimeMultipliers is the sparse per-regime override overlaid on
// baseWeights. Absent entries default to 1.0. Trending markets favor
// trend-following signals and distrust oscillators; mean-reverting markets
// mirror that; noisy markets lean on microstructure, where the only reliable
// short-horizon information lives.
var regimeMultipliers = map[models.Regime]map[string]float64{
	models.RegimeTrending: {
		indicators.NameMACD:      1.3,
		indicators.NameEMACross:  1.3,
		indicators.NameROC:       1.2,
		indicators.NameTrend5m:   1.2,
		indicators.NameTrend15m:  1.2,
		indicators.NameRSI:       0.7,
		indicators.NameBollinger: 0.7,
		indicators.NameWilliamsR: 0.8,
		indicators.NameVWAP:      0.8,
	},
	models.RegimeMeanReverting: {
		indicators.NameRSI:       1.3,
		indicators.NameBollinger: 1.3,
		indicators.NameWilliamsR: 1.2,
		indicators.NameVWAP:      1.2,
		indicators.NameMACD:      0.7,
		indicators.NameEMACross:  0.7,
		indicators.NameROC:       0.8,
		indicators.NameTrend5m:   0.8,
	},
	models.RegimeNoise: {
		indicators.NameBookImbal: 1.3,
		indicators.NameBuySell:   1.3,
		indicators.NameSpread:    1.2,
		indicators.NameMACD:      0.8,
		indicators.NameEMACross:  0.8,
		indicators.NameROC:       0.8,
	},
}

// BaseWeight returns the static weight for an indicator, 0 for unknown names.
func BaseWeight(name string) float64 {
	return baseWeights[name]
}

// EffectiveWeights merges the base table with the given regime's override
// multipliers. The returned map is freshly allocated; the underlying tables
// are never mutated.
func EffectiveWeights(r models.Regime) map[string]float64 {
	mult := regimeMultipliers[r]
	out := make(map[string]float64, len(baseWeights))
	for name, w := range baseWeights {
		m, ok := mult[name]
		if !ok {
			m = 1.0
		}
		out[name] = w * m
	}
	return out
}
