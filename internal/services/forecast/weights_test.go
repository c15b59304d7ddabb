package forecast

import (
	"testing"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/indicators"
)

func TestBaseWeightTable(t *testing.T) {
	cases := []struct {
		name string
		want float64
	}{
		{indicators.NameRSI, 1.5},
		{indicators.NameROC, 1.8},
		{indicators.NameBookImbal, 2.0},
		{indicators.NameBuySell, 2.0},
		{indicators.NameATR, 0},
		{indicators.NameRegimeHurst, 0},
		{"no such indicator", 0},
	}
	for _, c := range cases {
		if got := BaseWeight(c.name); got != c.want {
			t.Fatalf("BaseWeight(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEffectiveWeightsTrending(t *testing.T) {
	w := EffectiveWeights(models.RegimeTrending)
	if w[indicators.NameMACD] != 1.5*1.3 {
		t.Fatalf("MACD weight = %v", w[indicators.NameMACD])
	}
	if w[indicators.NameRSI] != 1.5*0.7 {
		t.Fatalf("RSI weight = %v", w[indicators.NameRSI])
	}
	// No override means the base weight passes through unchanged.
	if w[indicators.NameSpread] != 0.5 {
		t.Fatalf("Spread weight = %v, want 0.5", w[indicators.NameSpread])
	}
	if w[indicators.NameATR] != 0 {
		t.Fatalf("informational indicator gained weight: %v", w[indicators.NameATR])
	}
}

func TestEffectiveWeightsNoiseFavorsMicrostructure(t *testing.T) {
	w := EffectiveWeights(models.RegimeNoise)
	if w[indicators.NameBookImbal] != 2.0*1.3 {
		t.Fatalf("book imbalance weight = %v", w[indicators.NameBookImbal])
	}
	if w[indicators.NameMACD] != 1.5*0.8 {
		t.Fatalf("MACD weight = %v", w[indicators.NameMACD])
	}
}

func TestEffectiveWeightsUnknownRegimeEqualsBase(t *testing.T) {
	w := EffectiveWeights(models.Regime("unknown"))
	for name, base := range baseWeights {
		if w[name] != base {
			t.Fatalf("%q = %v, want base %v", name, w[name], base)
		}
	}
}

func TestEffectiveWeightsReturnsFreshMap(t *testing.T) {
	a := EffectiveWeights(models.RegimeTrending)
	a[indicators.NameRSI] = 999
	b := EffectiveWeights(models.RegimeTrending)
	if b[indicators.NameRSI] == 999 {
		t.Fatalf("mutation leaked into subsequent calls")
	}
	if baseWeights[indicators.NameRSI] != 1.5 {
		t.Fatalf("base table mutated")
	}
}
