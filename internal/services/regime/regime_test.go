package regime

import (
	"math"
	"testing"
	"time"

	"PulseCast/internal/domain/models"
)

func TestEstimateShortSeriesDefaults(t *testing.T) {
	if got := Estimate([]float64{1, 2, 3}); got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
}

func TestEstimateConstantSeriesDefaults(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 42000
	}
	if got := Estimate(closes); got != 0.5 {
		t.Fatalf("got %v, want 0.5 for zero-variance input", got)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)*0.7)*0.5 + float64(i)*0.01
	}
	a := Estimate(closes)
	b := Estimate(closes)
	if a != b {
		t.Fatalf("estimator not deterministic: %v vs %v", a, b)
	}
	if a < 0.1 || a > 0.9 {
		t.Fatalf("estimate %v outside clamp range", a)
	}
}

func TestEstimateAcceleratingTrend(t *testing.T) {
	// Lag-difference dispersion grows with the lag here, so the slope fit
	// should land in persistent territory.
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 0.001*float64(i)*float64(i)
	}
	h := Estimate(closes)
	if h <= trendingThreshold {
		t.Fatalf("got %v, want > %v", h, trendingThreshold)
	}
	if Classify(h) != models.RegimeTrending {
		t.Fatalf("expected trending, got %v", Classify(h))
	}
}

func TestEstimateAlternatingSeries(t *testing.T) {
	// A strict oscillation keeps lag-difference dispersion flat across lags,
	// which is the anti-persistent extreme.
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 102
		}
	}
	h := Estimate(closes)
	if h >= revertingThreshold {
		t.Fatalf("got %v, want < %v", h, revertingThreshold)
	}
	if Classify(h) != models.RegimeMeanReverting {
		t.Fatalf("expected mean reverting, got %v", Classify(h))
	}
}

func TestClassifyBuckets(t *testing.T) {
	cases := []struct {
		h    float64
		want models.Regime
	}{
		{0.80, models.RegimeTrending},
		{0.63, models.RegimeTrending},
		{0.62, models.RegimeNoise},
		{0.50, models.RegimeNoise},
		{0.40, models.RegimeNoise},
		{0.39, models.RegimeMeanReverting},
		{0.10, models.RegimeMeanReverting},
	}
	for _, c := range cases {
		if got := Classify(c.h); got != c.want {
			t.Fatalf("Classify(%v) = %v, want %v", c.h, got, c.want)
		}
	}
}

func TestReadShortWindow(t *testing.T) {
	candles := []models.Candle{
		{Close: 100}, {Close: 101}, {Close: 102},
	}
	r := Read(candles)
	if r.Hurst != 0.5 || r.Regime != models.RegimeNoise || r.WashFraction != 0 {
		t.Fatalf("unexpected reading %+v", r)
	}
}

func TestWashFractionFlagsVolumeSpikeOnFlatBar(t *testing.T) {
	base := time.Now()
	candles := make([]models.Candle, 20)
	for i := range candles {
		candles[i] = models.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Minute),
			Open:     100, High: 100.5, Low: 99.5, Close: 100.2,
			Volume: 100,
		}
	}
	// Outlier volume with an essentially unmoved close.
	candles[10].Open = 100
	candles[10].Close = 100.001
	candles[10].Volume = 1000

	got := WashFraction(candles)
	if math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("got %v, want 0.05", got)
	}
}

func TestWashFractionUniformVolume(t *testing.T) {
	candles := make([]models.Candle, 15)
	for i := range candles {
		candles[i] = models.Candle{Open: 100, Close: 100, Volume: 50}
	}
	if got := WashFraction(candles); got != 0 {
		t.Fatalf("got %v, want 0 for zero-variance volume", got)
	}
}

func TestWashFractionShortWindow(t *testing.T) {
	candles := make([]models.Candle, 5)
	if got := WashFraction(candles); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
