package indicators

import (
	"math"
	"strings"
	"testing"
	"time"

	"PulseCast/internal/domain/models"
)

// candlesFromCloses builds a plausible 1m series around the given closes:
// each bar opens at the previous close with a small wick on both sides.
func candlesFromCloses(closes []float64) []models.Candle {
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		hi := math.Max(open, c) * 1.0002
		lo := math.Min(open, c) * 0.9998
		out[i] = models.Candle{
			OpenTime:       base.Add(time.Duration(i) * time.Minute),
			Open:           open,
			High:           hi,
			Low:            lo,
			Close:          c,
			Volume:         100,
			QuoteVolume:    c * 100,
			TakerBuyVolume: c * 50,
			TradeCount:     50,
		}
	}
	return out
}

func snapFromCloses(closes []float64) *models.Snapshot {
	cs := candlesFromCloses(closes)
	return &models.Snapshot{
		Symbol:       "BTCUSDT",
		Candles1m:    cs,
		CurrentPrice: closes[len(closes)-1],
		FetchedAt:    time.Now(),
	}
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRSITiers(t *testing.T) {
	falling := snapFromCloses(ramp(20, 110, -0.5))
	res := RSI(falling)
	if res.Score != 1.0 {
		t.Fatalf("steady decline RSI score = %v, want 1.0", res.Score)
	}
	if res.Label != models.LabelStrongBullish {
		t.Fatalf("label = %v", res.Label)
	}

	rising := snapFromCloses(ramp(20, 100, 0.5))
	if res := RSI(rising); res.Score != -1.0 {
		t.Fatalf("steady rally RSI score = %v, want -1.0", res.Score)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	res := RSI(snapFromCloses(ramp(5, 100, 0.1)))
	if res.Display != "N/A" || res.Score != 0 || res.Label != models.LabelNeutral {
		t.Fatalf("expected degraded result, got %+v", res)
	}
}

func TestEMACrossBullishStack(t *testing.T) {
	res := EMACross(snapFromCloses(ramp(30, 100, 0.3)))
	if res.Score != 1.0 {
		t.Fatalf("score = %v, want 1.0 for price > EMA7 > EMA25", res.Score)
	}
}

func TestMACDPositiveOnAcceleratingRally(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 0.01*float64(i)*float64(i)
	}
	res := MACD(snapFromCloses(closes))
	if res.Score <= 0 {
		t.Fatalf("score = %v, want positive histogram", res.Score)
	}
}

func TestRateOfChangeScalesWithMomentum(t *testing.T) {
	// +0.1% per bar gives +0.5% over 5 bars, past the 0.3% full-score mark.
	closes := ramp(10, 100, 0)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.001, float64(i))
	}
	res := RateOfChange(snapFromCloses(closes))
	if res.Score != 1.0 {
		t.Fatalf("score = %v, want clipped 1.0", res.Score)
	}
}

func TestBollingerMidBandNeutral(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i))*0.5
	}
	snap := snapFromCloses(closes)
	snap.CurrentPrice = 100
	res := Bollinger(snap)
	if res.Score != 0 {
		t.Fatalf("mid-band score = %v, want 0", res.Score)
	}
}

func TestATRInformational(t *testing.T) {
	snap := snapFromCloses(ramp(15, 100, 0.2))
	res := ATR(snap)
	if res.Score != 0 || res.Label != models.LabelNeutral {
		t.Fatalf("ATR must stay informational: %+v", res)
	}
	if ATRPct(snap) <= 0 {
		t.Fatalf("ATRPct = %v, want positive", ATRPct(snap))
	}
}

func TestATRPctZeroWithoutHistory(t *testing.T) {
	if got := ATRPct(snapFromCloses(ramp(3, 100, 0.2))); got != 0 {
		t.Fatalf("ATRPct = %v, want 0", got)
	}
}

func TestCandlePatternHammer(t *testing.T) {
	snap := &models.Snapshot{
		Candles1m: []models.Candle{{
			Open: 100, Close: 100.1, High: 100.12, Low: 99,
			Volume: 100,
		}},
		CurrentPrice: 100.1,
	}
	res := CandlePattern(snap)
	if res.Display != "Hammer" || res.Score != 1.0 {
		t.Fatalf("got %+v", res)
	}
}

func TestRelativeVolumeSpikeOnUpBar(t *testing.T) {
	closes := ramp(25, 100, 0)
	closes[24] = 100.5
	snap := snapFromCloses(closes)
	snap.Candles1m[24].Volume = 300
	res := RelativeVolume(snap)
	if res.Score != 1.0 {
		t.Fatalf("score = %v, want 1.0 for 3x volume on an up bar", res.Score)
	}
}

func TestBuySellPrefersLiveTape(t *testing.T) {
	snap := snapFromCloses(ramp(15, 100, 0.1))
	snap.Deriv = &models.Derivatives{
		HasTape:        true,
		TapeBuyVolume:  80,
		TapeSellVolume: 20,
		TapeSource:     "okx",
	}
	res := BuySellRatio(snap)
	if res.Score != 1.0 {
		t.Fatalf("score = %v, want clamped 1.0 at 80%% buys", res.Score)
	}
	if !strings.Contains(res.Display, "okx tape") {
		t.Fatalf("display %q does not disclose the tape source", res.Display)
	}
}

func TestBuySellFallsBackToCandles(t *testing.T) {
	snap := snapFromCloses(ramp(15, 100, 0.1))
	res := BuySellRatio(snap)
	if !strings.Contains(res.Display, "candles") {
		t.Fatalf("display %q does not disclose the candle fallback", res.Display)
	}
	// Synthetic candles carry a 50% taker-buy share.
	if res.Score != 0 {
		t.Fatalf("score = %v, want 0 for balanced flow", res.Score)
	}
}

func TestBuySellContinuousAcrossTierBoundary(t *testing.T) {
	snap := snapFromCloses(ramp(15, 100, 0.1))
	snap.Deriv = &models.Derivatives{HasTape: true, TapeBuyVolume: 60, TapeSellVolume: 40}
	if res := BuySellRatio(snap); res.Score != 0.4 {
		t.Fatalf("score at 60%% buys = %v, want 0.4", res.Score)
	}
	snap.Deriv.TapeBuyVolume, snap.Deriv.TapeSellVolume = 59.5, 40.5
	if res := BuySellRatio(snap); math.Abs(res.Score-0.38) > 1e-9 {
		t.Fatalf("score at 59.5%% buys = %v, want 0.38", res.Score)
	}
	snap.Deriv.TapeBuyVolume, snap.Deriv.TapeSellVolume = 40, 60
	if res := BuySellRatio(snap); res.Score != -0.4 {
		t.Fatalf("score at 40%% buys = %v, want -0.4", res.Score)
	}
}

func TestBookImbalanceClampedAtHeavyBidWall(t *testing.T) {
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.Book = &models.OrderBook{
		Bids:   []models.BookLevel{{Price: 99.9, Size: 100}},
		Asks:   []models.BookLevel{{Price: 100.1, Size: 20}},
		Source: "kraken",
	}
	res := BookImbalance(snap)
	if res.Score != 1.0 {
		t.Fatalf("score = %v, want clamped 1.0", res.Score)
	}
	if !strings.Contains(res.Display, "kraken") {
		t.Fatalf("display %q does not disclose the venue", res.Display)
	}
}

func TestBookImbalanceBalanced(t *testing.T) {
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.Book = &models.OrderBook{
		Bids: []models.BookLevel{{Price: 99.9, Size: 50}},
		Asks: []models.BookLevel{{Price: 100.1, Size: 50}},
	}
	if res := BookImbalance(snap); res.Score != 0 {
		t.Fatalf("score = %v, want 0", res.Score)
	}
}

func TestBidAskSpreadTiers(t *testing.T) {
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.Book = &models.OrderBook{
		Bids: []models.BookLevel{{Price: 100, Size: 10}},
		Asks: []models.BookLevel{{Price: 100.005, Size: 10}},
	}
	if res := BidAskSpread(snap); res.Score != 0.2 {
		t.Fatalf("tight spread score = %v, want 0.2", res.Score)
	}

	snap.Book.Asks[0].Price = 100.2
	if res := BidAskSpread(snap); res.Score != -0.3 {
		t.Fatalf("wide spread score = %v, want -0.3", res.Score)
	}

	snap.Book.Asks[0].Price = 99.5
	if res := BidAskSpread(snap); res.Display != "N/A" {
		t.Fatalf("crossed book must degrade, got %+v", res)
	}
}

func TestBidAskSpreadBidDenominator(t *testing.T) {
	// 0.01 over a 100 bid sits just past the tight-spread tier only when
	// the spread is divided by the bid, not the mid price.
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.Book = &models.OrderBook{
		Bids: []models.BookLevel{{Price: 100, Size: 10}},
		Asks: []models.BookLevel{{Price: 100.01, Size: 10}},
	}
	if res := BidAskSpread(snap); res.Score != 0 {
		t.Fatalf("edge spread score = %v, want 0 (normal band)", res.Score)
	}
}

func TestFundingRateContrarian(t *testing.T) {
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.Deriv = &models.Derivatives{HasFunding: true, FundingRate: 0.001}
	if res := FundingRate(snap); res.Score != -0.5 {
		t.Fatalf("crowded longs score = %v, want -0.5", res.Score)
	}
	snap.Deriv.FundingRate = -0.001
	if res := FundingRate(snap); res.Score != 0.5 {
		t.Fatalf("crowded shorts score = %v, want 0.5", res.Score)
	}
	snap.Deriv.FundingRate = 0.0001
	if res := FundingRate(snap); res.Score != 0 {
		t.Fatalf("neutral funding score = %v, want 0", res.Score)
	}
}

func TestOpenInterestConfirmsRally(t *testing.T) {
	snap := snapFromCloses(ramp(10, 100, 0.2))
	snap.Deriv = &models.Derivatives{HasOIChange: true, OIChangePct: 1.2}
	if res := OpenInterestChange(snap); res.Score != 0.8 {
		t.Fatalf("score = %v, want 0.8", res.Score)
	}
}

func TestLongShortContrarian(t *testing.T) {
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.Deriv = &models.Derivatives{HasLongShort: true, LongRatio: 0.7, ShortRatio: 0.3}
	if res := LongShortRatio(snap); res.Score != -0.4 {
		t.Fatalf("score = %v, want -0.4", res.Score)
	}
}

func TestTrendFrames(t *testing.T) {
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.Candles15m = candlesFromCloses(ramp(15, 100, 0.5))
	res := Trend15m(snap)
	if res.Score != 0.8 {
		t.Fatalf("15m uptrend score = %v, want 0.8", res.Score)
	}
	if res := Trend1h(snap); res.Display != "N/A" {
		t.Fatalf("missing 1h candles must degrade, got %+v", res)
	}
}

func TestFearGreedTiers(t *testing.T) {
	cases := []struct {
		value int
		want  float64
	}{
		{15, 0.8},
		{35, 0.4},
		{50, 0},
		{65, -0.4},
		{85, -0.8},
	}
	snap := snapFromCloses(ramp(5, 100, 0))
	for _, c := range cases {
		snap.Sent = &models.Sentiment{Value: c.value}
		if res := FearGreed(snap); res.Score != c.want {
			t.Fatalf("value %d score = %v, want %v", c.value, res.Score, c.want)
		}
	}
}

func TestCrossVenueDivergence(t *testing.T) {
	snap := snapFromCloses(ramp(5, 100, 0))
	snap.CurrentPrice = 100.2
	snap.ReferencePrice = 100
	snap.RefSource = "okx"
	if res := CrossVenueDivergence(snap); res.Score != -0.3 {
		t.Fatalf("rich price score = %v, want -0.3", res.Score)
	}
	snap.CurrentPrice = 99.8
	if res := CrossVenueDivergence(snap); res.Score != 0.3 {
		t.Fatalf("cheap price score = %v, want 0.3", res.Score)
	}
}

func TestRegimeHurstInformational(t *testing.T) {
	snap := snapFromCloses(ramp(60, 100, 0.1))
	res := RegimeHurst(snap)
	if res.Score != 0 {
		t.Fatalf("regime indicator must not score: %v", res.Score)
	}
	if res.Display == "N/A" {
		t.Fatalf("expected a live reading with 60 bars")
	}
}

func TestEvaluateAllCoversRegistry(t *testing.T) {
	snap := snapFromCloses(ramp(60, 100, 0.1))
	results := EvaluateAll(snap)
	reg := Registry()
	if len(results) != len(reg) {
		t.Fatalf("got %d results, want %d", len(results), len(reg))
	}
	for _, ind := range reg {
		if _, ok := results[ind.Name]; !ok {
			t.Fatalf("missing result for %q", ind.Name)
		}
	}
}

func TestEvaluateAllDegradesMissingBundles(t *testing.T) {
	// Candles only: book, futures, sentiment, and reference venue absent.
	snap := snapFromCloses(ramp(60, 100, 0.1))
	results := EvaluateAll(snap)
	degraded := []string{
		NameBookImbal, NameSpread, NameFunding, NameOIChange,
		NameLongShort, NameFearGreed, NameCrossVenue, NameTrend5m,
	}
	for _, name := range degraded {
		res := results[name]
		if res.Display != "N/A" || res.Score != 0 {
			t.Fatalf("%q should degrade to no-data, got %+v", name, res)
		}
	}
	if results[NameRSI].Display == "N/A" {
		t.Fatalf("candle-driven indicator degraded unexpectedly")
	}
}

func TestOptionalBundleRemovalIsIsolated(t *testing.T) {
	full := snapFromCloses(ramp(60, 100, 0.1))
	full.Deriv = &models.Derivatives{HasFunding: true, FundingRate: 0.001}
	bare := snapFromCloses(ramp(60, 100, 0.1))

	withDeriv := EvaluateAll(full)
	withoutDeriv := EvaluateAll(bare)
	for _, ind := range Registry() {
		switch ind.Name {
		case NameFunding, NameOIChange, NameLongShort, NameBuySell:
			continue
		}
		if withDeriv[ind.Name] != withoutDeriv[ind.Name] {
			t.Fatalf("%q changed when the futures bundle was removed:\n%+v\n%+v",
				ind.Name, withDeriv[ind.Name], withoutDeriv[ind.Name])
		}
	}
}
