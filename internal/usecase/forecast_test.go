package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/forecast"
	"PulseCast/internal/services/indicators"
	"PulseCast/internal/services/regime"
	"PulseCast/pkg/logger"
)

type fakeMarket struct {
	snaps map[string]*models.Snapshot
}

func (m *fakeMarket) Snapshot(_ context.Context, symbol string) (*models.Snapshot, error) {
	snap, ok := m.snaps[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	return snap, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordForecast(string, string) {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordScore(string, float64)   {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordDegraded(string, int)    {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func rampSnapshot(symbol string, n int, step float64) *models.Snapshot {
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	price := 100.0
	for i := range candles {
		next := price + step
		candles[i] = models.Candle{
			OpenTime:       base.Add(time.Duration(i) * time.Minute),
			Open:           price,
			High:           next * 1.0002,
			Low:            price * 0.9998,
			Close:          next,
			Volume:         100,
			QuoteVolume:    next * 100,
			TakerBuyVolume: next * 50,
			TradeCount:     50,
		}
		price = next
	}
	return &models.Snapshot{
		Symbol:       symbol,
		Candles1m:    candles,
		CurrentPrice: price,
		FetchedAt:    base.Add(time.Duration(n) * time.Minute),
	}
}

// climbSnapshot builds a steady percentage ramp with buyer-tilted taker
// flow: each bar closes growthPct above the last and buyShare of the quote
// volume prints on the taker-buy side.
func climbSnapshot(symbol string, n int, growthPct, buyShare float64) *models.Snapshot {
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	price := 100.0
	for i := range candles {
		next := price * (1 + growthPct/100)
		candles[i] = models.Candle{
			OpenTime:       base.Add(time.Duration(i) * time.Minute),
			Open:           price,
			High:           next * 1.0002,
			Low:            price * 0.9998,
			Close:          next,
			Volume:         100,
			QuoteVolume:    next * 100,
			TakerBuyVolume: next * 100 * buyShare,
			TradeCount:     50,
		}
		price = next
	}
	return &models.Snapshot{
		Symbol:       symbol,
		Candles1m:    candles,
		CurrentPrice: price,
		FetchedAt:    base.Add(time.Duration(n) * time.Minute),
	}
}

func TestEvaluateRisingSeriesForecastsUp(t *testing.T) {
	// 30 bars climbing 0.5% each, buyers printing 65% of taker flow, no
	// book, derivatives, sentiment, or higher-timeframe data. Momentum
	// and flow outweigh the contrarian oscillators.
	snap := climbSnapshot("BTCUSDT", 30, 0.5, 0.65)

	f := Evaluate(snap)
	if f.Regime != models.RegimeTrending {
		t.Fatalf("regime = %s, want %s on a steady climb", f.Regime, models.RegimeTrending)
	}
	if f.FinalScore <= 0.15 {
		t.Fatalf("final score = %v, want > 0.15", f.FinalScore)
	}
	if f.Direction != models.DirectionUp {
		t.Fatalf("direction = %s, want %s", f.Direction, models.DirectionUp)
	}
	if f.ProbabilityUp <= 55 {
		t.Fatalf("probability up = %v, want > 55", f.ProbabilityUp)
	}
	if f.TargetPrice <= snap.CurrentPrice {
		t.Fatalf("target %v not above current price %v", f.TargetPrice, snap.CurrentPrice)
	}
}

func TestEvaluateMatchesSequentialBank(t *testing.T) {
	snap := rampSnapshot("BTCUSDT", 60, 0.2)
	snap.Sent = &models.Sentiment{Value: 30, Classification: "Fear"}

	got := Evaluate(snap)
	want := forecast.Compose(forecast.Input{
		Symbol:       snap.Symbol,
		Results:      indicators.EvaluateAll(snap),
		CurrentPrice: snap.CurrentPrice,
		ATRPct:       indicators.ATRPct(snap),
		Regime:       regime.Read(snap.Candles1m),
		Sent:         snap.Sent,
		At:           got.Timestamp,
	})

	if got.FinalScore != want.FinalScore || got.RawScore != want.RawScore {
		t.Fatalf("concurrent bank diverged: %v/%v vs %v/%v",
			got.RawScore, got.FinalScore, want.RawScore, want.FinalScore)
	}
	if got.Direction != want.Direction || got.ProbabilityUp != want.ProbabilityUp {
		t.Fatalf("got %s %v, want %s %v", got.Direction, got.ProbabilityUp, want.Direction, want.ProbabilityUp)
	}
	if len(got.Indicators) != len(indicators.Registry()) {
		t.Fatalf("indicator table has %d rows", len(got.Indicators))
	}
}

func TestEvaluateIsRepeatable(t *testing.T) {
	snap := rampSnapshot("ETHUSDT", 60, -0.1)
	a := Evaluate(snap)
	b := Evaluate(snap)
	if a.FinalScore != b.FinalScore || a.Regime != b.Regime {
		t.Fatalf("evaluation not repeatable: %v/%v vs %v/%v", a.FinalScore, a.Regime, b.FinalScore, b.Regime)
	}
}

func TestForecastTrimsIndicatorsByDefault(t *testing.T) {
	market := &fakeMarket{snaps: map[string]*models.Snapshot{
		"BTCUSDT": rampSnapshot("BTCUSDT", 60, 0.2),
	}}
	uc := NewForecastUseCase(market, nopMetrics{}, testLogger(t))

	f, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "BTCUSDT"})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if f.Indicators != nil {
		t.Fatalf("expected trimmed indicator table")
	}

	f, err = uc.Forecast(context.Background(), ForecastParams{Symbol: "BTCUSDT", IncludeIndicators: true})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if len(f.Indicators) != len(indicators.Registry()) {
		t.Fatalf("got %d indicator rows", len(f.Indicators))
	}
}

func TestForecastRequiresSymbol(t *testing.T) {
	uc := NewForecastUseCase(&fakeMarket{}, nopMetrics{}, testLogger(t))
	if _, err := uc.Forecast(context.Background(), ForecastParams{}); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
}

func TestForecastPropagatesSnapshotFailure(t *testing.T) {
	uc := NewForecastUseCase(&fakeMarket{}, nopMetrics{}, testLogger(t))
	if _, err := uc.Forecast(context.Background(), ForecastParams{Symbol: "NOPEUSDT"}); err == nil {
		t.Fatalf("expected snapshot error to propagate")
	}
}

func TestHistoryDisabledWithoutStore(t *testing.T) {
	uc := NewForecastUseCase(&fakeMarket{}, nopMetrics{}, testLogger(t))
	if _, err := uc.History(context.Background(), "BTCUSDT", time.Time{}, time.Now(), 10); err == nil {
		t.Fatalf("expected history to be disabled")
	}
}

func TestScannerOrdersByConvictionFailuresLast(t *testing.T) {
	market := &fakeMarket{snaps: map[string]*models.Snapshot{
		"BTCUSDT": rampSnapshot("BTCUSDT", 60, 0.5), // strong trend
		"ETHUSDT": rampSnapshot("ETHUSDT", 60, 0),   // flat
	}}
	uc := NewForecastUseCase(market, nopMetrics{}, testLogger(t))
	s := NewScanner(uc, nil)

	entries := s.Scan(context.Background(), []string{"ETHUSDT", "BTCUSDT", "BADUSDT"}, 0)
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[2].Err == "" {
		t.Fatalf("failed symbol should sort last: %+v", entries)
	}
	if entries[0].Symbol != "BTCUSDT" {
		t.Fatalf("strongest conviction should sort first, got %q", entries[0].Symbol)
	}
}

func TestScannerUsesWatchlistAndLimit(t *testing.T) {
	market := &fakeMarket{snaps: map[string]*models.Snapshot{
		"BTCUSDT": rampSnapshot("BTCUSDT", 60, 0.2),
		"ETHUSDT": rampSnapshot("ETHUSDT", 60, 0.2),
		"SOLUSDT": rampSnapshot("SOLUSDT", 60, 0.2),
	}}
	uc := NewForecastUseCase(market, nopMetrics{}, testLogger(t))
	s := NewScanner(uc, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"})

	entries := s.Scan(context.Background(), nil, 2)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want watchlist capped at 2", len(entries))
	}
}
