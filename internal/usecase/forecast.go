package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PulseCast/internal/domain/models"
	domrepo "PulseCast/internal/domain/repository"
	"PulseCast/internal/services/forecast"
	"PulseCast/internal/services/indicators"
	"PulseCast/internal/services/regime"
	"PulseCast/pkg/cache"
	"PulseCast/pkg/logger"
)

// ForecastUseCase drives one evaluation cycle: fetch a snapshot, run the
// indicator bank and the regime classifier in parallel, compose the
// forecast, and ship it to the configured sinks.
type ForecastUseCase struct {
	market  domrepo.MarketData
	store   domrepo.ForecastStore     // nil = history disabled
	pub     domrepo.ForecastPublisher // nil = publishing disabled
	metrics domrepo.Metrics
	cache   cache.Service // nil = caching disabled
	log     *logger.Logger

	forecastTTL time.Duration
	budget      time.Duration
}

// Option configures a ForecastUseCase.
type Option func(*ForecastUseCase)

// WithStore attaches the forecast-history store.
func WithStore(s domrepo.ForecastStore) Option {
	return func(uc *ForecastUseCase) { uc.store = s }
}

// WithPublisher attaches the downstream forecast publisher.
func WithPublisher(p domrepo.ForecastPublisher) Option {
	return func(uc *ForecastUseCase) { uc.pub = p }
}

// WithCache attaches a forecast cache with the given TTL.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(uc *ForecastUseCase) { uc.cache = c; uc.forecastTTL = ttl }
}

// WithBudget bounds the per-evaluation wall time, snapshot fetch included.
func WithBudget(d time.Duration) Option {
	return func(uc *ForecastUseCase) { uc.budget = d }
}

// NewForecastUseCase wires the evaluation pipeline.
func NewForecastUseCase(market domrepo.MarketData, metrics domrepo.Metrics, log *logger.Logger, opts ...Option) *ForecastUseCase {
	uc := &ForecastUseCase{
		market:      market,
		metrics:     metrics,
		log:         log,
		forecastTTL: 20 * time.Second,
		budget:      10 * time.Second,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ForecastParams selects the symbol and the response shape.
type ForecastParams struct {
	Symbol            string
	IncludeIndicators bool
	BypassCache       bool
}

// Forecast produces the composite 5-minute forecast for one symbol.
func (uc *ForecastUseCase) Forecast(ctx context.Context, p ForecastParams) (*models.Forecast, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	ctx, cancel := context.WithTimeout(ctx, uc.budget)
	defer cancel()

	key := cache.GenerateKey("forecast", p.Symbol)
	if uc.cache != nil && !p.BypassCache {
		var cached models.Forecast
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			if !p.IncludeIndicators {
				cached.Indicators = nil
			}
			return &cached, nil
		}
	}

	started := time.Now()
	snap, err := uc.market.Snapshot(ctx, p.Symbol)
	if err != nil {
		uc.metrics.RecordError("snapshot")
		return nil, fmt.Errorf("forecast %s: %w", p.Symbol, err)
	}
	uc.metrics.RecordLatency("snapshot", time.Since(started).Seconds())

	evalStart := time.Now()
	f := Evaluate(snap)
	uc.metrics.RecordLatency("evaluate", time.Since(evalStart).Seconds())
	uc.metrics.RecordForecast(f.Symbol, f.Direction)
	uc.metrics.RecordScore(f.Symbol, f.FinalScore)
	uc.metrics.RecordDegraded(f.Symbol, degradedCount(f.Indicators))

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, f, uc.forecastTTL); err != nil {
			uc.log.Warn("forecast cache set", logger.Error(err))
		}
	}
	uc.ship(f)

	if !p.IncludeIndicators {
		clone := *f
		clone.Indicators = nil
		return &clone, nil
	}
	return f, nil
}

// Indicators returns the full indicator table without the composed forecast
// summary trimmed away.
func (uc *ForecastUseCase) Indicators(ctx context.Context, symbol string) ([]models.IndicatorResult, error) {
	f, err := uc.Forecast(ctx, ForecastParams{Symbol: symbol, IncludeIndicators: true})
	if err != nil {
		return nil, err
	}
	return f.Indicators, nil
}

// Regime classifies the market regime for a symbol over the last n bars of
// the requested timeframe.
func (uc *ForecastUseCase) Regime(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) (*models.RegimeReading, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.budget)
	defer cancel()

	snap, err := uc.market.Snapshot(ctx, symbol)
	if err != nil {
		uc.metrics.RecordError("snapshot")
		return nil, fmt.Errorf("regime %s: %w", symbol, err)
	}
	var candles []models.Candle
	switch tf {
	case domrepo.TF5m:
		candles = snap.Candles5m
	case domrepo.TF15m:
		candles = snap.Candles15m
	case domrepo.TF1h:
		candles = snap.Candles1h
	default:
		candles = snap.Candles1m
	}
	if n > 0 && len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	r := regime.Read(candles)
	return &r, nil
}

// History returns stored forecasts for calibration review.
func (uc *ForecastUseCase) History(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Forecast, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("forecast history disabled")
	}
	return uc.store.Recent(ctx, symbol, from, to, limit)
}

// ship forwards the forecast to the sinks without blocking the caller.
// Sink failures are logged and counted, they never fail an evaluation.
func (uc *ForecastUseCase) ship(f *models.Forecast) {
	if uc.store == nil && uc.pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if uc.store != nil {
			if err := uc.store.Store(ctx, f); err != nil {
				uc.metrics.RecordError("store")
				uc.log.Warn("forecast store", logger.String("symbol", f.Symbol), logger.Error(err))
			}
		}
		if uc.pub != nil {
			if err := uc.pub.Publish(ctx, f); err != nil {
				uc.metrics.RecordError("publish")
				uc.log.Warn("forecast publish", logger.String("symbol", f.Symbol), logger.Error(err))
			}
		}
	}()
}

// Evaluate runs the indicator bank and the regime classifier concurrently
// over one snapshot and composes the forecast. It is a pure computation:
// no I/O, no shared state, total for any well-typed snapshot.
func Evaluate(snap *models.Snapshot) *models.Forecast {
	registry := indicators.Registry()

	type item struct {
		name string
		res  models.IndicatorResult
	}
	ch := make(chan item, len(registry))
	var wg sync.WaitGroup

	for _, ind := range registry {
		ind := ind
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch <- item{ind.Name, safeEval(ind, snap)}
		}()
	}

	var reading models.RegimeReading
	wg.Add(1)
	go func() {
		defer wg.Done()
		reading = regime.Read(snap.Candles1m)
	}()

	go func() { wg.Wait(); close(ch) }()

	results := make(map[string]models.IndicatorResult, len(registry))
	for it := range ch {
		results[it.name] = it.res
	}

	f := forecast.Compose(forecast.Input{
		Symbol:       snap.Symbol,
		Results:      results,
		CurrentPrice: snap.CurrentPrice,
		ATRPct:       indicators.ATRPct(snap),
		Regime:       reading,
		Sent:         snap.Sent,
		At:           time.Now().UTC(),
	})
	return &f
}

// safeEval guards the evaluator boundary: a panicking indicator degrades to
// its no-data result instead of taking the whole bank down.
func safeEval(ind indicators.Indicator, snap *models.Snapshot) (res models.IndicatorResult) {
	defer func() {
		if r := recover(); r != nil {
			res = models.NoData(ind.Name, fmt.Sprintf("evaluator panic: %v", r))
		}
	}()
	return ind.Eval(snap)
}

func degradedCount(results []models.IndicatorResult) int {
	n := 0
	for _, r := range results {
		if r.Display == "N/A" {
			n++
		}
	}
	return n
}
