package repository

import (
	"context"
	"time"

	"PulseCast/internal/domain/models"
)

// MarketData assembles an immutable Snapshot for a symbol. Implementations
// fan out to the configured venues; only the 1m candles and the current price
// may fail the call, optional bundles degrade to absence.
type MarketData interface {
	Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error)
}

// ForecastPublisher pushes computed forecasts to a downstream transport.
type ForecastPublisher interface {
	Publish(ctx context.Context, f *models.Forecast) error
	Close() error
}

// ForecastStore persists forecast history for later calibration review.
type ForecastStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, f *models.Forecast) error
	Recent(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Forecast, error)
	Health(ctx context.Context) error
	Close() error
}

// TradeTape exposes a rolling buy/sell volume split from a live trade stream,
// preferred over candle-derived taker estimates when fresh enough. The
// instrument is the venue's instrument ID, not the canonical symbol.
type TradeTape interface {
	BuySellVolume(instrument string, window time.Duration) (buy, sell float64, ok bool)
}

// Metrics abstracts the forecast pipeline's observability counters.
type Metrics interface {
	RecordForecast(symbol, direction string)
	RecordError(kind string)
	RecordScore(symbol string, score float64)
	RecordLatency(op string, seconds float64)
	RecordDegraded(symbol string, n int)
}
