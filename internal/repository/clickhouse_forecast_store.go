package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"PulseCast/internal/domain/models"
	domrepo "PulseCast/internal/domain/repository"
	pkgch "PulseCast/pkg/clickhouse"
	applogger "PulseCast/pkg/logger"
)

const forecastTable = "pulsecast.forecasts"

var forecastSchema = []string{
	`CREATE DATABASE IF NOT EXISTS pulsecast`,
	`CREATE TABLE IF NOT EXISTS ` + forecastTable + ` (
		ts             DateTime64(3),
		symbol         LowCardinality(String),
		raw_score      Float64,
		final_score    Float64,
		prob_up        Float64,
		atr_pct        Float64,
		est_move_pct   Float64,
		price          Float64,
		target_price   Float64,
		direction      LowCardinality(String),
		strength       LowCardinality(String),
		regime         LowCardinality(String),
		hurst          Float64,
		sentiment_mod  Float64,
		timeframe_mod  Float64,
		regime_mod     Float64,
		tf_alignment   UInt8,
		bullish        UInt16,
		neutral        UInt16,
		bearish        UInt16
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, ts)
	TTL toDateTime(ts) + INTERVAL 90 DAY`,
}

// CHForecastStore persists forecast history in ClickHouse for later
// calibration review (did probability_up track realized direction).
type CHForecastStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.ForecastStore = (*CHForecastStore)(nil)

// NewCHForecastStore creates the store on an existing ClickHouse client.
func NewCHForecastStore(ch *pkgch.Client, l *applogger.Logger) *CHForecastStore {
	return &CHForecastStore{ch: ch, db: ch.DB(), l: l}
}

// Init ensures the database and table exist.
func (s *CHForecastStore) Init(ctx context.Context) error {
	if err := s.ch.InitSchema(ctx, forecastSchema); err != nil {
		return fmt.Errorf("forecast schema: %w", err)
	}
	return nil
}

// Store inserts one forecast row.
func (s *CHForecastStore) Store(ctx context.Context, f *models.Forecast) error {
	const q = `INSERT INTO ` + forecastTable + ` (
		ts, symbol, raw_score, final_score, prob_up, atr_pct, est_move_pct,
		price, target_price, direction, strength, regime, hurst,
		sentiment_mod, timeframe_mod, regime_mod, tf_alignment,
		bullish, neutral, bearish
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		f.Timestamp,
		f.Symbol,
		f.RawScore,
		f.FinalScore,
		f.ProbabilityUp,
		f.ATRPct,
		f.EstimatedMovePct,
		f.CurrentPrice,
		f.TargetPrice,
		f.Direction,
		f.Strength,
		string(f.Regime),
		f.Hurst,
		f.SentimentMod,
		f.TimeframeMod,
		f.RegimeMod,
		uint8(f.TFAlignment),
		uint16(f.Bullish),
		uint16(f.Neutral),
		uint16(f.Bearish),
	)
	if err != nil {
		return fmt.Errorf("store forecast: %w", err)
	}
	return nil
}

// Recent returns stored forecasts for a symbol in ascending time order.
func (s *CHForecastStore) Recent(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Forecast, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT
		ts, symbol, raw_score, final_score, prob_up, atr_pct, est_move_pct,
		price, target_price, direction, strength, regime, hurst,
		sentiment_mod, timeframe_mod, regime_mod, tf_alignment,
		bullish, neutral, bearish
	FROM ` + forecastTable + `
	WHERE symbol = ? AND ts >= ? AND ts <= ?
	ORDER BY ts DESC
	LIMIT ?`

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		s.l.Error("clickhouse recent forecasts query error",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("recent forecasts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Forecast, 0, limit)
	for rows.Next() {
		var f models.Forecast
		var regime string
		var tfAlign uint8
		var bull, neut, bear uint16
		if err := rows.Scan(
			&f.Timestamp, &f.Symbol, &f.RawScore, &f.FinalScore, &f.ProbabilityUp,
			&f.ATRPct, &f.EstimatedMovePct, &f.CurrentPrice, &f.TargetPrice,
			&f.Direction, &f.Strength, &regime, &f.Hurst,
			&f.SentimentMod, &f.TimeframeMod, &f.RegimeMod, &tfAlign,
			&bull, &neut, &bear,
		); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		f.Regime = models.Regime(regime)
		f.ProbabilityDown = 100 - f.ProbabilityUp
		f.TFAlignment = int(tfAlign)
		f.Bullish, f.Neutral, f.Bearish = int(bull), int(neut), int(bear)
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	s.l.Debug("clickhouse recent forecasts ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// Health pings the backing connection.
func (s *CHForecastStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

// Close releases the underlying client.
func (s *CHForecastStore) Close() error {
	return s.ch.Close()
}
