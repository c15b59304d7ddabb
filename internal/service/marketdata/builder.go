package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PulseCast/internal/domain/models"
	domrepo "PulseCast/internal/domain/repository"
	"PulseCast/pkg/logger"
)

// Builder assembles an immutable Snapshot per symbol by fanning out to the
// configured venues. Only the 1m candles and a price are required; every
// other fetch failure degrades to absence and is logged, never returned.
type Builder struct {
	kraken *Kraken
	deriv  *BinanceFutures // nil when futures venue disabled
	okx    *OKXRest        // nil when reference venue disabled
	fng    *FearGreed      // nil when sentiment venue disabled
	tape   domrepo.TradeTape

	candleLimit int
	tapeWindow  time.Duration
	log         *logger.Logger
}

var _ domrepo.MarketData = (*Builder)(nil)

// BuilderOption configures optional venues on a Builder.
type BuilderOption func(*Builder)

// WithDerivatives attaches the futures venue.
func WithDerivatives(b *BinanceFutures) BuilderOption {
	return func(s *Builder) { s.deriv = b }
}

// WithReference attaches the secondary spot venue.
func WithReference(o *OKXRest) BuilderOption {
	return func(s *Builder) { s.okx = o }
}

// WithSentiment attaches the sentiment-index venue.
func WithSentiment(f *FearGreed) BuilderOption {
	return func(s *Builder) { s.fng = f }
}

// WithTape attaches a live trade tape, preferred over the REST tape.
func WithTape(t domrepo.TradeTape) BuilderOption {
	return func(s *Builder) { s.tape = t }
}

// WithTapeWindow sets the freshness window for tape reads.
func WithTapeWindow(w time.Duration) BuilderOption {
	return func(s *Builder) { s.tapeWindow = w }
}

// NewBuilder creates a snapshot builder on the primary venue.
func NewBuilder(kraken *Kraken, candleLimit int, log *logger.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		kraken:      kraken,
		candleLimit: candleLimit,
		tapeWindow:  2 * time.Minute,
		log:         log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Snapshot fetches all inputs concurrently and joins them into one snapshot.
func (b *Builder) Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	symbol = Normalize(symbol)
	snap := &models.Snapshot{Symbol: symbol, FetchedAt: time.Now().UTC()}

	var mu sync.Mutex
	var wg sync.WaitGroup
	var candleErr, priceErr error

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		cs, err := b.kraken.Candles(ctx, symbol, domrepo.TF1m, b.candleLimit)
		mu.Lock()
		defer mu.Unlock()
		snap.Candles1m, candleErr = cs, err
	})
	for _, tf := range []struct {
		tf   domrepo.Timeframe
		dest *[]models.Candle
	}{
		{domrepo.TF5m, &snap.Candles5m},
		{domrepo.TF15m, &snap.Candles15m},
		{domrepo.TF1h, &snap.Candles1h},
	} {
		tf := tf
		run(func() {
			cs, err := b.kraken.Candles(ctx, symbol, tf.tf, 50)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.log.Warn("candles unavailable", logger.String("symbol", symbol), logger.String("tf", string(tf.tf)), logger.Error(err))
				return
			}
			*tf.dest = cs
		})
	}
	run(func() {
		p, err := b.kraken.LastPrice(ctx, symbol)
		mu.Lock()
		defer mu.Unlock()
		snap.CurrentPrice, priceErr = p, err
	})
	run(func() {
		book, err := b.kraken.OrderBook(ctx, symbol, 20)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			b.log.Warn("order book unavailable", logger.String("symbol", symbol), logger.Error(err))
			return
		}
		snap.Book = book
	})

	if b.deriv != nil {
		run(func() {
			d, err := b.deriv.Derivatives(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.log.Warn("derivatives unavailable", logger.String("symbol", symbol), logger.Error(err))
				return
			}
			snap.Deriv = d
		})
	}
	if b.okx != nil {
		run(func() {
			p, err := b.okx.LastPrice(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.log.Warn("reference price unavailable", logger.String("symbol", symbol), logger.Error(err))
				return
			}
			snap.ReferencePrice = p
			snap.RefSource = "okx"
		})
	}
	if b.fng != nil {
		run(func() {
			s, err := b.fng.Current(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.log.Warn("sentiment unavailable", logger.Error(err))
				return
			}
			snap.Sent = s
		})
	}

	wg.Wait()

	if candleErr != nil {
		return nil, fmt.Errorf("snapshot %s: %w", symbol, candleErr)
	}
	if len(snap.Candles1m) == 0 {
		return nil, fmt.Errorf("snapshot %s: no 1m candles", symbol)
	}
	if priceErr != nil || snap.CurrentPrice <= 0 {
		// ticker failure is survivable, last close stands in
		snap.CurrentPrice = snap.LastClose()
	}

	b.attachTape(ctx, symbol, snap)

	return snap, nil
}

// attachTape fills the buy/sell split, preferring the live stream and falling
// back to the REST tape.
func (b *Builder) attachTape(ctx context.Context, symbol string, snap *models.Snapshot) {
	if snap.Deriv == nil {
		snap.Deriv = &models.Derivatives{}
	}
	if b.tape != nil {
		if buy, sell, ok := b.tape.BuySellVolume(OKXInstrument(symbol), b.tapeWindow); ok && buy+sell > 0 {
			snap.Deriv.TapeBuyVolume = buy
			snap.Deriv.TapeSellVolume = sell
			snap.Deriv.TapeSource = "okx"
			snap.Deriv.HasTape = true
			return
		}
	}
	if b.okx != nil {
		buy, sell, err := b.okx.RecentTape(ctx, symbol, 100)
		if err != nil {
			b.log.Warn("trade tape unavailable", logger.String("symbol", symbol), logger.Error(err))
			return
		}
		if buy+sell > 0 {
			snap.Deriv.TapeBuyVolume = buy
			snap.Deriv.TapeSellVolume = sell
			snap.Deriv.TapeSource = "okx"
			snap.Deriv.HasTape = true
		}
	}
}
