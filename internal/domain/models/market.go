package models

import "time"

// Candle represents one OHLCV bar as delivered by a venue's klines endpoint.
type Candle struct {
	OpenTime       time.Time
	Open           float64
	High           float64
	Low            float64
	Close          float64
	Volume         float64
	QuoteVolume    float64
	TakerBuyVolume float64 // taker buy quote volume
	TradeCount     int64
}

// BookLevel is one (price, size) level of an order book side.
type BookLevel struct {
	Price float64
	Size  float64
}

// OrderBook holds both sides best-price-first, depth <= 20 per side.
type OrderBook struct {
	Bids   []BookLevel
	Asks   []BookLevel
	Source string // venue the book was fetched from, for display transparency
}

// Derivatives bundles perpetual-futures metrics. The whole bundle is optional;
// individual fields carry their own presence flags because venues expose them
// through separate endpoints that fail independently.
type Derivatives struct {
	FundingRate     float64
	HasFunding      bool
	NextFundingRate float64
	OpenInterest    float64
	OIChangePct     float64 // % change over a short window
	HasOIChange     bool
	LongRatio       float64 // fraction of accounts long, 0..1
	ShortRatio      float64
	HasLongShort    bool
	TapeBuyVolume   float64 // recent-trades volume split from a secondary venue
	TapeSellVolume  float64
	TapeSource      string
	HasTape         bool
}

// Sentiment is the Fear & Greed reading. Optional.
type Sentiment struct {
	Value          int    // 0..100
	Classification string // "Extreme Fear" .. "Extreme Greed"
	Trend          int    // sign of change vs previous reading
}

// Snapshot is the immutable per-evaluation input of the forecast engine.
// Only Candles1m and CurrentPrice are required; every other field may be
// nil/absent and degrades the dependent indicators to a no-data result.
type Snapshot struct {
	Symbol     string
	Candles1m  []Candle
	Candles5m  []Candle
	Candles15m []Candle
	Candles1h  []Candle
	Book       *OrderBook
	Deriv      *Derivatives
	Sent       *Sentiment

	CurrentPrice   float64
	ReferencePrice float64 // secondary-venue last price; 0 = absent
	RefSource      string

	FetchedAt time.Time
}

// Closes returns the close series of the 1m candles.
func (s *Snapshot) Closes() []float64 {
	out := make([]float64, len(s.Candles1m))
	for i, c := range s.Candles1m {
		out[i] = c.Close
	}
	return out
}

// LastClose returns the most recent 1m close, or 0 when no candles exist.
func (s *Snapshot) LastClose() float64 {
	if len(s.Candles1m) == 0 {
		return 0
	}
	return s.Candles1m[len(s.Candles1m)-1].Close
}
