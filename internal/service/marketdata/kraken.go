package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"PulseCast/internal/domain/models"
	domrepo "PulseCast/internal/domain/repository"
	phttp "PulseCast/pkg/http"
)

// Kraken is the primary spot venue: candles, order book, and last price.
type Kraken struct {
	baseURL string
	client  *phttp.Client
}

// NewKraken creates a Kraken REST client.
func NewKraken(baseURL string, timeout time.Duration) *Kraken {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Kraken{
		baseURL: baseURL,
		client:  phttp.NewClient(phttp.WithTimeout(timeout)),
	}
}

// krakenEnvelope is the shared response wrapper: a non-empty error array
// means the call failed regardless of HTTP status.
type krakenEnvelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

func (k *Kraken) call(ctx context.Context, path string, params map[string][]string, result interface{}) error {
	var env krakenEnvelope
	err := k.client.SendAndParse(ctx, &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         k.baseURL + path,
		QueryParams: params,
	}, &env)
	if err != nil {
		return fmt.Errorf("kraken %s: %w", path, err)
	}
	if len(env.Error) > 0 {
		return fmt.Errorf("kraken %s: %s", path, env.Error[0])
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("kraken %s decode: %w", path, err)
	}
	return nil
}

// Candles fetches OHLC bars for a symbol at the given timeframe. Kraken
// returns them oldest-first, which matches the snapshot's most-recent-last
// ordering, and keys the result by its own pair alias, so the single
// non-"last" key is taken as the series.
func (k *Kraken) Candles(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	var result map[string]json.RawMessage
	err := k.call(ctx, "/0/public/OHLC", map[string][]string{
		"pair":     {KrakenPair(symbol)},
		"interval": {strconv.Itoa(tf.Minutes())},
	}, &result)
	if err != nil {
		return nil, err
	}

	var rows [][]json.Number
	for key, raw := range result {
		if key == "last" {
			continue
		}
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("kraken ohlc rows: %w", err)
		}
		break
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("kraken ohlc: no series for %s", symbol)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		// [time, open, high, low, close, vwap, volume, count]
		if len(row) < 8 {
			continue
		}
		ts, _ := row[0].Int64()
		c := models.Candle{OpenTime: time.Unix(ts, 0).UTC()}
		c.Open, _ = row[1].Float64()
		c.High, _ = row[2].Float64()
		c.Low, _ = row[3].Float64()
		c.Close, _ = row[4].Float64()
		c.Volume, _ = row[6].Float64()
		c.QuoteVolume = c.Volume * c.Close
		c.TradeCount, _ = row[7].Int64()
		candles = append(candles, c)
	}
	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

type krakenBookSide [][]json.Number

type krakenBook struct {
	Bids krakenBookSide `json:"bids"`
	Asks krakenBookSide `json:"asks"`
}

// OrderBook fetches the top of book, depth levels per side.
func (k *Kraken) OrderBook(ctx context.Context, symbol string, depth int) (*models.OrderBook, error) {
	if depth <= 0 || depth > 20 {
		depth = 20
	}
	var result map[string]krakenBook
	err := k.call(ctx, "/0/public/Depth", map[string][]string{
		"pair":  {KrakenPair(symbol)},
		"count": {strconv.Itoa(depth)},
	}, &result)
	if err != nil {
		return nil, err
	}
	for _, book := range result {
		return &models.OrderBook{
			Bids:   bookLevels(book.Bids),
			Asks:   bookLevels(book.Asks),
			Source: "kraken",
		}, nil
	}
	return nil, fmt.Errorf("kraken depth: no book for %s", symbol)
}

func bookLevels(side krakenBookSide) []models.BookLevel {
	out := make([]models.BookLevel, 0, len(side))
	for _, lvl := range side {
		if len(lvl) < 2 {
			continue
		}
		price, _ := lvl[0].Float64()
		size, _ := lvl[1].Float64()
		out = append(out, models.BookLevel{Price: price, Size: size})
	}
	return out
}

type krakenTicker struct {
	C []string `json:"c"` // last trade [price, lot volume]
}

// LastPrice fetches the authoritative last traded price.
func (k *Kraken) LastPrice(ctx context.Context, symbol string) (float64, error) {
	var result map[string]krakenTicker
	err := k.call(ctx, "/0/public/Ticker", map[string][]string{
		"pair": {KrakenPair(symbol)},
	}, &result)
	if err != nil {
		return 0, err
	}
	for _, t := range result {
		if len(t.C) == 0 {
			break
		}
		p, err := strconv.ParseFloat(t.C[0], 64)
		if err != nil {
			return 0, fmt.Errorf("kraken ticker price: %w", err)
		}
		return p, nil
	}
	return 0, fmt.Errorf("kraken ticker: no data for %s", symbol)
}
