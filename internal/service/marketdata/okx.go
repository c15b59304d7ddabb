package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	phttp "PulseCast/pkg/http"
)

// OKXRest is the secondary venue: it supplies the cross-venue reference price
// and a REST trade tape used when the live stream has no fresh data.
type OKXRest struct {
	baseURL string
	client  *phttp.Client
}

// NewOKXRest creates an OKX REST client.
func NewOKXRest(baseURL string, timeout time.Duration) *OKXRest {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &OKXRest{
		baseURL: baseURL,
		client:  phttp.NewClient(phttp.WithTimeout(timeout)),
	}
}

type okxEnvelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (o *OKXRest) call(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	var env okxEnvelope
	err := o.client.SendAndParse(ctx, &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         o.baseURL + path,
		QueryParams: params,
	}, &env)
	if err != nil {
		return fmt.Errorf("okx %s: %w", path, err)
	}
	if env.Code != "0" {
		return fmt.Errorf("okx %s: code %s: %s", path, env.Code, env.Msg)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("okx %s decode: %w", path, err)
	}
	return nil
}

type okxTicker struct {
	Last json.Number `json:"last"`
}

// LastPrice fetches the instrument's last traded price.
func (o *OKXRest) LastPrice(ctx context.Context, symbol string) (float64, error) {
	var data []okxTicker
	err := o.call(ctx, "/api/v5/market/ticker", map[string][]string{
		"instId": {OKXInstrument(symbol)},
	}, &data)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("okx ticker: no data for %s", symbol)
	}
	p, err := data[0].Last.Float64()
	if err != nil {
		return 0, fmt.Errorf("okx ticker parse: %w", err)
	}
	return p, nil
}

type okxTrade struct {
	Side string      `json:"side"` // "buy" | "sell", taker side
	Sz   json.Number `json:"sz"`
	Px   json.Number `json:"px"`
}

// RecentTape fetches the latest trades and splits their quote volume by taker
// side.
func (o *OKXRest) RecentTape(ctx context.Context, symbol string, limit int) (buy, sell float64, err error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var data []okxTrade
	err = o.call(ctx, "/api/v5/market/trades", map[string][]string{
		"instId": {OKXInstrument(symbol)},
		"limit":  {fmt.Sprintf("%d", limit)},
	}, &data)
	if err != nil {
		return 0, 0, err
	}
	for _, t := range data {
		sz, serr := t.Sz.Float64()
		px, perr := t.Px.Float64()
		if serr != nil || perr != nil {
			continue
		}
		if t.Side == "buy" {
			buy += sz * px
		} else {
			sell += sz * px
		}
	}
	return buy, sell, nil
}
