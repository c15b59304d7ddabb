package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PulseCast/internal/domain/models"
	phttp "PulseCast/pkg/http"
)

// BinanceFutures supplies the derivatives bundle: funding, open interest, and
// retail long/short positioning. Every field is fetched independently and
// fails independently; a partial bundle is normal.
type BinanceFutures struct {
	baseURL string
	client  *phttp.Client
}

// NewBinanceFutures creates a Binance USD-M futures REST client.
func NewBinanceFutures(baseURL string, timeout time.Duration) *BinanceFutures {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &BinanceFutures{
		baseURL: baseURL,
		client:  phttp.NewClient(phttp.WithTimeout(timeout)),
	}
}

func (b *BinanceFutures) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	err := b.client.SendAndParse(ctx, &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         b.baseURL + path,
		QueryParams: params,
	}, dest)
	if err != nil {
		return fmt.Errorf("binance %s: %w", path, err)
	}
	return nil
}

type premiumIndex struct {
	LastFundingRate json.Number `json:"lastFundingRate"`
	NextFundingTime int64       `json:"nextFundingTime"`
}

type openInterest struct {
	OpenInterest json.Number `json:"openInterest"`
}

type openInterestHist struct {
	SumOpenInterest json.Number `json:"sumOpenInterest"`
}

type longShortRatio struct {
	LongAccount  json.Number `json:"longAccount"`
	ShortAccount json.Number `json:"shortAccount"`
}

// Derivatives assembles the bundle for a symbol. Each sub-fetch that fails
// simply leaves its presence flag unset; an error is returned only when the
// whole venue is unreachable (all three fetches failed).
func (b *BinanceFutures) Derivatives(ctx context.Context, symbol string) (*models.Derivatives, error) {
	sym := BinanceSymbol(symbol)
	d := &models.Derivatives{}
	failures := 0

	var pi premiumIndex
	if err := b.get(ctx, "/fapi/v1/premiumIndex", map[string][]string{"symbol": {sym}}, &pi); err == nil {
		if rate, ferr := pi.LastFundingRate.Float64(); ferr == nil {
			d.FundingRate = rate
			d.HasFunding = true
		}
	} else {
		failures++
	}

	if oi, ch, err := b.openInterestChange(ctx, sym); err == nil {
		d.OpenInterest = oi
		d.OIChangePct = ch
		d.HasOIChange = true
	} else {
		failures++
	}

	var ls []longShortRatio
	err := b.get(ctx, "/futures/data/globalLongShortAccountRatio", map[string][]string{
		"symbol": {sym},
		"period": {"5m"},
		"limit":  {"1"},
	}, &ls)
	if err == nil && len(ls) > 0 {
		long, lerr := ls[0].LongAccount.Float64()
		short, serr := ls[0].ShortAccount.Float64()
		if lerr == nil && serr == nil {
			d.LongRatio = long
			d.ShortRatio = short
			d.HasLongShort = true
		}
	} else {
		failures++
	}

	if failures == 3 {
		return nil, fmt.Errorf("binance derivatives: all endpoints failed for %s", sym)
	}
	return d, nil
}

// openInterestChange combines the live OI with the 5m history to produce a
// short-window percentage change.
func (b *BinanceFutures) openInterestChange(ctx context.Context, sym string) (oi, changePct float64, err error) {
	var cur openInterest
	if err = b.get(ctx, "/fapi/v1/openInterest", map[string][]string{"symbol": {sym}}, &cur); err != nil {
		return 0, 0, err
	}
	oi, err = cur.OpenInterest.Float64()
	if err != nil {
		return 0, 0, fmt.Errorf("binance oi parse: %w", err)
	}

	var hist []openInterestHist
	err = b.get(ctx, "/futures/data/openInterestHist", map[string][]string{
		"symbol": {sym},
		"period": {"5m"},
		"limit":  {"2"},
	}, &hist)
	if err != nil || len(hist) == 0 {
		// live value without a baseline still counts, change unknown
		return oi, 0, nil
	}
	prev, perr := hist[0].SumOpenInterest.Float64()
	if perr != nil || prev <= 0 {
		return oi, 0, nil
	}
	return oi, (oi/prev - 1) * 100, nil
}
