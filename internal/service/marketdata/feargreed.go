package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PulseCast/internal/domain/models"
	phttp "PulseCast/pkg/http"
)

// FearGreed fetches the market-wide Fear & Greed index. The reading is
// asset-agnostic, so one fetch serves every symbol in an evaluation cycle.
type FearGreed struct {
	baseURL string
	client  *phttp.Client
}

// NewFearGreed creates a sentiment-index client.
func NewFearGreed(baseURL string, timeout time.Duration) *FearGreed {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &FearGreed{
		baseURL: baseURL,
		client:  phttp.NewClient(phttp.WithTimeout(timeout)),
	}
}

type fngResponse struct {
	Data []struct {
		Value          json.Number `json:"value"`
		Classification string      `json:"value_classification"`
	} `json:"data"`
}

// Current returns the latest index value with the trend vs the previous
// reading.
func (f *FearGreed) Current(ctx context.Context) (*models.Sentiment, error) {
	var resp fngResponse
	err := f.client.SendAndParse(ctx, &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         f.baseURL + "/fng/",
		QueryParams: map[string][]string{"limit": {"2"}},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fear&greed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("fear&greed: empty response")
	}

	cur, err := resp.Data[0].Value.Int64()
	if err != nil {
		return nil, fmt.Errorf("fear&greed parse: %w", err)
	}
	s := &models.Sentiment{
		Value:          int(cur),
		Classification: resp.Data[0].Classification,
	}
	if len(resp.Data) > 1 {
		if prev, perr := resp.Data[1].Value.Int64(); perr == nil {
			switch {
			case cur > prev:
				s.Trend = 1
			case cur < prev:
				s.Trend = -1
			}
		}
	}
	return s, nil
}
