package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	Symbol     string `query:"symbol" json:"symbol" validate:"required"`
	Indicators bool   `query:"indicators" json:"indicators"`
}

type ScanRequest struct {
	Symbols string `query:"symbols" json:"symbols"` // comma separated; empty = configured watchlist
	Limit   int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=50"`
}

type IndicatorsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"` // RFC3339 or unix seconds; default now-24h
	To     string `query:"to" json:"to"`     // RFC3339 or unix seconds; default now
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type RegimeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"100" validate:"gte=40,lte=1000"`
	TF     string `query:"tf" json:"tf"` // 1m (default), 5m, 15m, 1h
}
