package indicators

import (
	"PulseCast/internal/domain/models"
)

// Canonical indicator names. These key the weight tables and the result map,
// so they must stay stable across releases.
const (
	NameRSI          = "RSI (9)"
	NameMACD         = "MACD (5,13,3)"
	NameEMACross     = "EMA 7/25"
	NameBollinger    = "Bollinger %B"
	NameStochastic   = "Stochastic (5,3)"
	NameWilliamsR    = "Williams %R"
	NameATR          = "ATR (9)"
	NameROC          = "Rate of Change"
	NameOBV          = "OBV Trend"
	NameVWAP         = "VWAP Deviation"
	NameRelVolume    = "Relative Volume"
	NamePattern      = "Candle Pattern 1m"
	NameBookImbal    = "Order Book Imbalance"
	NameSpread       = "Bid/Ask Spread"
	NameBuySell      = "Buy/Sell Ratio"
	NameActivity     = "Trade Activity"
	NameFunding      = "Funding Rate"
	NameOIChange     = "Open Interest Change"
	NameLongShort    = "Long/Short Ratio"
	NameTrend5m      = "Trend 5m"
	NameTrend15m     = "Trend 15m"
	NameTrend1h      = "Trend 1h"
	NameFearGreed    = "Fear & Greed"
	NameCrossVenue   = "Cross-Venue Divergence"
	NameRegimeHurst  = "Regime (Hurst)"
)

// EvalFunc evaluates one indicator against an immutable snapshot. Evaluators
// are pure: no shared state, no I/O, never panic outward; degraded inputs
// produce a neutral no-data result instead.
type EvalFunc func(*models.Snapshot) models.IndicatorResult

// Indicator pairs a canonical name with its evaluator.
type Indicator struct {
	Name string
	Eval EvalFunc
}

// Registry returns the fixed, ordered indicator set. Order is display order
// only; evaluators are independent and safe to run concurrently.
func Registry() []Indicator {
	return []Indicator{
		{NameRSI, RSI},
		{NameMACD, MACD},
		{NameEMACross, EMACross},
		{NameBollinger, Bollinger},
		{NameStochastic, Stochastic},
		{NameWilliamsR, WilliamsR},
		{NameATR, ATR},
		{NameROC, RateOfChange},
		{NameOBV, OBVTrend},
		{NameVWAP, VWAPDeviation},
		{NameRelVolume, RelativeVolume},
		{NamePattern, CandlePattern},
		{NameBookImbal, BookImbalance},
		{NameSpread, BidAskSpread},
		{NameBuySell, BuySellRatio},
		{NameActivity, TradeActivity},
		{NameFunding, FundingRate},
		{NameOIChange, OpenInterestChange},
		{NameLongShort, LongShortRatio},
		{NameTrend5m, Trend5m},
		{NameTrend15m, Trend15m},
		{NameTrend1h, Trend1h},
		{NameFearGreed, FearGreed},
		{NameCrossVenue, CrossVenueDivergence},
		{NameRegimeHurst, RegimeHurst},
	}
}

// EvaluateAll runs the full bank sequentially and returns results keyed by
// indicator name. The concurrent path lives in the usecase layer; both are
// observably equivalent because evaluators share nothing mutable.
func EvaluateAll(snap *models.Snapshot) map[string]models.IndicatorResult {
	out := make(map[string]models.IndicatorResult, len(Registry()))
	for _, ind := range Registry() {
		out[ind.Name] = ind.Eval(snap)
	}
	return out
}

// pctChange returns (now/then - 1) * 100, or 0 when then is not positive.
func pctChange(now, then float64) float64 {
	if then <= 0 {
		return 0
	}
	return (now/then - 1) * 100
}

// closes1m extracts the 1m close series.
func closes1m(snap *models.Snapshot) []float64 {
	out := make([]float64, len(snap.Candles1m))
	for i, c := range snap.Candles1m {
		out[i] = c.Close
	}
	return out
}

// price returns the authoritative evaluation price, falling back to the last
// 1m close when the ticker was unavailable.
func price(snap *models.Snapshot) float64 {
	if snap.CurrentPrice > 0 {
		return snap.CurrentPrice
	}
	return snap.LastClose()
}
