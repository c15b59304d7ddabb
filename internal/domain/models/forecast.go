package models

import "time"

// Regime buckets the market's short-term persistence character.
type Regime string

const (
	RegimeTrending      Regime = "trending"
	RegimeMeanReverting Regime = "mean_reverting"
	RegimeNoise         Regime = "noise"
)

// RegimeReading is the classifier output: the roughness coefficient and its
// bucket, plus the wash-trading fraction estimated over the same window.
type RegimeReading struct {
	Hurst        float64 `json:"hurst"`
	Regime       Regime  `json:"regime"`
	WashFraction float64 `json:"wash_fraction"`
}

// Direction labels for the composite forecast.
const (
	DirectionUp   = "UP"
	DirectionDown = "DOWN"
	DirectionFlat = "FLAT"
)

// Strength labels for the composite forecast.
const (
	StrengthStrongBullish = "STRONG BULLISH"
	StrengthMildBullish   = "BULLISH LEAN"
	StrengthLateral       = "LATERAL / UNDECIDED"
	StrengthMildBearish   = "BEARISH LEAN"
	StrengthStrongBearish = "STRONG BEARISH"
)

// Forecast is the composite 5-minute directional forecast.
type Forecast struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`

	RawScore   float64 `json:"raw_score"`
	FinalScore float64 `json:"final_score"`

	ProbabilityUp   float64 `json:"probability_up"`   // [5, 95]
	ProbabilityDown float64 `json:"probability_down"` // 100 - ProbabilityUp

	ATRPct           float64 `json:"atr_pct"`
	EstimatedMovePct float64 `json:"estimated_move_pct"`
	CurrentPrice     float64 `json:"current_price"`
	TargetPrice      float64 `json:"target_price"`

	Direction string `json:"direction"`
	Strength  string `json:"strength"`

	Regime       Regime  `json:"regime"`
	Hurst        float64 `json:"hurst"`
	SentimentMod float64 `json:"sentiment_mod"`
	TimeframeMod float64 `json:"timeframe_mod"`
	RegimeMod    float64 `json:"regime_mod"`
	TFAlignment  int     `json:"tf_alignment"` // 0..2 of {15m, 1h} agreeing

	Bullish int `json:"bullish"`
	Neutral int `json:"neutral"`
	Bearish int `json:"bearish"`

	Indicators []IndicatorResult `json:"indicators,omitempty"`
}

// ScanEntry is the compact per-symbol result of a watchlist scan.
type ScanEntry struct {
	Symbol        string  `json:"symbol"`
	FinalScore    float64 `json:"final_score"`
	ProbabilityUp float64 `json:"probability_up"`
	Direction     string  `json:"direction"`
	Strength      string  `json:"strength"`
	CurrentPrice  float64 `json:"current_price"`
	TargetPrice   float64 `json:"target_price"`
	Regime        Regime  `json:"regime"`
	Err           string  `json:"error,omitempty"`
}
