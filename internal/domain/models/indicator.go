package models

// Label is the closed qualitative taxonomy an indicator assigns to its score.
type Label string

const (
	LabelStrongBullish Label = "strong_bullish"
	LabelMildBullish   Label = "mild_bullish"
	LabelBullishBias   Label = "bullish_bias"
	LabelNeutral       Label = "neutral"
	LabelBearishBias   Label = "bearish_bias"
	LabelMildBearish   Label = "mild_bearish"
	LabelStrongBearish Label = "strong_bearish"
)

// Sign returns +1, -1 or 0 for the directional lean of the label.
func (l Label) Sign() int {
	switch l {
	case LabelStrongBullish, LabelMildBullish, LabelBullishBias:
		return 1
	case LabelStrongBearish, LabelMildBearish, LabelBearishBias:
		return -1
	default:
		return 0
	}
}

// LabelForScore maps a bounded score to the taxonomy. The boundaries follow
// the indicator tiering: |s| >= 0.7 strong, |s| >= 0.25 mild, nonzero bias.
func LabelForScore(s float64) Label {
	switch {
	case s >= 0.7:
		return LabelStrongBullish
	case s >= 0.25:
		return LabelMildBullish
	case s > 0:
		return LabelBullishBias
	case s <= -0.7:
		return LabelStrongBearish
	case s <= -0.25:
		return LabelMildBearish
	case s < 0:
		return LabelBearishBias
	default:
		return LabelNeutral
	}
}

// IndicatorResult is the output of a single indicator evaluator.
// Score is bounded to [-1, 1]; informational indicators always report 0.
// Display carries the formatted value ("N/A" when the input bundle was
// absent) so callers can audit which indicators were live vs degraded.
type IndicatorResult struct {
	Name    string  `json:"name"`
	Display string  `json:"display"`
	Label   Label   `json:"label"`
	Score   float64 `json:"score"`
	Detail  string  `json:"detail,omitempty"`
}

// NoData builds the degraded result used whenever an indicator's optional
// input is missing or its window is too short.
func NoData(name, reason string) IndicatorResult {
	return IndicatorResult{Name: name, Display: "N/A", Label: LabelNeutral, Score: 0, Detail: reason}
}
