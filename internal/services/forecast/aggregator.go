package forecast

import (
	"math"
	"time"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/indicators"
	"PulseCast/internal/services/series"
)

// Regime confidence discounts. Noise carries an uncertainty haircut because
// no persistent structure was detected.
const (
	regimeModTrending  = 1.05
	regimeModReverting = 1.00
	regimeModNoise     = 0.92

	tfAlignStep = 0.05

	probSlope = 40.0
	probFloor = 5.0
	probCeil  = 95.0

	moveBase  = 0.6
	moveSlope = 0.6

	strongBand = 0.4
	mildBand   = 0.15
)

// Input bundles everything the composer needs from one evaluation pass.
type Input struct {
	Symbol       string
	Results      map[string]models.IndicatorResult
	CurrentPrice float64
	ATRPct       float64
	Regime       models.RegimeReading
	Sent         *models.Sentiment
	At           time.Time
}

// Compose folds the indicator results into the final forecast. It is total:
// an empty result map or an all-zero weight table yields a neutral forecast,
// never an error.
func Compose(in Input) models.Forecast {
	weights := EffectiveWeights(in.Regime.Regime)

	var num, den float64
	for name, res := range in.Results {
		w := weights[name]
		if w <= 0 {
			continue
		}
		num += res.Score * w
		den += w
	}
	raw := 0.0
	if den > 0 {
		raw = series.Clamp(num/den, -1, 1)
	}

	sentMod := sentimentModulator(raw, in.Sent)
	tfMod, alignment := timeframeModulator(raw, in.Results)
	regMod := regimeModulator(in.Regime.Regime)

	final := series.Clamp(raw*sentMod*tfMod*regMod, -1, 1)

	probUp := series.Clamp(50+final*probSlope, probFloor, probCeil)
	movePct := in.ATRPct * (moveBase + math.Abs(final)*moveSlope)
	target := in.CurrentPrice
	if final > 0 {
		target = in.CurrentPrice * (1 + movePct/100)
	} else if final < 0 {
		target = in.CurrentPrice * (1 - movePct/100)
	}

	bull, neut, bear := countLeans(in.Results)

	return models.Forecast{
		Symbol:           in.Symbol,
		Timestamp:        in.At,
		RawScore:         raw,
		FinalScore:       final,
		ProbabilityUp:    probUp,
		ProbabilityDown:  100 - probUp,
		ATRPct:           in.ATRPct,
		EstimatedMovePct: movePct,
		CurrentPrice:     in.CurrentPrice,
		TargetPrice:      target,
		Direction:        direction(final),
		Strength:         strength(final),
		Regime:           in.Regime.Regime,
		Hurst:            in.Regime.Hurst,
		SentimentMod:     sentMod,
		TimeframeMod:     tfMod,
		RegimeMod:        regMod,
		TFAlignment:      alignment,
		Bullish:          bull,
		Neutral:          neut,
		Bearish:          bear,
		Indicators:       ordered(in.Results),
	}
}

// sentimentModulator amplifies a signal when crowd-sentiment extremity
// supports its contrarian read and dampens it when sentiment opposes.
// The raw score's sign picks which side of the table applies.
func sentimentModulator(raw float64, s *models.Sentiment) float64 {
	if s == nil || raw == 0 {
		return 1.0
	}
	v := s.Value
	if raw > 0 {
		switch {
		case v <= 20:
			return 1.10
		case v <= 40:
			return 1.05
		case v >= 80:
			return 0.90
		case v >= 60:
			return 0.95
		}
		return 1.0
	}
	switch {
	case v >= 80:
		return 1.10
	case v >= 60:
		return 1.05
	case v <= 20:
		return 0.90
	case v <= 40:
		return 0.95
	}
	return 1.0
}

// timeframeModulator counts how many of the 15m and 1h trend scores share the
// raw score's sign and converts the count into a small confidence boost.
func timeframeModulator(raw float64, results map[string]models.IndicatorResult) (float64, int) {
	count := 0
	if raw != 0 {
		for _, name := range []string{indicators.NameTrend15m, indicators.NameTrend1h} {
			if res, ok := results[name]; ok && res.Score*raw > 0 {
				count++
			}
		}
	}
	return 1.0 + float64(count)*tfAlignStep, count
}

func regimeModulator(r models.Regime) float64 {
	switch r {
	case models.RegimeTrending:
		return regimeModTrending
	case models.RegimeMeanReverting:
		return regimeModReverting
	default:
		return regimeModNoise
	}
}

func direction(final float64) string {
	switch {
	case final > 0:
		return models.DirectionUp
	case final < 0:
		return models.DirectionDown
	default:
		return models.DirectionFlat
	}
}

func strength(final float64) string {
	switch {
	case final > strongBand:
		return models.StrengthStrongBullish
	case final > mildBand:
		return models.StrengthMildBullish
	case final < -strongBand:
		return models.StrengthStrongBearish
	case final < -mildBand:
		return models.StrengthMildBearish
	default:
		return models.StrengthLateral
	}
}

func countLeans(results map[string]models.IndicatorResult) (bull, neut, bear int) {
	for _, res := range results {
		switch {
		case res.Score > 0:
			bull++
		case res.Score < 0:
			bear++
		default:
			neut++
		}
	}
	return
}

// ordered flattens the result map into registry order so the forecast's
// indicator table renders deterministically.
func ordered(results map[string]models.IndicatorResult) []models.IndicatorResult {
	out := make([]models.IndicatorResult, 0, len(results))
	for _, ind := range indicators.Registry() {
		if res, ok := results[ind.Name]; ok {
			out = append(out, res)
		}
	}
	return out
}
