package forecast

import (
	"math"
	"testing"
	"time"

	"PulseCast/internal/domain/models"
	"PulseCast/internal/services/indicators"
)

func scored(name string, score float64) models.IndicatorResult {
	return models.IndicatorResult{
		Name:  name,
		Label: models.LabelForScore(score),
		Score: score,
	}
}

func baseInput(results map[string]models.IndicatorResult) Input {
	return Input{
		Symbol:       "BTCUSDT",
		Results:      results,
		CurrentPrice: 50000,
		ATRPct:       0.5,
		Regime:       models.RegimeReading{Hurst: 0.5, Regime: models.RegimeNoise},
		At:           time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestComposeNeutralOnEmptyResults(t *testing.T) {
	f := Compose(baseInput(nil))
	if f.RawScore != 0 || f.FinalScore != 0 {
		t.Fatalf("scores not neutral: raw=%v final=%v", f.RawScore, f.FinalScore)
	}
	if f.ProbabilityUp != 50 || f.ProbabilityDown != 50 {
		t.Fatalf("probabilities not 50/50: %v/%v", f.ProbabilityUp, f.ProbabilityDown)
	}
	if f.Direction != models.DirectionFlat {
		t.Fatalf("direction = %q", f.Direction)
	}
	if f.Strength != models.StrengthLateral {
		t.Fatalf("strength = %q", f.Strength)
	}
	if f.TargetPrice != f.CurrentPrice {
		t.Fatalf("target moved from current on a flat forecast: %v", f.TargetPrice)
	}
}

func TestComposeBoundsAndComplement(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameRSI:       scored(indicators.NameRSI, 1.0),
		indicators.NameMACD:      scored(indicators.NameMACD, -0.3),
		indicators.NameROC:       scored(indicators.NameROC, 0.6),
		indicators.NameBookImbal: scored(indicators.NameBookImbal, -1.0),
	}
	f := Compose(baseInput(results))
	if f.FinalScore < -1 || f.FinalScore > 1 {
		t.Fatalf("final score %v outside [-1, 1]", f.FinalScore)
	}
	if f.ProbabilityUp < 5 || f.ProbabilityUp > 95 {
		t.Fatalf("probability up %v outside [5, 95]", f.ProbabilityUp)
	}
	if f.ProbabilityUp+f.ProbabilityDown != 100 {
		t.Fatalf("probabilities do not complement: %v + %v", f.ProbabilityUp, f.ProbabilityDown)
	}
}

func TestComposeZeroWeightIndicatorsIgnored(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameATR:         scored(indicators.NameATR, 1.0),
		indicators.NameRegimeHurst: scored(indicators.NameRegimeHurst, 1.0),
	}
	f := Compose(baseInput(results))
	if f.RawScore != 0 {
		t.Fatalf("informational indicators moved the score: %v", f.RawScore)
	}
}

func TestComposeSentimentExtremeFearAmplifiesLongs(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameROC: scored(indicators.NameROC, 1.0),
	}
	in := baseInput(results)
	in.Sent = &models.Sentiment{Value: 15, Classification: "Extreme Fear"}
	f := Compose(in)
	if f.SentimentMod != 1.10 {
		t.Fatalf("sentiment mod = %v, want 1.10", f.SentimentMod)
	}
}

func TestComposeSentimentGreedDampensLongs(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameROC: scored(indicators.NameROC, 1.0),
	}
	in := baseInput(results)
	in.Sent = &models.Sentiment{Value: 85, Classification: "Extreme Greed"}
	f := Compose(in)
	if f.SentimentMod != 0.90 {
		t.Fatalf("sentiment mod = %v, want 0.90", f.SentimentMod)
	}
}

func TestComposeSentimentNeutralWhenScoreZero(t *testing.T) {
	in := baseInput(nil)
	in.Sent = &models.Sentiment{Value: 10}
	f := Compose(in)
	if f.SentimentMod != 1.0 {
		t.Fatalf("sentiment mod = %v, want 1.0 on a flat score", f.SentimentMod)
	}
}

func TestComposeTimeframeAlignment(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameROC:      scored(indicators.NameROC, 1.0),
		indicators.NameTrend15m: scored(indicators.NameTrend15m, 0.8),
		indicators.NameTrend1h:  scored(indicators.NameTrend1h, 0.8),
	}
	f := Compose(baseInput(results))
	if f.TFAlignment != 2 {
		t.Fatalf("alignment = %d, want 2", f.TFAlignment)
	}
	if math.Abs(f.TimeframeMod-1.10) > 1e-9 {
		t.Fatalf("timeframe mod = %v, want 1.10", f.TimeframeMod)
	}
}

func TestComposeTimeframeOpposingFramesDontBoost(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameROC:      scored(indicators.NameROC, 1.0),
		indicators.NameTrend15m: scored(indicators.NameTrend15m, -0.8),
	}
	f := Compose(baseInput(results))
	if f.TFAlignment != 0 || f.TimeframeMod != 1.0 {
		t.Fatalf("alignment = %d mod = %v", f.TFAlignment, f.TimeframeMod)
	}
}

func TestComposeRegimeModulators(t *testing.T) {
	cases := []struct {
		regime models.Regime
		want   float64
	}{
		{models.RegimeTrending, 1.05},
		{models.RegimeMeanReverting, 1.00},
		{models.RegimeNoise, 0.92},
	}
	for _, c := range cases {
		in := baseInput(map[string]models.IndicatorResult{
			indicators.NameROC: scored(indicators.NameROC, 0.5),
		})
		in.Regime = models.RegimeReading{Regime: c.regime}
		f := Compose(in)
		if f.RegimeMod != c.want {
			t.Fatalf("%v regime mod = %v, want %v", c.regime, f.RegimeMod, c.want)
		}
	}
}

func TestComposeAllBullishCapsAndTargets(t *testing.T) {
	results := make(map[string]models.IndicatorResult)
	for _, ind := range indicators.Registry() {
		results[ind.Name] = scored(ind.Name, 1.0)
	}
	f := Compose(baseInput(results))
	if f.FinalScore > 1 {
		t.Fatalf("final score %v exceeds cap", f.FinalScore)
	}
	if f.Direction != models.DirectionUp {
		t.Fatalf("direction = %q", f.Direction)
	}
	if f.Strength != models.StrengthStrongBullish {
		t.Fatalf("strength = %q", f.Strength)
	}
	if f.ProbabilityUp > 95 {
		t.Fatalf("probability up %v exceeds ceiling", f.ProbabilityUp)
	}
	if f.TargetPrice <= f.CurrentPrice {
		t.Fatalf("bullish target %v not above current %v", f.TargetPrice, f.CurrentPrice)
	}
	wantMove := 0.5 * (moveBase + f.FinalScore*moveSlope)
	if math.Abs(f.EstimatedMovePct-wantMove) > 1e-9 {
		t.Fatalf("estimated move %v, want %v", f.EstimatedMovePct, wantMove)
	}
	if f.Bullish != len(results) || f.Bearish != 0 {
		t.Fatalf("lean counts %d/%d/%d", f.Bullish, f.Neutral, f.Bearish)
	}
}

func TestComposeBearishTargetBelowCurrent(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameROC:  scored(indicators.NameROC, -1.0),
		indicators.NameMACD: scored(indicators.NameMACD, -1.0),
	}
	f := Compose(baseInput(results))
	if f.Direction != models.DirectionDown {
		t.Fatalf("direction = %q", f.Direction)
	}
	if f.TargetPrice >= f.CurrentPrice {
		t.Fatalf("bearish target %v not below current %v", f.TargetPrice, f.CurrentPrice)
	}
}

func TestComposeIndicatorsInRegistryOrder(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameTrend1h: scored(indicators.NameTrend1h, 0.8),
		indicators.NameRSI:     scored(indicators.NameRSI, 0.4),
		indicators.NameMACD:    scored(indicators.NameMACD, -0.3),
	}
	f := Compose(baseInput(results))
	if len(f.Indicators) != 3 {
		t.Fatalf("got %d indicator rows", len(f.Indicators))
	}
	want := []string{indicators.NameRSI, indicators.NameMACD, indicators.NameTrend1h}
	for i, name := range want {
		if f.Indicators[i].Name != name {
			t.Fatalf("row %d = %q, want %q", i, f.Indicators[i].Name, name)
		}
	}
}

func TestComposeDeterministic(t *testing.T) {
	results := map[string]models.IndicatorResult{
		indicators.NameRSI:      scored(indicators.NameRSI, 0.4),
		indicators.NameROC:      scored(indicators.NameROC, -0.6),
		indicators.NameTrend15m: scored(indicators.NameTrend15m, -0.8),
	}
	in := baseInput(results)
	in.Sent = &models.Sentiment{Value: 70}
	a := Compose(in)
	b := Compose(in)
	if a.FinalScore != b.FinalScore || a.ProbabilityUp != b.ProbabilityUp || a.TargetPrice != b.TargetPrice {
		t.Fatalf("compose not deterministic: %+v vs %+v", a, b)
	}
}
