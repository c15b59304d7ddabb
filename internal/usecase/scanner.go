package usecase

import (
	"context"
	"sort"
	"sync"

	"PulseCast/internal/domain/models"
)

const scanConcurrency = 4

// Scanner runs the forecast pipeline across a watchlist with bounded
// concurrency and returns compact per-symbol entries sorted by conviction.
type Scanner struct {
	uc        *ForecastUseCase
	watchlist []string
}

// NewScanner creates a watchlist scanner on top of the forecast pipeline.
func NewScanner(uc *ForecastUseCase, watchlist []string) *Scanner {
	return &Scanner{uc: uc, watchlist: watchlist}
}

// Scan evaluates the given symbols, or the configured watchlist when none are
// passed. Per-symbol failures land in the entry's Err field; the scan itself
// never fails.
func (s *Scanner) Scan(ctx context.Context, symbols []string, limit int) []models.ScanEntry {
	if len(symbols) == 0 {
		symbols = s.watchlist
	}
	if limit > 0 && len(symbols) > limit {
		symbols = symbols[:limit]
	}

	entries := make([]models.ScanEntry, len(symbols))
	sem := make(chan struct{}, scanConcurrency)
	var wg sync.WaitGroup

	for i, sym := range symbols {
		i, sym := i, sym
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			f, err := s.uc.Forecast(ctx, ForecastParams{Symbol: sym})
			if err != nil {
				entries[i] = models.ScanEntry{Symbol: sym, Err: err.Error()}
				return
			}
			entries[i] = models.ScanEntry{
				Symbol:        f.Symbol,
				FinalScore:    f.FinalScore,
				ProbabilityUp: f.ProbabilityUp,
				Direction:     f.Direction,
				Strength:      f.Strength,
				CurrentPrice:  f.CurrentPrice,
				TargetPrice:   f.TargetPrice,
				Regime:        f.Regime,
			}
		}()
	}
	wg.Wait()

	// strongest conviction first, failures last
	sort.SliceStable(entries, func(a, b int) bool {
		if (entries[a].Err == "") != (entries[b].Err == "") {
			return entries[a].Err == ""
		}
		return abs(entries[a].FinalScore) > abs(entries[b].FinalScore)
	})
	return entries
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
