package series

import "math"

// EMA computes the exponential moving average of xs with the given span,
// seeding from the first value (span smoothing alpha = 2/(span+1)).
// Returns a slice of the same length, or nil for empty input.
func EMA(xs []float64, span int) []float64 {
	if len(xs) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(xs))
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// LastEMA returns the final EMA value, or 0 for empty input.
func LastEMA(xs []float64, span int) float64 {
	e := EMA(xs, span)
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1]
}

// SMA computes the simple mean of the last window values.
// Returns (0, false) when fewer than window samples exist.
func SMA(xs []float64, window int) (float64, bool) {
	if window <= 0 || len(xs) < window {
		return 0, false
	}
	sum := 0.0
	for _, v := range xs[len(xs)-window:] {
		sum += v
	}
	return sum / float64(window), true
}

// Std computes the sample standard deviation of the last window values.
func Std(xs []float64, window int) (float64, bool) {
	if window <= 1 || len(xs) < window {
		return 0, false
	}
	tail := xs[len(xs)-window:]
	sum, sum2 := 0.0, 0.0
	for _, v := range tail {
		sum += v
		sum2 += v * v
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance), true
}

// MeanStd computes mean and population standard deviation over all of xs.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	mean = sum / float64(len(xs))
	acc := 0.0
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	return mean, math.Sqrt(acc / float64(len(xs)))
}

// Diff returns the lag-k differenced series xs[i] - xs[i-k].
func Diff(xs []float64, k int) []float64 {
	if k <= 0 || len(xs) <= k {
		return nil
	}
	out := make([]float64, 0, len(xs)-k)
	for i := k; i < len(xs); i++ {
		out = append(out, xs[i]-xs[i-k])
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Max returns the maximum of the last window values (whole slice if window
// exceeds the length).
func Max(xs []float64, window int) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	if window <= 0 || window > len(xs) {
		window = len(xs)
	}
	m := xs[len(xs)-window]
	for _, v := range xs[len(xs)-window:] {
		if v > m {
			m = v
		}
	}
	return m, true
}

// Min returns the minimum of the last window values.
func Min(xs []float64, window int) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	if window <= 0 || window > len(xs) {
		window = len(xs)
	}
	m := xs[len(xs)-window]
	for _, v := range xs[len(xs)-window:] {
		if v < m {
			m = v
		}
	}
	return m, true
}
