package series

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEMAConstantSeries(t *testing.T) {
	xs := []float64{5, 5, 5, 5, 5}
	got := EMA(xs, 3)
	if len(got) != len(xs) {
		t.Fatalf("length mismatch: %d", len(got))
	}
	for i, v := range got {
		if !almost(v, 5) {
			t.Fatalf("ema[%d] = %v, want 5", i, v)
		}
	}
}

func TestEMASeedsFromFirstValue(t *testing.T) {
	got := EMA([]float64{10, 20}, 9)
	if !almost(got[0], 10) {
		t.Fatalf("seed = %v, want 10", got[0])
	}
	if got[1] <= 10 || got[1] >= 20 {
		t.Fatalf("second value %v should lie between seed and sample", got[1])
	}
}

func TestEMAEmptyInput(t *testing.T) {
	if got := EMA(nil, 5); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := LastEMA(nil, 5); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestSMALastWindow(t *testing.T) {
	got, ok := SMA([]float64{1, 2, 3, 4}, 2)
	if !ok || !almost(got, 3.5) {
		t.Fatalf("got %v, %v", got, ok)
	}
	if _, ok := SMA([]float64{1}, 2); ok {
		t.Fatalf("expected not ok for short input")
	}
}

func TestStdSample(t *testing.T) {
	got, ok := Std([]float64{1, 2, 3}, 3)
	if !ok || !almost(got, 1) {
		t.Fatalf("got %v, %v, want 1", got, ok)
	}
	got, ok = Std([]float64{7, 7, 7}, 3)
	if !ok || !almost(got, 0) {
		t.Fatalf("constant series std = %v, want 0", got)
	}
}

func TestMeanStdPopulation(t *testing.T) {
	mean, std := MeanStd([]float64{1, 2, 3})
	if !almost(mean, 2) {
		t.Fatalf("mean = %v, want 2", mean)
	}
	if !almost(std, math.Sqrt(2.0/3.0)) {
		t.Fatalf("std = %v", std)
	}
}

func TestDiffLag(t *testing.T) {
	got := Diff([]float64{1, 3, 6, 10}, 2)
	want := []float64{5, 7}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if !almost(got[i], want[i]) {
			t.Fatalf("diff[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Diff([]float64{1, 2}, 5) != nil {
		t.Fatalf("expected nil for lag beyond length")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(2, -1, 1) != 1 || Clamp(-2, -1, 1) != -1 || Clamp(0.5, -1, 1) != 0.5 {
		t.Fatalf("clamp misbehaves")
	}
}

func TestMaxMinWholeSlice(t *testing.T) {
	xs := []float64{3, 9, 1, 4}
	if m, ok := Max(xs, 0); !ok || m != 9 {
		t.Fatalf("max = %v", m)
	}
	if m, ok := Min(xs, 2); !ok || m != 1 {
		t.Fatalf("min of last 2 = %v, want 1", m)
	}
	if _, ok := Max(nil, 0); ok {
		t.Fatalf("expected not ok for empty input")
	}
}
