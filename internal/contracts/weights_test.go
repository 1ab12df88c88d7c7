package contracts

import (
	"math"
	"testing"
)

func TestWeightVector_Normalize(t *testing.T) {
	w := WeightVector{"AAPL": 2, "MSFT": 1, "GOOGL": 1}

	n, err := w.Normalize([]string{"AAPL", "MSFT", "GOOGL"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if n.Fallback {
		t.Error("Fallback = true, want false")
	}

	sum := 0.0
	for _, v := range n.Weights {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum = %v, want 1", sum)
	}
	if got := n.Weight("AAPL"); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Weight(AAPL) = %v, want 0.5", got)
	}
}

func TestWeightVector_Normalize_MissingSymbolGetsZero(t *testing.T) {
	w := WeightVector{"AAPL": 1}

	n, err := w.Normalize([]string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got := n.Weight("MSFT"); got != 0 {
		t.Errorf("Weight(MSFT) = %v, want 0", got)
	}
	if got := n.Weight("AAPL"); got != 1 {
		t.Errorf("Weight(AAPL) = %v, want 1", got)
	}
}

func TestWeightVector_Normalize_ZeroSumFallback(t *testing.T) {
	w := WeightVector{"AAPL": 0, "MSFT": 0}

	n, err := w.Normalize([]string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !n.Fallback {
		t.Error("Fallback = false, want true for zero-sum weights")
	}
	for i, v := range n.Weights {
		if math.Abs(v-0.5) > 1e-9 {
			t.Errorf("Weights[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestWeightVector_Normalize_EmptyUniverse(t *testing.T) {
	w := WeightVector{"AAPL": 1}

	if _, err := w.Normalize(nil); err == nil {
		t.Error("Normalize() with empty universe, want error")
	}
}
