package contracts

import "fmt"

// WeightVector maps asset symbols to target weights. Weights are
// re-normalized to sum to 1 before use; callers never consume a raw
// vector directly.
type WeightVector map[string]float64

// NormalizedWeights is a weight vector aligned to a symbol universe and
// scaled to sum to 1. Fallback records that the supplied weights summed
// to zero and equal weighting was substituted, so the substitution is
// observable rather than silent.
type NormalizedWeights struct {
	Symbols  []string  `json:"symbols"`
	Weights  []float64 `json:"weights"`
	Fallback bool      `json:"equal_weight_fallback"`
}

// Weight returns the normalized weight for a symbol, 0 if absent.
func (n NormalizedWeights) Weight(symbol string) float64 {
	for i, s := range n.Symbols {
		if s == symbol {
			return n.Weights[i]
		}
	}
	return 0
}

// Map returns the normalized weights as a vector, for calculators that
// look weights up by symbol.
func (n NormalizedWeights) Map() WeightVector {
	out := make(WeightVector, len(n.Symbols))
	for i, s := range n.Symbols {
		out[s] = n.Weights[i]
	}
	return out
}

// Normalize aligns the vector to the given universe and scales it to
// sum to 1. Symbols missing from the vector get weight 0. A zero sum
// falls back to equal weight across the universe.
func (w WeightVector) Normalize(symbols []string) (NormalizedWeights, error) {
	if len(symbols) == 0 {
		return NormalizedWeights{}, fmt.Errorf("%w: no symbols in universe", ErrEmptyInput)
	}

	out := NormalizedWeights{
		Symbols: append([]string(nil), symbols...),
		Weights: make([]float64, len(symbols)),
	}

	sum := 0.0
	for i, sym := range symbols {
		out.Weights[i] = w[sym]
		sum += w[sym]
	}

	if sum == 0 {
		eq := 1.0 / float64(len(symbols))
		for i := range out.Weights {
			out.Weights[i] = eq
		}
		out.Fallback = true
		return out, nil
	}

	for i := range out.Weights {
		out.Weights[i] /= sum
	}
	return out, nil
}
