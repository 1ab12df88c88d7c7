package contracts

import "fmt"

// ReturnMode selects the return convention for a run. A run uses exactly
// one convention throughout; metrics apply the matching compounding rule.
type ReturnMode string

const (
	ReturnSimple ReturnMode = "simple" // p_t/p_{t-1} - 1
	ReturnLog    ReturnMode = "log"    // ln(p_t/p_{t-1})
)

// ParseReturnMode validates a user-supplied mode string.
func ParseReturnMode(s string) (ReturnMode, error) {
	switch ReturnMode(s) {
	case ReturnSimple, ReturnLog:
		return ReturnMode(s), nil
	case "":
		return ReturnSimple, nil
	}
	return "", fmt.Errorf("%w: unknown return mode %q", ErrInvalidInput, s)
}

// RebalanceSchedule defines which dates reset unit-holdings back to the
// target weights.
type RebalanceSchedule string

const (
	RebalanceNone    RebalanceSchedule = "none" // buy-and-hold drift
	RebalanceDaily   RebalanceSchedule = "daily"
	RebalanceWeekly  RebalanceSchedule = "weekly"
	RebalanceMonthly RebalanceSchedule = "monthly"
)

// ParseRebalanceSchedule validates a user-supplied schedule string.
func ParseRebalanceSchedule(s string) (RebalanceSchedule, error) {
	switch RebalanceSchedule(s) {
	case RebalanceNone, RebalanceDaily, RebalanceWeekly, RebalanceMonthly:
		return RebalanceSchedule(s), nil
	case "":
		return RebalanceMonthly, nil
	}
	return "", fmt.Errorf("%w: unknown rebalancing schedule %q", ErrInvalidInput, s)
}

// StrategyKind selects the single-asset trading rule.
type StrategyKind string

const (
	StrategyBuyAndHold StrategyKind = "buy_and_hold"
	StrategyMomentum   StrategyKind = "momentum"
)

// StrategyConfig parameterizes a single-asset backtest.
type StrategyConfig struct {
	Kind       StrategyKind `json:"kind"`
	Lookback   int          `json:"lookback"`    // momentum window, days
	Threshold  float64      `json:"threshold"`   // signal trigger, fractional
	AllowShort bool         `json:"allow_short"` // symmetric short variant
}

// Validate checks the parameter ranges for the configured strategy.
func (c StrategyConfig) Validate() error {
	switch c.Kind {
	case StrategyBuyAndHold:
		return nil
	case StrategyMomentum:
		if c.Lookback < 1 {
			return fmt.Errorf("%w: momentum lookback must be >= 1, got %d", ErrInvalidInput, c.Lookback)
		}
		if c.Threshold < 0 {
			return fmt.Errorf("%w: momentum threshold must be >= 0, got %f", ErrInvalidInput, c.Threshold)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown strategy kind %q", ErrInvalidInput, c.Kind)
}
