package domain

import (
	"errors"
	"fmt"
)

// Strategy selects the processing order for minimum payments and waterfall
// targeting.
type Strategy string

const (
	StrategySnowball      Strategy = "snowball"      // smallest balance first
	StrategyAvalanche     Strategy = "avalanche"     // highest APR first
	StrategyCustom        Strategy = "custom"        // caller-supplied order
	StrategyConsolidation Strategy = "consolidation" // avalanche order around a consolidation event
	StrategySettlement    Strategy = "settlement"    // avalanche order around a settlement event
)

// ErrInvalidStrategy is returned for unrecognized strategy tags.
var ErrInvalidStrategy = errors.New("invalid strategy")

// ParseStrategy converts a strategy tag into a Strategy, failing on anything
// outside the closed set.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySnowball, StrategyAvalanche, StrategyCustom,
		StrategyConsolidation, StrategySettlement:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// DisplayName returns the human-readable scenario name for a strategy.
func (s Strategy) DisplayName() string {
	switch s {
	case StrategySnowball:
		return "Snowball Strategy"
	case StrategyAvalanche:
		return "Avalanche Strategy"
	case StrategyCustom:
		return "Custom Strategy"
	case StrategyConsolidation:
		return "Consolidation Strategy"
	case StrategySettlement:
		return "Settlement Strategy"
	default:
		return "Payoff Scenario"
	}
}
