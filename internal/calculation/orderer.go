package calculation

import (
	"sort"

	"github.com/debtsim/debtsim/internal/domain"
)

// Order returns the debt processing order for a strategy. The result is a new
// slice; the input is never mutated. Ties preserve the incoming order, so the
// initial ordering is stable by input index.
//
// Consolidation and settlement strategies order as avalanche: their associated
// events reshape the debt set, after which the engine re-invokes Order on the
// reduced set.
func Order(debts []*domain.WorkingDebt, strategy domain.Strategy, customOrder []string) []*domain.WorkingDebt {
	ordered := make([]*domain.WorkingDebt, len(debts))
	copy(ordered, debts)

	switch strategy {
	case domain.StrategySnowball:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Balance.LessThan(ordered[j].Balance)
		})
	case domain.StrategyAvalanche, domain.StrategyConsolidation, domain.StrategySettlement:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].APR.GreaterThan(ordered[j].APR)
		})
	case domain.StrategyCustom:
		position := make(map[string]int, len(customOrder))
		for i, id := range customOrder {
			position[id] = i
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			pi, iOK := position[ordered[i].ID]
			pj, jOK := position[ordered[j].ID]
			switch {
			case iOK && jOK:
				return pi < pj
			case iOK:
				return true
			case jOK:
				return false
			default:
				// Debts without an explicit position are appended,
				// smallest balance first.
				return ordered[i].Balance.LessThan(ordered[j].Balance)
			}
		})
	}

	return ordered
}

// SelectWaterfallTarget returns the first debt in order still carrying a
// balance, or nil when every debt is paid off. The month's entire leftover
// budget goes to this single debt.
func SelectWaterfallTarget(ordered []*domain.WorkingDebt) *domain.WorkingDebt {
	for _, wd := range ordered {
		if !wd.IsPaidOff() {
			return wd
		}
	}
	return nil
}
