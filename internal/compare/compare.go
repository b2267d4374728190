// Package compare diffs payoff scenarios and recommends a strategy.
package compare

import (
	"fmt"
	"time"

	"github.com/debtsim/debtsim/internal/calculation"
	"github.com/debtsim/debtsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Comparison holds the key differences between two scenarios. Savings are
// expressed as "A saves X over B": positive means A is better.
type Comparison struct {
	ScenarioA *domain.PayoffScenario `json:"scenarioA"`
	ScenarioB *domain.PayoffScenario `json:"scenarioB"`

	InterestSavings          decimal.Decimal `json:"interestSavings"`
	TimeSavingsMonths        int             `json:"timeSavingsMonths"`
	MonthlyPaymentDifference decimal.Decimal `json:"monthlyPaymentDifference"`
	TotalSavings             decimal.Decimal `json:"totalSavings"`

	Recommendation string `json:"recommendation"`
}

// Compare diffs two scenarios produced from the same debt set.
func Compare(a, b *domain.PayoffScenario) Comparison {
	c := Comparison{
		ScenarioA:                a,
		ScenarioB:                b,
		InterestSavings:          b.TotalInterest.Sub(a.TotalInterest),
		TimeSavingsMonths:        b.TotalMonths - a.TotalMonths,
		MonthlyPaymentDifference: a.MonthlyPayment.Sub(b.MonthlyPayment),
		TotalSavings:             b.TotalPaid.Sub(a.TotalPaid),
	}
	c.Recommendation = recommendationText(c)
	return c
}

func recommendationText(c Comparison) string {
	switch {
	case c.ScenarioA.NeverPaysOff && !c.ScenarioB.NeverPaysOff:
		return fmt.Sprintf("%s never pays off at this budget; %s does", c.ScenarioA.Name, c.ScenarioB.Name)
	case c.ScenarioB.NeverPaysOff && !c.ScenarioA.NeverPaysOff:
		return fmt.Sprintf("%s never pays off at this budget; %s does", c.ScenarioB.Name, c.ScenarioA.Name)
	case c.InterestSavings.GreaterThan(decimal.Zero):
		return fmt.Sprintf("%s saves $%s in interest and %d months over %s",
			c.ScenarioA.Name, c.InterestSavings.StringFixed(2), c.TimeSavingsMonths, c.ScenarioB.Name)
	case c.InterestSavings.LessThan(decimal.Zero):
		return fmt.Sprintf("%s saves $%s in interest over %s",
			c.ScenarioB.Name, c.InterestSavings.Neg().StringFixed(2), c.ScenarioA.Name)
	default:
		return "both scenarios cost the same; pick the one that keeps you motivated"
	}
}

// MinimumPaymentBaseline runs the engine at exactly the sum of minimum
// payments, avalanche order. Used as the baseline for savings comparisons.
func MinimumPaymentBaseline(engine *calculation.Engine, debts []domain.Debt, startDate time.Time) (*domain.PayoffScenario, error) {
	budget := decimal.Zero
	for _, d := range debts {
		if d.Balance.GreaterThan(domain.PayoffEpsilon) {
			budget = budget.Add(d.MinimumPayment)
		}
	}
	return engine.Simulate(calculation.SimulationInput{
		Name:          "Minimum Payments Only",
		Debts:         debts,
		Strategy:      domain.StrategyAvalanche,
		MonthlyBudget: budget,
		StartDate:     startDate,
	})
}
