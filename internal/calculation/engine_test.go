package calculation

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/debtsim/debtsim/internal/domain"
	"github.com/debtsim/debtsim/internal/whatif"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func simpleInput(budget string, debts ...domain.Debt) SimulationInput {
	return SimulationInput{
		Debts:         debts,
		Strategy:      domain.StrategyAvalanche,
		MonthlyBudget: dec(budget),
		StartDate:     testStart,
	}
}

func summaryFor(t *testing.T, scenario *domain.PayoffScenario, debtID string) domain.DebtSummary {
	t.Helper()
	for _, s := range scenario.DebtSummaries {
		if s.DebtID == debtID {
			return s
		}
	}
	t.Fatalf("no summary for debt %s", debtID)
	return domain.DebtSummary{}
}

func TestSimulateZeroInterestExactPayoff(t *testing.T) {
	scenario, err := NewEngine().Simulate(simpleInput("100",
		domain.Debt{ID: "visa", Name: "Visa", Balance: dec("1200"), APR: dec("0"), MinimumPayment: dec("100")},
	))
	require.NoError(t, err)

	assert.Equal(t, 12, scenario.TotalMonths)
	assert.True(t, scenario.TotalInterest.IsZero())
	assert.True(t, scenario.TotalPaid.Equal(dec("1200")))
	assert.Equal(t, testStart.AddDate(0, 12, 0), scenario.PayoffDate)
	assert.False(t, scenario.NeverPaysOff)
	assert.Empty(t, scenario.Warnings)

	require.Len(t, scenario.Schedule, 12)
	for _, item := range scenario.Schedule {
		assert.True(t, item.Payment.Equal(dec("100")))
		assert.True(t, item.Interest.IsZero())
	}
	assert.True(t, scenario.Schedule[11].RemainingBalance.IsZero())
}

func TestSimulateBudgetAtMinimumsHasNoWaterfall(t *testing.T) {
	scenario, err := NewEngine().Simulate(simpleInput("150",
		domain.Debt{ID: "a", Name: "A", Balance: dec("600"), APR: dec("0"), MinimumPayment: dec("50")},
		domain.Debt{ID: "b", Name: "B", Balance: dec("1200"), APR: dec("0"), MinimumPayment: dec("100")},
	))
	require.NoError(t, err)

	assert.Equal(t, 12, scenario.TotalMonths)
	assert.True(t, scenario.TotalPaid.Equal(dec("1800")))
	for _, item := range scenario.Schedule {
		switch item.DebtID {
		case "a":
			assert.True(t, item.Payment.Equal(dec("50")), "month %d", item.Month)
		case "b":
			assert.True(t, item.Payment.Equal(dec("100")), "month %d", item.Month)
		}
	}
}

func TestSimulateEmptyDebtsReturnsZeroScenario(t *testing.T) {
	scenario, err := NewEngine().Simulate(simpleInput("500"))
	require.NoError(t, err)

	assert.Equal(t, 0, scenario.TotalMonths)
	assert.Equal(t, testStart, scenario.PayoffDate)
	assert.True(t, scenario.TotalInterest.IsZero())
	assert.True(t, scenario.TotalPaid.IsZero())
	assert.Empty(t, scenario.Schedule)
	assert.Empty(t, scenario.DebtSummaries)
}

func TestSimulateInsufficientBudgetFailsFast(t *testing.T) {
	_, err := NewEngine().Simulate(simpleInput("200",
		domain.Debt{ID: "a", Name: "A", Balance: dec("5000"), APR: dec("10"), MinimumPayment: dec("150")},
		domain.Debt{ID: "b", Name: "B", Balance: dec("5000"), APR: dec("10"), MinimumPayment: dec("150")},
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientBudget))
	assert.Contains(t, err.Error(), "$100.00 short")
}

func TestSimulateBudgetCheckIgnoresPaidOffDebts(t *testing.T) {
	// The zero-balance debt's minimum does not count against the budget.
	scenario, err := NewEngine().Simulate(simpleInput("100",
		domain.Debt{ID: "done", Name: "Done", Balance: dec("0"), APR: dec("10"), MinimumPayment: dec("500")},
		domain.Debt{ID: "live", Name: "Live", Balance: dec("1200"), APR: dec("0"), MinimumPayment: dec("100")},
	))
	require.NoError(t, err)
	assert.Equal(t, 12, scenario.TotalMonths)
}

func TestSimulateInvalidStrategy(t *testing.T) {
	input := simpleInput("100",
		domain.Debt{ID: "a", Name: "A", Balance: dec("1000"), APR: dec("0"), MinimumPayment: dec("50")})
	input.Strategy = "pay-randomly"

	_, err := NewEngine().Simulate(input)
	assert.True(t, errors.Is(err, domain.ErrInvalidStrategy))
}

func TestSimulateRejectsDuplicateDebtIDs(t *testing.T) {
	_, err := NewEngine().Simulate(simpleInput("500",
		domain.Debt{ID: "a", Name: "A", Balance: dec("1000"), APR: dec("0"), MinimumPayment: dec("50")},
		domain.Debt{ID: "a", Name: "A again", Balance: dec("1000"), APR: dec("0"), MinimumPayment: dec("50")},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate debt id")
}

func TestSimulateRejectsNonPositiveBudget(t *testing.T) {
	input := simpleInput("0",
		domain.Debt{ID: "a", Name: "A", Balance: dec("1000"), APR: dec("0"), MinimumPayment: dec("50")})
	_, err := NewEngine().Simulate(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestSimulateSafetyCap(t *testing.T) {
	// Interest outpaces the minimum payment, so the balance never declines.
	scenario, err := NewEngine().Simulate(simpleInput("100",
		domain.Debt{ID: "trap", Name: "Trap", Balance: dec("10000"), APR: dec("36"), MinimumPayment: dec("100")},
	))
	require.NoError(t, err)

	assert.True(t, scenario.NeverPaysOff)
	assert.Equal(t, MaxMonths, scenario.TotalMonths)
	require.NotEmpty(t, scenario.Warnings)
	assert.Contains(t, scenario.Warnings[0], "safety cap")
	assert.Len(t, scenario.Schedule, MaxMonths, "the partial schedule is still returned")
	assert.Equal(t, 0, summaryFor(t, scenario, "trap").MonthsToPayoff)
}

func TestSimulateCapitalizingPolicyGrowsBalance(t *testing.T) {
	engine := NewEngine()
	engine.InterestPolicy = Capitalizing

	scenario, err := engine.Simulate(simpleInput("100",
		domain.Debt{ID: "trap", Name: "Trap", Balance: dec("10000"), APR: dec("36"), MinimumPayment: dec("100")},
	))
	require.NoError(t, err)

	assert.True(t, scenario.NeverPaysOff)
	last := scenario.Schedule[len(scenario.Schedule)-1]
	assert.True(t, last.RemainingBalance.GreaterThan(dec("10000")),
		"unpaid interest compounds: got %s", last.RemainingBalance)
}

func TestSimulateDeterminism(t *testing.T) {
	input := simpleInput("400",
		domain.Debt{ID: "visa", Name: "Visa", Balance: dec("3000"), APR: dec("22"), MinimumPayment: dec("90")},
		domain.Debt{ID: "car", Name: "Car", Balance: dec("8000"), APR: dec("6"), MinimumPayment: dec("250")},
	)
	input.Events = []whatif.Event{
		&whatif.ExtraPayment{AtMonth: 3, DebtID: "visa", Amount: dec("500")},
	}

	engine := NewEngine()
	first, err := engine.Simulate(input)
	require.NoError(t, err)
	second, err := engine.Simulate(input)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "identical inputs must produce identical output")
}

func TestSimulateConservation(t *testing.T) {
	scenario, err := NewEngine().Simulate(simpleInput("400",
		domain.Debt{ID: "visa", Name: "Visa", Balance: dec("3000"), APR: dec("22"), MinimumPayment: dec("90")},
		domain.Debt{ID: "car", Name: "Car", Balance: dec("8000"), APR: dec("6"), MinimumPayment: dec("250")},
	))
	require.NoError(t, err)

	sumInterest := decimal.Zero
	sumPaid := decimal.Zero
	for _, item := range scenario.Schedule {
		sumInterest = sumInterest.Add(item.Interest)
		sumPaid = sumPaid.Add(item.Payment)
	}
	assert.True(t, scenario.TotalInterest.Equal(sumInterest))
	assert.True(t, scenario.TotalPaid.Equal(sumPaid))

	// Principal plus interest accounts for every dollar paid.
	assert.True(t, scenario.TotalPaid.Sub(scenario.TotalInterest).Equal(dec("11000")),
		"principal paid must equal the starting balances, got %s",
		scenario.TotalPaid.Sub(scenario.TotalInterest))
}

func TestSimulateBalancesNeverIncrease(t *testing.T) {
	scenario, err := NewEngine().Simulate(simpleInput("400",
		domain.Debt{ID: "visa", Name: "Visa", Balance: dec("3000"), APR: dec("22"), MinimumPayment: dec("90")},
		domain.Debt{ID: "car", Name: "Car", Balance: dec("8000"), APR: dec("6"), MinimumPayment: dec("250")},
	))
	require.NoError(t, err)

	last := map[string]decimal.Decimal{}
	for _, item := range scenario.Schedule {
		if prev, ok := last[item.DebtID]; ok {
			assert.True(t, item.RemainingBalance.LessThanOrEqual(prev),
				"debt %s grew from %s to %s in month %d", item.DebtID, prev, item.RemainingBalance, item.Month)
		}
		last[item.DebtID] = item.RemainingBalance
	}
}

func TestSimulateHigherBudgetNeverLoses(t *testing.T) {
	debts := []domain.Debt{
		{ID: "visa", Name: "Visa", Balance: dec("3000"), APR: dec("22"), MinimumPayment: dec("90")},
		{ID: "car", Name: "Car", Balance: dec("8000"), APR: dec("6"), MinimumPayment: dec("250")},
	}
	tight, err := NewEngine().Simulate(simpleInput("340", debts...))
	require.NoError(t, err)
	roomy, err := NewEngine().Simulate(simpleInput("500", debts...))
	require.NoError(t, err)

	assert.LessOrEqual(t, roomy.TotalMonths, tight.TotalMonths)
	assert.True(t, roomy.TotalInterest.LessThanOrEqual(tight.TotalInterest))
}

func TestSimulateSnowballVersusAvalanche(t *testing.T) {
	debts := []domain.Debt{
		{ID: "small", Name: "Small", Balance: dec("1000"), APR: dec("5"), MinimumPayment: dec("25")},
		{ID: "big", Name: "Big", Balance: dec("10000"), APR: dec("25"), MinimumPayment: dec("250")},
	}

	input := simpleInput("450", debts...)
	input.Strategy = domain.StrategySnowball
	snowball, err := NewEngine().Simulate(input)
	require.NoError(t, err)

	input.Strategy = domain.StrategyAvalanche
	avalanche, err := NewEngine().Simulate(input)
	require.NoError(t, err)

	assert.Less(t, summaryFor(t, snowball, "small").MonthsToPayoff,
		summaryFor(t, avalanche, "small").MonthsToPayoff,
		"snowball retires the small balance sooner")
	assert.True(t, avalanche.TotalInterest.LessThanOrEqual(snowball.TotalInterest),
		"avalanche never pays more interest")
}

func TestSimulateCustomOrderDirectsWaterfall(t *testing.T) {
	input := simpleInput("200",
		domain.Debt{ID: "a", Name: "A", Balance: dec("600"), APR: dec("0"), MinimumPayment: dec("50")},
		domain.Debt{ID: "b", Name: "B", Balance: dec("1200"), APR: dec("0"), MinimumPayment: dec("100")},
	)
	input.Strategy = domain.StrategyCustom
	input.CustomOrder = []string{"b", "a"}

	scenario, err := NewEngine().Simulate(input)
	require.NoError(t, err)

	assert.Equal(t, 8, summaryFor(t, scenario, "b").MonthsToPayoff)
	assert.Equal(t, 9, summaryFor(t, scenario, "a").MonthsToPayoff)
	assert.Equal(t, 9, scenario.TotalMonths)
	assert.True(t, scenario.TotalPaid.Equal(dec("1800")))
}

func TestSimulateDefaultsNameToStrategy(t *testing.T) {
	scenario, err := NewEngine().Simulate(simpleInput("100",
		domain.Debt{ID: "a", Name: "A", Balance: dec("100"), APR: dec("0"), MinimumPayment: dec("100")},
	))
	require.NoError(t, err)
	assert.Equal(t, "Avalanche Strategy", scenario.Name)

	input := simpleInput("100",
		domain.Debt{ID: "a", Name: "A", Balance: dec("100"), APR: dec("0"), MinimumPayment: dec("100")})
	input.Name = "My Plan"
	scenario, err = NewEngine().Simulate(input)
	require.NoError(t, err)
	assert.Equal(t, "My Plan", scenario.Name)
}
