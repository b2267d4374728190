package config

import (
	"testing"

	"github.com/debtsim/debtsim/internal/domain"
	"github.com/debtsim/debtsim/internal/whatif"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `
plan:
  name: "Test Plan"
  monthly_budget: 1250
  strategy: avalanche
  start_date: 2026-09-01T00:00:00Z

debts:
  - id: visa
    name: "Visa Card"
    balance: 6200
    apr: 24.99
    minimum_payment: 155
    debt_type: credit_card
  - id: car
    name: "Auto Loan"
    balance: 11400
    apr: 6.4
    minimum_payment: 310

events:
  - type: extra_payment
    month: 3
    debt: visa
    amount: 500
  - type: balance_transfer
    month: 6
    from: visa
    to: promo
    name: "Promo Card"
    amount: 3000
    apr: 0
    fee: 90
    promo_months: 12
    post_promo_apr: 21.99
`

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseSamplePlan(t *testing.T) {
	cfg, err := NewInputParser().Parse([]byte(samplePlan))
	require.NoError(t, err)

	assert.Equal(t, "Test Plan", cfg.Plan.Name)
	assert.True(t, cfg.Plan.MonthlyBudget.Equal(dec("1250")))
	assert.Equal(t, "avalanche", cfg.Plan.Strategy)
	assert.Equal(t, 2026, cfg.Plan.StartDate.Year())

	require.Len(t, cfg.Debts, 2)
	assert.True(t, cfg.Debts[0].APR.Equal(dec("24.99")))
	assert.Equal(t, "credit_card", cfg.Debts[0].DebtType)

	require.Len(t, cfg.Events, 2)
	assert.Equal(t, "balance_transfer", cfg.Events[1].Type)
	assert.Equal(t, 12, cfg.Events[1].PromoMonths)
}

func TestSimulationInputConversion(t *testing.T) {
	cfg, err := NewInputParser().Parse([]byte(samplePlan))
	require.NoError(t, err)

	input, err := cfg.SimulationInput()
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyAvalanche, input.Strategy)
	assert.Len(t, input.Debts, 2)
	require.Len(t, input.Events, 2)

	ep, ok := input.Events[0].(*whatif.ExtraPayment)
	require.True(t, ok)
	assert.Equal(t, 3, ep.AtMonth)
	assert.True(t, ep.Amount.Equal(dec("500")))

	bt, ok := input.Events[1].(*whatif.BalanceTransfer)
	require.True(t, ok)
	assert.Equal(t, "Promo Card", bt.TargetDebtName)
	assert.True(t, bt.PostPromoAPR.Equal(dec("21.99")))
}

func TestParseRejectsInvalidPlans(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			"bad yaml",
			`plan: [`,
			"failed to parse YAML",
		},
		{
			"unknown strategy",
			`
plan:
  monthly_budget: 100
  strategy: alphabetical
  start_date: 2026-09-01T00:00:00Z
debts:
  - {id: a, name: A, balance: 100, apr: 0, minimum_payment: 10}
`,
			"invalid strategy",
		},
		{
			"zero budget",
			`
plan:
  monthly_budget: 0
  strategy: snowball
  start_date: 2026-09-01T00:00:00Z
debts:
  - {id: a, name: A, balance: 100, apr: 0, minimum_payment: 10}
`,
			"monthly budget must be positive",
		},
		{
			"missing start date",
			`
plan:
  monthly_budget: 100
  strategy: snowball
debts:
  - {id: a, name: A, balance: 100, apr: 0, minimum_payment: 10}
`,
			"start date is required",
		},
		{
			"negative balance",
			`
plan:
  monthly_budget: 100
  strategy: snowball
  start_date: 2026-09-01T00:00:00Z
debts:
  - {id: a, name: A, balance: -5, apr: 0, minimum_payment: 10}
`,
			"balance cannot be negative",
		},
		{
			"custom order unknown debt",
			`
plan:
  monthly_budget: 100
  strategy: custom
  start_date: 2026-09-01T00:00:00Z
  custom_order: [a, ghost]
debts:
  - {id: a, name: A, balance: 100, apr: 0, minimum_payment: 10}
`,
			"custom order references unknown debt: ghost",
		},
		{
			"unknown event type",
			`
plan:
  monthly_budget: 100
  strategy: snowball
  start_date: 2026-09-01T00:00:00Z
debts:
  - {id: a, name: A, balance: 100, apr: 0, minimum_payment: 10}
events:
  - type: windfall
    month: 2
`,
			"unknown event type",
		},
		{
			"invalid event parameters",
			`
plan:
  monthly_budget: 100
  strategy: snowball
  start_date: 2026-09-01T00:00:00Z
debts:
  - {id: a, name: A, balance: 100, apr: 0, minimum_payment: 10}
events:
  - type: extra_payment
    month: 0
    debt: a
    amount: 50
`,
			"month must be at least 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile("does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
