package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PayoffEpsilon is the balance threshold below which a debt counts as paid off.
// Mirrors the one-cent guard used throughout the schedule arithmetic.
var PayoffEpsilon = decimal.NewFromFloat(0.01)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Debt is an immutable debt as provided by the caller. Monetary fields use
// decimal to keep simulation output reproducible bit-for-bit.
type Debt struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Balance        decimal.Decimal `json:"balance" yaml:"balance"`
	APR            decimal.Decimal `json:"apr" yaml:"apr"`
	MinimumPayment decimal.Decimal `json:"minimumPayment" yaml:"minimum_payment"`

	// Pass-through metadata with no effect on the simulation.
	Lender       string `json:"lender,omitempty" yaml:"lender,omitempty"`
	DebtType     string `json:"debtType,omitempty" yaml:"debt_type,omitempty"`
	IsDelinquent bool   `json:"isDelinquent,omitempty" yaml:"is_delinquent,omitempty"`
}

// Validate rejects debts that would make a simulation meaningless. Negative
// inputs are rejected rather than clamped.
func (d *Debt) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("debt id is required")
	}
	if d.Name == "" {
		return fmt.Errorf("debt %s: name is required", d.ID)
	}
	if d.Balance.LessThan(decimal.Zero) {
		return fmt.Errorf("debt %s: balance cannot be negative", d.ID)
	}
	if d.APR.LessThan(decimal.Zero) {
		return fmt.Errorf("debt %s: APR cannot be negative", d.ID)
	}
	if d.MinimumPayment.LessThan(decimal.Zero) {
		return fmt.Errorf("debt %s: minimum payment cannot be negative", d.ID)
	}
	return nil
}

// ValidateDebts validates a debt set and checks for duplicate ids.
func ValidateDebts(debts []Debt) error {
	seen := make(map[string]bool, len(debts))
	for i := range debts {
		if err := debts[i].Validate(); err != nil {
			return fmt.Errorf("debt %d validation failed: %w", i, err)
		}
		if seen[debts[i].ID] {
			return fmt.Errorf("duplicate debt id: %s", debts[i].ID)
		}
		seen[debts[i].ID] = true
	}
	return nil
}

// WorkingDebt is the mutable simulation state for one debt. A fresh copy is
// created per run and never shared across runs.
type WorkingDebt struct {
	Debt
	RemainingBalance decimal.Decimal
}

// NewWorkingDebt creates a working copy with the remaining balance seeded from
// the input balance.
func NewWorkingDebt(d Debt) *WorkingDebt {
	return &WorkingDebt{Debt: d, RemainingBalance: d.Balance}
}

// NewWorkingDebts creates working copies for an entire debt set.
func NewWorkingDebts(debts []Debt) []*WorkingDebt {
	working := make([]*WorkingDebt, 0, len(debts))
	for _, d := range debts {
		working = append(working, NewWorkingDebt(d))
	}
	return working
}

// IsPaidOff reports whether the remaining balance is within the payoff epsilon.
func (wd *WorkingDebt) IsPaidOff() bool {
	return wd.RemainingBalance.LessThanOrEqual(PayoffEpsilon)
}

// MonthlyInterest returns the interest accrued on the remaining balance for one
// month: balance x APR / 100 / 12.
func (wd *WorkingDebt) MonthlyInterest() decimal.Decimal {
	return wd.RemainingBalance.Mul(wd.APR).Div(hundred).Div(twelve)
}
