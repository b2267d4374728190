package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validDebt() Debt {
	return Debt{
		ID:             "visa",
		Name:           "Visa Card",
		Balance:        dec("5000"),
		APR:            dec("19.99"),
		MinimumPayment: dec("125"),
	}
}

func TestDebtValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Debt)
		wantErr string
	}{
		{"valid", func(d *Debt) {}, ""},
		{"zero balance is valid", func(d *Debt) { d.Balance = decimal.Zero }, ""},
		{"zero apr is valid", func(d *Debt) { d.APR = decimal.Zero }, ""},
		{"missing id", func(d *Debt) { d.ID = "" }, "id is required"},
		{"missing name", func(d *Debt) { d.Name = "" }, "name is required"},
		{"negative balance", func(d *Debt) { d.Balance = dec("-1") }, "balance cannot be negative"},
		{"negative apr", func(d *Debt) { d.APR = dec("-0.5") }, "APR cannot be negative"},
		{"negative minimum", func(d *Debt) { d.MinimumPayment = dec("-10") }, "minimum payment cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDebt()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateDebtsRejectsDuplicateIDs(t *testing.T) {
	a := validDebt()
	b := validDebt()
	b.Name = "Other Card"

	err := ValidateDebts([]Debt{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate debt id: visa")
}

func TestValidateDebtsEmptySetIsValid(t *testing.T) {
	assert.NoError(t, ValidateDebts(nil))
}

func TestNewWorkingDebtSeedsRemainingBalance(t *testing.T) {
	wd := NewWorkingDebt(validDebt())
	assert.True(t, wd.RemainingBalance.Equal(dec("5000")))
	assert.False(t, wd.IsPaidOff())
}

func TestIsPaidOffEpsilon(t *testing.T) {
	wd := NewWorkingDebt(validDebt())

	wd.RemainingBalance = dec("0.01")
	assert.True(t, wd.IsPaidOff(), "one cent counts as paid off")

	wd.RemainingBalance = dec("0.02")
	assert.False(t, wd.IsPaidOff())

	wd.RemainingBalance = decimal.Zero
	assert.True(t, wd.IsPaidOff())
}

func TestMonthlyInterest(t *testing.T) {
	wd := NewWorkingDebt(Debt{
		ID: "loan", Name: "Loan",
		Balance:        dec("12000"),
		APR:            dec("12"),
		MinimumPayment: dec("200"),
	})

	// 12000 * 12 / 100 / 12 = 120
	assert.True(t, wd.MonthlyInterest().Equal(dec("120")),
		"got %s", wd.MonthlyInterest())

	wd.APR = decimal.Zero
	assert.True(t, wd.MonthlyInterest().IsZero())
}
