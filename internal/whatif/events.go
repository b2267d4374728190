package whatif

import (
	"fmt"

	"github.com/debtsim/debtsim/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ExtraPayment applies a one-time payment to a debt's balance, outside the
// monthly waterfall.
type ExtraPayment struct {
	AtMonth int
	DebtID  string
	Amount  decimal.Decimal
}

func (e *ExtraPayment) Name() string { return "extra_payment" }
func (e *ExtraPayment) Month() int   { return e.AtMonth }

func (e *ExtraPayment) Validate() error {
	if e.AtMonth < 1 {
		return fmt.Errorf("month must be at least 1")
	}
	if e.DebtID == "" {
		return fmt.Errorf("debt id is required")
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

func (e *ExtraPayment) Apply(ctx *Context) error {
	wd := ctx.FindDebt(e.DebtID)
	if wd == nil || wd.IsPaidOff() {
		ctx.Warnf("extra payment at month %d skipped: debt %s not found or already paid off", e.AtMonth, e.DebtID)
		return nil
	}
	applied := decimal.Min(e.Amount, wd.RemainingBalance)
	wd.RemainingBalance = wd.RemainingBalance.Sub(applied)
	ctx.ExtraPaid = ctx.ExtraPaid.Add(applied)
	ctx.Log.ExtraPayments = append(ctx.Log.ExtraPayments, domain.ExtraPaymentRecord{
		Month:  e.AtMonth,
		DebtID: e.DebtID,
		Amount: applied,
	})
	return nil
}

// Consolidation removes the source debts and replaces them with a single new
// loan at a new rate and term. The new minimum payment is the standard annuity
// payment for the consolidated balance.
type Consolidation struct {
	AtMonth       int
	SourceDebtIDs []string
	NewDebtID     string
	NewDebtName   string
	NewAPR        decimal.Decimal
	TermMonths    int
	Fee           decimal.Decimal // origination fee added to the new balance
}

func (e *Consolidation) Name() string { return "consolidation" }
func (e *Consolidation) Month() int   { return e.AtMonth }

func (e *Consolidation) Validate() error {
	if e.AtMonth < 1 {
		return fmt.Errorf("month must be at least 1")
	}
	if len(e.SourceDebtIDs) == 0 {
		return fmt.Errorf("at least one source debt is required")
	}
	if e.NewDebtID == "" {
		return fmt.Errorf("new debt id is required")
	}
	if e.NewAPR.LessThan(decimal.Zero) {
		return fmt.Errorf("new APR cannot be negative")
	}
	if e.TermMonths < 1 {
		return fmt.Errorf("term months must be at least 1")
	}
	if e.Fee.LessThan(decimal.Zero) {
		return fmt.Errorf("fee cannot be negative")
	}
	return nil
}

func (e *Consolidation) Apply(ctx *Context) error {
	consolidated := decimal.Zero
	found := 0
	for _, id := range e.SourceDebtIDs {
		wd := ctx.FindDebt(id)
		if wd == nil {
			ctx.Warnf("consolidation at month %d: debt %s not found, skipping it", e.AtMonth, id)
			continue
		}
		consolidated = consolidated.Add(wd.RemainingBalance)
		ctx.RemoveDebt(id)
		found++
	}
	if found == 0 {
		ctx.Warnf("consolidation at month %d skipped: no source debts remain", e.AtMonth)
		return nil
	}

	newBalance := consolidated.Add(e.Fee)
	minimum := AnnuityPayment(newBalance, e.NewAPR, e.TermMonths)

	name := e.NewDebtName
	if name == "" {
		name = "Consolidation Loan"
	}
	wd := domain.NewWorkingDebt(domain.Debt{
		ID:             e.NewDebtID,
		Name:           name,
		Balance:        newBalance,
		APR:            e.NewAPR,
		MinimumPayment: minimum,
	})
	ctx.Debts = append(ctx.Debts, wd)
	ctx.Reorder = true

	ctx.Log.Consolidations = append(ctx.Log.Consolidations, domain.ConsolidationRecord{
		Month:            e.AtMonth,
		SourceDebtIDs:    append([]string(nil), e.SourceDebtIDs...),
		NewDebtID:        e.NewDebtID,
		ConsolidatedFrom: consolidated,
		NewBalance:       newBalance,
		NewAPR:           e.NewAPR,
		NewMinimum:       minimum,
		TermMonths:       e.TermMonths,
	})
	return nil
}

// Settlement replaces a debt's balance with a negotiated settled amount,
// forgiving the remainder.
type Settlement struct {
	AtMonth       int
	DebtID        string
	SettledAmount decimal.Decimal
	Fee           decimal.Decimal
	FinanceFee    bool // roll the fee into the settled balance instead of paying it outright
}

func (e *Settlement) Name() string { return "settlement" }
func (e *Settlement) Month() int   { return e.AtMonth }

func (e *Settlement) Validate() error {
	if e.AtMonth < 1 {
		return fmt.Errorf("month must be at least 1")
	}
	if e.DebtID == "" {
		return fmt.Errorf("debt id is required")
	}
	if e.SettledAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("settled amount cannot be negative")
	}
	if e.Fee.LessThan(decimal.Zero) {
		return fmt.Errorf("fee cannot be negative")
	}
	return nil
}

func (e *Settlement) Apply(ctx *Context) error {
	wd := ctx.FindDebt(e.DebtID)
	if wd == nil || wd.IsPaidOff() {
		ctx.Warnf("settlement at month %d skipped: debt %s not found or already paid off", e.AtMonth, e.DebtID)
		return nil
	}
	original := wd.RemainingBalance
	forgiven := original.Sub(e.SettledAmount)
	if forgiven.LessThan(decimal.Zero) {
		ctx.Warnf("settlement at month %d skipped: settled amount exceeds balance of debt %s", e.AtMonth, e.DebtID)
		return nil
	}

	newBalance := e.SettledAmount
	if e.FinanceFee {
		newBalance = newBalance.Add(e.Fee)
	}
	wd.RemainingBalance = newBalance
	ctx.Reorder = true

	ctx.Log.Settlements = append(ctx.Log.Settlements, domain.SettlementRecord{
		Month:           e.AtMonth,
		DebtID:          e.DebtID,
		OriginalBalance: original,
		SettledAmount:   e.SettledAmount,
		Fee:             e.Fee,
		ForgivenAmount:  forgiven,
	})
	return nil
}

// BalanceTransfer moves part of a debt's balance to another debt at a new APR,
// optionally reverting to a post-promo APR after the promo period.
type BalanceTransfer struct {
	AtMonth           int
	SourceDebtID      string
	TargetDebtID      string
	TargetDebtName    string
	TransferredAmount decimal.Decimal
	Fee               decimal.Decimal
	NewAPR            decimal.Decimal
	PromoMonths       int
	PostPromoAPR      decimal.Decimal
}

func (e *BalanceTransfer) Name() string { return "balance_transfer" }
func (e *BalanceTransfer) Month() int   { return e.AtMonth }

func (e *BalanceTransfer) Validate() error {
	if e.AtMonth < 1 {
		return fmt.Errorf("month must be at least 1")
	}
	if e.SourceDebtID == "" {
		return fmt.Errorf("source debt id is required")
	}
	if e.TargetDebtID == "" {
		return fmt.Errorf("target debt id is required")
	}
	if e.TargetDebtID == e.SourceDebtID {
		return fmt.Errorf("target debt must differ from source debt")
	}
	if e.TransferredAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transferred amount must be positive")
	}
	if e.Fee.LessThan(decimal.Zero) {
		return fmt.Errorf("fee cannot be negative")
	}
	if e.NewAPR.LessThan(decimal.Zero) {
		return fmt.Errorf("new APR cannot be negative")
	}
	if e.PromoMonths < 0 {
		return fmt.Errorf("promo months cannot be negative")
	}
	if e.PromoMonths > 0 && e.PostPromoAPR.LessThan(decimal.Zero) {
		return fmt.Errorf("post-promo APR cannot be negative")
	}
	return nil
}

func (e *BalanceTransfer) Apply(ctx *Context) error {
	source := ctx.FindDebt(e.SourceDebtID)
	if source == nil || source.IsPaidOff() {
		ctx.Warnf("balance transfer at month %d skipped: debt %s not found or already paid off", e.AtMonth, e.SourceDebtID)
		return nil
	}

	transferred := decimal.Min(e.TransferredAmount, source.RemainingBalance)
	source.RemainingBalance = source.RemainingBalance.Sub(transferred)

	target := ctx.FindDebt(e.TargetDebtID)
	if target == nil {
		name := e.TargetDebtName
		if name == "" {
			name = "Balance Transfer Card"
		}
		// The transfer target inherits the source's minimum payment; the card
		// issuer's real minimum is unknowable at simulation time.
		target = domain.NewWorkingDebt(domain.Debt{
			ID:             e.TargetDebtID,
			Name:           name,
			Balance:        decimal.Zero,
			APR:            e.NewAPR,
			MinimumPayment: source.MinimumPayment,
		})
		ctx.Debts = append(ctx.Debts, target)
		ctx.Reorder = true
	}
	target.RemainingBalance = target.RemainingBalance.Add(transferred).Add(e.Fee)
	target.APR = e.NewAPR

	if e.PromoMonths > 0 && ctx.ScheduleEvent != nil {
		ctx.ScheduleEvent(&RateChange{
			AtMonth: e.AtMonth + e.PromoMonths,
			DebtID:  e.TargetDebtID,
			NewAPR:  e.PostPromoAPR,
		})
	}

	ctx.Log.BalanceTransfers = append(ctx.Log.BalanceTransfers, domain.BalanceTransferRecord{
		Month:             e.AtMonth,
		SourceDebtID:      e.SourceDebtID,
		TargetDebtID:      e.TargetDebtID,
		TransferredAmount: transferred,
		Fee:               e.Fee,
		NewAPR:            e.NewAPR,
		PromoMonths:       e.PromoMonths,
		PostPromoAPR:      e.PostPromoAPR,
	})
	return nil
}

// RateChange replaces a debt's APR from its month forward.
type RateChange struct {
	AtMonth int
	DebtID  string
	NewAPR  decimal.Decimal
}

func (e *RateChange) Name() string { return "rate_change" }
func (e *RateChange) Month() int   { return e.AtMonth }

func (e *RateChange) Validate() error {
	if e.AtMonth < 1 {
		return fmt.Errorf("month must be at least 1")
	}
	if e.DebtID == "" {
		return fmt.Errorf("debt id is required")
	}
	if e.NewAPR.LessThan(decimal.Zero) {
		return fmt.Errorf("new APR cannot be negative")
	}
	return nil
}

func (e *RateChange) Apply(ctx *Context) error {
	wd := ctx.FindDebt(e.DebtID)
	if wd == nil || wd.IsPaidOff() {
		ctx.Warnf("rate change at month %d skipped: debt %s not found or already paid off", e.AtMonth, e.DebtID)
		return nil
	}
	old := wd.APR
	wd.APR = e.NewAPR
	// Avalanche priority depends on the current APR.
	ctx.Reorder = true
	ctx.Log.RateChanges = append(ctx.Log.RateChanges, domain.RateChangeRecord{
		Month:  e.AtMonth,
		DebtID: e.DebtID,
		OldAPR: old,
		NewAPR: e.NewAPR,
	})
	return nil
}

// AnnuityPayment returns the fixed monthly payment that amortizes a balance
// over termMonths at the given APR: B*r*(1+r)^n / ((1+r)^n - 1), or B/n when
// the rate is zero.
func AnnuityPayment(balance, apr decimal.Decimal, termMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	if apr.IsZero() {
		return balance.Div(n)
	}
	r := apr.Div(hundred).Div(twelve)
	compound := one.Add(r).Pow(n)
	return balance.Mul(r).Mul(compound).Div(compound.Sub(one))
}
