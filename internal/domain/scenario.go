package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleLineItem is one (month, debt) entry in the amortization schedule.
// Emitted only for debts that entered the month with a balance outstanding.
type ScheduleLineItem struct {
	Month            int             `json:"month"`
	Date             time.Time       `json:"date"`
	DebtID           string          `json:"debtId"`
	DebtName         string          `json:"debtName"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// DebtSummary is the per-debt rollup across the full schedule.
type DebtSummary struct {
	DebtID          string          `json:"debtId"`
	DebtName        string          `json:"debtName"`
	OriginalBalance decimal.Decimal `json:"originalBalance"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	MonthsToPayoff  int             `json:"monthsToPayoff"`
	PayoffDate      time.Time       `json:"payoffDate"`
}

// ExtraPaymentRecord captures a one-time extra payment event, recorded
// separately from waterfall-sourced extra principal.
type ExtraPaymentRecord struct {
	Month  int             `json:"month"`
	DebtID string          `json:"debtId"`
	Amount decimal.Decimal `json:"amount"`
}

// ConsolidationRecord captures a consolidation event.
type ConsolidationRecord struct {
	Month            int             `json:"month"`
	SourceDebtIDs    []string        `json:"sourceDebtIds"`
	NewDebtID        string          `json:"newDebtId"`
	ConsolidatedFrom decimal.Decimal `json:"consolidatedFrom"` // sum of source balances
	NewBalance       decimal.Decimal `json:"newBalance"`       // includes origination fee
	NewAPR           decimal.Decimal `json:"newApr"`
	NewMinimum       decimal.Decimal `json:"newMinimum"`
	TermMonths       int             `json:"termMonths"`
}

// SettlementRecord captures a settlement event. ForgivenAmount is recorded
// exactly once per settlement.
type SettlementRecord struct {
	Month           int             `json:"month"`
	DebtID          string          `json:"debtId"`
	OriginalBalance decimal.Decimal `json:"originalBalance"`
	SettledAmount   decimal.Decimal `json:"settledAmount"`
	Fee             decimal.Decimal `json:"fee"`
	ForgivenAmount  decimal.Decimal `json:"forgivenAmount"`
}

// BalanceTransferRecord captures a balance transfer event.
type BalanceTransferRecord struct {
	Month             int             `json:"month"`
	SourceDebtID      string          `json:"sourceDebtId"`
	TargetDebtID      string          `json:"targetDebtId"`
	TransferredAmount decimal.Decimal `json:"transferredAmount"`
	Fee               decimal.Decimal `json:"fee"`
	NewAPR            decimal.Decimal `json:"newApr"`
	PromoMonths       int             `json:"promoMonths,omitempty"`
	PostPromoAPR      decimal.Decimal `json:"postPromoApr,omitempty"`
}

// RateChangeRecord captures an APR change event.
type RateChangeRecord struct {
	Month  int             `json:"month"`
	DebtID string          `json:"debtId"`
	OldAPR decimal.Decimal `json:"oldApr"`
	NewAPR decimal.Decimal `json:"newApr"`
}

// EventLog collects the structured event records produced during a run, for
// downstream visualization.
type EventLog struct {
	ExtraPayments    []ExtraPaymentRecord    `json:"extraPayments,omitempty"`
	Consolidations   []ConsolidationRecord   `json:"consolidations,omitempty"`
	Settlements      []SettlementRecord      `json:"settlements,omitempty"`
	BalanceTransfers []BalanceTransferRecord `json:"balanceTransfers,omitempty"`
	RateChanges      []RateChangeRecord      `json:"rateChanges,omitempty"`
}

// PayoffScenario is the complete output of one simulation run.
type PayoffScenario struct {
	ScenarioID string   `json:"scenarioId,omitempty"`
	Name       string   `json:"name"`
	Strategy   Strategy `json:"strategy"`

	// Inputs echoed back for display and comparison.
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	StartDate      time.Time       `json:"startDate"`

	// Results.
	TotalMonths   int             `json:"totalMonths"`
	PayoffDate    time.Time       `json:"payoffDate"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`

	// NeverPaysOff is set when the safety cap was reached with balance
	// outstanding. The partial schedule is still returned.
	NeverPaysOff bool     `json:"neverPaysOff,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`

	Schedule      []ScheduleLineItem `json:"schedule"`
	DebtSummaries []DebtSummary      `json:"debtSummaries"`
	Events        EventLog           `json:"events"`
}

// AverageMonthlyInterest returns total interest spread over the schedule length.
func (ps *PayoffScenario) AverageMonthlyInterest() decimal.Decimal {
	if ps.TotalMonths == 0 {
		return decimal.Zero
	}
	return ps.TotalInterest.Div(decimal.NewFromInt(int64(ps.TotalMonths)))
}

// InterestToPrincipalRatio returns interest paid as a percentage of principal
// paid.
func (ps *PayoffScenario) InterestToPrincipalRatio() decimal.Decimal {
	principal := ps.TotalPaid.Sub(ps.TotalInterest)
	if principal.IsZero() {
		return decimal.Zero
	}
	return ps.TotalInterest.Div(principal).Mul(hundred)
}
