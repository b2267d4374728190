package calculation

import (
	"time"

	"github.com/debtsim/debtsim/internal/domain"
	"github.com/shopspring/decimal"
)

// recorder accumulates schedule line items and per-debt totals for one run,
// then derives the scenario-level aggregates.
type recorder struct {
	startDate time.Time

	schedule []domain.ScheduleLineItem
	totals   map[string]*debtTotals
	seen     []string // debt ids in first-seen order

	totalInterest decimal.Decimal
	totalPaid     decimal.Decimal
	lastMonth     int
}

type debtTotals struct {
	name            string
	originalBalance decimal.Decimal
	totalPaid       decimal.Decimal
	totalInterest   decimal.Decimal
	monthsToPayoff  int
}

func newRecorder(startDate time.Time, debts []*domain.WorkingDebt) *recorder {
	r := &recorder{
		startDate:     startDate,
		totals:        make(map[string]*debtTotals),
		totalInterest: decimal.Zero,
		totalPaid:     decimal.Zero,
	}
	for _, wd := range debts {
		r.track(wd)
	}
	return r
}

// track ensures a totals entry exists for a debt. Debts created mid-run by
// events are picked up on their first recorded payment.
func (r *recorder) track(wd *domain.WorkingDebt) *debtTotals {
	if t, ok := r.totals[wd.ID]; ok {
		return t
	}
	t := &debtTotals{
		name:            wd.Name,
		originalBalance: wd.Balance,
		totalPaid:       decimal.Zero,
		totalInterest:   decimal.Zero,
	}
	r.totals[wd.ID] = t
	r.seen = append(r.seen, wd.ID)
	return t
}

// Record appends a line item for one (month, debt) payment.
func (r *recorder) Record(month int, date time.Time, wd *domain.WorkingDebt, payment, principal, interest decimal.Decimal) {
	t := r.track(wd)
	t.totalPaid = t.totalPaid.Add(payment)
	t.totalInterest = t.totalInterest.Add(interest)

	r.totalInterest = r.totalInterest.Add(interest)
	r.totalPaid = r.totalPaid.Add(payment)
	r.lastMonth = month

	r.schedule = append(r.schedule, domain.ScheduleLineItem{
		Month:            month,
		Date:             date,
		DebtID:           wd.ID,
		DebtName:         wd.Name,
		Payment:          payment,
		Principal:        principal,
		Interest:         interest,
		RemainingBalance: decimal.Max(decimal.Zero, wd.RemainingBalance),
	})
}

// AddWaterfall folds waterfall principal into the debt's line item for the
// month, so each (month, debt) pair stays a single schedule entry.
func (r *recorder) AddWaterfall(month int, wd *domain.WorkingDebt, extra decimal.Decimal) {
	t := r.track(wd)
	t.totalPaid = t.totalPaid.Add(extra)
	r.totalPaid = r.totalPaid.Add(extra)

	for i := len(r.schedule) - 1; i >= 0; i-- {
		item := &r.schedule[i]
		if item.DebtID == wd.ID && item.Month == month {
			item.Payment = item.Payment.Add(extra)
			item.Principal = item.Principal.Add(extra)
			item.RemainingBalance = decimal.Max(decimal.Zero, wd.RemainingBalance)
			return
		}
	}
}

// AddEventPayment counts out-of-budget money applied by what-if events toward
// the scenario's total paid.
func (r *recorder) AddEventPayment(amount decimal.Decimal) {
	r.totalPaid = r.totalPaid.Add(amount)
}

// MarkPaidOff records the payoff month for a debt the first time its balance
// reaches zero.
func (r *recorder) MarkPaidOff(wd *domain.WorkingDebt, month int) {
	t := r.track(wd)
	if t.monthsToPayoff == 0 {
		t.monthsToPayoff = month
	}
}

// Summaries returns the per-debt rollups in first-seen order.
func (r *recorder) Summaries() []domain.DebtSummary {
	summaries := make([]domain.DebtSummary, 0, len(r.seen))
	for _, id := range r.seen {
		t := r.totals[id]
		s := domain.DebtSummary{
			DebtID:          id,
			DebtName:        t.name,
			OriginalBalance: t.originalBalance,
			TotalPaid:       t.totalPaid,
			TotalInterest:   t.totalInterest,
			MonthsToPayoff:  t.monthsToPayoff,
		}
		if t.monthsToPayoff > 0 {
			s.PayoffDate = r.startDate.AddDate(0, t.monthsToPayoff, 0)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// TotalMonths is the index of the last month with any recorded activity.
func (r *recorder) TotalMonths() int {
	return r.lastMonth
}
