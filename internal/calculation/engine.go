// Package calculation implements the month-by-month multi-debt payoff
// simulation: strategy ordering, minimum-payment processing, the leftover
// waterfall, and what-if event injection.
package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/debtsim/debtsim/internal/domain"
	"github.com/debtsim/debtsim/internal/whatif"
	"github.com/shopspring/decimal"
)

// MaxMonths is the hard safety bound on the simulation loop: 50 years. Not a
// tunable.
const MaxMonths = 600

// ErrInsufficientBudget is returned when the monthly budget cannot cover the
// minimum payments of the active debts.
var ErrInsufficientBudget = errors.New("insufficient budget")

// InterestPolicy controls what happens when a minimum payment underfunds the
// month's interest.
type InterestPolicy string

const (
	// NonCapitalizing leaves unpaid interest off the balance: the balance
	// neither grows nor shrinks that month.
	NonCapitalizing InterestPolicy = "non_capitalizing"
	// Capitalizing adds unpaid interest onto the balance.
	Capitalizing InterestPolicy = "capitalizing"
)

// Logger lets callers observe engine diagnostics. The default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// SimulationInput is everything one run needs. The engine copies the debt set
// into private working state, so concurrent runs over the same input are safe.
type SimulationInput struct {
	Name          string // optional scenario name; defaults to the strategy's display name
	Debts         []domain.Debt
	Strategy      domain.Strategy
	MonthlyBudget decimal.Decimal
	StartDate     time.Time
	CustomOrder   []string // explicit order for the custom strategy
	Events        []whatif.Event
}

// Engine runs payoff simulations. It holds no per-run state; a single Engine
// may be shared across goroutines.
type Engine struct {
	InterestPolicy InterestPolicy
	logger         Logger
}

// NewEngine creates an engine with the non-capitalizing interest policy.
func NewEngine() *Engine {
	return &Engine{InterestPolicy: NonCapitalizing, logger: noopLogger{}}
}

// SetLogger installs a diagnostics logger. Passing nil restores the no-op
// logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.logger = noopLogger{}
	} else {
		e.logger = l
	}
}

// Simulate produces the full amortization schedule and summary statistics for
// one scenario. Validation failures return errors; mid-run anomalies (safety
// cap, skipped events) surface as flags and warnings on the returned scenario.
func (e *Engine) Simulate(input SimulationInput) (*domain.PayoffScenario, error) {
	strategy, err := domain.ParseStrategy(string(input.Strategy))
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDebts(input.Debts); err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = strategy.DisplayName()
	}

	// An empty debt set short-circuits to a zero-month scenario.
	if len(input.Debts) == 0 {
		return &domain.PayoffScenario{
			Name:           name,
			Strategy:       strategy,
			MonthlyPayment: input.MonthlyBudget,
			StartDate:      input.StartDate,
			PayoffDate:     input.StartDate,
			TotalInterest:  decimal.Zero,
			TotalPaid:      decimal.Zero,
			Schedule:       []domain.ScheduleLineItem{},
			DebtSummaries:  []domain.DebtSummary{},
		}, nil
	}

	if input.MonthlyBudget.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("monthly budget must be positive, got %s", input.MonthlyBudget)
	}
	if err := e.checkBudget(input); err != nil {
		return nil, err
	}

	schedule, err := whatif.NewSchedule(input.Events)
	if err != nil {
		return nil, err
	}

	ordered := Order(domain.NewWorkingDebts(input.Debts), strategy, input.CustomOrder)
	rec := newRecorder(input.StartDate, ordered)
	log := &domain.EventLog{}

	var warnings []string
	shortfallWarned := false
	neverPaysOff := false

	month := 0
	for anyOutstanding(ordered) {
		if month >= MaxMonths {
			neverPaysOff = true
			e.logger.Warnf("safety cap of %d months reached with balance outstanding", MaxMonths)
			warnings = append(warnings,
				fmt.Sprintf("simulation stopped at the %d-month safety cap with balance remaining", MaxMonths))
			break
		}
		month++
		date := input.StartDate.AddDate(0, month, 0)

		// Phase 1: apply what-if events scheduled for this month.
		if events := schedule.At(month); len(events) > 0 {
			ctx := &whatif.Context{
				Debts:         ordered,
				Log:           log,
				ExtraPaid:     decimal.Zero,
				ScheduleEvent: schedule.Add,
			}
			for _, ev := range events {
				if err := ev.Apply(ctx); err != nil {
					return nil, fmt.Errorf("event %s at month %d failed: %w", ev.Name(), month, err)
				}
			}
			for _, w := range ctx.Warnings() {
				e.logger.Warnf("%s", w)
			}
			warnings = append(warnings, ctx.Warnings()...)

			ordered = ctx.Debts
			if ctx.Reorder {
				ordered = Order(ordered, strategy, input.CustomOrder)
			}
			if ctx.ExtraPaid.GreaterThan(decimal.Zero) {
				rec.AddEventPayment(ctx.ExtraPaid)
			}
			for _, wd := range ordered {
				if wd.IsPaidOff() {
					wd.RemainingBalance = decimal.Zero
					rec.MarkPaidOff(wd, month)
				}
			}
		}

		// Phase 2: minimum payments on every active debt, in strategy order.
		leftover := input.MonthlyBudget
		for _, wd := range ordered {
			if wd.IsPaidOff() {
				continue
			}
			interest := wd.MonthlyInterest()
			payment := decimal.Min(wd.MinimumPayment, wd.RemainingBalance.Add(interest))
			interestPortion := decimal.Min(interest, payment)
			principal := payment.Sub(interestPortion)

			wd.RemainingBalance = wd.RemainingBalance.Sub(principal)
			if e.InterestPolicy == Capitalizing {
				if unpaid := interest.Sub(interestPortion); unpaid.GreaterThan(decimal.Zero) {
					wd.RemainingBalance = wd.RemainingBalance.Add(unpaid)
				}
			}
			if wd.IsPaidOff() {
				wd.RemainingBalance = decimal.Zero
				rec.MarkPaidOff(wd, month)
			}

			rec.Record(month, date, wd, payment, principal, interestPortion)
			leftover = leftover.Sub(payment)
		}

		// Only possible when an event pushed the minimums above the budget
		// mid-run; the run continues and the overrun is surfaced once.
		if leftover.IsNegative() && !shortfallWarned {
			shortfallWarned = true
			w := fmt.Sprintf("minimum payments exceeded the monthly budget starting in month %d", month)
			e.logger.Warnf("%s", w)
			warnings = append(warnings, w)
		}

		// Phase 3: waterfall the leftover onto the first eligible debt.
		if leftover.GreaterThan(domain.PayoffEpsilon) {
			if target := SelectWaterfallTarget(ordered); target != nil {
				extra := decimal.Min(leftover, target.RemainingBalance)
				target.RemainingBalance = target.RemainingBalance.Sub(extra)
				if target.IsPaidOff() {
					target.RemainingBalance = decimal.Zero
					rec.MarkPaidOff(target, month)
				}
				rec.AddWaterfall(month, target, extra)
			}
		}
	}

	totalMonths := rec.TotalMonths()
	return &domain.PayoffScenario{
		Name:           name,
		Strategy:       strategy,
		MonthlyPayment: input.MonthlyBudget,
		StartDate:      input.StartDate,
		TotalMonths:    totalMonths,
		PayoffDate:     input.StartDate.AddDate(0, totalMonths, 0),
		TotalInterest:  rec.totalInterest,
		TotalPaid:      rec.totalPaid,
		NeverPaysOff:   neverPaysOff,
		Warnings:       warnings,
		Schedule:       rec.schedule,
		DebtSummaries:  rec.Summaries(),
		Events:         *log,
	}, nil
}

// checkBudget fails fast when the budget cannot cover the minimums of the
// debts that still carry a balance.
func (e *Engine) checkBudget(input SimulationInput) error {
	totalMinimums := decimal.Zero
	for _, d := range input.Debts {
		if d.Balance.GreaterThan(domain.PayoffEpsilon) {
			totalMinimums = totalMinimums.Add(d.MinimumPayment)
		}
	}
	if input.MonthlyBudget.LessThan(totalMinimums) {
		shortfall := totalMinimums.Sub(input.MonthlyBudget)
		return fmt.Errorf("%w: monthly budget $%s falls $%s short of the $%s needed for minimum payments",
			ErrInsufficientBudget,
			input.MonthlyBudget.StringFixed(2),
			shortfall.StringFixed(2),
			totalMinimums.StringFixed(2))
	}
	return nil
}

func anyOutstanding(debts []*domain.WorkingDebt) bool {
	for _, wd := range debts {
		if !wd.IsPaidOff() {
			return true
		}
	}
	return false
}
