// Package optimize finds a monthly budget that meets a payoff goal by calling
// the simulation engine repeatedly. It lives outside the engine on purpose:
// the engine computes one scenario, the solver searches over scenarios.
package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/debtsim/debtsim/internal/calculation"
	"github.com/debtsim/debtsim/internal/compare"
	"github.com/debtsim/debtsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Goal defines what outcome the solver searches for.
type Goal string

const (
	// GoalTargetMonths finds the smallest budget that pays everything off
	// within the target number of months.
	GoalTargetMonths Goal = "target_months"
	// GoalMaxBudget evaluates the largest affordable budget directly.
	GoalMaxBudget Goal = "max_budget"
)

// Request describes one optimization run.
type Request struct {
	Debts     []domain.Debt
	Strategy  domain.Strategy
	StartDate time.Time

	Goal             Goal
	TargetMonths     int             // required for GoalTargetMonths
	MaxMonthlyBudget decimal.Decimal // upper bound on spend, required

	MaxIterations int             // 0 means solver default
	Tolerance     decimal.Decimal // budget tolerance, 0 means solver default
}

// Result is the solver's answer plus the scenarios that justify it.
type Result struct {
	RecommendedBudget decimal.Decimal        `json:"recommendedBudget"`
	Scenario          *domain.PayoffScenario `json:"scenario"`
	Baseline          *domain.PayoffScenario `json:"baseline"` // minimum payments only
	SavingsVsMinimum  decimal.Decimal        `json:"savingsVsMinimum"`
	Iterations        int                    `json:"iterations"`
	Converged         bool                   `json:"converged"`
	Rationale         string                 `json:"rationale"`
}

// SolverOptions bound the search.
type SolverOptions struct {
	MaxIterations int
	Tolerance     decimal.Decimal // stop when the budget bracket is this narrow
}

// DefaultSolverOptions returns the standard search bounds.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 60,
		Tolerance:     decimal.NewFromInt(1), // one dollar
	}
}

// Solver searches budgets via bisection over repeated engine runs.
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a solver with explicit options.
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{Engine: engine, Options: options}
}

// NewDefaultSolver creates a solver with default options.
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// OptimizeError wraps a failure inside the solver.
type OptimizeError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *OptimizeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("optimize %s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("optimize %s: %s", e.Operation, e.Message)
}

func (e *OptimizeError) Unwrap() error { return e.Cause }

// Optimize runs the search for the requested goal. The context cancels the
// search between engine runs.
func (s *Solver) Optimize(ctx context.Context, req Request) (*Result, error) {
	if len(req.Debts) == 0 {
		return nil, &OptimizeError{Operation: string(req.Goal), Message: "no debts to optimize"}
	}
	if req.MaxMonthlyBudget.LessThanOrEqual(decimal.Zero) {
		return nil, &OptimizeError{Operation: string(req.Goal), Message: "max monthly budget must be positive"}
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	baseline, err := compare.MinimumPaymentBaseline(s.Engine, req.Debts, req.StartDate)
	if err != nil {
		return nil, &OptimizeError{Operation: string(req.Goal), Message: "baseline simulation failed", Cause: err}
	}

	switch req.Goal {
	case GoalTargetMonths:
		return s.solveTargetMonths(ctx, req, baseline)
	case GoalMaxBudget:
		return s.solveMaxBudget(req, baseline)
	default:
		return nil, &OptimizeError{Operation: "optimize", Message: fmt.Sprintf("unsupported goal: %s", req.Goal)}
	}
}

// solveTargetMonths bisects between the minimum-payment floor and the max
// budget for the smallest budget whose payoff fits inside the target horizon.
func (s *Solver) solveTargetMonths(ctx context.Context, req Request, baseline *domain.PayoffScenario) (*Result, error) {
	if req.TargetMonths < 1 {
		return nil, &OptimizeError{Operation: "target_months", Message: "target months must be at least 1"}
	}

	low := baseline.MonthlyPayment
	high := req.MaxMonthlyBudget
	if high.LessThan(low) {
		return nil, &OptimizeError{
			Operation: "target_months",
			Message: fmt.Sprintf("max budget $%s does not cover minimum payments of $%s",
				high.StringFixed(2), low.StringFixed(2)),
		}
	}

	// The floor might already make the target.
	if !baseline.NeverPaysOff && baseline.TotalMonths <= req.TargetMonths {
		return s.result(req, baseline, baseline, 0, true,
			"minimum payments already meet the target"), nil
	}

	// Check feasibility at the ceiling first.
	best, err := s.run(req, high)
	if err != nil {
		return nil, err
	}
	iterations := 1
	if best.NeverPaysOff || best.TotalMonths > req.TargetMonths {
		res := s.result(req, best, baseline, iterations, false,
			fmt.Sprintf("even $%s per month cannot pay off within %d months", high.StringFixed(2), req.TargetMonths))
		return res, nil
	}

	for iterations < req.MaxIterations && high.Sub(low).GreaterThan(req.Tolerance) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iterations++

		mid := low.Add(high).Div(decimal.NewFromInt(2))
		scenario, err := s.run(req, mid)
		if err != nil {
			return nil, err
		}
		if !scenario.NeverPaysOff && scenario.TotalMonths <= req.TargetMonths {
			best = scenario
			high = mid
		} else {
			low = mid
		}
	}

	return s.result(req, best, baseline, iterations, true,
		fmt.Sprintf("$%s per month pays everything off in %d months",
			best.MonthlyPayment.StringFixed(2), best.TotalMonths)), nil
}

// solveMaxBudget evaluates the affordable ceiling directly.
func (s *Solver) solveMaxBudget(req Request, baseline *domain.PayoffScenario) (*Result, error) {
	scenario, err := s.run(req, req.MaxMonthlyBudget)
	if err != nil {
		return nil, err
	}
	rationale := fmt.Sprintf("putting the full $%s per month toward debt pays everything off in %d months",
		req.MaxMonthlyBudget.StringFixed(2), scenario.TotalMonths)
	if scenario.NeverPaysOff {
		rationale = fmt.Sprintf("$%s per month is not enough: this debt load never pays off",
			req.MaxMonthlyBudget.StringFixed(2))
	}
	return s.result(req, scenario, baseline, 1, !scenario.NeverPaysOff, rationale), nil
}

func (s *Solver) run(req Request, budget decimal.Decimal) (*domain.PayoffScenario, error) {
	scenario, err := s.Engine.Simulate(calculation.SimulationInput{
		Debts:         req.Debts,
		Strategy:      req.Strategy,
		MonthlyBudget: budget,
		StartDate:     req.StartDate,
	})
	if err != nil {
		return nil, &OptimizeError{Operation: string(req.Goal), Message: "simulation failed", Cause: err}
	}
	return scenario, nil
}

func (s *Solver) result(req Request, scenario, baseline *domain.PayoffScenario, iterations int, converged bool, rationale string) *Result {
	return &Result{
		RecommendedBudget: scenario.MonthlyPayment,
		Scenario:          scenario,
		Baseline:          baseline,
		SavingsVsMinimum:  baseline.TotalInterest.Sub(scenario.TotalInterest),
		Iterations:        iterations,
		Converged:         converged,
		Rationale:         rationale,
	}
}
