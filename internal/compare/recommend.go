package compare

import (
	"fmt"
	"time"

	"github.com/debtsim/debtsim/internal/calculation"
	"github.com/debtsim/debtsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation is the outcome of running snowball and avalanche over the
// same debt set and picking one.
type Recommendation struct {
	RecommendedStrategy domain.Strategy `json:"recommendedStrategy"`
	ConfidenceScore     decimal.Decimal `json:"confidenceScore"` // 0-100
	Rationale           string          `json:"rationale"`

	Snowball  *domain.PayoffScenario `json:"snowballScenario"`
	Avalanche *domain.PayoffScenario `json:"avalancheScenario"`

	InterestDifference   decimal.Decimal `json:"interestDifference"`
	TimeDifferenceMonths int             `json:"timeDifferenceMonths"`
	Factors              []string        `json:"factors"`
}

// RecommendStrategy simulates both standard strategies and recommends one.
// Avalanche wins whenever it saves interest; otherwise snowball wins on the
// motivational value of early payoffs.
func RecommendStrategy(engine *calculation.Engine, debts []domain.Debt, monthlyBudget decimal.Decimal, startDate time.Time) (*Recommendation, error) {
	snowball, err := engine.Simulate(calculation.SimulationInput{
		Debts:         debts,
		Strategy:      domain.StrategySnowball,
		MonthlyBudget: monthlyBudget,
		StartDate:     startDate,
	})
	if err != nil {
		return nil, fmt.Errorf("snowball simulation failed: %w", err)
	}
	avalanche, err := engine.Simulate(calculation.SimulationInput{
		Debts:         debts,
		Strategy:      domain.StrategyAvalanche,
		MonthlyBudget: monthlyBudget,
		StartDate:     startDate,
	})
	if err != nil {
		return nil, fmt.Errorf("avalanche simulation failed: %w", err)
	}

	rec := &Recommendation{
		Snowball:             snowball,
		Avalanche:            avalanche,
		InterestDifference:   snowball.TotalInterest.Sub(avalanche.TotalInterest),
		TimeDifferenceMonths: snowball.TotalMonths - avalanche.TotalMonths,
	}

	if rec.InterestDifference.GreaterThan(decimal.Zero) {
		rec.RecommendedStrategy = domain.StrategyAvalanche
		rec.Rationale = fmt.Sprintf("avalanche saves $%s in interest over snowball",
			rec.InterestDifference.StringFixed(2))
		rec.Factors = append(rec.Factors, "avalanche pays less total interest")
	} else {
		rec.RecommendedStrategy = domain.StrategySnowball
		rec.Rationale = "snowball costs no more than avalanche and pays off small balances sooner"
		rec.Factors = append(rec.Factors, "early payoffs build momentum")
	}
	if rec.TimeDifferenceMonths != 0 {
		rec.Factors = append(rec.Factors,
			fmt.Sprintf("payoff horizons differ by %d months", abs(rec.TimeDifferenceMonths)))
	}

	hasDelinquent := false
	totalMinimums := decimal.Zero
	for _, d := range debts {
		if d.IsDelinquent {
			hasDelinquent = true
		}
		totalMinimums = totalMinimums.Add(d.MinimumPayment)
	}
	cashFlowRatio := decimal.Zero
	if totalMinimums.GreaterThan(decimal.Zero) {
		cashFlowRatio = monthlyBudget.Div(totalMinimums)
	}
	rec.ConfidenceScore = ConfidenceScore(len(debts), hasDelinquent, cashFlowRatio)
	if hasDelinquent {
		rec.Factors = append(rec.Factors, "delinquent debts lower confidence")
	}

	return rec, nil
}

// ConfidenceScore scores how much weight to put on a recommendation, 0-100.
// Many debts, delinquency, and tight cash flow all reduce it.
func ConfidenceScore(debtCount int, hasDelinquent bool, cashFlowRatio decimal.Decimal) decimal.Decimal {
	score := decimal.NewFromInt(100)

	switch {
	case debtCount > 10:
		score = score.Mul(decimal.NewFromFloat(0.8))
	case debtCount > 5:
		score = score.Mul(decimal.NewFromFloat(0.9))
	}

	if hasDelinquent {
		score = score.Mul(decimal.NewFromFloat(0.7))
	}

	switch {
	case cashFlowRatio.LessThan(decimal.NewFromFloat(1.1)):
		score = score.Mul(decimal.NewFromFloat(0.8))
	case cashFlowRatio.LessThan(decimal.NewFromFloat(1.2)):
		score = score.Mul(decimal.NewFromFloat(0.9))
	}

	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
