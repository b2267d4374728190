package output

import (
	"bytes"
	"fmt"

	"github.com/debtsim/debtsim/internal/compare"
	"github.com/debtsim/debtsim/internal/optimize"
)

// RenderComparison renders a two-scenario comparison for the console.
func RenderComparison(c compare.Comparison) string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("Scenario Comparison"))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "  %-28s %14s %14s\n", "", c.ScenarioA.Name, c.ScenarioB.Name)
	fmt.Fprintf(&buf, "  %-28s %14s %14s\n", labelStyle.Render("Months to payoff"),
		fmt.Sprintf("%d", c.ScenarioA.TotalMonths), fmt.Sprintf("%d", c.ScenarioB.TotalMonths))
	fmt.Fprintf(&buf, "  %-28s %14s %14s\n", labelStyle.Render("Total interest"),
		FormatCurrency(c.ScenarioA.TotalInterest), FormatCurrency(c.ScenarioB.TotalInterest))
	fmt.Fprintf(&buf, "  %-28s %14s %14s\n", labelStyle.Render("Total paid"),
		FormatCurrency(c.ScenarioA.TotalPaid), FormatCurrency(c.ScenarioB.TotalPaid))
	fmt.Fprintf(&buf, "  %-28s %14s %14s\n", labelStyle.Render("Payoff date"),
		c.ScenarioA.PayoffDate.Format("Jan 2006"), c.ScenarioB.PayoffDate.Format("Jan 2006"))

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, goodStyle.Render("  "+c.Recommendation))

	return buf.String()
}

// RenderRecommendation renders a strategy recommendation for the console.
func RenderRecommendation(rec *compare.Recommendation) string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("Strategy Recommendation"))
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "  %s %s\n", labelStyle.Render("Recommended:"), headerStyle.Render(string(rec.RecommendedStrategy)))
	fmt.Fprintf(&buf, "  %s %s/100\n", labelStyle.Render("Confidence: "), rec.ConfidenceScore.StringFixed(0))
	fmt.Fprintf(&buf, "  %s\n", rec.Rationale)
	for _, f := range rec.Factors {
		fmt.Fprintf(&buf, "  %s %s\n", labelStyle.Render("•"), f)
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, RenderComparison(compare.Compare(rec.Snowball, rec.Avalanche)))

	return buf.String()
}

// RenderOptimization renders a budget optimization result for the console.
func RenderOptimization(res *optimize.Result) string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("Budget Optimization"))
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "  %s %s\n", labelStyle.Render("Recommended budget:"), FormatCurrency(res.RecommendedBudget))
	fmt.Fprintf(&buf, "  %s %d\n", labelStyle.Render("Months to payoff:  "), res.Scenario.TotalMonths)
	fmt.Fprintf(&buf, "  %s %s\n", labelStyle.Render("Interest paid:     "), FormatCurrency(res.Scenario.TotalInterest))
	fmt.Fprintf(&buf, "  %s %s\n", labelStyle.Render("Savings vs minimum:"), FormatCurrency(res.SavingsVsMinimum))
	fmt.Fprintln(&buf)
	if res.Converged {
		fmt.Fprintln(&buf, goodStyle.Render("  "+res.Rationale))
	} else {
		fmt.Fprintln(&buf, warnStyle.Render("  "+res.Rationale))
	}

	return buf.String()
}
