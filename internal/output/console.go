package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/debtsim/debtsim/internal/domain"
)

var (
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	goodStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// ConsoleFormatter renders a human-readable report. Verbose adds the full
// month-by-month schedule.
type ConsoleFormatter struct {
	Verbose bool
}

func (c ConsoleFormatter) Name() string {
	if c.Verbose {
		return "console-verbose"
	}
	return "console"
}

func (c ConsoleFormatter) Format(scenario *domain.PayoffScenario) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render(scenario.Name))
	fmt.Fprintln(&buf)

	stat := func(label, value string) {
		fmt.Fprintf(&buf, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), value)
	}
	stat("Strategy", string(scenario.Strategy))
	stat("Monthly payment", FormatCurrency(scenario.MonthlyPayment))
	stat("Months to payoff", fmt.Sprintf("%d", scenario.TotalMonths))
	stat("Payoff date", scenario.PayoffDate.Format("January 2006"))
	stat("Total interest", FormatCurrency(scenario.TotalInterest))
	stat("Total paid", FormatCurrency(scenario.TotalPaid))
	stat("Avg monthly interest", FormatCurrency(scenario.AverageMonthlyInterest()))

	if scenario.NeverPaysOff {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, errStyle.Render("  This debt load never pays off at this budget."))
	}
	for _, w := range scenario.Warnings {
		fmt.Fprintln(&buf, warnStyle.Render("  ⚠ "+w))
	}

	if len(scenario.DebtSummaries) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, headerStyle.Render("  DEBTS"))
		fmt.Fprintf(&buf, "  %-24s %12s %12s %12s %8s\n", "Debt", "Balance", "Paid", "Interest", "Months")
		for _, s := range scenario.DebtSummaries {
			months := "-"
			if s.MonthsToPayoff > 0 {
				months = fmt.Sprintf("%d", s.MonthsToPayoff)
			}
			fmt.Fprintf(&buf, "  %-24s %12s %12s %12s %8s\n",
				truncate(s.DebtName, 24),
				FormatCurrency(s.OriginalBalance),
				FormatCurrency(s.TotalPaid),
				FormatCurrency(s.TotalInterest),
				months)
		}
	}

	c.writeEvents(&buf, scenario)

	if c.Verbose && len(scenario.Schedule) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, headerStyle.Render("  SCHEDULE"))
		fmt.Fprintf(&buf, "  %5s %-12s %-24s %12s %12s %12s %12s\n",
			"Month", "Date", "Debt", "Payment", "Principal", "Interest", "Remaining")
		for _, item := range scenario.Schedule {
			fmt.Fprintf(&buf, "  %5d %-12s %-24s %12s %12s %12s %12s\n",
				item.Month,
				item.Date.Format("2006-01-02"),
				truncate(item.DebtName, 24),
				FormatCurrency(item.Payment),
				FormatCurrency(item.Principal),
				FormatCurrency(item.Interest),
				FormatCurrency(item.RemainingBalance))
		}
	}

	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeEvents(buf *bytes.Buffer, scenario *domain.PayoffScenario) {
	ev := scenario.Events
	total := len(ev.ExtraPayments) + len(ev.Consolidations) + len(ev.Settlements) +
		len(ev.BalanceTransfers) + len(ev.RateChanges)
	if total == 0 {
		return
	}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, headerStyle.Render("  EVENTS"))
	for _, r := range ev.ExtraPayments {
		fmt.Fprintf(buf, "  month %d: extra payment of %s toward %s\n",
			r.Month, FormatCurrency(r.Amount), r.DebtID)
	}
	for _, r := range ev.Consolidations {
		fmt.Fprintf(buf, "  month %d: consolidated %s into %s at %s over %d months\n",
			r.Month, strings.Join(r.SourceDebtIDs, ", "), r.NewDebtID,
			FormatPercentage(r.NewAPR), r.TermMonths)
	}
	for _, r := range ev.Settlements {
		fmt.Fprintf(buf, "  month %d: settled %s for %s %s\n",
			r.Month, r.DebtID, FormatCurrency(r.SettledAmount),
			goodStyle.Render("("+FormatCurrency(r.ForgivenAmount)+" forgiven)"))
	}
	for _, r := range ev.BalanceTransfers {
		fmt.Fprintf(buf, "  month %d: transferred %s from %s to %s at %s\n",
			r.Month, FormatCurrency(r.TransferredAmount), r.SourceDebtID,
			r.TargetDebtID, FormatPercentage(r.NewAPR))
	}
	for _, r := range ev.RateChanges {
		fmt.Fprintf(buf, "  month %d: APR on %s changed %s -> %s\n",
			r.Month, r.DebtID, FormatPercentage(r.OldAPR), FormatPercentage(r.NewAPR))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
