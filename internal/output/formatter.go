// Package output renders payoff scenarios for the CLI: a styled console
// report and machine-readable JSON, behind a pluggable formatter interface.
package output

import (
	"encoding/json"

	"github.com/debtsim/debtsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders a payoff scenario to bytes.
type Formatter interface {
	// Name returns the identifier used by the CLI --format flag.
	Name() string
	Format(scenario *domain.PayoffScenario) ([]byte, error)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleFormatter{Verbose: true},
	JSONFormatter{},
}

// GetFormatterByName returns the formatter registered under name, or nil.
func GetFormatterByName(name string) Formatter {
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// FormatterNames lists the registered formatter names.
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// JSONFormatter renders the full scenario as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(scenario *domain.PayoffScenario) ([]byte, error) {
	return json.MarshalIndent(scenario, "", "  ")
}

// FormatCurrency renders a decimal as a dollar amount.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage renders a decimal as a percentage.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
