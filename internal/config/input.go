// Package config loads payoff plan files: the debt set, budget, strategy, and
// any what-if events for a simulation run.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/debtsim/debtsim/internal/calculation"
	"github.com/debtsim/debtsim/internal/domain"
	"github.com/debtsim/debtsim/internal/whatif"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PlanConfig is the root of a plan file.
type PlanConfig struct {
	Plan   PlanSettings  `yaml:"plan"`
	Debts  []domain.Debt `yaml:"debts"`
	Events []EventConfig `yaml:"events"`
}

// PlanSettings holds the simulation parameters.
type PlanSettings struct {
	Name          string          `yaml:"name"`
	MonthlyBudget decimal.Decimal `yaml:"monthly_budget"`
	Strategy      string          `yaml:"strategy"`
	StartDate     time.Time       `yaml:"start_date"`
	CustomOrder   []string        `yaml:"custom_order"`
}

// EventConfig is the YAML shape of one what-if event. Which fields apply
// depends on the type.
type EventConfig struct {
	Type  string `yaml:"type"`
	Month int    `yaml:"month"`

	Debt   string          `yaml:"debt,omitempty"`
	Debts  []string        `yaml:"debts,omitempty"`
	Amount decimal.Decimal `yaml:"amount,omitempty"`
	APR    decimal.Decimal `yaml:"apr,omitempty"`

	NewDebt string `yaml:"new_debt,omitempty"`
	Name    string `yaml:"name,omitempty"`
	Term    int    `yaml:"term,omitempty"`

	Fee        decimal.Decimal `yaml:"fee,omitempty"`
	FinanceFee bool            `yaml:"finance_fee,omitempty"`

	From         string          `yaml:"from,omitempty"`
	To           string          `yaml:"to,omitempty"`
	PromoMonths  int             `yaml:"promo_months,omitempty"`
	PostPromoAPR decimal.Decimal `yaml:"post_promo_apr,omitempty"`
}

// ToEvent converts the config entry into a validated event.
func (ec *EventConfig) ToEvent() (whatif.Event, error) {
	var ev whatif.Event
	switch ec.Type {
	case "extra_payment":
		ev = &whatif.ExtraPayment{AtMonth: ec.Month, DebtID: ec.Debt, Amount: ec.Amount}
	case "consolidation":
		ev = &whatif.Consolidation{
			AtMonth:       ec.Month,
			SourceDebtIDs: ec.Debts,
			NewDebtID:     ec.NewDebt,
			NewDebtName:   ec.Name,
			NewAPR:        ec.APR,
			TermMonths:    ec.Term,
			Fee:           ec.Fee,
		}
	case "settlement":
		ev = &whatif.Settlement{
			AtMonth:       ec.Month,
			DebtID:        ec.Debt,
			SettledAmount: ec.Amount,
			Fee:           ec.Fee,
			FinanceFee:    ec.FinanceFee,
		}
	case "balance_transfer":
		ev = &whatif.BalanceTransfer{
			AtMonth:           ec.Month,
			SourceDebtID:      ec.From,
			TargetDebtID:      ec.To,
			TargetDebtName:    ec.Name,
			TransferredAmount: ec.Amount,
			Fee:               ec.Fee,
			NewAPR:            ec.APR,
			PromoMonths:       ec.PromoMonths,
			PostPromoAPR:      ec.PostPromoAPR,
		}
	case "rate_change":
		ev = &whatif.RateChange{AtMonth: ec.Month, DebtID: ec.Debt, NewAPR: ec.APR}
	default:
		return nil, fmt.Errorf("unknown event type: %q", ec.Type)
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("%s event: %w", ec.Type, err)
	}
	return ev, nil
}

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a plan from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*PlanConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse unmarshals and validates plan YAML.
func (ip *InputParser) Parse(data []byte) (*PlanConfig, error) {
	var cfg PlanConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidatePlan(&cfg); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &cfg, nil
}

// ValidatePlan validates the loaded plan.
func (ip *InputParser) ValidatePlan(cfg *PlanConfig) error {
	if _, err := domain.ParseStrategy(cfg.Plan.Strategy); err != nil {
		return err
	}
	if cfg.Plan.MonthlyBudget.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("monthly budget must be positive")
	}
	if cfg.Plan.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if err := domain.ValidateDebts(cfg.Debts); err != nil {
		return err
	}

	ids := make(map[string]bool, len(cfg.Debts))
	for _, d := range cfg.Debts {
		ids[d.ID] = true
	}
	for _, id := range cfg.Plan.CustomOrder {
		if !ids[id] {
			return fmt.Errorf("custom order references unknown debt: %s", id)
		}
	}
	for i := range cfg.Events {
		if _, err := cfg.Events[i].ToEvent(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

// SimulationInput converts the plan into engine input.
func (cfg *PlanConfig) SimulationInput() (calculation.SimulationInput, error) {
	strategy, err := domain.ParseStrategy(cfg.Plan.Strategy)
	if err != nil {
		return calculation.SimulationInput{}, err
	}
	events := make([]whatif.Event, 0, len(cfg.Events))
	for i := range cfg.Events {
		ev, err := cfg.Events[i].ToEvent()
		if err != nil {
			return calculation.SimulationInput{}, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return calculation.SimulationInput{
		Name:          cfg.Plan.Name,
		Debts:         cfg.Debts,
		Strategy:      strategy,
		MonthlyBudget: cfg.Plan.MonthlyBudget,
		StartDate:     cfg.Plan.StartDate,
		CustomOrder:   cfg.Plan.CustomOrder,
		Events:        events,
	}, nil
}
