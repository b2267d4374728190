package whatif

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Registry creates events from string parameters, useful for CLI flags.
type Registry struct {
	factories map[string]Factory
}

// Factory builds an event from string parameters.
type Factory func(params map[string]string) (Event, error)

// NewRegistry creates a registry with all built-in event types registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register("extra_payment", createExtraPayment)
	r.Register("consolidation", createConsolidation)
	r.Register("settlement", createSettlement)
	r.Register("balance_transfer", createBalanceTransfer)
	r.Register("rate_change", createRateChange)

	return r
}

// Register adds an event factory to the registry.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Create creates an event by name with the given parameters.
func (r *Registry) Create(name string, params map[string]string) (Event, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown event type: %s", name)
	}
	return factory(params)
}

// List returns the names of all registered event types, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseEventSpec parses an event specification string.
// Format: "event_name:param1=value1,param2=value2"
// Example: "extra_payment:month=3,debt=visa,amount=500"
func (r *Registry) ParseEventSpec(spec string) (Event, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid event spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, pair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseEventSpecs parses a list of event specifications.
func (r *Registry) ParseEventSpecs(specs []string) ([]Event, error) {
	events := make([]Event, 0, len(specs))
	for _, spec := range specs {
		ev, err := r.ParseEventSpec(spec)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func requireParam(params map[string]string, event, key string) (string, error) {
	value, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", event, key)
	}
	return value, nil
}

func monthParam(params map[string]string, event string) (int, error) {
	raw, err := requireParam(params, event, "month")
	if err != nil {
		return 0, err
	}
	month, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid month value: %w", err)
	}
	return month, nil
}

func decimalParam(params map[string]string, event, key string) (decimal.Decimal, error) {
	raw, err := requireParam(params, event, key)
	if err != nil {
		return decimal.Zero, err
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return value, nil
}

func optionalDecimalParam(params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return value, nil
}

func createExtraPayment(params map[string]string) (Event, error) {
	month, err := monthParam(params, "extra_payment")
	if err != nil {
		return nil, err
	}
	debtID, err := requireParam(params, "extra_payment", "debt")
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam(params, "extra_payment", "amount")
	if err != nil {
		return nil, err
	}
	return &ExtraPayment{AtMonth: month, DebtID: debtID, Amount: amount}, nil
}

func createConsolidation(params map[string]string) (Event, error) {
	month, err := monthParam(params, "consolidation")
	if err != nil {
		return nil, err
	}
	sources, err := requireParam(params, "consolidation", "debts")
	if err != nil {
		return nil, err
	}
	newID, err := requireParam(params, "consolidation", "new_debt")
	if err != nil {
		return nil, err
	}
	apr, err := decimalParam(params, "consolidation", "apr")
	if err != nil {
		return nil, err
	}
	termStr, err := requireParam(params, "consolidation", "term")
	if err != nil {
		return nil, err
	}
	term, err := strconv.Atoi(termStr)
	if err != nil {
		return nil, fmt.Errorf("invalid term value: %w", err)
	}
	fee, err := optionalDecimalParam(params, "fee")
	if err != nil {
		return nil, err
	}

	var sourceIDs []string
	for _, id := range strings.Split(sources, "|") {
		if id = strings.TrimSpace(id); id != "" {
			sourceIDs = append(sourceIDs, id)
		}
	}

	return &Consolidation{
		AtMonth:       month,
		SourceDebtIDs: sourceIDs,
		NewDebtID:     newID,
		NewDebtName:   params["name"],
		NewAPR:        apr,
		TermMonths:    term,
		Fee:           fee,
	}, nil
}

func createSettlement(params map[string]string) (Event, error) {
	month, err := monthParam(params, "settlement")
	if err != nil {
		return nil, err
	}
	debtID, err := requireParam(params, "settlement", "debt")
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam(params, "settlement", "amount")
	if err != nil {
		return nil, err
	}
	fee, err := optionalDecimalParam(params, "fee")
	if err != nil {
		return nil, err
	}
	financeFee := params["finance_fee"] == "true" || params["finance_fee"] == "yes" || params["finance_fee"] == "1"

	return &Settlement{
		AtMonth:       month,
		DebtID:        debtID,
		SettledAmount: amount,
		Fee:           fee,
		FinanceFee:    financeFee,
	}, nil
}

func createBalanceTransfer(params map[string]string) (Event, error) {
	month, err := monthParam(params, "balance_transfer")
	if err != nil {
		return nil, err
	}
	source, err := requireParam(params, "balance_transfer", "from")
	if err != nil {
		return nil, err
	}
	target, err := requireParam(params, "balance_transfer", "to")
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam(params, "balance_transfer", "amount")
	if err != nil {
		return nil, err
	}
	apr, err := decimalParam(params, "balance_transfer", "apr")
	if err != nil {
		return nil, err
	}
	fee, err := optionalDecimalParam(params, "fee")
	if err != nil {
		return nil, err
	}

	promoMonths := 0
	if raw, ok := params["promo_months"]; ok {
		promoMonths, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid promo_months value: %w", err)
		}
	}
	postPromoAPR, err := optionalDecimalParam(params, "post_promo_apr")
	if err != nil {
		return nil, err
	}

	return &BalanceTransfer{
		AtMonth:           month,
		SourceDebtID:      source,
		TargetDebtID:      target,
		TargetDebtName:    params["name"],
		TransferredAmount: amount,
		Fee:               fee,
		NewAPR:            apr,
		PromoMonths:       promoMonths,
		PostPromoAPR:      postPromoAPR,
	}, nil
}

func createRateChange(params map[string]string) (Event, error) {
	month, err := monthParam(params, "rate_change")
	if err != nil {
		return nil, err
	}
	debtID, err := requireParam(params, "rate_change", "debt")
	if err != nil {
		return nil, err
	}
	apr, err := decimalParam(params, "rate_change", "apr")
	if err != nil {
		return nil, err
	}
	return &RateChange{AtMonth: month, DebtID: debtID, NewAPR: apr}, nil
}
