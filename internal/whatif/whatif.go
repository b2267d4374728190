// Package whatif defines the one-time simulated financial changes that can be
// injected into a payoff simulation at a specific month, plus the registry
// used to build them from string specs.
package whatif

import (
	"fmt"
	"sort"

	"github.com/debtsim/debtsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Event is a one-time transform of the working debt set. Events fire exactly
// once, at their designated month, before that month's minimum-payment
// processing.
type Event interface {
	// Name returns a short identifier for this event (e.g. "extra_payment").
	Name() string

	// Month returns the 1-based simulation month the event fires in.
	Month() int

	// Validate checks the event parameters without applying it.
	Validate() error

	// Apply mutates the working debt set through the context. An event whose
	// target debt no longer exists records a warning and is a no-op.
	Apply(ctx *Context) error
}

// Context carries the mutable simulation state an event is allowed to touch.
type Context struct {
	// Debts is the current working set. Events may add, remove, or modify
	// entries; the engine reads the slice back after application.
	Debts []*domain.WorkingDebt

	// Log receives the structured record each fired event produces.
	Log *domain.EventLog

	// ExtraPaid accumulates out-of-budget money applied by events this month.
	ExtraPaid decimal.Decimal

	// Reorder is set by events that change the composition of the debt set,
	// telling the engine to re-run the strategy orderer.
	Reorder bool

	// ScheduleEvent queues a synthetic follow-up event (promo APR reversion).
	ScheduleEvent func(Event)

	warnings []string
}

// Warnf records a skipped-event warning on the scenario.
func (ctx *Context) Warnf(format string, args ...any) {
	ctx.warnings = append(ctx.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the warnings accumulated during application.
func (ctx *Context) Warnings() []string {
	return ctx.warnings
}

// FindDebt returns the working debt with the given id, or nil.
func (ctx *Context) FindDebt(id string) *domain.WorkingDebt {
	for _, wd := range ctx.Debts {
		if wd.ID == id {
			return wd
		}
	}
	return nil
}

// RemoveDebt removes the working debt with the given id, preserving order.
func (ctx *Context) RemoveDebt(id string) {
	for i, wd := range ctx.Debts {
		if wd.ID == id {
			ctx.Debts = append(ctx.Debts[:i], ctx.Debts[i+1:]...)
			return
		}
	}
}

// Schedule is a month-indexed event map, giving O(1) lookup per simulated
// month instead of a scan over the event list.
type Schedule struct {
	byMonth map[int][]Event
}

// NewSchedule validates the events and indexes them by month. Events within a
// month fire in the order given.
func NewSchedule(events []Event) (*Schedule, error) {
	s := &Schedule{byMonth: make(map[int][]Event)}
	for i, ev := range events {
		if ev == nil {
			return nil, fmt.Errorf("event at index %d is nil", i)
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("event %s validation failed: %w", ev.Name(), err)
		}
		s.Add(ev)
	}
	return s, nil
}

// Add queues an event without re-validating. Used by events that schedule
// their own follow-ups mid-run.
func (s *Schedule) Add(ev Event) {
	s.byMonth[ev.Month()] = append(s.byMonth[ev.Month()], ev)
}

// At returns the events scheduled for a month.
func (s *Schedule) At(month int) []Event {
	return s.byMonth[month]
}

// Empty reports whether no events are scheduled.
func (s *Schedule) Empty() bool {
	return len(s.byMonth) == 0
}

// Months returns the scheduled months in ascending order.
func (s *Schedule) Months() []int {
	months := make([]int, 0, len(s.byMonth))
	for m := range s.byMonth {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}
