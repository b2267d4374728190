package domain

import (
	"errors"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"snowball", StrategySnowball, false},
		{"avalanche", StrategyAvalanche, false},
		{"custom", StrategyCustom, false},
		{"consolidation", StrategyConsolidation, false},
		{"settlement", StrategySettlement, false},
		{"", "", true},
		{"Snowball", "", true},
		{"highest-rate", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStrategy) {
					t.Fatalf("ParseStrategy(%q) error = %v, want ErrInvalidStrategy", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStrategyDisplayName(t *testing.T) {
	if got := StrategySnowball.DisplayName(); got != "Snowball Strategy" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := Strategy("bogus").DisplayName(); got != "Payoff Scenario" {
		t.Errorf("DisplayName() fallback = %q", got)
	}
}
