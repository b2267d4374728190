package whatif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryList(t *testing.T) {
	names := NewRegistry().List()
	assert.Equal(t, []string{
		"balance_transfer", "consolidation", "extra_payment", "rate_change", "settlement",
	}, names)
}

func TestParseEventSpecExtraPayment(t *testing.T) {
	ev, err := NewRegistry().ParseEventSpec("extra_payment:month=3,debt=visa,amount=500")
	require.NoError(t, err)

	ep, ok := ev.(*ExtraPayment)
	require.True(t, ok)
	assert.Equal(t, 3, ep.AtMonth)
	assert.Equal(t, "visa", ep.DebtID)
	assert.True(t, ep.Amount.Equal(dec("500")))
}

func TestParseEventSpecConsolidation(t *testing.T) {
	ev, err := NewRegistry().ParseEventSpec(
		"consolidation:month=6,debts=visa|car,new_debt=consol,apr=9.5,term=36,fee=200")
	require.NoError(t, err)

	c, ok := ev.(*Consolidation)
	require.True(t, ok)
	assert.Equal(t, []string{"visa", "car"}, c.SourceDebtIDs)
	assert.Equal(t, 36, c.TermMonths)
	assert.True(t, c.Fee.Equal(dec("200")))
}

func TestParseEventSpecBalanceTransfer(t *testing.T) {
	ev, err := NewRegistry().ParseEventSpec(
		"balance_transfer:month=2,from=visa,to=promo,amount=2000,apr=0,fee=60,promo_months=12,post_promo_apr=24.99")
	require.NoError(t, err)

	bt, ok := ev.(*BalanceTransfer)
	require.True(t, ok)
	assert.Equal(t, "visa", bt.SourceDebtID)
	assert.Equal(t, "promo", bt.TargetDebtID)
	assert.Equal(t, 12, bt.PromoMonths)
	assert.True(t, bt.PostPromoAPR.Equal(dec("24.99")))
}

func TestParseEventSpecSettlementFinanceFee(t *testing.T) {
	ev, err := NewRegistry().ParseEventSpec(
		"settlement:month=4,debt=visa,amount=1200,fee=150,finance_fee=true")
	require.NoError(t, err)

	s, ok := ev.(*Settlement)
	require.True(t, ok)
	assert.True(t, s.FinanceFee)
}

func TestParseEventSpecErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"missing colon", "extra_payment"},
		{"unknown event", "bogus:month=1"},
		{"bad pair", "extra_payment:month"},
		{"missing required param", "extra_payment:month=1,debt=visa"},
		{"bad month", "extra_payment:month=soon,debt=visa,amount=10"},
		{"bad decimal", "extra_payment:month=1,debt=visa,amount=lots"},
		{"bad term", "consolidation:month=1,debts=a,new_debt=c,apr=5,term=forever"},
	}
	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ParseEventSpec(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestParseEventSpecsStopsOnFirstError(t *testing.T) {
	_, err := NewRegistry().ParseEventSpecs([]string{
		"extra_payment:month=1,debt=visa,amount=10",
		"bogus:month=2",
	})
	assert.Error(t, err)

	events, err := NewRegistry().ParseEventSpecs([]string{
		"extra_payment:month=1,debt=visa,amount=10",
		"rate_change:month=2,debt=visa,apr=5",
	})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
