package billing

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestDefaultRuleSet_AboveThreshold(t *testing.T) {
	lines := []entity.CartLine{line("SKU-102", 450, offer(400), 3)}

	discounts, err := DefaultRuleSet().Evaluate(context.Background(), lines)
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.Equal(t, "AUTO-001", discounts[0].ID)
	assert.Equal(t, "10% off on purchases above ₹1000", discounts[0].Label)
	assert.Equal(t, money.Major(120), discounts[0].Amount)
}

func TestDefaultRuleSet_AtThresholdDoesNotApply(t *testing.T) {
	lines := []entity.CartLine{line("SKU-109", 200, nil, 5)}

	discounts, err := DefaultRuleSet().Evaluate(context.Background(), lines)
	require.NoError(t, err)
	assert.Empty(t, discounts)
}

func TestRuleSet_DuplicateRuleAppliedOnce(t *testing.T) {
	rule := NewThresholdRule("AUTO-001", money.Major(1000), decimal.NewFromInt(10))
	rs := NewRuleSet(rule, rule)
	lines := []entity.CartLine{line("SKU-105", 650, nil, 2)}

	discounts, err := rs.Evaluate(context.Background(), lines)
	require.NoError(t, err)
	assert.Len(t, discounts, 1)
}

func TestRuleSet_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DefaultRuleSet().Evaluate(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManualDiscountInput_Build(t *testing.T) {
	d, err := ManualDiscountInput{Type: enum.DiscountTypeAmount, Value: floatPtr(50), Reason: "  loyalty "}.Build()
	require.NoError(t, err)
	assert.Equal(t, "loyalty", d.Reason)
	assert.True(t, d.Value.Equal(decimal.NewFromInt(50)))
}

func TestManualDiscountInput_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input ManualDiscountInput
		field string
	}{
		{"missing reason", ManualDiscountInput{Value: floatPtr(10), Reason: " "}, "reason"},
		{"missing value", ManualDiscountInput{Reason: "x"}, "value"},
		{"infinite value", ManualDiscountInput{Value: floatPtr(math.Inf(1)), Reason: "x"}, "value"},
		{"nan value", ManualDiscountInput{Value: floatPtr(math.NaN()), Reason: "x"}, "value"},
		{"zero value", ManualDiscountInput{Value: floatPtr(0), Reason: "x"}, "value"},
		{"percent over 100", ManualDiscountInput{Type: enum.DiscountTypePercent, Value: floatPtr(120), Reason: "x"}, "value"},
		{"amount beyond range", ManualDiscountInput{Type: enum.DiscountTypeAmount, Value: floatPtr(9.3e16), Reason: "x"}, "value"},
		{"amount below one paisa", ManualDiscountInput{Type: enum.DiscountTypeAmount, Value: floatPtr(0.001), Reason: "x"}, "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.Build()
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
			assert.Equal(t, tt.field, apperror.GetAppError(err).Errors[0].Field)
		})
	}
}

func TestAddBillDiscount_OversizedAmountLeavesCartUntouched(t *testing.T) {
	cart := entity.NewCart(entity.Staff{})
	AddItem(cart, teaItem())

	_, err := ManualDiscountInput{Type: enum.DiscountTypeAmount, Value: floatPtr(9.3e16), Reason: "x"}.Build()
	require.Error(t, err)

	assert.Empty(t, cart.BillManualDiscounts)
	assert.Equal(t, money.Major(225), cart.Subtotal)
	assert.Equal(t, money.Major(225), cart.TotalPayable)
}

func TestManualDiscountTotal_PercentDoesNotCompound(t *testing.T) {
	tenPct := entity.ManualDiscount{Type: enum.DiscountTypePercent, Value: decimal.NewFromInt(10), Reason: "a"}
	total := ManualDiscountTotal([]entity.ManualDiscount{tenPct, tenPct}, money.Major(1000))
	assert.Equal(t, money.Major(200), total)
}
