package billing

import (
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
)

// PriceLine returns the line total after its manual discount. Never negative.
func PriceLine(line entity.CartLine) money.Amount {
	total := line.UnitPrice() * money.Amount(line.Qty)
	if line.LineManualDiscount != nil {
		total -= DiscountValue(*line.LineManualDiscount, total)
	}
	return money.Max(money.Zero, total)
}

// Subtotal sums PriceLine over lines
func Subtotal(lines []entity.CartLine) money.Amount {
	var sum money.Amount
	for _, line := range lines {
		sum += PriceLine(line)
	}
	return sum
}

// DiscountValue evaluates a manual discount against base.
// Percent discounts are taken from base, amount discounts are absolute.
func DiscountValue(d entity.ManualDiscount, base money.Amount) money.Amount {
	if d.Type == enum.DiscountTypePercent {
		return money.Percent(base, d.Value)
	}
	return money.FromDecimal(d.Value)
}
