package billing

import (
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/pkg/money"
)

// ComputeTotals derives the money breakdown of a cart without touching it
func ComputeTotals(cart *entity.Cart) entity.Totals {
	subtotal := Subtotal(cart.Lines)
	discount := TotalDiscount(cart.AutoDiscounts, cart.BillManualDiscounts, subtotal)
	taxes := money.Max(money.Zero, cart.Taxes)
	return entity.Totals{
		Subtotal:      subtotal,
		TotalDiscount: discount,
		Taxes:         taxes,
		TotalPayable:  money.Max(money.Zero, subtotal-discount) + taxes,
	}
}

// Recalculate stores the computed totals on the cart
func Recalculate(cart *entity.Cart) {
	cart.Totals = ComputeTotals(cart)
}
