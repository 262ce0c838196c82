package billing

import (
	"fmt"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
)

// MaxQty is the largest quantity a single line may hold
const MaxQty = 9999

// touchLines records a line change. Auto discounts depend on the lines, so they
// are dropped until the next evaluation against the new revision.
func touchLines(cart *entity.Cart) {
	cart.Revision++
	cart.AutoDiscounts = []entity.AutoDiscount{}
	if len(cart.Lines) == 0 {
		cart.DiscountRevision = cart.Revision
	}
	Recalculate(cart)
}

// AddItem adds one unit of item, appending a new line for an unseen SKU
func AddItem(cart *entity.Cart, item entity.CatalogItem) entity.CartLine {
	idx := cart.LineIndex(item.SKU)
	if idx >= 0 {
		cart.Lines[idx].Qty++
	} else {
		cart.Lines = append(cart.Lines, entity.NewCartLine(item))
		idx = len(cart.Lines) - 1
	}
	touchLines(cart)
	return cart.Lines[idx]
}

// ChangeQuantity adjusts a line by delta, never below 1
func ChangeQuantity(cart *entity.Cart, sku string, delta int) (entity.CartLine, error) {
	idx := cart.LineIndex(sku)
	if idx < 0 {
		return entity.CartLine{}, apperror.NewNotFoundError("Cart line")
	}
	current := cart.Lines[idx].Qty
	if delta > MaxQty-current {
		return entity.CartLine{}, apperror.NewFieldValidationError("delta", fmt.Sprintf("quantity cannot exceed %d", MaxQty))
	}
	qty := 1
	if delta > 1-current {
		qty = current + delta
	}
	if qty == cart.Lines[idx].Qty {
		return cart.Lines[idx], nil
	}
	cart.Lines[idx].Qty = qty
	touchLines(cart)
	return cart.Lines[idx], nil
}

// SetQuantity sets an absolute quantity. Zero removes the line.
func SetQuantity(cart *entity.Cart, sku string, qty int) (removed bool, err error) {
	if qty < 0 {
		return false, apperror.NewFieldValidationError("qty", "cannot be negative")
	}
	if qty > MaxQty {
		return false, apperror.NewFieldValidationError("qty", fmt.Sprintf("cannot exceed %d", MaxQty))
	}
	idx := cart.LineIndex(sku)
	if idx < 0 {
		return false, apperror.NewNotFoundError("Cart line")
	}
	if qty == 0 {
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
		touchLines(cart)
		return true, nil
	}
	cart.Lines[idx].Qty = qty
	touchLines(cart)
	return false, nil
}

func RemoveLine(cart *entity.Cart, sku string) error {
	_, err := SetQuantity(cart, sku, 0)
	return err
}

// SetLineDiscount sets or, with nil, clears the manual discount of a line
func SetLineDiscount(cart *entity.Cart, sku string, discount *entity.ManualDiscount) error {
	idx := cart.LineIndex(sku)
	if idx < 0 {
		return apperror.NewNotFoundError("Cart line")
	}
	if discount != nil {
		d := *discount
		discount = &d
	}
	cart.Lines[idx].LineManualDiscount = discount
	touchLines(cart)
	return nil
}

func AddBillDiscount(cart *entity.Cart, discount entity.ManualDiscount) {
	cart.BillManualDiscounts = append(cart.BillManualDiscounts, discount)
	Recalculate(cart)
}

func RemoveBillDiscount(cart *entity.Cart, index int) error {
	if index < 0 || index >= len(cart.BillManualDiscounts) {
		return apperror.NewNotFoundError("Bill discount")
	}
	cart.BillManualDiscounts = append(cart.BillManualDiscounts[:index], cart.BillManualDiscounts[index+1:]...)
	Recalculate(cart)
	return nil
}

// SetTaxes records the externally supplied tax figure
func SetTaxes(cart *entity.Cart, taxes money.Amount) error {
	if taxes < 0 {
		return apperror.NewFieldValidationError("taxes", "cannot be negative")
	}
	if taxes > money.MaxAmount {
		return apperror.NewFieldValidationError("taxes", fmt.Sprintf("cannot exceed %s", money.MaxAmount))
	}
	cart.Taxes = taxes
	Recalculate(cart)
	return nil
}

// ApplyAutoDiscounts installs discounts evaluated against revision.
// It reports false and changes nothing when the lines have moved on since.
func ApplyAutoDiscounts(cart *entity.Cart, revision uint64, discounts []entity.AutoDiscount) bool {
	if cart.Revision != revision {
		return false
	}
	cart.AutoDiscounts = append([]entity.AutoDiscount{}, discounts...)
	cart.DiscountRevision = revision
	Recalculate(cart)
	return true
}

// Reprice re-resolves every line against current catalog pricing.
// Lines whose SKU is missing from current keep their saved prices.
func Reprice(lines []entity.CartLine, current map[string]entity.CatalogItem) ([]entity.CartLine, []entity.RepricingChange) {
	out := entity.CloneLines(lines)
	var changes []entity.RepricingChange
	for i := range out {
		item, ok := current[out[i].SKU]
		if !ok {
			continue
		}
		line := &out[i]
		oldPrice := line.UnitPrice()
		newPrice := item.EffectivePrice()
		oldOffer := normalizedOffer(line.OfferPrice)
		newOffer := normalizedOffer(item.OfferPrice)

		line.MRP = item.MRP
		line.OfferPrice = newOffer
		if item.Name != "" {
			line.Name = item.Name
		}
		if oldPrice == newPrice {
			continue
		}

		change := entity.RepricingChange{
			SKU:      line.SKU,
			Type:     enum.RepricingTypePriceChange,
			OldPrice: oldPrice,
			NewPrice: newPrice,
			OldOffer: oldOffer,
			NewOffer: newOffer,
		}
		switch {
		case oldOffer == nil && newOffer != nil:
			change.Type = enum.RepricingTypeOfferAdded
		case oldOffer != nil && newOffer == nil:
			change.Type = enum.RepricingTypeOfferRemoved
		}
		changes = append(changes, change)
	}
	return out, changes
}

func normalizedOffer(offer *money.Amount) *money.Amount {
	if offer == nil || *offer <= 0 {
		return nil
	}
	v := *offer
	return &v
}
