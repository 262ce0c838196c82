package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
)

// ManualDiscount is an operator-entered discount, either on a line or on the whole bill.
// For DiscountTypeAmount the value is in major currency units, for DiscountTypePercent it is a percentage.
type ManualDiscount struct {
	Type       enum.DiscountType `json:"type"`
	Value      decimal.Decimal   `json:"value"`
	Reason     string            `json:"reason"`
	ApprovedBy string            `json:"approved_by,omitempty"`
}

// AutoDiscount is a discount derived by the promotion rules from the cart contents
type AutoDiscount struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Amount money.Amount `json:"amount"`
}

// CartLine is one distinct SKU in a cart
type CartLine struct {
	SKU                string          `json:"sku"`
	Barcode            string          `json:"barcode"`
	Name               string          `json:"name"`
	ImageURL           string          `json:"image_url,omitempty"`
	MRP                money.Amount    `json:"mrp"`
	OfferPrice         *money.Amount   `json:"offer_price,omitempty"`
	Qty                int             `json:"qty"`
	LineManualDiscount *ManualDiscount `json:"line_manual_discount,omitempty"`
}

// NewCartLine creates a line for a freshly scanned catalog item
func NewCartLine(item CatalogItem) CartLine {
	return CartLine{
		SKU:        item.SKU,
		Barcode:    item.Barcode,
		Name:       item.Name,
		ImageURL:   item.ImageURL,
		MRP:        item.MRP,
		OfferPrice: copyAmount(item.OfferPrice),
		Qty:        1,
	}
}

// UnitPrice returns the offer price when present, else the MRP
func (l CartLine) UnitPrice() money.Amount {
	return effectivePrice(l.MRP, l.OfferPrice)
}

func (l CartLine) clone() CartLine {
	out := l
	out.OfferPrice = copyAmount(l.OfferPrice)
	if l.LineManualDiscount != nil {
		d := *l.LineManualDiscount
		out.LineManualDiscount = &d
	}
	return out
}

// Totals is the derived money breakdown of a cart
type Totals struct {
	Subtotal      money.Amount `json:"subtotal"`
	TotalDiscount money.Amount `json:"total_discount"`
	Taxes         money.Amount `json:"taxes"`
	TotalPayable  money.Amount `json:"total_payable"`
}

// Cart is the aggregate root of a billing session
type Cart struct {
	ID                  string           `json:"id"`
	Customer            Customer         `json:"customer"`
	Staff               Staff            `json:"staff"`
	Lines               []CartLine       `json:"lines"`
	AutoDiscounts       []AutoDiscount   `json:"auto_discounts"`
	BillManualDiscounts []ManualDiscount `json:"bill_manual_discounts"`
	Totals
	Status enum.CartStatus `json:"status"`

	// Revision increases on every line mutation. DiscountRevision records the
	// line revision the auto discounts were evaluated against.
	Revision         uint64 `json:"revision"`
	DiscountRevision uint64 `json:"-"`
}

// NewCart creates an empty open cart attributed to staff
func NewCart(staff Staff) *Cart {
	return &Cart{
		ID:                  uuid.New().String(),
		Staff:               staff,
		Lines:               []CartLine{},
		AutoDiscounts:       []AutoDiscount{},
		BillManualDiscounts: []ManualDiscount{},
		Status:              enum.CartStatusOpen,
	}
}

// LineIndex returns the index of the line for sku, or -1
func (c *Cart) LineIndex(sku string) int {
	for i := range c.Lines {
		if c.Lines[i].SKU == sku {
			return i
		}
	}
	return -1
}

// IsBlank reports whether the cart holds nothing an operator entered:
// no lines, bill discounts, customer or taxes.
func (c *Cart) IsBlank() bool {
	return len(c.Lines) == 0 &&
		len(c.BillManualDiscounts) == 0 &&
		c.Customer == (Customer{}) &&
		c.Taxes == 0
}

// DiscountsFresh reports whether auto discounts reflect the current lines
func (c *Cart) DiscountsFresh() bool {
	return c.DiscountRevision == c.Revision
}

// Clone returns a deep copy safe to hand out of a workspace
func (c *Cart) Clone() *Cart {
	out := *c
	out.Lines = CloneLines(c.Lines)
	out.AutoDiscounts = append([]AutoDiscount{}, c.AutoDiscounts...)
	out.BillManualDiscounts = append([]ManualDiscount{}, c.BillManualDiscounts...)
	return &out
}

// CloneLines deep-copies a slice of cart lines
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i := range lines {
		out[i] = lines[i].clone()
	}
	return out
}

// RepricingChange reports a line whose price moved while its cart was parked
type RepricingChange struct {
	SKU      string             `json:"sku"`
	Type     enum.RepricingType `json:"type"`
	OldPrice money.Amount       `json:"old_price"`
	NewPrice money.Amount       `json:"new_price"`
	OldOffer *money.Amount      `json:"old_offer,omitempty"`
	NewOffer *money.Amount      `json:"new_offer,omitempty"`
}

func copyAmount(a *money.Amount) *money.Amount {
	if a == nil {
		return nil
	}
	v := *a
	return &v
}
