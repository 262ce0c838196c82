package request

import (
	"github.com/sangkips/billing-api/pkg/money"
)

// ScanRequest adds one unit of the scanned item to the cart
type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required,max=64"`
}

// UpdateLineRequest changes a line quantity. Exactly one of Quantity or Delta is set.
type UpdateLineRequest struct {
	Quantity *int `json:"quantity" binding:"omitempty,min=0"`
	Delta    *int `json:"delta"`
}

// DiscountRequest describes a manual discount on a line or on the bill
type DiscountRequest struct {
	Type       string   `json:"type" binding:"required,oneof=AMOUNT PERCENT"`
	Value      *float64 `json:"value" binding:"required"`
	Reason     string   `json:"reason" binding:"required,max=255"`
	ApprovedBy string   `json:"approved_by" binding:"max=64"`
}

// TaxesRequest sets the bill-level tax amount
type TaxesRequest struct {
	Taxes money.Amount `json:"taxes"`
}

// SetCustomerRequest attaches a customer by phone, creating it when unknown
type SetCustomerRequest struct {
	Phone string `json:"phone" binding:"required,max=32"`
	Name  string `json:"name" binding:"max=255"`
}

// SaveCartRequest parks the workspace cart
type SaveCartRequest struct {
	Label string `json:"label" binding:"max=255"`
}

// ListSavedCartsRequest filters the saved cart pool
type ListSavedCartsRequest struct {
	StaffID string `form:"staff_id"`
	Status  string `form:"status" binding:"omitempty,oneof=SAVED LOCKED EXPIRED PENDING_SYNC"`
	Search  string `form:"q"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
