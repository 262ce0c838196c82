package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/billing-api/pkg/money"
)

// InvoiceTotals is the final settlement breakdown of an invoice
type InvoiceTotals struct {
	Subtotal  money.Amount `gorm:"not null" json:"subtotal"`
	Discounts money.Amount `gorm:"not null" json:"discounts"`
	Taxes     money.Amount `gorm:"not null" json:"taxes"`
	Payable   money.Amount `gorm:"not null" json:"payable"`
}

// Invoice is the immutable settlement record created when a cart is paid
type Invoice struct {
	ID                  string           `gorm:"primaryKey;size:64" json:"id"`
	InvoiceNo           string           `gorm:"size:32;uniqueIndex;not null" json:"invoice_no"`
	StoreID             string           `gorm:"size:64;index" json:"store_id"`
	CartID              string           `gorm:"size:64" json:"cart_id"`
	CustomerID          string           `gorm:"size:32;index" json:"-"`
	Customer            Customer         `gorm:"serializer:json" json:"customer"`
	StaffID             string           `gorm:"size:64;index" json:"-"`
	Staff               Staff            `gorm:"serializer:json" json:"staff"`
	Lines               []CartLine       `gorm:"serializer:json" json:"lines"`
	AutoDiscounts       []AutoDiscount   `gorm:"serializer:json" json:"auto_discounts"`
	BillManualDiscounts []ManualDiscount `gorm:"serializer:json" json:"bill_manual_discounts"`
	Payments            []PaymentLine    `gorm:"serializer:json" json:"payments"`
	Totals              InvoiceTotals    `gorm:"embedded;embeddedPrefix:total_" json:"totals"`
	ChangeDue           money.Amount     `json:"change_due"`
	CreatedAt           time.Time        `json:"created_at"`
}

// BeforeCreate generates an id before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
