package entity

import (
	"time"

	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
)

// CreditNote is store credit issued to a customer and redeemable as a payment
type CreditNote struct {
	ID              string                `gorm:"primaryKey;size:64" json:"id"`
	Number          string                `gorm:"size:64;uniqueIndex;not null" json:"number"`
	CustomerID      string                `gorm:"size:32;index;not null" json:"customer_id"`
	Amount          money.Amount          `gorm:"not null" json:"amount"`
	RemainingAmount money.Amount          `gorm:"not null" json:"remaining_amount"`
	ExpiresAt       time.Time             `json:"expires_at"`
	Status          enum.CreditNoteStatus `gorm:"default:0" json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"-"`
}

// TableName returns the table name for the CreditNote model
func (CreditNote) TableName() string {
	return "credit_notes"
}

// Redeemable reports whether the note can be offered at checkout
func (n *CreditNote) Redeemable(now time.Time) bool {
	return n.Status == enum.CreditNoteStatusActive && n.RemainingAmount > 0 && now.Before(n.ExpiresAt)
}
