package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
)

// SavedCart is a snapshot of a cart parked for later resumption
type SavedCart struct {
	ID                  string               `gorm:"primaryKey;size:64" json:"id"`
	Label               string               `gorm:"size:255;not null" json:"label"`
	StoreID             string               `gorm:"size:64;index" json:"store_id"`
	CreatedByID         string               `gorm:"size:64;index" json:"-"`
	CreatedBy           Staff                `gorm:"serializer:json" json:"created_by"`
	Status              enum.SavedCartStatus `gorm:"default:0;index" json:"status"`
	Customer            Customer             `gorm:"serializer:json" json:"customer"`
	Lines               []CartLine           `gorm:"serializer:json" json:"lines"`
	SubtotalAtSave      money.Amount         `gorm:"not null" json:"subtotal_at_save"`
	BillManualDiscounts []ManualDiscount     `gorm:"serializer:json" json:"bill_manual_discounts,omitempty"`
	DeviceID            string               `gorm:"size:64" json:"device_id,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	ExpiresAt           *time.Time           `gorm:"index" json:"expires_at,omitempty"`
}

// BeforeCreate generates an id before creating a new saved cart
func (s *SavedCart) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the SavedCart model
func (SavedCart) TableName() string {
	return "saved_carts"
}

// IsExpired reports whether the cart is flagged expired or past its expiry time
func (s *SavedCart) IsExpired(now time.Time) bool {
	if s.Status == enum.SavedCartStatusExpired {
		return true
	}
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
