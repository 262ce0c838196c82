package entity

import (
	"time"
)

// Staff represents a till operator that carts and invoices are attributed to
type Staff struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	PinHash   string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}
