package entity

import (
	"time"
)

// Customer represents a shopper a cart can be attributed to.
// The phone number doubles as the customer id for credit notes.
type Customer struct {
	Phone     string    `gorm:"primaryKey;size:32" json:"phone,omitempty"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	IsGuest   bool      `gorm:"-" json:"is_guest,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// ID returns the customer id used by the credit note ledger.
// Guests and anonymous carts have no id.
func (c Customer) ID() string {
	if c.IsGuest {
		return ""
	}
	return c.Phone
}
