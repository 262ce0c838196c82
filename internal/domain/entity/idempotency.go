package entity

import (
	"time"
)

// IdempotencyKey stores the outcome of a processed request so a retry replays it
type IdempotencyKey struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_scope;size:255;not null"`
	StaffID      string    `gorm:"uniqueIndex:idx_idempotency_scope;size:64;not null"`
	Endpoint     string    `gorm:"size:255;not null"` // e.g. "POST /workspaces/:ws/checkout/confirm"
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
