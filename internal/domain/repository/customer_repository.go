package repository

import (
	"context"

	"github.com/sangkips/billing-api/internal/domain/entity"
)

// CustomerRepository defines the customer directory operations
type CustomerRepository interface {
	// Search returns customers whose phone contains query or whose name starts with it
	Search(ctx context.Context, query string, limit int) ([]entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Create(ctx context.Context, customer *entity.Customer) error
}

// StaffRepository defines the staff directory operations
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Staff, error)
}
