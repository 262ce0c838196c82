package repository

import (
	"context"

	"github.com/sangkips/billing-api/internal/domain/entity"
)

// InvoiceRepository is the invoice store. Invoices are written once and never updated.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
}
