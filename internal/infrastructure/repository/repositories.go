package repository

import (
	"gorm.io/gorm"

	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
)

// NewRepositories wires every gorm-backed collaborator
func NewRepositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Catalog:     NewCatalogRepository(db),
		Customers:   NewCustomerRepository(db),
		Staff:       NewStaffRepository(db),
		CreditNotes: NewCreditNoteRepository(db),
		SavedCarts:  NewSavedCartRepository(db),
		Invoices:    NewInvoiceRepository(db),
		Idempotency: NewIdempotencyRepository(db),
	}
}
