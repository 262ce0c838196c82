// Package memory provides fixture-seeded in-memory collaborators for
// development and tests. Nothing survives a restart.
package memory

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/infrastructure/fixtures"
)

// NewSeeded builds every collaborator from the demo fixtures
func NewSeeded(storeID string, now time.Time, log *zap.Logger) (*domainRepo.Repositories, error) {
	staff, err := hashStaff(fixtures.Staff())
	if err != nil {
		return nil, err
	}
	log.Warn("memory store seeded with development staff PINs", zap.Int("staff", len(staff)))

	return &domainRepo.Repositories{
		Catalog:     NewCatalogRepository(fixtures.Catalog()),
		Customers:   NewCustomerRepository(fixtures.Customers()),
		Staff:       NewStaffRepository(staff),
		CreditNotes: NewCreditNoteRepository(fixtures.CreditNotes(now)),
		SavedCarts:  NewSavedCartRepository(fixtures.SavedCarts(now, storeID)),
		Invoices:    NewInvoiceRepository(),
		Idempotency: NewIdempotencyRepository(),
	}, nil
}

// hashStaff bcrypt-hashes the PIN of every seed
func hashStaff(seeds []fixtures.StaffSeed) ([]entity.Staff, error) {
	out := make([]entity.Staff, 0, len(seeds))
	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.PIN), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN for %s: %w", s.Staff.ID, err)
		}
		st := s.Staff
		st.PinHash = string(hash)
		out = append(out, st)
	}
	return out, nil
}
