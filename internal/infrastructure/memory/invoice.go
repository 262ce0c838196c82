package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
)

type invoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]entity.Invoice
	numbers  map[string]string
}

// NewInvoiceRepository creates an in-memory invoice store
func NewInvoiceRepository() domainRepo.InvoiceRepository {
	return &invoiceRepository{
		invoices: make(map[string]entity.Invoice),
		numbers:  make(map[string]string),
	}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.numbers[invoice.InvoiceNo]; taken {
		return fmt.Errorf("invoice number %s already exists", invoice.InvoiceNo)
	}
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	r.invoices[invoice.ID] = *invoice
	r.numbers[invoice.InvoiceNo] = invoice.ID
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

type idempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

// NewIdempotencyRepository creates an in-memory idempotency key store
func NewIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &idempotencyRepository{keys: make(map[string]entity.IdempotencyKey)}
}

func idempotencyScope(key, staffID string) string {
	return staffID + "\x00" + key
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, staffID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[idempotencyScope(key, staffID)]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope := idempotencyScope(ikey.Key, ikey.StaffID)
	if _, exists := r.keys[scope]; exists {
		return fmt.Errorf("idempotency key %s already recorded", ikey.Key)
	}
	r.keys[scope] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for scope, k := range r.keys {
		if k.IsExpired(now) {
			delete(r.keys, scope)
		}
	}
	return nil
}
