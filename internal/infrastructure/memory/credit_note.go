package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/money"
)

type creditNoteRepository struct {
	mu    sync.Mutex
	notes map[string]entity.CreditNote
}

// NewCreditNoteRepository creates an in-memory credit-note ledger
func NewCreditNoteRepository(notes []entity.CreditNote) domainRepo.CreditNoteRepository {
	r := &creditNoteRepository{notes: make(map[string]entity.CreditNote, len(notes))}
	for _, n := range notes {
		r.notes[n.ID] = n
	}
	return r
}

func (r *creditNoteRepository) ListRedeemable(ctx context.Context, customerID string, now time.Time) ([]entity.CreditNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CreditNote
	for _, n := range r.notes {
		if n.CustomerID == customerID && n.Redeemable(now) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

func (r *creditNoteRepository) GetByID(ctx context.Context, id string) (*entity.CreditNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// DebitBatch applies all debits or none
func (r *creditNoteRepository) DebitBatch(ctx context.Context, debits map[string]money.Amount, now time.Time) ([]string, error) {
	if len(debits) == 0 {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var failedIDs []string
	for id, amount := range debits {
		n, ok := r.notes[id]
		if !ok || !n.Redeemable(now) || n.RemainingAmount < amount {
			failedIDs = append(failedIDs, id)
		}
	}
	if len(failedIDs) > 0 {
		sort.Strings(failedIDs)
		return failedIDs, nil
	}

	for id, amount := range debits {
		n := r.notes[id]
		n.RemainingAmount -= amount
		n.UpdatedAt = now
		r.notes[id] = n
	}
	return nil, nil
}

func (r *creditNoteRepository) CreditBatch(ctx context.Context, credits map[string]money.Amount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, amount := range credits {
		if n, ok := r.notes[id]; ok {
			n.RemainingAmount += amount
			r.notes[id] = n
		}
	}
	return nil
}
