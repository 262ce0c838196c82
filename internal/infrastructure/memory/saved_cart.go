package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/pagination"
)

type savedCartRepository struct {
	mu    sync.RWMutex
	carts map[string]entity.SavedCart
}

// NewSavedCartRepository creates an in-memory saved cart pool
func NewSavedCartRepository(carts []entity.SavedCart) domainRepo.SavedCartRepository {
	r := &savedCartRepository{carts: make(map[string]entity.SavedCart, len(carts))}
	for _, c := range carts {
		r.carts[c.ID] = c
	}
	return r
}

func (r *savedCartRepository) Create(ctx context.Context, cart *entity.SavedCart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.ID] = cloneSaved(*cart)
	return nil
}

func (r *savedCartRepository) GetByID(ctx context.Context, id string) (*entity.SavedCart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[id]
	if !ok {
		return nil, nil
	}
	c = cloneSaved(c)
	return &c, nil
}

// List returns carts newest first
func (r *savedCartRepository) List(ctx context.Context, params *domainRepo.SavedCartFilterParams) ([]entity.SavedCart, int64, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	r.mu.RLock()
	var matched []entity.SavedCart
	for _, c := range r.carts {
		if params.StoreID != "" && c.StoreID != params.StoreID {
			continue
		}
		if params.StaffID != "" && c.CreatedByID != params.StaffID {
			continue
		}
		if params.Status != nil && c.Status != *params.Status {
			continue
		}
		if params.Search != "" && !matchesSearch(c, params.Search) {
			continue
		}
		matched = append(matched, cloneSaved(c))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start, end := params.Pagination.Window(len(matched))
	return matched[start:end], total, nil
}

func (r *savedCartRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[id]; !ok {
		return false, nil
	}
	delete(r.carts, id)
	return true, nil
}

func (r *savedCartRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.carts {
		if c.Status == enum.SavedCartStatusSaved && c.ExpiresAt != nil && c.ExpiresAt.Before(cutoff) {
			c.Status = enum.SavedCartStatusExpired
			c.UpdatedAt = cutoff
			r.carts[id] = c
			n++
		}
	}
	return n, nil
}

func cloneSaved(c entity.SavedCart) entity.SavedCart {
	c.Lines = entity.CloneLines(c.Lines)
	c.BillManualDiscounts = append([]entity.ManualDiscount(nil), c.BillManualDiscounts...)
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		c.ExpiresAt = &t
	}
	return c
}

func matchesSearch(c entity.SavedCart, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Label), q) ||
		strings.Contains(strings.ToLower(c.Customer.Name), q) ||
		strings.Contains(c.Customer.Phone, q)
}
