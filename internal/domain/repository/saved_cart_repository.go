package repository

import (
	"context"
	"time"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/pagination"
)

// SavedCartRepository persists parked carts
type SavedCartRepository interface {
	Create(ctx context.Context, cart *entity.SavedCart) error
	GetByID(ctx context.Context, id string) (*entity.SavedCart, error)
	List(ctx context.Context, params *SavedCartFilterParams) ([]entity.SavedCart, int64, error)
	// Delete removes a saved cart. Returns false when no cart had that id.
	Delete(ctx context.Context, id string) (bool, error)
	// ExpireBefore moves Saved carts whose expiry is before cutoff to Expired and returns how many moved
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SavedCartFilterParams contains filtering parameters for saved cart queries
type SavedCartFilterParams struct {
	Pagination *pagination.PaginationParams
	StoreID    string
	StaffID    string
	Status     *enum.SavedCartStatus
	// Search matches the label, customer name or customer phone, ignoring case
	Search string
}
