package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/pagination"
)

type savedCartRepository struct {
	db *gorm.DB
}

// NewSavedCartRepository creates a new saved cart repository
func NewSavedCartRepository(db *gorm.DB) domainRepo.SavedCartRepository {
	return &savedCartRepository{db: db}
}

func (r *savedCartRepository) Create(ctx context.Context, cart *entity.SavedCart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *savedCartRepository) GetByID(ctx context.Context, id string) (*entity.SavedCart, error) {
	var cart entity.SavedCart
	err := r.db.WithContext(ctx).First(&cart, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *savedCartRepository) List(ctx context.Context, params *domainRepo.SavedCartFilterParams) ([]entity.SavedCart, int64, error) {
	var carts []entity.SavedCart
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	query := r.db.WithContext(ctx).Model(&entity.SavedCart{}).Scopes(StoreScope(params.StoreID))

	if params.StaffID != "" {
		query = query.Where("created_by_id = ?", params.StaffID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("label ILIKE ? OR customer::text ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("created_at DESC").
		Find(&carts).Error

	return carts, total, err
}

func (r *savedCartRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&entity.SavedCart{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *savedCartRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.SavedCart{}).
		Where("status = ? AND expires_at < ?", enum.SavedCartStatusSaved, cutoff).
		Updates(map[string]interface{}{
			"status":     enum.SavedCartStatusExpired,
			"updated_at": cutoff,
		})
	return result.RowsAffected, result.Error
}
