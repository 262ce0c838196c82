package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := r.db.WithContext(ctx).First(&item, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *catalogRepository) GetBySKU(ctx context.Context, sku string) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// GetBySKUs retrieves multiple items in a single query (prevents N+1 on resume)
func (r *catalogRepository) GetBySKUs(ctx context.Context, skus []string) ([]entity.CatalogItem, error) {
	if len(skus) == 0 {
		return []entity.CatalogItem{}, nil
	}
	var items []entity.CatalogItem
	err := r.db.WithContext(ctx).Where("sku IN ?", skus).Find(&items).Error
	return items, err
}
