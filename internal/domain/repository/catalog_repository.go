package repository

import (
	"context"

	"github.com/sangkips/billing-api/internal/domain/entity"
)

// CatalogRepository resolves sellable items. Lookups return (nil, nil) when nothing matches.
type CatalogRepository interface {
	GetByBarcode(ctx context.Context, barcode string) (*entity.CatalogItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.CatalogItem, error)
	// GetBySKUs retrieves current pricing for several SKUs in a single query
	GetBySKUs(ctx context.Context, skus []string) ([]entity.CatalogItem, error)
}
