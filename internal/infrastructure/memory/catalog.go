package memory

import (
	"context"
	"sync"

	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
)

// Catalog is an in-memory catalog that can be repriced while running
type Catalog struct {
	mu        sync.RWMutex
	bySKU     map[string]entity.CatalogItem
	byBarcode map[string]string
}

// NewCatalogRepository creates an in-memory catalog holding items
func NewCatalogRepository(items []entity.CatalogItem) *Catalog {
	r := &Catalog{
		bySKU:     make(map[string]entity.CatalogItem, len(items)),
		byBarcode: make(map[string]string, len(items)),
	}
	for _, item := range items {
		r.Upsert(item)
	}
	return r
}

var _ domainRepo.CatalogRepository = (*Catalog)(nil)

// Upsert adds or reprices an item
func (r *Catalog) Upsert(item entity.CatalogItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.bySKU[item.SKU]; ok {
		delete(r.byBarcode, old.Barcode)
	}
	r.bySKU[item.SKU] = copyItem(item)
	r.byBarcode[item.Barcode] = item.SKU
}

func (r *Catalog) GetByBarcode(ctx context.Context, barcode string) (*entity.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sku, ok := r.byBarcode[barcode]
	if !ok {
		return nil, nil
	}
	item := copyItem(r.bySKU[sku])
	return &item, nil
}

func (r *Catalog) GetBySKU(ctx context.Context, sku string) (*entity.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.bySKU[sku]
	if !ok {
		return nil, nil
	}
	item = copyItem(item)
	return &item, nil
}

func (r *Catalog) GetBySKUs(ctx context.Context, skus []string) ([]entity.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]entity.CatalogItem, 0, len(skus))
	for _, sku := range skus {
		if item, ok := r.bySKU[sku]; ok {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}

func copyItem(item entity.CatalogItem) entity.CatalogItem {
	if item.OfferPrice != nil {
		o := *item.OfferPrice
		item.OfferPrice = &o
	}
	return item
}
