package repository

import (
	"gorm.io/gorm"

	"github.com/sangkips/billing-api/pkg/pagination"
)

// StoreScope returns a GORM scope that filters by store.
// An empty store id leaves the query unscoped.
func StoreScope(storeID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if storeID == "" {
			return db
		}
		return db.Where("store_id = ?", storeID)
	}
}

// Paginate returns a GORM scope applying page-based offset and limit
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}
