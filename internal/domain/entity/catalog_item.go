package entity

import (
	"time"

	"github.com/sangkips/billing-api/pkg/money"
)

// CatalogItem is a sellable item as resolved from a barcode scan
type CatalogItem struct {
	SKU        string        `gorm:"primaryKey;size:64" json:"sku"`
	Barcode    string        `gorm:"size:64;uniqueIndex;not null" json:"barcode"`
	Name       string        `gorm:"size:255;not null" json:"name"`
	ImageURL   string        `gorm:"size:512" json:"image_url,omitempty"`
	MRP        money.Amount  `gorm:"not null" json:"mrp"`
	OfferPrice *money.Amount `json:"offer_price,omitempty"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// TableName returns the table name for the CatalogItem model
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// EffectivePrice returns the offer price when one is set, else the MRP
func (i CatalogItem) EffectivePrice() money.Amount {
	return effectivePrice(i.MRP, i.OfferPrice)
}

// effectivePrice treats a zero offer price as absent.
func effectivePrice(mrp money.Amount, offer *money.Amount) money.Amount {
	if offer != nil && *offer > 0 {
		return *offer
	}
	return mrp
}
