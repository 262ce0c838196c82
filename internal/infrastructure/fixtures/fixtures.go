// Package fixtures holds the demo store data used to seed the in-memory
// collaborators and an empty postgres database.
package fixtures

import (
	"time"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
)

// StaffSeed is a till operator and the PIN they sign in with
type StaffSeed struct {
	Staff entity.Staff
	PIN   string
}

func offer(major int64) *money.Amount {
	a := money.Major(major)
	return &a
}

// Catalog returns the demo catalog
func Catalog() []entity.CatalogItem {
	img := "/placeholder.svg"
	return []entity.CatalogItem{
		{SKU: "SKU-101", Barcode: "8901234567890", Name: "Premium Tea 250g", ImageURL: img, MRP: money.Major(250), OfferPrice: offer(225)},
		{SKU: "SKU-102", Barcode: "8901234567891", Name: "Coffee Beans 500g", ImageURL: img, MRP: money.Major(450), OfferPrice: offer(400)},
		{SKU: "SKU-103", Barcode: "8901234567892", Name: "Organic Honey 250ml", ImageURL: img, MRP: money.Major(320)},
		{SKU: "SKU-104", Barcode: "8901234567893", Name: "Whole Wheat Flour 1kg", ImageURL: img, MRP: money.Major(80), OfferPrice: offer(75)},
		{SKU: "SKU-105", Barcode: "8901234567894", Name: "Basmati Rice 5kg", ImageURL: img, MRP: money.Major(650)},
		{SKU: "SKU-106", Barcode: "8901234567895", Name: "Olive Oil 500ml", ImageURL: img, MRP: money.Major(550), OfferPrice: offer(499)},
		{SKU: "SKU-107", Barcode: "8901234567896", Name: "Almond Milk 1L", ImageURL: img, MRP: money.Major(180)},
		{SKU: "SKU-108", Barcode: "8901234567897", Name: "Dark Chocolate 100g", ImageURL: img, MRP: money.Major(120), OfferPrice: offer(99)},
		{SKU: "SKU-109", Barcode: "8901234567898", Name: "Green Tea 50 bags", ImageURL: img, MRP: money.Major(200)},
		{SKU: "SKU-110", Barcode: "8901234567899", Name: "Peanut Butter 500g", ImageURL: img, MRP: money.Major(280), OfferPrice: offer(249)},
	}
}

func Customers() []entity.Customer {
	return []entity.Customer{
		{Phone: "9876543210", Name: "Rajesh Kumar"},
		{Phone: "9876543211", Name: "Priya Sharma"},
		{Phone: "9876543212", Name: "Amit Patel"},
	}
}

// Staff returns the demo operators. PINs are development defaults.
func Staff() []StaffSeed {
	return []StaffSeed{
		{Staff: entity.Staff{ID: "STAFF-001", Name: "Vikram Singh"}, PIN: "1001"},
		{Staff: entity.Staff{ID: "STAFF-002", Name: "Sneha Reddy"}, PIN: "1002"},
	}
}

// CreditNotes returns notes for customer 9876543210 relative to now
func CreditNotes(now time.Time) []entity.CreditNote {
	day := 24 * time.Hour
	return []entity.CreditNote{
		{ID: "cn-001", Number: "CN-2024-001", CustomerID: "9876543210", Amount: money.Major(500), RemainingAmount: money.Major(500), ExpiresAt: now.Add(30 * day), Status: enum.CreditNoteStatusActive},
		{ID: "cn-002", Number: "CN-2024-002", CustomerID: "9876543210", Amount: money.Major(300), RemainingAmount: money.Major(150), ExpiresAt: now.Add(15 * day), Status: enum.CreditNoteStatusActive},
		{ID: "cn-003", Number: "CN-2024-003", CustomerID: "9876543210", Amount: money.Major(200), RemainingAmount: money.Major(200), ExpiresAt: now.Add(-5 * day), Status: enum.CreditNoteStatusExpired},
	}
}

// SavedCarts returns two parked carts and one already expired guest cart
func SavedCarts(now time.Time, storeID string) []entity.SavedCart {
	staff := Staff()
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	return []entity.SavedCart{
		{
			ID:          "SAVED-001",
			Label:       "Cart 1",
			StoreID:     storeID,
			CreatedByID: staff[0].Staff.ID,
			CreatedBy:   staff[0].Staff,
			Status:      enum.SavedCartStatusSaved,
			Customer:    entity.Customer{Phone: "9876543210", Name: "Rajesh Kumar"},
			Lines: []entity.CartLine{
				{SKU: "SKU-101", Barcode: "8901234567890", Name: "Premium Tea 250g", MRP: money.Major(250), OfferPrice: offer(225), Qty: 2},
			},
			SubtotalAtSave: money.Major(450),
			CreatedAt:      now.Add(-time.Hour),
			UpdatedAt:      now.Add(-time.Hour),
			ExpiresAt:      at(48 * time.Hour),
		},
		{
			ID:          "SAVED-002",
			Label:       "Cart 2",
			StoreID:     storeID,
			CreatedByID: staff[1].Staff.ID,
			CreatedBy:   staff[1].Staff,
			Status:      enum.SavedCartStatusSaved,
			Customer:    entity.Customer{Phone: "9876543211", Name: "Priya Sharma"},
			Lines: []entity.CartLine{
				{SKU: "SKU-102", Barcode: "8901234567891", Name: "Coffee Beans 500g", MRP: money.Major(450), OfferPrice: offer(400), Qty: 1},
				{SKU: "SKU-104", Barcode: "8901234567893", Name: "Whole Wheat Flour 1kg", MRP: money.Major(80), OfferPrice: offer(75), Qty: 3},
			},
			SubtotalAtSave: money.Major(625),
			CreatedAt:      now.Add(-2 * time.Hour),
			UpdatedAt:      now.Add(-2 * time.Hour),
			ExpiresAt:      at(46 * time.Hour),
		},
		{
			ID:          "SAVED-003",
			Label:       "Guest Cart",
			StoreID:     storeID,
			CreatedByID: staff[0].Staff.ID,
			CreatedBy:   staff[0].Staff,
			Status:      enum.SavedCartStatusExpired,
			Customer:    entity.Customer{IsGuest: true},
			Lines: []entity.CartLine{
				{SKU: "SKU-105", Barcode: "8901234567894", Name: "Basmati Rice 5kg", MRP: money.Major(650), Qty: 1},
			},
			SubtotalAtSave: money.Major(650),
			CreatedAt:      now.Add(-50 * time.Hour),
			UpdatedAt:      now.Add(-50 * time.Hour),
			ExpiresAt:      at(-2 * time.Hour),
		},
	}
}
