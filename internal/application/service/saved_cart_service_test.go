package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/pagination"
)

func TestSave_RequiresLines(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.saved.Save(context.Background(), testWS, vikram, "empty")
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestSave_SnapshotsAndClearsWorkspace(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, err := h.billing.SetCustomer(ctx, testWS, vikram, "9876543211", "")
	require.NoError(t, err)
	h.scan(t, barcodeCoffee, 2)

	before := time.Now()
	saved, err := h.saved.Save(ctx, testWS, vikram, "  ")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(saved.Label, "Cart "))
	assert.Equal(t, enum.SavedCartStatusSaved, saved.Status)
	assert.Equal(t, testStore, saved.StoreID)
	assert.Equal(t, vikram.ID, saved.CreatedByID)
	assert.Equal(t, testWS, saved.DeviceID)
	assert.Equal(t, major(800), saved.SubtotalAtSave)
	assert.Equal(t, "Priya Sharma", saved.Customer.Name)
	require.NotNil(t, saved.ExpiresAt)
	assert.WithinDuration(t, before.Add(48*time.Hour), *saved.ExpiresAt, time.Minute)

	cart := h.billing.GetCart(ctx, testWS, vikram)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.Customer.Phone)

	stored, err := h.repos.SavedCarts.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestResume_RepricesAndLeavesPool(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	item, err := h.catalog.GetBySKU(ctx, "SKU-101")
	require.NoError(t, err)
	cheaper := major(199)
	item.OfferPrice = &cheaper
	h.catalog.Upsert(*item)

	result, err := h.saved.Resume(ctx, testWS, vikram, "SAVED-001")
	require.NoError(t, err)

	assert.False(t, result.ExpiredWarning)
	require.Len(t, result.RepricingChanges, 1)
	change := result.RepricingChanges[0]
	assert.Equal(t, enum.RepricingTypePriceChange, change.Type)
	assert.Equal(t, major(225), change.OldPrice)
	assert.Equal(t, major(199), change.NewPrice)

	assert.Equal(t, "Rajesh Kumar", result.Cart.Customer.Name)
	assert.Equal(t, major(398), result.Cart.Subtotal)
	assert.True(t, result.Cart.DiscountsFresh())

	gone, err := h.repos.SavedCarts.GetByID(ctx, "SAVED-001")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestResume_CarriesBillDiscountsAndRecomputesAuto(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeBasmati, 2)

	pct := 5.0
	_, err := h.billing.AddBillDiscount(ctx, testWS, vikram, billing.ManualDiscountInput{
		Type:   enum.DiscountTypePercent,
		Value:  &pct,
		Reason: "staff",
	})
	require.NoError(t, err)

	saved, err := h.saved.Save(ctx, testWS, vikram, "bulk rice")
	require.NoError(t, err)

	result, err := h.saved.Resume(ctx, testWS, sneha, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, result.RepricingChanges)
	require.Len(t, result.Cart.BillManualDiscounts, 1)
	require.Len(t, result.Cart.AutoDiscounts, 1)
	assert.Equal(t, major(130), result.Cart.AutoDiscounts[0].Amount)
	// 1300 - 130 auto - 65 manual
	assert.Equal(t, major(1105), result.Cart.TotalPayable)
	assert.Equal(t, vikram.ID, result.Cart.Staff.ID)
}

func TestResume_ExpiredCartWarns(t *testing.T) {
	h := newHarness(t, nil)

	result, err := h.saved.Resume(context.Background(), testWS, vikram, "SAVED-003")
	require.NoError(t, err)
	assert.True(t, result.ExpiredWarning)
	assert.Len(t, result.Cart.Lines, 1)
}

func TestResume_LockedCartRejected(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	locked := &entity.SavedCart{
		ID:      "SAVED-LOCK",
		Label:   "held by another till",
		StoreID: testStore,
		Status:  enum.SavedCartStatusLocked,
		Lines:   []entity.CartLine{{SKU: "SKU-107", Name: "Almond Milk 1L", MRP: major(180), Qty: 1}},
	}
	require.NoError(t, h.repos.SavedCarts.Create(ctx, locked))

	_, err := h.saved.Resume(ctx, testWS, vikram, "SAVED-LOCK")
	require.True(t, apperror.IsKind(err, apperror.KindState))
	assert.Contains(t, err.Error(), "locked")

	still, err := h.repos.SavedCarts.GetByID(ctx, "SAVED-LOCK")
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestResume_RequiresEmptyWorkspace(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeTea, 1)

	_, err := h.saved.Resume(ctx, testWS, vikram, "SAVED-002")
	assert.True(t, apperror.IsKind(err, apperror.KindState))

	still, err := h.repos.SavedCarts.GetByID(ctx, "SAVED-002")
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestResume_KeepsCustomerOrDiscountsOnLineFreeCart(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.billing.SetCustomer(ctx, testWS, vikram, "9876543210", "")
	require.NoError(t, err)
	_, err = h.saved.Resume(ctx, testWS, vikram, "SAVED-002")
	assert.True(t, apperror.IsKind(err, apperror.KindState))
	assert.Equal(t, "9876543210", h.billing.GetCart(ctx, testWS, vikram).Customer.Phone)

	other := "till-9"
	ten := 10.0
	_, err = h.billing.AddBillDiscount(ctx, other, vikram, billing.ManualDiscountInput{
		Type: enum.DiscountTypeAmount, Value: &ten, Reason: "goodwill",
	})
	require.NoError(t, err)
	_, err = h.saved.Resume(ctx, other, vikram, "SAVED-002")
	assert.True(t, apperror.IsKind(err, apperror.KindState))
	assert.Len(t, h.billing.GetCart(ctx, other, vikram).BillManualDiscounts, 1)

	still, err := h.repos.SavedCarts.GetByID(ctx, "SAVED-002")
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestResume_UnknownCart(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.saved.Resume(context.Background(), testWS, vikram, "SAVED-404")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeleteSavedCart(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	require.NoError(t, h.saved.Delete(ctx, "SAVED-002"))

	err := h.saved.Delete(ctx, "SAVED-002")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListSavedCarts_Filters(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	all, err := h.saved.List(ctx, &ListSavedCartsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Pagination.Total)
	assert.Equal(t, "SAVED-001", all.Items[0].ID)

	mine, err := h.saved.List(ctx, &ListSavedCartsInput{StaffID: sneha.ID})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "SAVED-002", mine.Items[0].ID)

	expired := enum.SavedCartStatusExpired
	stale, err := h.saved.List(ctx, &ListSavedCartsInput{Status: &expired})
	require.NoError(t, err)
	require.Len(t, stale.Items, 1)
	assert.Equal(t, "SAVED-003", stale.Items[0].ID)

	search, err := h.saved.List(ctx, &ListSavedCartsInput{Search: "priya"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)

	paged, err := h.saved.List(ctx, &ListSavedCartsInput{Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Len(t, paged.Items, 1)
	assert.False(t, paged.Pagination.HasNext)
}

func TestExpireStale(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)
	require.NoError(t, h.repos.SavedCarts.Create(ctx, &entity.SavedCart{
		ID:        "SAVED-OLD",
		Label:     "yesterday",
		StoreID:   testStore,
		Status:    enum.SavedCartStatusSaved,
		ExpiresAt: &past,
	}))

	n, err := h.saved.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, err := h.repos.SavedCarts.GetByID(ctx, "SAVED-OLD")
	require.NoError(t, err)
	assert.Equal(t, enum.SavedCartStatusExpired, old.Status)
}

func TestScheduleExpirySweep_RejectsBadSpec(t *testing.T) {
	h := newHarness(t, nil)
	c := cron.New()

	assert.Error(t, h.saved.ScheduleExpirySweep(c, "not a schedule"))
	assert.NoError(t, h.saved.ScheduleExpirySweep(c, "@every 5m"))
	assert.Len(t, c.Entries(), 1)
}
