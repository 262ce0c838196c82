package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
)

func TestScanBarcode_IncrementsExistingLine(t *testing.T) {
	h := newHarness(t, nil)

	cart := h.scan(t, barcodeTea, 2)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "SKU-101", cart.Lines[0].SKU)
	assert.Equal(t, 2, cart.Lines[0].Qty)
	assert.Equal(t, major(450), cart.Subtotal)
	assert.Equal(t, vikram.ID, cart.Staff.ID)
}

func TestScanBarcode_UnknownBarcodeLeavesCartUntouched(t *testing.T) {
	h := newHarness(t, nil)
	h.scan(t, barcodeTea, 1)

	_, err := h.billing.ScanBarcode(context.Background(), testWS, vikram, "0000000000000")

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	cart := h.billing.GetCart(context.Background(), testWS, vikram)
	assert.Len(t, cart.Lines, 1)
}

func TestAutoDiscount_RecomputedWhenSubtotalDrops(t *testing.T) {
	h := newHarness(t, nil)

	cart := h.scan(t, barcodeBasmati, 2)
	require.Len(t, cart.AutoDiscounts, 1)
	assert.Equal(t, major(130), cart.AutoDiscounts[0].Amount)
	assert.Equal(t, major(1170), cart.TotalPayable)

	cart, err := h.billing.SetQuantity(context.Background(), testWS, vikram, "SKU-105", 1)
	require.NoError(t, err)
	assert.Empty(t, cart.AutoDiscounts)
	assert.Equal(t, major(650), cart.TotalPayable)
}

func TestAutoDiscount_StaleEvaluationIsDiscarded(t *testing.T) {
	gate := newGatedEvaluator()
	h := newHarness(t, gate)
	ctx := context.Background()

	first := make(chan *entity.Cart, 1)
	go func() {
		cart, _ := h.billing.ScanBarcode(ctx, testWS, vikram, barcodeBasmati)
		first <- cart
	}()
	<-gate.entered

	// a second scan commits while the first evaluation is still in flight
	cart, err := h.billing.ScanBarcode(ctx, testWS, vikram, barcodeBasmati)
	require.NoError(t, err)
	require.Len(t, cart.AutoDiscounts, 1)

	close(gate.release)
	<-first

	cart = h.billing.GetCart(ctx, testWS, vikram)
	assert.True(t, cart.DiscountsFresh())
	require.Len(t, cart.AutoDiscounts, 1)
	assert.Equal(t, major(130), cart.AutoDiscounts[0].Amount)
}

func TestAutoDiscount_FailedEvaluationBlocksCheckout(t *testing.T) {
	h := newHarness(t, failingEvaluator{})
	ctx := context.Background()

	cart := h.scan(t, barcodeTea, 1)
	assert.Len(t, cart.Lines, 1)
	assert.False(t, cart.DiscountsFresh())

	_, err := h.billing.BeginCheckout(ctx, testWS, vikram)
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestLineDiscount_ValidatedBeforeApplying(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeCoffee, 1)

	ten := 10.0
	_, err := h.billing.SetLineDiscount(ctx, testWS, vikram, "SKU-102", &billing.ManualDiscountInput{
		Type:  enum.DiscountTypePercent,
		Value: &ten,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	cart, err := h.billing.SetLineDiscount(ctx, testWS, vikram, "SKU-102", &billing.ManualDiscountInput{
		Type:   enum.DiscountTypePercent,
		Value:  &ten,
		Reason: "damaged box",
	})
	require.NoError(t, err)
	assert.Equal(t, major(360), cart.Subtotal)

	cart, err = h.billing.SetLineDiscount(ctx, testWS, vikram, "SKU-102", nil)
	require.NoError(t, err)
	assert.Equal(t, major(400), cart.Subtotal)
}

func TestBillDiscount_AddAndRemove(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeCoffee, 1)

	fifty := 50.0
	cart, err := h.billing.AddBillDiscount(ctx, testWS, vikram, billing.ManualDiscountInput{
		Type:   enum.DiscountTypeAmount,
		Value:  &fifty,
		Reason: "loyalty",
	})
	require.NoError(t, err)
	assert.Equal(t, major(50), cart.TotalDiscount)
	assert.Equal(t, major(350), cart.TotalPayable)

	_, err = h.billing.RemoveBillDiscount(ctx, testWS, vikram, 3)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	cart, err = h.billing.RemoveBillDiscount(ctx, testWS, vikram, 0)
	require.NoError(t, err)
	assert.Equal(t, major(400), cart.TotalPayable)
}

func TestSearchCustomers(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	short, err := h.billing.SearchCustomers(ctx, "Ra")
	require.NoError(t, err)
	assert.Empty(t, short)

	found, err := h.billing.SearchCustomers(ctx, "raj")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "9876543210", found[0].Phone)
}

func TestSetCustomer_RegistersUnknownPhone(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	cart, err := h.billing.SetCustomer(ctx, testWS, vikram, "9000000001", "Meera Iyer")
	require.NoError(t, err)
	assert.Equal(t, "Meera Iyer", cart.Customer.Name)

	stored, err := h.repos.Customers.GetByPhone(ctx, "9000000001")
	require.NoError(t, err)
	require.NotNil(t, stored)

	_, err = h.billing.SetCustomer(ctx, testWS, vikram, "  ", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestSetGuest_OffersNoCreditNotes(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeTea, 1)

	cart, err := h.billing.SetGuest(ctx, testWS, vikram)
	require.NoError(t, err)
	assert.True(t, cart.Customer.IsGuest)
	assert.True(t, strings.HasPrefix(cart.Customer.Phone, "GUEST-"))

	view, err := h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	assert.Empty(t, view.CreditNotes)
}

func TestBeginCheckout_RequiresLines(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.billing.BeginCheckout(context.Background(), testWS, vikram)
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestCheckout_FreezesCartUntilCancelled(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeTea, 1)

	view, err := h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	assert.Equal(t, enum.CartStatusCheckingOut, view.Cart.Status)
	assert.Equal(t, major(225), view.Remaining)

	_, err = h.billing.ScanBarcode(ctx, testWS, vikram, barcodeTea)
	assert.True(t, apperror.IsKind(err, apperror.KindState))

	cart, err := h.billing.CancelCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	assert.Equal(t, enum.CartStatusOpen, cart.Status)

	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{Amount: major(10), Details: entity.CashPayment{}})
	assert.True(t, apperror.IsKind(err, apperror.KindState))

	cart = h.scan(t, barcodeTea, 1)
	assert.Equal(t, 2, cart.Lines[0].Qty)
}

func TestConfirm_CashWithChange(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	before := h.scan(t, barcodeTea, 1)

	_, err := h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)

	view, err := h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{
		Amount:  major(225),
		Details: entity.CashPayment{Received: major(500)},
	})
	require.NoError(t, err)
	assert.True(t, view.CanConfirm)
	assert.Equal(t, major(275), view.ChangeDue)

	invoice, err := h.billing.Confirm(ctx, testWS, vikram)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(invoice.InvoiceNo, "INV-"))
	assert.Equal(t, testStore, invoice.StoreID)
	assert.Equal(t, before.ID, invoice.CartID)
	assert.Equal(t, major(225), invoice.Totals.Payable)
	assert.Equal(t, major(275), invoice.ChangeDue)

	next := h.billing.GetCart(ctx, testWS, vikram)
	assert.NotEqual(t, before.ID, next.ID)
	assert.Empty(t, next.Lines)
	assert.Equal(t, enum.CartStatusOpen, next.Status)

	stored, err := h.billing.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceNo, stored.InvoiceNo)
}

func TestConfirm_RejectsUnsettledBill(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeTea, 1)
	_, err := h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)

	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{Amount: major(100), Details: entity.UPIPayment{TxnRef: "UPI123"}})
	require.NoError(t, err)

	_, err = h.billing.Confirm(ctx, testWS, vikram)
	assert.True(t, apperror.IsKind(err, apperror.KindState))

	view, err := h.billing.GetCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	assert.Equal(t, major(125), view.Remaining)
	assert.Equal(t, enum.CartStatusCheckingOut, view.Cart.Status)
}

func TestPayments_EditAndRemove(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeCoffee, 1)
	_, err := h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)

	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{Amount: major(400), Details: entity.WalletPayment{}})
	require.NoError(t, err)

	view, err := h.billing.EditPayment(ctx, testWS, vikram, 0, PaymentInput{
		Amount:  major(400),
		Details: entity.CardPayment{CardType: "VISA", Last4Digits: "4242", AuthNo: "A1"},
	})
	require.NoError(t, err)
	require.Len(t, view.Payments, 1)
	assert.Equal(t, enum.PaymentModeCard, view.Payments[0].Mode())

	_, err = h.billing.RemovePayment(ctx, testWS, vikram, 5)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	view, err = h.billing.RemovePayment(ctx, testWS, vikram, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Payments)
	assert.Equal(t, major(400), view.Remaining)
}

func TestConfirm_RedeemsCreditNotesInSelectionOrder(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.billing.SetCustomer(ctx, testWS, vikram, "9876543210", "")
	require.NoError(t, err)
	h.scan(t, barcodeCoffee, 1)

	view, err := h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	require.Len(t, view.CreditNotes, 2)

	selected := []string{"cn-002", "cn-001"}
	quote, err := h.billing.QuoteCreditNotes(ctx, testWS, vikram, selected)
	require.NoError(t, err)
	assert.Equal(t, major(400), quote)

	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{
		Amount:  quote,
		Details: entity.CreditNotePayment{NoteIDs: selected},
	})
	require.NoError(t, err)

	invoice, err := h.billing.Confirm(ctx, testWS, vikram)
	require.NoError(t, err)

	cn, ok := invoice.Payments[0].Details.(entity.CreditNotePayment)
	require.True(t, ok)
	require.Len(t, cn.Redemptions, 2)
	assert.Equal(t, entity.CreditNoteRedemption{NoteID: "cn-002", Number: "CN-2024-002", Amount: major(150)}, cn.Redemptions[0])
	assert.Equal(t, major(250), cn.Redemptions[1].Amount)

	note1, err := h.repos.CreditNotes.GetByID(ctx, "cn-001")
	require.NoError(t, err)
	assert.Equal(t, major(250), note1.RemainingAmount)
	note2, err := h.repos.CreditNotes.GetByID(ctx, "cn-002")
	require.NoError(t, err)
	assert.Equal(t, money.Zero, note2.RemainingAmount)
}

func TestConfirm_RestoresCreditNotesWhenInvoiceFails(t *testing.T) {
	h := newHarness(t, nil)
	h.billing.invoices = failingInvoiceRepository{}
	ctx := context.Background()

	_, err := h.billing.SetCustomer(ctx, testWS, vikram, "9876543210", "")
	require.NoError(t, err)
	h.scan(t, barcodeTea, 1)
	_, err = h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{
		Amount:  major(225),
		Details: entity.CreditNotePayment{NoteIDs: []string{"cn-001"}},
	})
	require.NoError(t, err)

	_, err = h.billing.Confirm(ctx, testWS, vikram)
	assert.True(t, apperror.IsKind(err, apperror.KindCollaborator))

	note, err := h.repos.CreditNotes.GetByID(ctx, "cn-001")
	require.NoError(t, err)
	assert.Equal(t, major(500), note.RemainingAmount)

	view, err := h.billing.GetCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	assert.True(t, view.CanConfirm)
}

func TestConfirm_FailsWhenNoteBalanceMovedElsewhere(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.billing.SetCustomer(ctx, testWS, vikram, "9876543210", "")
	require.NoError(t, err)
	h.scan(t, barcodeTea, 1)
	_, err = h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{
		Amount:  major(150),
		Details: entity.CreditNotePayment{NoteIDs: []string{"cn-002"}},
	})
	require.NoError(t, err)
	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{Amount: major(75), Details: entity.CashPayment{}})
	require.NoError(t, err)

	// another till spends the note first
	failed, err := h.repos.CreditNotes.DebitBatch(ctx, map[string]money.Amount{"cn-002": major(100)}, time.Now())
	require.NoError(t, err)
	require.Empty(t, failed)

	_, err = h.billing.Confirm(ctx, testWS, vikram)
	assert.True(t, apperror.IsKind(err, apperror.KindState))
	assert.Equal(t, enum.CartStatusCheckingOut, h.billing.GetCart(ctx, testWS, vikram).Status)
}

func TestConfirm_FailsWhenNoteExpiresDuringCheckout(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.billing.SetCustomer(ctx, testWS, vikram, "9876543210", "")
	require.NoError(t, err)
	h.scan(t, barcodeTea, 1)
	_, err = h.billing.BeginCheckout(ctx, testWS, vikram)
	require.NoError(t, err)
	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{
		Amount:  major(150),
		Details: entity.CreditNotePayment{NoteIDs: []string{"cn-002"}},
	})
	require.NoError(t, err)
	_, err = h.billing.AddPayment(ctx, testWS, vikram, PaymentInput{Amount: major(75), Details: entity.CashPayment{}})
	require.NoError(t, err)

	// cn-002 expires 15 days out
	later := time.Now().Add(20 * 24 * time.Hour)
	h.billing.now = func() time.Time { return later }

	_, err = h.billing.Confirm(ctx, testWS, vikram)
	assert.True(t, apperror.IsKind(err, apperror.KindState))
	assert.Equal(t, enum.CartStatusCheckingOut, h.billing.GetCart(ctx, testWS, vikram).Status)

	note, err := h.repos.CreditNotes.GetByID(ctx, "cn-002")
	require.NoError(t, err)
	assert.Equal(t, major(150), note.RemainingAmount)
}

func TestGetInvoice_NotFound(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.billing.GetInvoice(context.Background(), "missing")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestWorkspaces_AreIndependent(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scan(t, barcodeTea, 1)

	other, err := h.billing.ScanBarcode(ctx, "till-2", sneha, barcodeCoffee)
	require.NoError(t, err)
	require.Len(t, other.Lines, 1)
	assert.Equal(t, sneha.ID, other.Staff.ID)

	mine := h.billing.GetCart(ctx, testWS, vikram)
	require.Len(t, mine.Lines, 1)
	assert.Equal(t, "SKU-101", mine.Lines[0].SKU)
}

func TestScanBarcode_LineCommitsBeforeEvaluationFinishes(t *testing.T) {
	gate := newGatedEvaluator()
	h := newHarness(t, gate)

	done := make(chan struct{})
	go func() {
		_, _ = h.billing.ScanBarcode(context.Background(), testWS, vikram, barcodeTea)
		close(done)
	}()
	<-gate.entered

	cart := h.billing.GetCart(context.Background(), testWS, vikram)
	assert.Len(t, cart.Lines, 1)
	assert.False(t, cart.DiscountsFresh())

	close(gate.release)
	<-done
	assert.True(t, h.billing.GetCart(context.Background(), testWS, vikram).DiscountsFresh())
}
