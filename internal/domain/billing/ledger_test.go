package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
)

func testNotes() []entity.CreditNote {
	expires := time.Now().Add(30 * 24 * time.Hour)
	return []entity.CreditNote{
		{ID: "cn-001", Number: "CN-2024-001", CustomerID: "9876543210", Amount: money.Major(500), RemainingAmount: money.Major(500), ExpiresAt: expires},
		{ID: "cn-002", Number: "CN-2024-002", CustomerID: "9876543210", Amount: money.Major(300), RemainingAmount: money.Major(150), ExpiresAt: expires},
	}
}

func TestLedger_AddLineRejectsNonPositiveAndExcess(t *testing.T) {
	l := NewLedger(money.Major(400), nil)

	_, err := l.AddLine(0, entity.CashPayment{})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = l.AddLine(money.Major(401), entity.CashPayment{})
	require.Error(t, err)

	assert.Empty(t, l.Lines())
	assert.Equal(t, money.Major(400), l.Remaining())
}

func TestLedger_RejectsAmountsBeyondRange(t *testing.T) {
	l := NewLedger(money.MaxAmount, nil)

	_, err := l.AddLine(money.MaxAmount+1, entity.WalletPayment{})
	require.Error(t, err)
	assert.Equal(t, "amount", apperror.GetAppError(err).Errors[0].Field)

	_, err = l.AddLine(money.Major(100), entity.CashPayment{Received: money.MaxAmount + 1})
	require.Error(t, err)
	assert.Equal(t, "cash_received", apperror.GetAppError(err).Errors[0].Field)

	assert.Empty(t, l.Lines())
}

func TestLedger_CardRequiresFourDigits(t *testing.T) {
	l := NewLedger(money.Major(400), nil)

	_, err := l.AddLine(money.Major(400), entity.CardPayment{CardType: "VISA", Last4Digits: "12", AuthNo: "A1"})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: last4_digits must be exactly 4 digits", err.Error())
	assert.Len(t, l.Lines(), 0)

	_, err = l.AddLine(money.Major(400), entity.CardPayment{CardType: "VISA", Last4Digits: "1234", AuthNo: "A1"})
	require.NoError(t, err)
	assert.True(t, l.CanConfirm())
}

func TestLedger_UPIRequiresReference(t *testing.T) {
	l := NewLedger(money.Major(100), nil)
	_, err := l.AddLine(money.Major(100), entity.UPIPayment{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestLedger_SplitPaymentAndEdit(t *testing.T) {
	l := NewLedger(money.Major(1000), nil)

	_, err := l.AddLine(money.Major(600), entity.UPIPayment{TxnRef: "UPI123"})
	require.NoError(t, err)
	_, err = l.AddLine(money.Major(400), entity.WalletPayment{})
	require.NoError(t, err)
	assert.True(t, l.CanConfirm())

	// the edited line's own amount does not count against its ceiling
	_, err = l.EditLine(0, money.Major(600), entity.UPIPayment{TxnRef: "UPI999"})
	require.NoError(t, err)

	_, err = l.EditLine(0, money.Major(601), entity.UPIPayment{TxnRef: "UPI999"})
	require.Error(t, err)
	assert.Equal(t, "UPI999", l.Lines()[0].Details.Reference())

	require.NoError(t, l.RemoveLine(1))
	assert.Equal(t, money.Major(400), l.Remaining())
	assert.False(t, l.CanConfirm())

	assert.True(t, apperror.IsKind(l.RemoveLine(5), apperror.KindNotFound))
}

func TestLedger_CashChangeDue(t *testing.T) {
	l := NewLedger(money.Major(400), nil)

	_, err := l.AddLine(money.Major(400), entity.CashPayment{Received: money.Major(300)})
	require.Error(t, err)

	ln, err := l.AddLine(money.Major(400), entity.CashPayment{Received: money.Major(500)})
	require.NoError(t, err)
	assert.Equal(t, money.Major(100), ln.ChangeDue())
	assert.Equal(t, money.Major(100), l.ChangeDue())
	assert.Equal(t, money.Zero, l.Remaining())
}

func TestLedger_CashReceivedDefaultsToAmount(t *testing.T) {
	l := NewLedger(money.Major(250), nil)
	ln, err := l.AddLine(money.Major(250), entity.CashPayment{})
	require.NoError(t, err)
	assert.Equal(t, money.Major(250), ln.Details.(entity.CashPayment).Received)
	assert.Equal(t, money.Zero, ln.ChangeDue())
}

func TestLedger_QuoteCreditNotesDoesNotDebit(t *testing.T) {
	notes := testNotes()
	l := NewLedger(money.Major(400), notes)

	quote, err := l.QuoteCreditNotes([]string{"cn-001", "cn-002"})
	require.NoError(t, err)
	assert.Equal(t, money.Major(400), quote)

	quote, err = l.QuoteCreditNotes([]string{"cn-002"})
	require.NoError(t, err)
	assert.Equal(t, money.Major(150), quote)

	for _, n := range l.CreditNotes() {
		if n.ID == "cn-001" {
			assert.Equal(t, money.Major(500), n.RemainingAmount)
		}
	}

	_, err = l.QuoteCreditNotes([]string{"cn-404"})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestLedger_CreditNoteValidation(t *testing.T) {
	l := NewLedger(money.Major(1000), testNotes())

	_, err := l.AddLine(money.Major(100), entity.CreditNotePayment{})
	require.Error(t, err)

	_, err = l.AddLine(money.Major(200), entity.CreditNotePayment{NoteIDs: []string{"cn-002"}})
	require.Error(t, err, "amount above the selected balance")

	_, err = l.AddLine(money.Major(150), entity.CreditNotePayment{NoteIDs: []string{"cn-002"}})
	require.NoError(t, err)

	_, err = l.AddLine(money.Major(100), entity.CreditNotePayment{NoteIDs: []string{"cn-002"}})
	require.Error(t, err, "note already applied by another line")
	assert.Len(t, l.Lines(), 1)
}

func TestLedger_SettleAllocatesInSelectionOrder(t *testing.T) {
	l := NewLedger(money.Major(600), testNotes())

	_, err := l.AddLine(money.Major(550), entity.CreditNotePayment{NoteIDs: []string{"cn-002", "cn-001"}})
	require.NoError(t, err)
	_, err = l.AddLine(money.Major(50), entity.CashPayment{})
	require.NoError(t, err)

	lines, redemptions, err := l.Settle()
	require.NoError(t, err)
	require.Len(t, redemptions, 2)
	assert.Equal(t, entity.CreditNoteRedemption{NoteID: "cn-002", Number: "CN-2024-002", Amount: money.Major(150)}, redemptions[0])
	assert.Equal(t, entity.CreditNoteRedemption{NoteID: "cn-001", Number: "CN-2024-001", Amount: money.Major(400)}, redemptions[1])

	cn := lines[0].Details.(entity.CreditNotePayment)
	assert.Len(t, cn.Redemptions, 2)
	assert.Equal(t, "CN-2024-002, CN-2024-001", cn.Reference())
}

func TestLedger_SettleRequiresExactPayment(t *testing.T) {
	l := NewLedger(money.Major(400), nil)
	_, err := l.AddLine(money.Major(399), entity.CashPayment{})
	require.NoError(t, err)

	_, _, err = l.Settle()
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestLedger_ZeroPayableConfirmsWithoutLines(t *testing.T) {
	l := NewLedger(money.Zero, nil)
	assert.True(t, l.CanConfirm())
}
