package billing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
)

var last4Pattern = regexp.MustCompile(`^\d{4}$`)

// Ledger reconciles payment lines against a payable total for one checkout attempt.
// Every operation either applies fully or leaves the ledger untouched.
type Ledger struct {
	payable   money.Amount
	lines     []entity.PaymentLine
	notes     map[string]entity.CreditNote
	noteOrder []string
}

// NewLedger opens a ledger for payable. notes are the customer's redeemable credit notes.
func NewLedger(payable money.Amount, notes []entity.CreditNote) *Ledger {
	l := &Ledger{
		payable: payable,
		notes:   make(map[string]entity.CreditNote, len(notes)),
	}
	for _, n := range notes {
		if n.RemainingAmount <= 0 {
			continue
		}
		if _, dup := l.notes[n.ID]; !dup {
			l.noteOrder = append(l.noteOrder, n.ID)
		}
		l.notes[n.ID] = n
	}
	return l
}

func (l *Ledger) Payable() money.Amount {
	return l.payable
}

// Lines returns a copy of the payment lines
func (l *Ledger) Lines() []entity.PaymentLine {
	return append([]entity.PaymentLine{}, l.lines...)
}

// CreditNotes returns the redeemable notes in the order they were loaded
func (l *Ledger) CreditNotes() []entity.CreditNote {
	out := make([]entity.CreditNote, 0, len(l.noteOrder))
	for _, id := range l.noteOrder {
		out = append(out, l.notes[id])
	}
	return out
}

func (l *Ledger) Paid() money.Amount {
	return l.paidExcluding(-1)
}

func (l *Ledger) paidExcluding(index int) money.Amount {
	var sum money.Amount
	for i, line := range l.lines {
		if i == index {
			continue
		}
		sum += line.Amount
	}
	return sum
}

// Remaining is what is still owed, never negative
func (l *Ledger) Remaining() money.Amount {
	return money.Max(money.Zero, l.payable-l.Paid())
}

// CanConfirm is true only when the payments settle the payable exactly
func (l *Ledger) CanConfirm() bool {
	return l.Paid() == l.payable
}

// ChangeDue is the cash change owed to the customer across all cash lines
func (l *Ledger) ChangeDue() money.Amount {
	var sum money.Amount
	for _, line := range l.lines {
		sum += line.ChangeDue()
	}
	return sum
}

// AddLine validates and appends a payment line
func (l *Ledger) AddLine(amount money.Amount, details entity.PaymentDetails) (entity.PaymentLine, error) {
	line, err := l.validate(-1, amount, details)
	if err != nil {
		return entity.PaymentLine{}, err
	}
	l.lines = append(l.lines, line)
	return line, nil
}

// EditLine replaces the line at index. The line under edit does not count against its own ceiling.
func (l *Ledger) EditLine(index int, amount money.Amount, details entity.PaymentDetails) (entity.PaymentLine, error) {
	if index < 0 || index >= len(l.lines) {
		return entity.PaymentLine{}, apperror.NewNotFoundError("Payment line")
	}
	line, err := l.validate(index, amount, details)
	if err != nil {
		return entity.PaymentLine{}, err
	}
	l.lines[index] = line
	return line, nil
}

func (l *Ledger) RemoveLine(index int) error {
	if index < 0 || index >= len(l.lines) {
		return apperror.NewNotFoundError("Payment line")
	}
	l.lines = append(l.lines[:index], l.lines[index+1:]...)
	return nil
}

// QuoteCreditNotes proposes the amount payable from the selected notes:
// the smaller of their combined balance and what is still owed. Balances are not touched.
func (l *Ledger) QuoteCreditNotes(noteIDs []string) (money.Amount, error) {
	var balance money.Amount
	for _, id := range noteIDs {
		note, ok := l.notes[id]
		if !ok {
			return money.Zero, apperror.NewNotFoundError("Credit note")
		}
		balance += note.RemainingAmount
	}
	return money.Min(balance, l.Remaining()), nil
}

// Settle allocates credit-note redemptions and returns the final payment lines.
// Notes are drawn in selection order, each up to its balance.
func (l *Ledger) Settle() ([]entity.PaymentLine, []entity.CreditNoteRedemption, error) {
	if !l.CanConfirm() {
		return nil, nil, apperror.NewStateErrorf("Payments do not settle the bill, %s remaining", l.Remaining())
	}
	lines := make([]entity.PaymentLine, len(l.lines))
	var redemptions []entity.CreditNoteRedemption
	for i, line := range l.lines {
		lines[i] = line
		cn, ok := line.Details.(entity.CreditNotePayment)
		if !ok {
			continue
		}
		left := line.Amount
		var lineRedemptions []entity.CreditNoteRedemption
		for _, id := range cn.NoteIDs {
			if left == 0 {
				break
			}
			note := l.notes[id]
			take := money.Min(note.RemainingAmount, left)
			if take <= 0 {
				continue
			}
			lineRedemptions = append(lineRedemptions, entity.CreditNoteRedemption{NoteID: id, Number: note.Number, Amount: take})
			left -= take
		}
		if left != 0 {
			return nil, nil, apperror.NewStateError("Selected credit notes no longer cover the payment")
		}
		cn.NoteIDs = append([]string{}, cn.NoteIDs...)
		cn.Redemptions = lineRedemptions
		lines[i].Details = cn
		redemptions = append(redemptions, lineRedemptions...)
	}
	return lines, redemptions, nil
}

func (l *Ledger) validate(index int, amount money.Amount, details entity.PaymentDetails) (entity.PaymentLine, error) {
	var fieldErrors []apperror.FieldError
	add := func(field, msg string) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: msg})
	}

	if details == nil {
		add("mode", "is required")
		return entity.PaymentLine{}, apperror.NewValidationError(fieldErrors)
	}

	ceiling := money.Max(money.Zero, l.payable-l.paidExcluding(index))
	if amount <= 0 {
		add("amount", "must be greater than 0")
	} else if amount > money.MaxAmount {
		add("amount", fmt.Sprintf("cannot exceed %s", money.MaxAmount))
	} else if amount > ceiling {
		add("amount", fmt.Sprintf("cannot exceed remaining balance of %s", ceiling))
	}

	switch d := details.(type) {
	case entity.CashPayment:
		if d.Received == 0 {
			d.Received = amount
		}
		if d.Received > money.MaxAmount {
			add("cash_received", fmt.Sprintf("cannot exceed %s", money.MaxAmount))
		} else if d.Received < amount {
			add("cash_received", "must be at least the payment amount")
		}
		details = d
	case entity.CardPayment:
		d.CardType = strings.TrimSpace(d.CardType)
		d.AuthNo = strings.TrimSpace(d.AuthNo)
		if d.CardType == "" {
			add("card_type", "is required")
		}
		if !last4Pattern.MatchString(d.Last4Digits) {
			add("last4_digits", "must be exactly 4 digits")
		}
		if d.AuthNo == "" {
			add("auth_no", "is required")
		}
		details = d
	case entity.UPIPayment:
		d.TxnRef = strings.TrimSpace(d.TxnRef)
		if d.TxnRef == "" {
			add("txn_ref", "is required")
		}
		details = d
	case entity.CreditNotePayment:
		fieldErrors = append(fieldErrors, l.validateNotes(index, amount, d.NoteIDs)...)
		d.NoteIDs = append([]string{}, d.NoteIDs...)
		d.Redemptions = nil
		details = d
	case entity.WalletPayment, entity.GiftCardPayment:
	default:
		add("mode", "is not supported")
	}

	if len(fieldErrors) > 0 {
		return entity.PaymentLine{}, apperror.NewValidationError(fieldErrors)
	}
	return entity.PaymentLine{Amount: amount, Details: details}, nil
}

func (l *Ledger) validateNotes(index int, amount money.Amount, noteIDs []string) []apperror.FieldError {
	if len(noteIDs) == 0 {
		return []apperror.FieldError{{Field: "note_ids", Message: "select at least one credit note"}}
	}

	inUse := make(map[string]bool)
	for i, line := range l.lines {
		if i == index {
			continue
		}
		if cn, ok := line.Details.(entity.CreditNotePayment); ok {
			for _, id := range cn.NoteIDs {
				inUse[id] = true
			}
		}
	}

	var errs []apperror.FieldError
	selected := make(map[string]bool, len(noteIDs))
	var balance money.Amount
	for _, id := range noteIDs {
		note, ok := l.notes[id]
		switch {
		case !ok:
			errs = append(errs, apperror.FieldError{Field: "note_ids", Message: fmt.Sprintf("credit note %s is not available", id)})
		case selected[id]:
			errs = append(errs, apperror.FieldError{Field: "note_ids", Message: fmt.Sprintf("credit note %s is selected twice", id)})
		case inUse[id]:
			errs = append(errs, apperror.FieldError{Field: "note_ids", Message: fmt.Sprintf("credit note %s is already applied", note.Number)})
		default:
			balance += note.RemainingAmount
		}
		selected[id] = true
	}
	if len(errs) == 0 && amount > balance {
		errs = append(errs, apperror.FieldError{Field: "amount", Message: fmt.Sprintf("exceeds selected credit note balance of %s", balance)})
	}
	return errs
}
