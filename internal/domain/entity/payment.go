package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
)

// PaymentDetails carries the fields specific to one payment mode.
// Exactly one variant exists per PaymentMode.
type PaymentDetails interface {
	Mode() enum.PaymentMode
	Reference() string
}

// CashPayment records the cash handed over; change is computed, never stored against the ledger
type CashPayment struct {
	Received money.Amount `json:"cash_received"`
}

type CardPayment struct {
	CardType    string `json:"card_type"`
	Last4Digits string `json:"last4_digits"`
	AuthNo      string `json:"auth_no"`
	BankName    string `json:"bank_name,omitempty"`
}

type UPIPayment struct {
	TxnRef string `json:"txn_ref"`
}

type WalletPayment struct {
	Ref string `json:"ref,omitempty"`
}

type GiftCardPayment struct {
	Ref string `json:"ref,omitempty"`
}

// CreditNoteRedemption is the amount taken from a single credit note at confirm time
type CreditNoteRedemption struct {
	NoteID string       `json:"note_id"`
	Number string       `json:"number"`
	Amount money.Amount `json:"amount"`
}

// CreditNotePayment pays from one or more customer credit notes, applied in selection order
type CreditNotePayment struct {
	NoteIDs     []string               `json:"note_ids"`
	Redemptions []CreditNoteRedemption `json:"redemptions,omitempty"`
}

func (CashPayment) Mode() enum.PaymentMode       { return enum.PaymentModeCash }
func (CardPayment) Mode() enum.PaymentMode       { return enum.PaymentModeCard }
func (UPIPayment) Mode() enum.PaymentMode        { return enum.PaymentModeUPI }
func (WalletPayment) Mode() enum.PaymentMode     { return enum.PaymentModeWallet }
func (GiftCardPayment) Mode() enum.PaymentMode   { return enum.PaymentModeGiftCard }
func (CreditNotePayment) Mode() enum.PaymentMode { return enum.PaymentModeCreditNote }

func (CashPayment) Reference() string { return "" }

func (c CardPayment) Reference() string {
	ref := fmt.Sprintf("%s ****%s AUTH %s", c.CardType, c.Last4Digits, c.AuthNo)
	if c.BankName != "" {
		ref += " " + c.BankName
	}
	return ref
}

func (u UPIPayment) Reference() string      { return u.TxnRef }
func (w WalletPayment) Reference() string   { return w.Ref }
func (g GiftCardPayment) Reference() string { return g.Ref }

func (c CreditNotePayment) Reference() string {
	if len(c.Redemptions) > 0 {
		numbers := make([]string, 0, len(c.Redemptions))
		for _, r := range c.Redemptions {
			numbers = append(numbers, r.Number)
		}
		return strings.Join(numbers, ", ")
	}
	return strings.Join(c.NoteIDs, ", ")
}

// PaymentLine is one instrument applied toward settling a cart
type PaymentLine struct {
	Amount  money.Amount   `json:"amount"`
	Details PaymentDetails `json:"details"`
}

// Mode returns the payment mode of the line's details
func (p PaymentLine) Mode() enum.PaymentMode {
	if p.Details == nil {
		return enum.PaymentModeCash
	}
	return p.Details.Mode()
}

// ChangeDue is cash received beyond the line amount. Zero for non-cash lines.
func (p PaymentLine) ChangeDue() money.Amount {
	cash, ok := p.Details.(CashPayment)
	if !ok {
		return money.Zero
	}
	return money.Max(money.Zero, cash.Received-p.Amount)
}

type paymentLineJSON struct {
	Mode    enum.PaymentMode `json:"mode"`
	Amount  money.Amount     `json:"amount"`
	Details json.RawMessage  `json:"details,omitempty"`
}

func (p PaymentLine) MarshalJSON() ([]byte, error) {
	var details json.RawMessage
	if p.Details != nil {
		raw, err := json.Marshal(p.Details)
		if err != nil {
			return nil, err
		}
		details = raw
	}
	return json.Marshal(paymentLineJSON{Mode: p.Mode(), Amount: p.Amount, Details: details})
}

func (p *PaymentLine) UnmarshalJSON(data []byte) error {
	var wire paymentLineJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	details, err := DecodePaymentDetails(wire.Mode, wire.Details)
	if err != nil {
		return err
	}
	p.Amount = wire.Amount
	p.Details = details
	return nil
}

// DecodePaymentDetails decodes raw JSON into the details variant for mode.
// Empty input yields the zero value of that variant.
func DecodePaymentDetails(mode enum.PaymentMode, raw json.RawMessage) (PaymentDetails, error) {
	var target PaymentDetails
	switch mode {
	case enum.PaymentModeCash:
		var d CashPayment
		if err := decodeOptional(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case enum.PaymentModeCard:
		var d CardPayment
		if err := decodeOptional(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case enum.PaymentModeUPI:
		var d UPIPayment
		if err := decodeOptional(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case enum.PaymentModeWallet:
		var d WalletPayment
		if err := decodeOptional(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case enum.PaymentModeGiftCard:
		var d GiftCardPayment
		if err := decodeOptional(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case enum.PaymentModeCreditNote:
		var d CreditNotePayment
		if err := decodeOptional(raw, &d); err != nil {
			return nil, err
		}
		target = d
	default:
		return nil, fmt.Errorf("unknown payment mode %d", mode)
	}
	return target, nil
}

func decodeOptional(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
