package request

import (
	"encoding/json"

	"github.com/sangkips/billing-api/pkg/money"
)

// PaymentRequest adds or replaces a payment line. Details carry the mode specific
// fields (cash_received, card_type, txn_ref, note_ids and so on).
type PaymentRequest struct {
	Mode    string          `json:"mode" binding:"required"`
	Amount  money.Amount    `json:"amount"`
	Details json.RawMessage `json:"details"`
}

// QuoteCreditNotesRequest asks how much the selected notes would cover
type QuoteCreditNotesRequest struct {
	NoteIDs []string `json:"note_ids" binding:"required,min=1,dive,required"`
}
