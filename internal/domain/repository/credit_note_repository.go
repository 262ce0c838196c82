package repository

import (
	"context"
	"time"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/pkg/money"
)

// CreditNoteRepository is the credit-note ledger
type CreditNoteRepository interface {
	// ListRedeemable returns the customer's active notes with a positive balance that have not expired at now
	ListRedeemable(ctx context.Context, customerID string, now time.Time) ([]entity.CreditNote, error)
	GetByID(ctx context.Context, id string) (*entity.CreditNote, error)
	// DebitBatch atomically reduces balances. If any note lacks the balance or is no longer
	// redeemable at now, nothing is debited and the ids that failed are returned.
	DebitBatch(ctx context.Context, debits map[string]money.Amount, now time.Time) (failedIDs []string, err error)
	// CreditBatch restores balances taken by DebitBatch
	CreditBatch(ctx context.Context, credits map[string]money.Amount) error
}
