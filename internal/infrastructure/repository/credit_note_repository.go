package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/money"
)

type creditNoteRepository struct {
	db *gorm.DB
}

// NewCreditNoteRepository creates a new credit note repository
func NewCreditNoteRepository(db *gorm.DB) domainRepo.CreditNoteRepository {
	return &creditNoteRepository{db: db}
}

func (r *creditNoteRepository) ListRedeemable(ctx context.Context, customerID string, now time.Time) ([]entity.CreditNote, error) {
	var notes []entity.CreditNote
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND remaining_amount > 0 AND expires_at > ?",
			customerID, enum.CreditNoteStatusActive, now).
		Order("expires_at ASC").
		Find(&notes).Error
	return notes, err
}

func (r *creditNoteRepository) GetByID(ctx context.Context, id string) (*entity.CreditNote, error) {
	var note entity.CreditNote
	err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

// DebitBatch atomically debits several notes in a single transaction.
// If any note has an insufficient balance or has expired, the entire transaction is rolled back.
func (r *creditNoteRepository) DebitBatch(ctx context.Context, debits map[string]money.Amount, now time.Time) ([]string, error) {
	if len(debits) == 0 {
		return nil, nil
	}

	var failedIDs []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range debits {
			result := tx.Model(&entity.CreditNote{}).
				Where("id = ? AND status = ? AND remaining_amount >= ? AND expires_at > ?",
					id, enum.CreditNoteStatusActive, amount, now).
				Update("remaining_amount", gorm.Expr("remaining_amount - ?", amount))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		return nil
	})

	// A rollback caused by an unusable note reports the failed ids, not the transaction error
	if errors.Is(err, gorm.ErrInvalidTransaction) && len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return failedIDs, err
}

// CreditBatch restores balances, e.g. when invoice creation fails after a debit
func (r *creditNoteRepository) CreditBatch(ctx context.Context, credits map[string]money.Amount) error {
	if len(credits) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range credits {
			if err := tx.Model(&entity.CreditNote{}).
				Where("id = ?", id).
				Update("remaining_amount", gorm.Expr("remaining_amount + ?", amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
