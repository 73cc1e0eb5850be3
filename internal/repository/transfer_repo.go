package repository

import (
	"context"

	"bankledger/internal/model"

	"gorm.io/gorm"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, tx *gorm.DB, transfer *model.Transfer) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(transfer).Error
}

// ListByAccountID returns every transfer touching the account, oldest first.
// Ids are assigned at commit time, so id order is chronological order. The
// opening transfer matches both sides of the predicate but is a single row,
// so it appears exactly once.
func (r *TransferRepository) ListByAccountID(ctx context.Context, accountID int64) ([]*model.Transfer, error) {
	var transfers []*model.Transfer
	err := r.db.WithContext(ctx).
		Where("from_id = ? OR to_id = ?", accountID, accountID).
		Order("id ASC").
		Find(&transfers).Error
	return transfers, err
}

// CreditSum totals all amounts that arrived at the account. The opening
// transfer counts here, once, as its account's first credit.
func (r *TransferRepository) CreditSum(ctx context.Context, accountID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Transfer{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("to_id = ?", accountID).
		Scan(&total).Error
	return total, err
}

// DebitSum totals all amounts that left the account. Opening transfers are
// excluded by type: they are self-referential and must not cancel themselves.
func (r *TransferRepository) DebitSum(ctx context.Context, accountID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Transfer{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("from_id = ? AND type = ?", accountID, model.TransferTypeMovement).
		Scan(&total).Error
	return total, err
}
