package service

import (
	"context"
	"time"

	"bankledger/internal/repository"

	"gorm.io/gorm"
)

type HistoryService struct {
	db           *gorm.DB
	accountRepo  *repository.AccountRepository
	transferRepo *repository.TransferRepository
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{
		db:           db,
		accountRepo:  repository.NewAccountRepository(db),
		transferRepo: repository.NewTransferRepository(db),
	}
}

// HistoryEntry is one statement line as seen from the queried account's side.
type HistoryEntry struct {
	Date      time.Time `json:"date"`
	Reference string    `json:"ref"`
	Amount    int64     `json:"amount"`
}

// GetHistory rebuilds the account's statement from the ledger, oldest first.
// The opening transfer is recognized by its type tag and emitted once with
// its unsigned amount; every movement after it is signed from this account's
// point of view. A real account never has an empty history — its opening
// entry is created with it.
func (s *HistoryService) GetHistory(ctx context.Context, accountID int64) ([]HistoryEntry, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, classify(err)
	}

	transfers, err := s.transferRepo.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, classify(err)
	}

	entries := make([]HistoryEntry, 0, len(transfers))
	for _, t := range transfers {
		entries = append(entries, HistoryEntry{
			Date:      t.CreatedAt,
			Reference: t.Reference,
			Amount:    t.SignedAmountFor(accountID),
		})
	}
	return entries, nil
}
