package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/infrastructure/lock"
	"bankledger/internal/model"
	"bankledger/internal/repository"
	"bankledger/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type TransferService struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cfg          *config.Config
	accountRepo  *repository.AccountRepository
	transferRepo *repository.TransferRepository
	outboxRepo   *repository.OutboxRepository
}

func NewTransferService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *TransferService {
	return &TransferService{
		db:           db,
		redisClient:  redisClient,
		cfg:          cfg,
		accountRepo:  repository.NewAccountRepository(db),
		transferRepo: repository.NewTransferRepository(db),
		outboxRepo:   repository.NewOutboxRepository(db),
	}
}

type TransferRequest struct {
	FromID    int64  `json:"from_id"`
	ToID      int64  `json:"to_id"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

type TransferResult struct {
	TransferID int64  `json:"transfer_id"`
	TransferNo string `json:"transfer_no"`
	Amount     int64  `json:"amount"`
}

// ExecuteTransfer moves funds between two accounts as one atomic unit.
//
// Checks run in a fixed order so the first failing one decides the error:
// source exists, destination exists, amount not negative, accounts distinct,
// funds sufficient. Note that a zero amount passes — only negative amounts
// are rejected.
//
// Validation and mutation share one database transaction with both account
// rows locked, so a concurrent transfer cannot pass the funds check against
// a stale balance. On any failure nothing is committed; a StorageFailure is
// safe to retry by re-issuing the whole call.
func (s *TransferService) ExecuteTransfer(ctx context.Context, req *TransferRequest) (*TransferResult, error) {
	// Serialize submissions per source account across instances. Correctness
	// does not depend on this lock — the row locks below do that — it just
	// keeps a burst from one account out of the lock-wait queue.
	transferLock := lock.NewTransferLock(s.redisClient, req.FromID)
	if err := transferLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	defer transferLock.Unlock(ctx)

	transfer := &model.Transfer{
		TransferNo: idgen.GenerateTransferNo(),
		Type:       model.TransferTypeMovement,
		Reference:  req.Reference,
		Amount:     req.Amount,
		FromID:     req.FromID,
		ToID:       req.ToID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		from, to, err := s.lockAccounts(ctx, tx, req.FromID, req.ToID)
		if err != nil {
			return err
		}

		if from == nil {
			return fmt.Errorf("%w: payment account id=%d", repository.ErrAccountNotFound, req.FromID)
		}
		if to == nil {
			return fmt.Errorf("%w: beneficiary account id=%d", repository.ErrAccountNotFound, req.ToID)
		}
		if req.Amount < 0 {
			return fmt.Errorf("%w: cannot transfer a negative amount", ErrInvalidAmount)
		}
		if req.FromID == req.ToID {
			return ErrSelfTransfer
		}
		if from.Balance < req.Amount {
			return repository.ErrInsufficientFunds
		}

		if err := s.accountRepo.Debit(ctx, tx, req.FromID, req.Amount); err != nil {
			return fmt.Errorf("failed to debit account: %w", err)
		}
		if err := s.accountRepo.Credit(ctx, tx, req.ToID, req.Amount); err != nil {
			return fmt.Errorf("failed to credit account: %w", err)
		}

		if err := s.transferRepo.Create(ctx, tx, transfer); err != nil {
			return fmt.Errorf("failed to record transfer: %w", err)
		}

		payload, _ := json.Marshal(map[string]interface{}{
			"transfer_no":  transfer.TransferNo,
			"from_id":      req.FromID,
			"to_id":        req.ToID,
			"amount":       req.Amount,
			"reference":    req.Reference,
			"completed_at": time.Now().Format(time.RFC3339),
		})

		outboxMsg := &model.OutboxMessage{
			MessageKey: transfer.TransferNo,
			Topic:      s.cfg.Kafka.Topic.TransferCompleted,
			Payload:    string(payload),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("failed to enqueue transfer event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	log.Printf("transfer committed: transferNo=%s, from=%d, to=%d, amount=%d",
		transfer.TransferNo, req.FromID, req.ToID, req.Amount)

	return &TransferResult{
		TransferID: transfer.ID,
		TransferNo: transfer.TransferNo,
		Amount:     req.Amount,
	}, nil
}

// lockAccounts reads both accounts under row locks, always locking in
// ascending id order so two opposing transfers cannot deadlock. A missing
// account comes back as nil rather than an error: the caller reports
// missing-source before missing-destination regardless of lock order.
func (s *TransferService) lockAccounts(ctx context.Context, tx *gorm.DB, fromID, toID int64) (*model.Account, *model.Account, error) {
	ids := []int64{fromID, toID}
	if toID < fromID {
		ids[0], ids[1] = ids[1], ids[0]
	}
	if fromID == toID {
		ids = ids[:1]
	}

	fetched := make(map[int64]*model.Account, 2)
	for _, id := range ids {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				fetched[id] = nil
				continue
			}
			return nil, nil, err
		}
		fetched[id] = account
	}

	return fetched[fromID], fetched[toID], nil
}
