package service

import (
	"context"
	"fmt"
	"log"

	"bankledger/internal/model"
	"bankledger/internal/repository"
	"bankledger/pkg/idgen"

	"gorm.io/gorm"
)

type AccountService struct {
	db           *gorm.DB
	customerRepo *repository.CustomerRepository
	accountRepo  *repository.AccountRepository
	transferRepo *repository.TransferRepository
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{
		db:           db,
		customerRepo: repository.NewCustomerRepository(db),
		accountRepo:  repository.NewAccountRepository(db),
		transferRepo: repository.NewTransferRepository(db),
	}
}

// OpenAccount creates an account for an existing customer, funded with
// initialDeposit. The account row and its opening transfer are committed
// together: the opening transfer is self-referential (from == to == the new
// account id) and is always the account's first ledger entry, so every
// balance — including the initial one — is derivable from transfers alone.
func (s *AccountService) OpenAccount(ctx context.Context, customerID int64, initialDeposit int64) (int64, error) {
	if initialDeposit < 1 {
		return 0, fmt.Errorf("%w: initial deposit must be positive", ErrInvalidAmount)
	}

	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return 0, classify(err)
	}

	account := &model.Account{
		OwnerID: customerID,
		Balance: initialDeposit,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.Create(ctx, tx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		opening := &model.Transfer{
			TransferNo: idgen.GenerateTransferNo(),
			Type:       model.TransferTypeOpening,
			Reference:  model.OpeningReference,
			Amount:     initialDeposit,
			FromID:     account.ID,
			ToID:       account.ID,
		}
		if err := s.transferRepo.Create(ctx, tx, opening); err != nil {
			return fmt.Errorf("failed to record opening transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, classify(err)
	}

	log.Printf("account opened: accountID=%d, ownerID=%d, deposit=%d", account.ID, customerID, initialDeposit)

	return account.ID, nil
}

// GetBalance returns the current balance of the account. By construction it
// always matches the net of the account's transfer history.
func (s *AccountService) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, classify(err)
	}
	return account.Balance, nil
}

// ListAccounts returns all accounts owned by the customer.
func (s *AccountService) ListAccounts(ctx context.Context, customerID int64) ([]*model.Account, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, classify(err)
	}

	accounts, err := s.accountRepo.ListByOwnerID(ctx, customerID)
	if err != nil {
		return nil, classify(err)
	}
	return accounts, nil
}

// ListCustomers returns every customer known to the bank.
func (s *AccountService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return customers, nil
}
