package service

import (
	"errors"
	"fmt"

	"bankledger/internal/repository"
)

// Business rule violations raised by the services themselves. Store-level
// kinds (ErrCustomerNotFound, ErrAccountNotFound, ErrInsufficientFunds) live
// in the repository package; handlers classify both with errors.Is.
var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrSelfTransfer   = errors.New("cannot transfer from and to identical account")
	ErrStorageFailure = errors.New("storage failure")
)

// classify separates business outcomes from infrastructure failures. A
// business error passes through untouched; anything else becomes a
// StorageFailure the caller may retry from scratch. Nothing was committed on
// either path.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrInsufficientFunds),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSelfTransfer):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}
