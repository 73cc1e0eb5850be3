package service

import (
	"context"
	"testing"
	"time"

	"bankledger/internal/model"
	"bankledger/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "transfer_no", "type", "reference", "amount", "from_id", "to_id", "created_at",
	})
}

func TestGetHistory(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHistoryService(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(accountRows(1, 10, 2500))
	mock.ExpectQuery("SELECT .* FROM `transfer`").
		WillReturnRows(transferRows().
			AddRow(1, "TRF1", model.TransferTypeOpening, model.OpeningReference, 4000, 1, 1, now).
			AddRow(4, "TRF4", model.TransferTypeMovement, "rent", 1000, 1, 2, now).
			AddRow(9, "TRF9", model.TransferTypeMovement, "refund", 500, 3, 1, now).
			AddRow(12, "TRF12", model.TransferTypeMovement, "groceries", 2000, 1, 4, now))

	entries, err := svc.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	// opening entry first, unsigned, exactly once
	assert.Equal(t, model.OpeningReference, entries[0].Reference)
	assert.Equal(t, int64(4000), entries[0].Amount)

	// outgoing negative, incoming positive
	assert.Equal(t, int64(-1000), entries[1].Amount)
	assert.Equal(t, "rent", entries[1].Reference)
	assert.Equal(t, int64(500), entries[2].Amount)
	assert.Equal(t, int64(-2000), entries[3].Amount)
}

func TestGetHistory_OnlyOpeningEntry(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHistoryService(db)

	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(accountRows(1, 10, 4000))
	mock.ExpectQuery("SELECT .* FROM `transfer`").
		WillReturnRows(transferRows().
			AddRow(1, "TRF1", model.TransferTypeOpening, model.OpeningReference, 4000, 1, 1, time.Now()))

	entries, err := svc.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4000), entries[0].Amount)
}

func TestGetHistory_AccountNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHistoryService(db)

	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at"}))

	_, err := svc.GetHistory(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
