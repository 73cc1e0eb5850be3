package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDb,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestAccountRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at"}).
			AddRow(3, 1, 4000, time.Now()))

	account, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), account.ID)
	assert.Equal(t, int64(4000), account.Balance)
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at"}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_Debit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `account`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Debit(context.Background(), db, 3, 1000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A zero-amount debit still has to count as a touched row. MySQL reports
// changed rows, not matched rows, so the statement must always change
// something; the version bump is what guarantees that here.
func TestAccountRepository_Debit_ZeroAmount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `account` SET `balance`=balance - \\?,`version`=version \\+ 1 WHERE id = \\? AND balance >= \\?").
		WithArgs(int64(0), int64(3), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Debit(context.Background(), db, 3, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Credit_ZeroAmount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `account` SET `balance`=balance \\+ \\?,`version`=version \\+ 1 WHERE id = \\?").
		WithArgs(int64(0), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Credit(context.Background(), db, 2, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The guarded UPDATE touches no row when the balance is short; the repo then
// distinguishes a short balance from a vanished account.
func TestAccountRepository_Debit_InsufficientFunds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `account`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at"}).
			AddRow(3, 1, 50, time.Now()))

	err := repo.Debit(context.Background(), db, 3, 1000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestAccountRepository_Debit_AccountGone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `account`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at"}))

	err := repo.Debit(context.Background(), db, 3, 1000)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// The classifying re-read runs on the caller's transaction, before its
// rollback, so it sees the row the guarded update just ran against.
func TestAccountRepository_Debit_ReReadsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `account`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .* FROM `account`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at"}).
			AddRow(3, 1, 50, time.Now()))
	mock.ExpectRollback()

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.Debit(context.Background(), tx, 3, 1000)
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Credit_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `account`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Credit(context.Background(), db, 404, 1000)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
