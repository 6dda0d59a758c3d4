package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/walletops/internal/domain"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestEnsureAccountIdempotent(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(int64(100)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// Second call hits the conflict clause and inserts nothing.
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(int64(100)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, s.EnsureAccount(ctx, 100))
	require.NoError(t, s.EnsureAccount(ctx, 100))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalanceUnknownAccountIsZero(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT balance FROM accounts").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	balance, err := s.GetBalance(context.Background(), 404)
	require.NoError(t, err)
	require.True(t, balance.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalance(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT balance FROM accounts").
		WithArgs(int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).
			AddRow(decimal.RequireFromString("12.5")))

	balance, err := s.GetBalance(context.Background(), 100)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("12.5")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, balance FROM accounts").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetAccount(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsInsertionOrder(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, from_user_id, to_address, amount FROM transactions").
		WithArgs(int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "from_user_id", "to_address", "amount"}).
			AddRow(int64(1), int64(100), "addr-a", decimal.NewFromInt(5)).
			AddRow(int64(2), int64(100), "addr-b", decimal.NewFromInt(3)))

	txns, err := s.GetTransactions(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	require.Equal(t, int64(1), txns[0].ID)
	require.Equal(t, "addr-a", txns[0].ToAddress)
	require.Equal(t, int64(2), txns[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, from_user_id, to_address, amount FROM transactions").
		WithArgs(int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "from_user_id", "to_address", "amount"}))

	txns, err := s.GetTransactions(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, txns)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalBalanceEmptyLedger(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(balance\), 0\) FROM accounts`).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.Zero))

	total, err := s.TotalBalance(context.Background())
	require.NoError(t, err)
	require.True(t, total.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountMissingIsNoop(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM accounts").
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.DeleteAccount(context.Background(), 404))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRejectsNonPositive(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.Credit(context.Background(), 100, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	err = s.Credit(context.Background(), 100, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	// No SQL may run for a rejected credit.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditUpsertsBalance(t *testing.T) {
	s, mock := newMockStore(t)
	amount := decimal.NewFromInt(10)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(int64(100), amount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Credit(context.Background(), 100, amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasAdminGrant(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM admins`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM admins`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := s.HasAdminGrant(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.HasAdminGrant(context.Background(), 2)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
