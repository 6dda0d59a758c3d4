package service

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/walletops/internal/store"
)

// Fresh accounts carry no admin grant; the capability comes only from an
// admins row.
func TestIsAdminDefaultsFalse(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s := store.NewStore(mock)
	auth := NewAuthService(s)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(int64(100)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM admins`).
		WithArgs(int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	require.NoError(t, s.EnsureAccount(context.Background(), 100))

	ok, err := auth.IsAdmin(context.Background(), 100)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdminWithGrant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	auth := NewAuthService(store.NewStore(mock))

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM admins`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := auth.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
