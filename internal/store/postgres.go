package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/walletops/internal/domain"
)

// DB is the subset of pgxpool.Pool the store uses. Satisfied by
// *pgxpool.Pool in production and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store is the ledger's durable state: accounts, the append-only transaction
// log, and admin grants.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

// EnsureAccount inserts an account with zero balance if absent. Idempotent;
// repeat calls are no-ops.
func (s *Store) EnsureAccount(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO accounts (id, balance) VALUES ($1, 0) ON CONFLICT (id) DO NOTHING", id)
	if err != nil {
		return fmt.Errorf("ensure account %d: %w", id, err)
	}
	return nil
}

// GetBalance returns the balance for id, or zero when no account row exists.
// Unknown and zero-balance users are deliberately indistinguishable here.
func (s *Store) GetBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.QueryRow(ctx, "SELECT balance FROM accounts WHERE id = $1", id).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance %d: %w", id, err)
	}
	return balance, nil
}

// GetAccount retrieves a single account by id for admin inspection.
// Returns domain.ErrAccountNotFound when absent.
func (s *Store) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	err := s.db.QueryRow(ctx, "SELECT id, balance FROM accounts WHERE id = $1", id).
		Scan(&account.ID, &account.Balance)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return &account, nil
}

// GetTransactions returns every transaction where id was the source, in
// insertion order. An empty slice is a valid result, not an error.
func (s *Store) GetTransactions(ctx context.Context, id int64) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, from_user_id, to_address, amount FROM transactions WHERE from_user_id = $1 ORDER BY id",
		id)
	if err != nil {
		return nil, fmt.Errorf("get transactions %d: %w", id, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.FromUserID, &t.ToAddress, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// ListAccountIDs returns every known account id, ordered.
func (s *Store) ListAccountIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, "SELECT id FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TotalBalance sums all balances. Zero when no accounts exist.
func (s *Store) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRow(ctx, "SELECT COALESCE(SUM(balance), 0) FROM accounts").Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total balance: %w", err)
	}
	return total, nil
}

// DeleteAccount removes the account row. Idempotent: deleting a missing id is
// a no-op, not an error. Transaction history referencing the id is retained.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	return nil
}

// Credit is an administrative top-up, the only way balance increases: the
// transfer path never credits anyone. Creates the account when absent.
func (s *Store) Credit(ctx context.Context, id int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	_, err := s.db.Exec(ctx,
		"INSERT INTO accounts (id, balance) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance",
		id, amount)
	if err != nil {
		return fmt.Errorf("credit account %d: %w", id, err)
	}
	return nil
}

// HasAdminGrant reports whether an admin grant row exists for id.
func (s *Store) HasAdminGrant(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("admin grant lookup %d: %w", id, err)
	}
	return exists, nil
}
