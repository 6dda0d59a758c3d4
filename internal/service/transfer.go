package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/walletops/internal/domain"
	"github.com/punchamoorthee/walletops/internal/store"
)

// TransferService executes debits against the ledger. A transfer debits the
// source account and appends one transaction row as a single unit of work; the
// destination address is recorded but no account is ever credited.
type TransferService struct {
	db store.DB
}

func NewTransferService(db store.DB) *TransferService {
	return &TransferService{db: db}
}

// Transfer debits amount from fromID and records the transaction. Returns
// domain.ErrInvalidAmount for non-positive amounts and
// domain.ErrInsufficientFunds when the balance does not cover the debit; in
// both cases no state changes.
func (s *TransferService) Transfer(ctx context.Context, fromID int64, toAddress string, amount decimal.Decimal) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Conditional decrement: the sufficiency check and the debit are one
	// atomic statement, so two concurrent transfers cannot both pass the
	// check against a stale balance. A missing account matches zero rows
	// and reads as a zero balance.
	tag, err := tx.Exec(ctx,
		"UPDATE accounts SET balance = balance - $1 WHERE id = $2 AND balance >= $1",
		amount, fromID)
	if err != nil {
		return nil, fmt.Errorf("debit failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrInsufficientFunds
	}

	txn := domain.Transaction{
		FromUserID: fromID,
		ToAddress:  toAddress,
		Amount:     amount,
	}
	err = tx.QueryRow(ctx,
		"INSERT INTO transactions (from_user_id, to_address, amount) VALUES ($1, $2, $3) RETURNING id",
		fromID, toAddress, amount).Scan(&txn.ID)
	if err != nil {
		return nil, fmt.Errorf("transaction insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx commit failed: %w", err)
	}
	return &txn, nil
}
