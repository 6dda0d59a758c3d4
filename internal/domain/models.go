package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a user's balance in the ledger. IDs are assigned by the
// transport layer (the chat platform's user id), not generated here.
type Account struct {
	ID      int64           `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// Transaction is the immutable record of a completed debit. ToAddress is an
// opaque wallet address; it is recorded but never resolves to an Account.
// FromUserID is a soft reference and may dangle after account deletion.
type Transaction struct {
	ID         int64           `json:"id"`
	FromUserID int64           `json:"from_user_id"`
	ToAddress  string          `json:"to_address"`
	Amount     decimal.Decimal `json:"amount"`
}

// AdminGrant is a capability record: a row existing for UserID grants admin
// privilege, absence denies it.
type AdminGrant struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

// TransferRequest is the DTO for incoming transfer calls.
type TransferRequest struct {
	FromUserID int64           `json:"from_user_id"`
	ToAddress  string          `json:"to_address"`
	Amount     decimal.Decimal `json:"amount"`
}
