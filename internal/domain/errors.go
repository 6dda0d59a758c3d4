package domain

import "errors"

var (
	// ErrInsufficientFunds is returned when a debit exceeds the current
	// balance. No state changes.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned for non-positive transfer or credit
	// amounts, rejected before any mutation.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAccountNotFound distinguishes a missing account row from a
	// zero-balance one on admin inspection.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotAdmin is returned when an identity without an AdminGrant
	// attempts an admin-gated operation.
	ErrNotAdmin = errors.New("not an admin")
)
