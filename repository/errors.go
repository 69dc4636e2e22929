package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned when a decrement would drive a
	// plant's quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicateTransaction is returned when an order insert hits the
	// unique index on transaction_id. Callers treat it as "already
	// settled", not as a failure.
	ErrDuplicateTransaction = errors.New("order already exists for transaction")

	// ErrAlreadyRequested is returned when a seller request exists for
	// the email.
	ErrAlreadyRequested = errors.New("seller request already exists")
)
