// Package common provides shared utilities and types used across the
// application.
package common

import (
	"errors"
	"fmt"
)

// Business-rule errors: the operation is well-formed but not permitted given
// the current ledger state.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrWrongAccountType  = errors.New("not an investment account")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrNoValuations      = errors.New("no valuation records")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
