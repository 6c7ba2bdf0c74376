package model

import "errors"

// Validation errors surfaced by entity Validate methods.
var (
	ErrEmptyName     = errors.New("account name cannot be empty")
	ErrInvalidType   = errors.New("invalid account type")
	ErrInvalidColor  = errors.New("color must be a #RRGGBB hex code")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidDate   = errors.New("date must be ISO-8601")
)
