package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidCode         = errors.New("invalid claim code")
	ErrDuplicateKey        = errors.New("duplicate key")
)
