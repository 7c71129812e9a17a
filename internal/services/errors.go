package services

import "errors"

// Ledger failure taxonomy. Every ledger operation returns nil or exactly one
// of these (possibly wrapped), so handlers can pick a status code and message
// without string matching.
var (
	ErrNotFound     = errors.New("listing not found")
	ErrForbidden    = errors.New("actor not allowed")
	ErrInvalidState = errors.New("listing not in required status")
	ErrInvalidInput = errors.New("invalid input")
)
