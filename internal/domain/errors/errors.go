package errors

import "errors"

var (
	// ErrValidation marks malformed or semantically invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an authorization failure.
	ErrForbidden = errors.New("forbidden")
	// ErrOutOfStock marks a reservation that could not be satisfied.
	ErrOutOfStock = errors.New("out of stock")
	// ErrGatewayUnavailable marks a transient payment gateway failure;
	// the caller may retry with the same intent.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrInvalidTransition marks an order status change the state machine
	// does not permit.
	ErrInvalidTransition = errors.New("invalid order transition")
	// ErrConflict marks a lost concurrent-write race; the caller may
	// re-read and retry.
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrAlreadyExists marks a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials marks a failed login or bad token.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
