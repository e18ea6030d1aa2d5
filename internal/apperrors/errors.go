// internal/apperrors/errors.go
package apperrors

import "fmt"

// ValidationError covers malformed or incomplete client input. Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError covers lookups of unknown resource ids. Maps to 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StorageError covers filesystem and database failures, including the
// partial-failure case where content metadata was removed but the backing
// asset could not be. Maps to 500.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ExternalServiceError covers failures contacting the payment network:
// network errors, auth failures and timeouts. It is deliberately distinct
// from PaymentNotVerifiedError so callers can tell "payment didn't happen"
// from "couldn't check". Maps to 500.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("payment network: %s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// PaymentNotVerifiedError means the transaction history was fetched
// successfully but no transaction matched the claim. Maps to 400 with a
// {valid:false} body.
type PaymentNotVerifiedError struct {
	Reason string
}

func (e *PaymentNotVerifiedError) Error() string {
	return e.Reason
}
