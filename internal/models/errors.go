package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrDestinationNotFound = errors.New("destination not found")
	ErrParkNotFound        = errors.New("park not found")
	ErrTicketTypeNotFound  = errors.New("ticket type not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAttractionNotFound  = errors.New("attraction not found")
	ErrReviewNotFound      = errors.New("review not found")

	ErrTicketTypeInactive    = errors.New("this ticket type is currently not available for purchase")
	ErrTicketTypeUnavailable = errors.New("ticket type is not available")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrQuantityOutOfRange    = errors.New("maximum 10 tickets of the same type can be purchased at once")
	ErrEmptyOrder            = errors.New("order must contain at least one ticket")
	ErrInvalidVisitDate      = errors.New("visit date cannot be in the past")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrReviewContentRequired = errors.New("review content must be provided")

	ErrInvalidTransition  = errors.New("order status does not permit this transition")
	ErrTicketAlreadyUsed  = errors.New("ticket has already been used")
	ErrTicketNotUpdatable = errors.New("only paid and unused tickets can have guest name updated")
	ErrGuestNameRequired  = errors.New("guest name must be provided")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// PersistenceError wraps a storage-layer failure. The operation that produced
// it left no partial state behind (transactions roll back on failure).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a PersistenceError for the given operation.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistenceError reports whether err is (or wraps) a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
