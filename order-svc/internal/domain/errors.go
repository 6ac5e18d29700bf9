package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these so the HTTP layer can map
// them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrItemUnavailable = errors.New("item unavailable")
)

var (
	ErrOrderNotFound      = kindError(ErrNotFound, "order not found")
	ErrMenuItemNotFound   = kindError(ErrNotFound, "menu item not found")
	ErrRestaurantNotFound = kindError(ErrNotFound, "restaurant not found")
	ErrAccountNotFound    = kindError(ErrNotFound, "user not found")

	ErrEmailTaken         = kindError(ErrConflict, "user already exists")
	ErrOwnerHasRestaurant = kindError(ErrConflict, "you already have a restaurant")
	ErrIllegalTransition  = kindError(ErrConflict, "illegal status transition")
	ErrStatusChanged      = kindError(ErrConflict, "order status changed concurrently")

	ErrInvalidCredentials = kindError(ErrUnauthorized, "invalid credentials")
	ErrMissingToken       = kindError(ErrUnauthorized, "authorization token required")
	ErrInvalidToken       = kindError(ErrUnauthorized, "invalid or expired token")

	ErrRestaurantSetup = &ValidationError{Field: "restaurantId", Message: "complete restaurant setup first"}
)

type kindErr struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &kindErr{kind: kind, msg: msg}
}

func (e *kindErr) Error() string { return e.msg }
func (e *kindErr) Unwrap() error { return e.kind }

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ItemUnavailableError rejects an order line whose menu item is missing or
// switched off.
type ItemUnavailableError struct {
	MenuItemID int
	Name       string
}

func (e *ItemUnavailableError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("Item %d not available", e.MenuItemID)
	}
	return fmt.Sprintf("Item %s not available", e.Name)
}

func (e *ItemUnavailableError) Unwrap() error { return ErrItemUnavailable }

type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }
