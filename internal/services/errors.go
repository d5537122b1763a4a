// Package services defines the business rules for flashcards. This file
// centralizes the service-level error values so that they can be returned
// consistently by service methods and checked by callers with errors.Is.
//
// Translation into user-facing messages and HTTP status codes is performed
// at the handler layer.
package services

import "errors"

// Card-related errors.
var (
	// ErrInvalidCategory is returned when a card is created with a category
	// outside the fixed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrDuplicateCard is returned when a card with the same front text
	// already exists.
	ErrDuplicateCard = errors.New("card already exists")

	// ErrNoCardsInCategory is returned when a category filter matches nothing.
	ErrNoCardsInCategory = errors.New("no cards in category")

	// ErrCardNotFound indicates that no card has the requested ID.
	ErrCardNotFound = errors.New("card not found")

	// ErrEmptyPatch is returned when an edit supplies no field.
	ErrEmptyPatch = errors.New("no fields provided for update")

	// ErrStorage marks any lower-level persistence failure. The transaction
	// has been rolled back when it is returned.
	ErrStorage = errors.New("storage failure")
)

// StorageError wraps a persistence failure. Its message is the underlying
// driver message; errors.Is matches both ErrStorage and the cause.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Err: err}
}
