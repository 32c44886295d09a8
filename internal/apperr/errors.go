package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by every NotFoundError via errors.Is
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed or incomplete request body
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("Invalid %s: %s", e.Entity, e.Reason)
	case e.Reason == "":
		return fmt.Sprintf("Invalid %s: missing %s", e.Entity, e.Field)
	default:
		return fmt.Sprintf("Invalid %s: %s %s", e.Entity, e.Field, e.Reason)
	}
}

// Missing builds the error for an absent required key
func Missing(entity, field string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field}
}

// Invalid builds the error for a key whose value has the wrong type or range
func Invalid(entity, field, reason string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}

// NotFoundError reports a referenced Order or Item that does not exist
type NotFoundError struct {
	Kind string
	ID   any
	// Criteria replaces the id in the message when a query matched nothing
	Criteria string
}

func (e *NotFoundError) Error() string {
	if e.Criteria != "" {
		return fmt.Sprintf("No %ss found with %s.", e.Kind, e.Criteria)
	}
	return fmt.Sprintf("%s with id '%v' was not found.", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError for the given kind and id
func NotFound(kind string, id any) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// NoMatch builds a NotFoundError for a query that returned no rows
func NoMatch(kind, criteria string) *NotFoundError {
	return &NotFoundError{Kind: kind, Criteria: criteria}
}

// UnsupportedMediaTypeError reports a body-carrying request without a JSON content type
type UnsupportedMediaTypeError struct {
	Want string
	Got  string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("Content-Type must be %s", e.Want)
}

// StorageError wraps a failure of the underlying store
type StorageError struct {
	Kind string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError, or returns nil when err is nil
func Storage(kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Kind: kind, Op: op, Err: err}
}

// HTTPStatus maps an error onto the status code the REST layer answers with
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		mediaErr      *UnsupportedMediaTypeError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &mediaErr):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
