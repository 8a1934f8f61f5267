package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/careerpage/internal/db"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "Invalid email or password"
}

// ErrUnauthorized indicates a missing or invalid identity.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "Unauthorized"
}

// ErrForbidden indicates an identity without the required role. It maps to
// 401 like every other authorization failure.
type ErrForbidden struct{}

func (e *ErrForbidden) Error() string {
	return "Unauthorized"
}

// ErrNotFound indicates a missing resource, or one the caller may not see.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// ErrConflict indicates a uniqueness conflict.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailTaken   *ErrEmailAlreadyExists
		conflict     *ErrConflict
		badCreds     *ErrInvalidCredentials
		unauthorized *ErrUnauthorized
		forbidden    *ErrForbidden
		notFound     *ErrNotFound
		validation   *ErrValidation
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &badCreds), errors.As(err, &unauthorized), errors.As(err, &forbidden):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &emailTaken), errors.As(err, &conflict), errors.Is(err, db.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text shown to clients. Unclassified errors are
// never described beyond "Server error".
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "Server error"
	}
	if errors.Is(err, db.ErrDuplicate) {
		var conflict *ErrConflict
		if !errors.As(err, &conflict) {
			return "Already exists"
		}
	}
	var emailTaken *ErrEmailAlreadyExists
	if errors.As(err, &emailTaken) {
		return "Email already registered"
	}
	return err.Error()
}
