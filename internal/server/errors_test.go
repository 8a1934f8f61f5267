package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/careerpage/internal/db"
	"github.com/stretchr/testify/assert"
)

func TestErrEmailAlreadyExists(t *testing.T) {
	err := &ErrEmailAlreadyExists{Email: "test@example.com"}
	assert.Equal(t, "email already registered: test@example.com", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "Company"}
	assert.Equal(t, "Company not found", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &ErrValidation{Message: "bad"}, http.StatusBadRequest},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"unauthorized", &ErrUnauthorized{}, http.StatusUnauthorized},
		{"forbidden maps to unauthorized", &ErrForbidden{}, http.StatusUnauthorized},
		{"not found", &ErrNotFound{Resource: "Job"}, http.StatusNotFound},
		{"conflict", &ErrConflict{Message: "taken"}, http.StatusConflict},
		{"email taken", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"wrapped duplicate", fmt.Errorf("create company: %w", db.ErrDuplicate), http.StatusConflict},
		{"wrapped typed error", fmt.Errorf("lookup: %w", &ErrNotFound{Resource: "User"}), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"server errors are opaque", errors.New("pq: relation does not exist"), "Server error"},
		{"bare duplicate", fmt.Errorf("create job: %w", db.ErrDuplicate), "Already exists"},
		{"email taken", &ErrEmailAlreadyExists{Email: "a@b.c"}, "Email already registered"},
		{"conflict message", &ErrConflict{Message: "Company slug already exists"}, "Company slug already exists"},
		{"not found", &ErrNotFound{Resource: "Job"}, "Job not found"},
		{"forbidden", &ErrForbidden{}, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, publicMessage(tt.err, HTTPStatus(tt.err)))
		})
	}
}
