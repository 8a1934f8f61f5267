package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/types"
)

// User represents an account
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize to JSON
	Role         types.Role `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
