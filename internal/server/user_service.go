package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/config"
	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/types"
)

// UserService provides business logic for user authentication operations
type UserService struct {
	db             Store
	passwordConfig *config.PasswordConfig
	recruiterCode  string
}

// NewUserService creates a new UserService with the given dependencies.
// Registrations presenting recruiterCode become recruiters; an empty code
// disables recruiter sign-up.
func NewUserService(db Store, passwordConfig *config.PasswordConfig, recruiterCode string) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
		recruiterCode:  recruiterCode,
	}
}

// convertDBUserToTypesUser converts db.User to types.User, excluding password hash
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:        dbUser.ID,
		Name:      dbUser.Name,
		Email:     dbUser.Email,
		Role:      dbUser.Role,
		CreatedAt: dbUser.CreatedAt,
	}
}

// RoleFor returns the role a registration with the given code receives.
func (s *UserService) RoleFor(code string) types.Role {
	if s.recruiterCode != "" && subtle.ConstantTimeCompare([]byte(code), []byte(s.recruiterCode)) == 1 {
		return types.RoleRecruiter
	}
	return types.RoleCandidate
}

// Register creates a new account.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser, err := s.db.CreateUser(ctx, strings.TrimSpace(req.Name), email, passwordHash, s.RoleFor(req.RecruiterCode))
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if dbUser == nil || dbUser.PasswordHash == "" {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// GetUser returns the account with the given ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	dbUser, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrNotFound{Resource: "User"}
	}
	return convertDBUserToTypesUser(dbUser), nil
}
