package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sarcolor/backend/internal/models"
)

type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If a user with the same username or email exists already has to return
	// apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by its id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Flip the is_active flag. The only post-creation mutation this service
	// performs; must return apperrors.ErrUserNotFound for unknown ids
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) (models.User, error)
}
