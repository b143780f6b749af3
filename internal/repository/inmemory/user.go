// Package inmemory holds a map backed UserRepo. It backs unit tests and
// keeps the auth service runnable without postgres; production wiring uses
// the postgres implementation.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarcolor/backend/internal/apperrors"
	"github.com/sarcolor/backend/internal/models"
	"github.com/sarcolor/backend/internal/repository"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users: make(map[uuid.UUID]models.User),
	}
}

func (r *UserRepo) CreateUser(_ context.Context, arg repository.CreateUserParams) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == arg.Username || u.Email == arg.Email {
			return models.User{}, apperrors.ErrUserAlreadyExists
		}
	}

	now := time.Now().Truncate(time.Second)
	user := models.User{
		ID:             uuid.New(),
		Username:       arg.Username,
		Email:          arg.Email,
		HashedPassword: arg.HashedPassword,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.users[user.ID] = user

	return user, nil
}

func (r *UserRepo) GetUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepo) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, apperrors.ErrUserNotFound
}

func (r *UserRepo) SetUserActive(_ context.Context, id uuid.UUID, active bool) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}

	user.IsActive = active
	user.UpdatedAt = time.Now().Truncate(time.Second)
	r.users[id] = user

	return user, nil
}
