package repository

import (
	"context"
	"errors"

	"userhub-backend/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate is returned when a write collides with the username or
	// email uniqueness constraint.
	ErrDuplicate = errors.New("username or email already exists")
)

// UserRepository defines persistence operations on User entities.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByUsernameOrEmail returns the first user matching either value.
	// Used for the uniqueness pre-check before insert.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// Update replaces username, email, and password hash wholesale.
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	// List returns a page of users in insertion order (by id). A zero limit
	// yields an empty page; an offset past the end is not an error.
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}
