package repositories

import (
	"context"
	"errors"

	"dailydiet/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup, delete or scoped update that
	// matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the unique email index rejects a write.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
