package user

import (
	"context"

	"github.com/mkrupp/homecase-login/internal/domain"
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// CreateUser adds a new user to the repository.
	// Returns ErrUserAlreadyExists if the username is already taken.
	CreateUser(ctx context.Context, username string, passwordHash []byte, role domain.Role) error

	// GetUserByUsername retrieves a user by their username.
	// Returns ErrUserNotFound (joined with the driver error) if there is no such user.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)
