package ports

import (
	"context"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// CreateUserInput carries an admin-initiated account creation.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries a partial account update. Empty strings are ignored.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UserService defines the account management use cases.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
	ResetPassword(ctx context.Context, email, password string) error
}
