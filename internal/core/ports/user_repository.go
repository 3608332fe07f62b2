package ports

import (
	"context"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// UserChanges lists the fields an update may set. Nil means unchanged.
type UserChanges struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
}

func (c UserChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.PasswordHash == nil && c.Role == nil
}

// UserRepository defines the persistence operations for accounts.
// Create and Update return domain.ErrUserExists when a unique index rejects
// the write.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, changes UserChanges) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
