package ports

import (
	"context"

	"github.com/sipe/inventory-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Verify(token string) (domain.Actor, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
