package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sipe/inventory-api/internal/api/metrics"
	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
	"github.com/sipe/inventory-api/pkg/token"
)

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo   ports.UserRepository
	tokens *token.Manager
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *token.Manager, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a regular account. Public registration cannot create admins.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = domain.NormalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, domain.Invalid("username, email and password are required")
	}
	if err := domain.ValidateCredentials(username, email, password); err != nil {
		return nil, err
	}
	switch role {
	case "", domain.RoleUser:
		role = domain.RoleUser
	case domain.RoleAdmin:
		return nil, domain.Invalid("admin accounts cannot be self-registered")
	default:
		return nil, domain.Invalid("role must be admin or user")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.Invalid("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		CheckPassword(string(dummyHash), password)
		s.logger.Info().Str("email", email).Msg("login failed: unknown email")
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Info().Str("user_id", user.ID).Msg("login failed: wrong password")
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return signed, user, nil
}

// Verify resolves a raw token into the actor it was issued to.
func (s *AuthService) Verify(raw string) (domain.Actor, error) {
	claims, err := s.tokens.Verify(raw)
	switch {
	case errors.Is(err, token.ErrExpired):
		return domain.Actor{}, domain.ErrTokenExpired
	case err != nil:
		return domain.Actor{}, domain.ErrTokenInvalid
	}
	return domain.Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

// Me returns the account behind a verified token.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
