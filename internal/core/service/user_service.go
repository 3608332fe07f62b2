package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

// UserService implements account management.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Get returns the account when the actor is the owner or an admin.
func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if !actor.CanAccessUser(id) {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

// Create adds an account with any role. Only admins reach it.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := domain.NormalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, domain.Invalid("username, email and password are required")
	}
	if err := domain.ValidateCredentials(username, email, input.Password); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.Invalid("role must be admin or user")
	}

	hash, err := HashPassword(input.Password)
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

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

// Update applies a partial change. A role change from a non-admin is ignored.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if !actor.CanAccessUser(id) {
		return nil, domain.ErrForbidden
	}

	username := strings.TrimSpace(input.Username)
	email := domain.NormalizeEmail(input.Email)
	if err := domain.ValidateCredentials(username, email, input.Password); err != nil {
		return nil, err
	}

	var changes ports.UserChanges
	if username != "" {
		changes.Username = &username
	}
	if email != "" {
		changes.Email = &email
	}
	if input.Password != "" {
		hash, err := HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}
	if input.Role != "" && actor.IsAdmin() {
		if !domain.ValidRole(input.Role) {
			return nil, domain.Invalid("role must be admin or user")
		}
		role := input.Role
		changes.Role = &role
	}
	if changes.Empty() {
		return nil, domain.Invalid("nothing to update")
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Str("actor_id", actor.UserID).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return deleted, nil
}

// ResetPassword sets a new password for the account registered under email.
func (s *UserService) ResetPassword(ctx context.Context, email, password string) error {
	if password == "" {
		return domain.Invalid("password is required")
	}
	if err := domain.ValidateCredentials("", "", password); err != nil {
		return err
	}
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.repo.Update(ctx, user.ID, ports.UserChanges{PasswordHash: &hash}); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// EnsureAdmin creates an admin account unless one is already registered
// under email. It returns true when an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, ports.CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	}); err != nil {
		return false, err
	}
	return true, nil
}
