package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// User models an account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Actor is the identity resolved from a verified token.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccessUser reports whether the actor may read or edit the given account.
func (a Actor) CanAccessUser(userID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == userID)
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// NormalizeEmail trims and lowercases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailShape checks the loose text@text.text shape used for accounts.
func IsEmailShape(email string) bool {
	return emailShape.MatchString(email)
}

// ValidateCredentials checks the field rules shared by registration, admin
// creation and updates. Empty values are skipped so callers can validate
// partial updates; presence is checked separately.
func ValidateCredentials(username, email, password string) error {
	if username != "" && len(username) < MinUsernameLength {
		return Invalid("username must be at least 3 characters")
	}
	if email != "" && !IsEmailShape(email) {
		return Invalid("email must be a valid address")
	}
	if password != "" && len(password) < MinPasswordLength {
		return Invalid("password must be at least 6 characters")
	}
	if len(password) > MaxPasswordLength {
		return Invalid("password must be at most 72 bytes")
	}
	return nil
}
