// Package user provides account identity management.
package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
	"github.com/louisbranch/almanac/internal/platform/id"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyUsername indicates a missing username.
	ErrEmptyUsername = apperrors.New(apperrors.CodeUserEmptyUsername, "username is required")
	// ErrInvalidUsername indicates a username that does not match the required format.
	ErrInvalidUsername = apperrors.New(apperrors.CodeUserInvalidUsername, "username must be 3-32 lowercase alphanumeric, dot, dash, or underscore characters")
	// ErrEmptyPassword indicates a missing password.
	ErrEmptyPassword = apperrors.New(apperrors.CodeUserEmptyPassword, "password is required")

	usernamePattern = regexp.MustCompile(`^[a-z0-9_.\-]{3,32}$`)
)

// User represents an authenticated account record.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserInput describes the credentials needed to create a user.
type CreateUserInput struct {
	Username string
	Password string
}

// ValidateUsername enforces the canonical username constraints used across
// registration, login, and calendar sharing.
func ValidateUsername(s string) error {
	if !usernamePattern.MatchString(s) {
		return ErrInvalidUsername
	}
	return nil
}

// CreateUser creates a durable account from validated input.
//
// This is the canonical point where untrusted registration data becomes a
// stable identity; the password never leaves this function unhashed.
func CreateUser(input CreateUserInput, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateUserInput(input)
	if err != nil {
		return User{}, err
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(normalized.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	createdAt := now().UTC()
	return User{
		ID:           userID,
		Username:     normalized.Username,
		PasswordHash: string(hash),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// NormalizeCreateUserInput trims and normalizes input before validation.
func NormalizeCreateUserInput(input CreateUserInput) (CreateUserInput, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	if input.Username == "" {
		return CreateUserInput{}, ErrEmptyUsername
	}
	if err := ValidateUsername(input.Username); err != nil {
		return CreateUserInput{}, err
	}
	if input.Password == "" {
		return CreateUserInput{}, ErrEmptyPassword
	}
	return input, nil
}

// CheckPassword reports whether the candidate password matches the stored hash.
func CheckPassword(u User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
