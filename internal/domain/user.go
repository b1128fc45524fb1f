package domain

import (
	"context"
	"regexp"
	"time"
)

const minPasswordLength = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateCredentials checks a signup email and password against the account
// rules and returns field-keyed messages, empty when everything passes. The
// email is expected to be trimmed and lowercased already.
func ValidateCredentials(email, password string) map[string][]string {
	errs := make(map[string][]string)
	if email == "" {
		errs["email"] = append(errs["email"], "The email field is required.")
	} else if !emailRegexp.MatchString(email) {
		errs["email"] = append(errs["email"], "The email must be a valid email address.")
	}
	if password == "" {
		errs["password"] = append(errs["password"], "The password field is required.")
	} else if len(password) < minPasswordLength {
		errs["password"] = append(errs["password"], "The password must be at least 8 characters.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// User represents a registered speaker account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService defines the business logic for account signup and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
