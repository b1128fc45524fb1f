package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symposium/internal/domain"
)

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byEmail   map[string]*domain.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.ErrDuplicateEmail
	}
	u.ID = "user-" + u.Email
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	sent []string
	err  error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data.Email)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and sends welcome email", func(t *testing.T) {
		repo := newFakeUserRepo()
		emails := &fakeEmailService{}
		svc := NewAuthService(repo, fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, emails, testLogger())

		user, err := svc.SignUp(ctx, " Alice@Example.COM ", "supersecret", "Alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "hash-salt-supersecret", user.PasswordHash)
		assert.Equal(t, []string{"alice@example.com"}, emails.sent)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, nil, testLogger())
		_, err := svc.SignUp(ctx, "not-an-email", "supersecret", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, nil, testLogger())
		_, err := svc.SignUp(ctx, "a@b.com", "short", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, nil, testLogger())
		_, err := svc.SignUp(ctx, "a@b.com", "supersecret", "")
		require.NoError(t, err)
		_, err = svc.SignUp(ctx, "a@b.com", "supersecret", "")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("welcome email failure does not fail signup", func(t *testing.T) {
		repo := newFakeUserRepo()
		emails := &fakeEmailService{err: errors.New("ses down")}
		svc := NewAuthService(repo, fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, emails, testLogger())
		_, err := svc.SignUp(ctx, "a@b.com", "supersecret", "")
		require.NoError(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, nil, testLogger())
	_, err := svc.SignUp(ctx, "a@b.com", "supersecret", "Alice")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "a@b.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "token-user-a@b.com", token)
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "a@b.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@b.com", "supersecret")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
