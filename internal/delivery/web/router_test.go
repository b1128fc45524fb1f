package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symposium/internal/delivery/web/controllers"
	"symposium/internal/delivery/web/middleware"
	"symposium/internal/delivery/web/views"
	"symposium/internal/domain"
)

type stubTalkService struct {
	deleted []string
}

func (s *stubTalkService) List(ctx context.Context, authorID, sort string) ([]*domain.Talk, error) {
	return nil, nil
}

func (s *stubTalkService) Create(ctx context.Context, authorID string, fields domain.TalkFields) (*domain.Talk, error) {
	return nil, errors.New("not used")
}

func (s *stubTalkService) Get(ctx context.Context, authorID, talkID, revisionID string) (*domain.TalkDetail, error) {
	return nil, domain.ErrNotFound
}

func (s *stubTalkService) Update(ctx context.Context, authorID, talkID string, fields domain.TalkFields) (*domain.Talk, error) {
	return nil, domain.ErrNotFound
}

func (s *stubTalkService) Delete(ctx context.Context, authorID, talkID string) error {
	s.deleted = append(s.deleted, talkID)
	return nil
}

type stubAuthService struct{}

func (stubAuthService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, error) {
	if token != "valid-token" {
		return "", errors.New("invalid token")
	}
	return "user-1", nil
}

// newTestHandler assembles the router with the middleware chain used in
// production, minus request logging.
func newTestHandler(t *testing.T, talkSvc domain.TalkService) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	renderer, err := views.New(logger)
	require.NoError(t, err)

	talks := controllers.NewTalkController(logger, talkSvc, renderer)
	auth := controllers.NewAuthController(logger, stubAuthService{}, renderer, time.Hour)
	mux := NewRouter(talks, auth, middleware.RequireAuth(stubVerifier{}, logger))
	return middleware.MethodOverride(mux)
}

func TestRouterAuthGate(t *testing.T) {
	handler := newTestHandler(t, &stubTalkService{})

	t.Run("unauthenticated talk request redirects to login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/talks", nil))

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})

	t.Run("authenticated talk request reaches the controller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/talks", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "valid-token"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("login page needs no session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("root redirects to the talk listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/talks", rr.Header().Get("Location"))
	})
}

func TestRouterMethodOverride(t *testing.T) {
	svc := &stubTalkService{}
	handler := newTestHandler(t, svc)

	form := url.Values{"_method": {"DELETE"}}
	req := httptest.NewRequest(http.MethodPost, "/talks/talk-1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "valid-token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/talks", rr.Header().Get("Location"))
	assert.Equal(t, []string{"talk-1"}, svc.deleted)
}
