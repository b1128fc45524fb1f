package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"symposium/internal/delivery/web/flash"
	"symposium/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// SessionCookie is the cookie holding the signed session token.
const SessionCookie = "symposium_token"

// SetUserID returns a context with the user ID set. Used by auth middleware.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// RequireAuth returns a wrapper that resolves the session token from the
// session cookie (or an Authorization: Bearer header), verifies it, and sets
// the user ID in the request context. Unauthenticated requests are redirected
// to the login page and next is not called.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				redirectToLogin(w, r)
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "session token rejected", "err", err)
				redirectToLogin(w, r)
				return
			}
			r = r.WithContext(SetUserID(r.Context(), userID))
			next(w, r)
		}
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	flash.Error(w, "Please log in to continue.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
