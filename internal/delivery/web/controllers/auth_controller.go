package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"symposium/internal/delivery/web/flash"
	"symposium/internal/delivery/web/middleware"
	"symposium/internal/delivery/web/views"
	"symposium/internal/domain"
)

type AuthController struct {
	Logger      *slog.Logger
	Service     domain.AuthService
	Views       *views.Renderer
	TokenExpiry time.Duration
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, v *views.Renderer, tokenExpiry time.Duration) *AuthController {
	return &AuthController{
		Logger:      logger,
		Service:     svc,
		Views:       v,
		TokenExpiry: tokenExpiry,
	}
}

// ShowSignUp renders the signup form.
func (c *AuthController) ShowSignUp(w http.ResponseWriter, r *http.Request) {
	c.Views.Render(w, http.StatusOK, "signup", views.Page{Title: "Sign up", Flash: flash.Pop(w, r)})
}

// SignUp creates an account and sends the user to the login form.
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	email := strings.TrimSpace(strings.ToLower(r.PostFormValue("email")))
	password := r.PostFormValue("password")
	name := strings.TrimSpace(r.PostFormValue("name"))
	old := map[string]string{"email": email, "name": name}

	if errs := domain.ValidateCredentials(email, password); len(errs) > 0 {
		flash.ValidationErrors(w, errs, old)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	if _, err := c.Service.SignUp(r.Context(), email, password, name); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			flash.ValidationErrors(w, map[string][]string{
				"email": {"That email address is already registered."},
			}, old)
			http.Redirect(w, r, "/signup", http.StatusSeeOther)
			return
		}
		c.Logger.ErrorContext(r.Context(), "signup failed", "err", err)
		flash.Error(w, "Something went wrong. Please try again.")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	flash.Message(w, "Account created. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin renders the login form.
func (c *AuthController) ShowLogin(w http.ResponseWriter, r *http.Request) {
	c.Views.Render(w, http.StatusOK, "login", views.Page{Title: "Log in", Flash: flash.Pop(w, r)})
}

// Login verifies credentials and starts a session by setting the session cookie.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	old := map[string]string{"email": email}

	token, _, err := c.Service.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			flash.ValidationErrors(w, map[string][]string{
				"email": {"These credentials do not match our records."},
			}, old)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		c.Logger.ErrorContext(r.Context(), "login failed", "err", err)
		flash.Error(w, "Something went wrong. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TokenExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/talks", http.StatusSeeOther)
}

// Logout clears the session cookie.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	flash.Message(w, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
