// Package web wires the application's HTTP routes.
package web

import (
	"net/http"

	"symposium/internal/delivery/web/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// requireAuth wraps every talk route; unauthenticated requests never reach
// the controllers.
func NewRouter(talks *controllers.TalkController, auth *controllers.AuthController, requireAuth func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Talks
	mux.HandleFunc("GET /talks", requireAuth(talks.Index))
	mux.HandleFunc("GET /talks/create", requireAuth(talks.Create))
	mux.HandleFunc("POST /talks", requireAuth(talks.Store))
	mux.HandleFunc("GET /talks/{talkID}", requireAuth(talks.Show))
	mux.HandleFunc("GET /talks/{talkID}/edit", requireAuth(talks.Edit))
	mux.HandleFunc("PUT /talks/{talkID}", requireAuth(talks.Update))
	mux.HandleFunc("PATCH /talks/{talkID}", requireAuth(talks.Update))
	mux.HandleFunc("GET /talks/{talkID}/delete", requireAuth(talks.Delete))
	mux.HandleFunc("DELETE /talks/{talkID}", requireAuth(talks.Destroy))

	// Auth
	mux.HandleFunc("GET /signup", auth.ShowSignUp)
	mux.HandleFunc("POST /signup", auth.SignUp)
	mux.HandleFunc("GET /login", auth.ShowLogin)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)

	// Root: the talk listing is the application's home page.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/talks", http.StatusSeeOther)
	})

	return mux
}
