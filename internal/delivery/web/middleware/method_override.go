package middleware

import (
	"net/http"
	"strings"
)

// overrideField is the form field browsers use to spoof PUT/PATCH/DELETE,
// since HTML forms can only submit GET and POST.
const overrideField = "_method"

// MethodOverride rewrites the method of a form POST when the body carries a
// _method field with PUT, PATCH, or DELETE. Must run before routing.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && formEncoded(r) {
			if err := r.ParseForm(); err == nil {
				switch strings.ToUpper(r.PostForm.Get(overrideField)) {
				case http.MethodPut:
					r.Method = http.MethodPut
				case http.MethodPatch:
					r.Method = http.MethodPatch
				case http.MethodDelete:
					r.Method = http.MethodDelete
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func formEncoded(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct) == "application/x-www-form-urlencoded"
}
