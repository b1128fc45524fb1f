// Package flash implements one-shot notifications carried across a redirect
// in a cookie. A flash survives exactly one subsequent request: Pop clears
// the cookie as it reads it.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "symposium_flash"

// Data is the payload carried across one redirect: a success or error
// notification, field-level validation errors, and the submitted form values
// so the user does not retype them.
type Data struct {
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Old     map[string]string   `json:"old,omitempty"`
}

// HasErrors reports whether any field-level validation errors are present.
func (d Data) HasErrors() bool { return len(d.Errors) > 0 }

// FieldErrors returns the messages for one field, or nil.
func (d Data) FieldErrors(field string) []string { return d.Errors[field] }

// OldOr returns the previously submitted value for field, or fallback when
// no submission was preserved.
func (d Data) OldOr(field, fallback string) string {
	if d.Old == nil {
		return fallback
	}
	if v, ok := d.Old[field]; ok {
		return v
	}
	return fallback
}

// Set stores the flash data in the response cookie, replacing any pending flash.
func Set(w http.ResponseWriter, data Data) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Message sets a one-shot success notification.
func Message(w http.ResponseWriter, msg string) {
	Set(w, Data{Message: msg})
}

// Error sets a one-shot error notification.
func Error(w http.ResponseWriter, msg string) {
	Set(w, Data{Error: msg})
}

// ValidationErrors sets field errors together with the submitted values.
func ValidationErrors(w http.ResponseWriter, errs map[string][]string, old map[string]string) {
	Set(w, Data{Errors: errs, Old: old})
}

// Pop reads and clears the pending flash. A missing or malformed cookie
// yields the zero Data.
func Pop(w http.ResponseWriter, r *http.Request) Data {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return Data{}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Data{}
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}
	}
	return d
}
