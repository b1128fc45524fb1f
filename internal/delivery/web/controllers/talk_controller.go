package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"symposium/internal/delivery/web/flash"
	"symposium/internal/delivery/web/middleware"
	"symposium/internal/delivery/web/views"
	"symposium/internal/domain"
)

// activeSortClass marks the active sorting control so the view can bold it.
const activeSortClass = "fw-bold"

type TalkController struct {
	Logger  *slog.Logger
	Service domain.TalkService
	Views   *views.Renderer
}

func NewTalkController(logger *slog.Logger, svc domain.TalkService, v *views.Renderer) *TalkController {
	return &TalkController{
		Logger:  logger,
		Service: svc,
		Views:   v,
	}
}

// indexData is the view model for the talk listing.
type indexData struct {
	Talks   []*domain.Talk
	Sorting map[string]string
}

// formData is the view model for the create and edit forms.
type formData struct {
	TalkID      string
	Current     *domain.TalkRevision
	LengthValue string
}

// Index lists the current user's talks. ?sort=date orders by creation time
// descending; any other value (or none) orders by current title,
// case-insensitively.
func (c *TalkController) Index(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	sortKey := r.URL.Query().Get("sort")
	if sortKey != domain.SortDate {
		sortKey = domain.SortAlpha
	}
	talks, err := c.Service.List(r.Context(), authorID, sortKey)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	sorting := map[string]string{domain.SortDate: "", domain.SortAlpha: ""}
	sorting[sortKey] = activeSortClass
	c.Views.Render(w, http.StatusOK, "talks_index", views.Page{
		Title: "My Talks",
		Flash: flash.Pop(w, r),
		Data:  indexData{Talks: talks, Sorting: sorting},
	})
}

// Create renders the creation form bound to an empty revision placeholder.
func (c *TalkController) Create(w http.ResponseWriter, r *http.Request) {
	c.Views.Render(w, http.StatusOK, "talks_create", views.Page{
		Title: "Create Talk",
		Flash: flash.Pop(w, r),
		Data:  formData{Current: &domain.TalkRevision{}},
	})
}

// Store validates the submitted fields and creates a talk with its initial
// revision. Validation failure redirects back to the creation form with the
// field errors and the submitted values; nothing is written.
func (c *TalkController) Store(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	fields, old := talkFieldsFromForm(r)
	if errs := fields.Validate(); len(errs) > 0 {
		flash.ValidationErrors(w, errs, old)
		http.Redirect(w, r, "/talks/create", http.StatusSeeOther)
		return
	}
	talk, err := c.Service.Create(r.Context(), authorID, fields)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "create talk failed", "err", err)
		flash.Error(w, "Something went wrong. Your talk was not saved.")
		http.Redirect(w, r, "/talks/create", http.StatusSeeOther)
		return
	}
	flash.Message(w, "Successfully created new talk.")
	http.Redirect(w, r, "/talks/"+talk.ID, http.StatusSeeOther)
}

// Edit renders the edit form pre-populated with the talk's current revision.
func (c *TalkController) Edit(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	talkID := r.PathValue("talkID")
	detail, err := c.Service.Get(r.Context(), authorID, talkID, "")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.notFound(w, r, talkID)
			return
		}
		c.serverError(w, r, err)
		return
	}
	current := detail.Talk.Current
	c.Views.Render(w, http.StatusOK, "talks_edit", views.Page{
		Title: "Edit Talk",
		Flash: flash.Pop(w, r),
		Data: formData{
			TalkID:      detail.Talk.ID,
			Current:     current,
			LengthValue: strconv.Itoa(current.Length),
		},
	})
}

// Update validates the submitted fields and appends a new revision to the
// talk. Prior revisions are never modified.
func (c *TalkController) Update(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	talkID := r.PathValue("talkID")
	fields, old := talkFieldsFromForm(r)
	if errs := fields.Validate(); len(errs) > 0 {
		flash.ValidationErrors(w, errs, old)
		http.Redirect(w, r, "/talks/"+talkID+"/edit", http.StatusSeeOther)
		return
	}
	talk, err := c.Service.Update(r.Context(), authorID, talkID, fields)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.notFound(w, r, talkID)
			return
		}
		c.Logger.ErrorContext(r.Context(), "update talk failed", "talk_id", talkID, "err", err)
		flash.Error(w, "Something went wrong. Your changes were not saved.")
		http.Redirect(w, r, "/talks/"+talkID+"/edit", http.StatusSeeOther)
		return
	}
	flash.Message(w, "Successfully edited talk.")
	http.Redirect(w, r, "/talks/"+talk.ID, http.StatusSeeOther)
}

// Show displays the talk's current revision, or a specific historical one
// when a revision query parameter is present.
func (c *TalkController) Show(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	talkID := r.PathValue("talkID")
	revisionID := r.URL.Query().Get("revision")
	detail, err := c.Service.Get(r.Context(), authorID, talkID, revisionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.notFound(w, r, talkID)
			return
		}
		c.serverError(w, r, err)
		return
	}
	c.Views.Render(w, http.StatusOK, "talks_show", views.Page{
		Title: detail.Selected.Title,
		Flash: flash.Pop(w, r),
		Data:  detail,
	})
}

// Delete renders the confirmation page for destroying a talk.
func (c *TalkController) Delete(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	talkID := r.PathValue("talkID")
	detail, err := c.Service.Get(r.Context(), authorID, talkID, "")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.notFound(w, r, talkID)
			return
		}
		c.serverError(w, r, err)
		return
	}
	c.Views.Render(w, http.StatusOK, "talks_delete", views.Page{
		Title: "Delete Talk",
		Flash: flash.Pop(w, r),
		Data: formData{
			TalkID:  detail.Talk.ID,
			Current: detail.Talk.Current,
		},
	})
}

// Destroy deletes the talk and all of its revisions.
func (c *TalkController) Destroy(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	talkID := r.PathValue("talkID")
	if err := c.Service.Delete(r.Context(), authorID, talkID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.notFound(w, r, talkID)
			return
		}
		c.Logger.ErrorContext(r.Context(), "delete talk failed", "talk_id", talkID, "err", err)
		flash.Error(w, "Something went wrong. The talk was not deleted.")
		http.Redirect(w, r, "/talks", http.StatusSeeOther)
		return
	}
	flash.Message(w, "Successfully deleted talk.")
	http.Redirect(w, r, "/talks", http.StatusSeeOther)
}

// notFound handles a failed owner-scoped lookup the same way for every
// operation: log it, flash an error, and send the user home. A talk owned by
// someone else is indistinguishable from a missing one.
func (c *TalkController) notFound(w http.ResponseWriter, r *http.Request, talkID string) {
	c.Logger.WarnContext(r.Context(), "talk lookup failed", "talk_id", talkID, "path", r.URL.Path)
	flash.Error(w, "Sorry, but that isn't a valid URL.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *TalkController) serverError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// talkFieldsFromForm reads the talk form fields and returns them along with
// the raw submitted values for re-populating the form after a failure.
func talkFieldsFromForm(r *http.Request) (domain.TalkFields, map[string]string) {
	_ = r.ParseForm()
	fields := domain.TalkFields{
		Title:          r.PostFormValue("title"),
		Type:           r.PostFormValue("type"),
		Level:          r.PostFormValue("level"),
		LengthInput:    r.PostFormValue("length"),
		Description:    r.PostFormValue("description"),
		OrganizerNotes: r.PostFormValue("organizer_notes"),
	}
	old := map[string]string{
		"title":           fields.Title,
		"type":            fields.Type,
		"level":           fields.Level,
		"length":          fields.LengthInput,
		"description":     fields.Description,
		"organizer_notes": fields.OrganizerNotes,
	}
	return fields, old
}
