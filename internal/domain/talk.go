package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Talk is a proposed conference presentation. It carries only identity;
// all editable content lives in its revisions.
type Talk struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	// Current is the most recently created revision. Repositories populate
	// it on list and single lookups.
	Current *TalkRevision `json:"current,omitempty"`
}

// NewTalk returns a new Talk for the given author. ID is set by the repository on create.
func NewTalk(authorID string, createdAt time.Time) *Talk {
	return &Talk{
		AuthorID:  authorID,
		CreatedAt: createdAt,
	}
}

// TalkRevision is an immutable snapshot of a talk's editable fields.
// Revisions are append-only: edits create a new row, never touch an old one.
type TalkRevision struct {
	ID             string    `json:"id"`
	TalkID         string    `json:"talk_id"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	Level          string    `json:"level"`
	Length         int       `json:"length"`
	Description    string    `json:"description"`
	OrganizerNotes string    `json:"organizer_notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTalkRevision returns a revision snapshot of fields for the given talk.
// ID is set by the repository on create.
func NewTalkRevision(talkID string, fields TalkFields, createdAt time.Time) *TalkRevision {
	return &TalkRevision{
		TalkID:         talkID,
		Title:          fields.Title,
		Type:           fields.Type,
		Level:          fields.Level,
		Length:         fields.length,
		Description:    fields.Description,
		OrganizerNotes: fields.OrganizerNotes,
		CreatedAt:      createdAt,
	}
}

// TalkFields holds the submitted form fields for creating or revising a talk.
// Length arrives as raw form input and is parsed during validation.
type TalkFields struct {
	Title          string
	Type           string
	Level          string
	LengthInput    string
	Description    string
	OrganizerNotes string

	length int
}

// Length returns the parsed length in minutes. Only meaningful after a
// successful Validate.
func (f TalkFields) Length() int { return f.length }

// Validate checks the submitted fields and returns a map from field name to
// error messages. An empty map means the fields are valid. Title, type, and
// level are required; length must be an integer of at least 0. Description
// and organizer notes are free text.
func (f *TalkFields) Validate() map[string][]string {
	errs := make(map[string][]string)
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = append(errs["title"], "The title field is required.")
	}
	if strings.TrimSpace(f.Type) == "" {
		errs["type"] = append(errs["type"], "The type field is required.")
	}
	if strings.TrimSpace(f.Level) == "" {
		errs["level"] = append(errs["level"], "The level field is required.")
	}
	if strings.TrimSpace(f.LengthInput) == "" {
		errs["length"] = append(errs["length"], "The length field is required.")
	} else if n, err := strconv.Atoi(strings.TrimSpace(f.LengthInput)); err != nil {
		errs["length"] = append(errs["length"], "The length must be an integer.")
	} else if n < 0 {
		errs["length"] = append(errs["length"], "The length must be at least 0.")
	} else {
		f.length = n
	}
	return errs
}

// Talk sort keys for the listing. Anything else falls back to SortAlpha.
const (
	SortDate  = "date"
	SortAlpha = "alpha"
)

// TalkRepository defines the interface for talk and revision storage.
// Every lookup that takes an authorID is scoped to that author at the query
// level: a talk owned by someone else behaves exactly like a missing one.
type TalkRepository interface {
	// CreateWithRevision persists the talk and its initial revision in a
	// single transaction. Either both rows exist afterwards or neither does.
	CreateWithRevision(ctx context.Context, talk *Talk, rev *TalkRevision) error
	GetByID(ctx context.Context, id, authorID string) (*Talk, error)
	ListByAuthorID(ctx context.Context, authorID string) ([]*Talk, error)
	AppendRevision(ctx context.Context, rev *TalkRevision) error
	// GetRevision looks up a revision scoped to its talk. A revision id that
	// belongs to a different talk behaves like a missing one.
	GetRevision(ctx context.Context, talkID, revisionID string) (*TalkRevision, error)
	ListRevisions(ctx context.Context, talkID string) ([]*TalkRevision, error)
	// Delete removes the talk and all of its revisions in a single transaction.
	Delete(ctx context.Context, id, authorID string) error
}

// TalkDetail is the result of a show lookup: the talk, the revision selected
// for display, the full revision history (newest first), and whether the
// selected revision is a historical one rather than the current.
type TalkDetail struct {
	Talk            *Talk
	Selected        *TalkRevision
	History         []*TalkRevision
	ShowingRevision bool
}

// TalkService defines the business logic for the talk lifecycle.
type TalkService interface {
	List(ctx context.Context, authorID, sort string) ([]*Talk, error)
	Create(ctx context.Context, authorID string, fields TalkFields) (*Talk, error)
	Get(ctx context.Context, authorID, talkID, revisionID string) (*TalkDetail, error)
	Update(ctx context.Context, authorID, talkID string, fields TalkFields) (*Talk, error)
	Delete(ctx context.Context, authorID, talkID string) error
}
