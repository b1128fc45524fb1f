package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"symposium/internal/domain"
)

type talkService struct {
	talkRepo       domain.TalkRepository
	contextTimeout time.Duration
}

// NewTalkService creates a TalkService backed by the given repository.
func NewTalkService(talkRepo domain.TalkRepository, timeout time.Duration) domain.TalkService {
	return &talkService{
		talkRepo:       talkRepo,
		contextTimeout: timeout,
	}
}

// List returns the author's talks ordered by the given sort key.
// "date" sorts by talk creation time, newest first. Anything else falls back
// to "alpha": current revision title, case-insensitive, stable on ties.
func (s *talkService) List(ctx context.Context, authorID, sortKey string) ([]*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	talks, err := s.talkRepo.ListByAuthorID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list talks: %w", err)
	}

	switch sortKey {
	case domain.SortDate:
		sort.SliceStable(talks, func(i, j int) bool {
			return talks[i].CreatedAt.After(talks[j].CreatedAt)
		})
	default:
		sort.SliceStable(talks, func(i, j int) bool {
			return strings.ToLower(talks[i].Current.Title) < strings.ToLower(talks[j].Current.Title)
		})
	}
	return talks, nil
}

func (s *talkService) Create(ctx context.Context, authorID string, fields domain.TalkFields) (*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if authorID == "" {
		return nil, fmt.Errorf("talk author is required")
	}
	if errs := fields.Validate(); len(errs) > 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	talk := domain.NewTalk(authorID, now)
	rev := domain.NewTalkRevision("", fields, now)
	if err := s.talkRepo.CreateWithRevision(ctx, talk, rev); err != nil {
		return nil, fmt.Errorf("create talk: %w", err)
	}
	return talk, nil
}

// Get returns the talk with the revision selected for display. With a
// revisionID it returns that historical revision, scoped to the talk so one
// author can never read another author's revision by guessing ids.
func (s *talkService) Get(ctx context.Context, authorID, talkID, revisionID string) (*domain.TalkDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	talk, err := s.talkRepo.GetByID(ctx, talkID, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get talk: %w", err)
	}

	selected := talk.Current
	showingRevision := false
	if revisionID != "" {
		rev, err := s.talkRepo.GetRevision(ctx, talk.ID, revisionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get revision: %w", err)
		}
		selected = rev
		showingRevision = true
	}

	history, err := s.talkRepo.ListRevisions(ctx, talk.ID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}

	return &domain.TalkDetail{
		Talk:            talk,
		Selected:        selected,
		History:         history,
		ShowingRevision: showingRevision,
	}, nil
}

// Update appends a new revision with the submitted fields. The previous
// revisions are untouched.
func (s *talkService) Update(ctx context.Context, authorID, talkID string, fields domain.TalkFields) (*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if errs := fields.Validate(); len(errs) > 0 {
		return nil, domain.ErrInvalidInput
	}

	talk, err := s.talkRepo.GetByID(ctx, talkID, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get talk: %w", err)
	}

	rev := domain.NewTalkRevision(talk.ID, fields, time.Now())
	if err := s.talkRepo.AppendRevision(ctx, rev); err != nil {
		return nil, fmt.Errorf("append revision: %w", err)
	}
	talk.Current = rev
	return talk, nil
}

func (s *talkService) Delete(ctx context.Context, authorID, talkID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.talkRepo.Delete(ctx, talkID, authorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete talk: %w", err)
	}
	return nil
}
