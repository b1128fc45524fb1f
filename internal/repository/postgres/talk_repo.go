package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"symposium/internal/domain"
)

type talkRepository struct {
	DB *sql.DB
}

// NewTalkRepository returns a domain.TalkRepository implemented with Postgres.
func NewTalkRepository(db *sql.DB) domain.TalkRepository {
	return &talkRepository{DB: db}
}

// currentRevisionJoin selects each talk's newest revision. Ties on created_at
// are broken by id so "current" is deterministic.
const currentRevisionJoin = `
	JOIN LATERAL (
		SELECT id, talk_id, title, type, level, length, description, organizer_notes, created_at
		FROM talk_revisions
		WHERE talk_id = t.id
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	) r ON true
`

func (repo *talkRepository) CreateWithRevision(ctx context.Context, talk *domain.Talk, rev *domain.TalkRevision) error {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO talks (author_id, created_at) VALUES ($1, $2) RETURNING id`,
		talk.AuthorID, talk.CreatedAt,
	).Scan(&talk.ID)
	if err != nil {
		return fmt.Errorf("insert talk: %w", err)
	}

	rev.TalkID = talk.ID
	err = tx.QueryRowContext(ctx,
		`INSERT INTO talk_revisions (talk_id, title, type, level, length, description, organizer_notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		rev.TalkID, rev.Title, rev.Type, rev.Level, rev.Length, rev.Description, rev.OrganizerNotes, rev.CreatedAt,
	).Scan(&rev.ID)
	if err != nil {
		return fmt.Errorf("insert initial revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	talk.Current = rev
	return nil
}

func (repo *talkRepository) GetByID(ctx context.Context, id, authorID string) (*domain.Talk, error) {
	query := `
		SELECT t.id, t.author_id, t.created_at,
		       r.id, r.talk_id, r.title, r.type, r.level, r.length, r.description, r.organizer_notes, r.created_at
		FROM talks t
	` + currentRevisionJoin + `
		WHERE t.id = $1 AND t.author_id = $2
	`
	t := &domain.Talk{}
	r := &domain.TalkRevision{}
	var descNull, notesNull sql.NullString
	err := repo.DB.QueryRowContext(ctx, query, id, authorID).Scan(
		&t.ID, &t.AuthorID, &t.CreatedAt,
		&r.ID, &r.TalkID, &r.Title, &r.Type, &r.Level, &r.Length, &descNull, &notesNull, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	r.Description = descNull.String
	r.OrganizerNotes = notesNull.String
	t.Current = r
	return t, nil
}

func (repo *talkRepository) ListByAuthorID(ctx context.Context, authorID string) ([]*domain.Talk, error) {
	query := `
		SELECT t.id, t.author_id, t.created_at,
		       r.id, r.talk_id, r.title, r.type, r.level, r.length, r.description, r.organizer_notes, r.created_at
		FROM talks t
	` + currentRevisionJoin + `
		WHERE t.author_id = $1
		ORDER BY t.created_at DESC
	`
	rows, err := repo.DB.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	talks := make([]*domain.Talk, 0)
	for rows.Next() {
		t := &domain.Talk{}
		r := &domain.TalkRevision{}
		var descNull, notesNull sql.NullString
		if err := rows.Scan(
			&t.ID, &t.AuthorID, &t.CreatedAt,
			&r.ID, &r.TalkID, &r.Title, &r.Type, &r.Level, &r.Length, &descNull, &notesNull, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.Description = descNull.String
		r.OrganizerNotes = notesNull.String
		t.Current = r
		talks = append(talks, t)
	}
	return talks, rows.Err()
}

func (repo *talkRepository) AppendRevision(ctx context.Context, rev *domain.TalkRevision) error {
	return repo.DB.QueryRowContext(ctx,
		`INSERT INTO talk_revisions (talk_id, title, type, level, length, description, organizer_notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		rev.TalkID, rev.Title, rev.Type, rev.Level, rev.Length, rev.Description, rev.OrganizerNotes, rev.CreatedAt,
	).Scan(&rev.ID)
}

func (repo *talkRepository) GetRevision(ctx context.Context, talkID, revisionID string) (*domain.TalkRevision, error) {
	// Scoped to the talk: a revision id belonging to another talk is not found.
	query := `
		SELECT id, talk_id, title, type, level, length, description, organizer_notes, created_at
		FROM talk_revisions
		WHERE id = $1 AND talk_id = $2
	`
	r := &domain.TalkRevision{}
	var descNull, notesNull sql.NullString
	err := repo.DB.QueryRowContext(ctx, query, revisionID, talkID).Scan(
		&r.ID, &r.TalkID, &r.Title, &r.Type, &r.Level, &r.Length, &descNull, &notesNull, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	r.Description = descNull.String
	r.OrganizerNotes = notesNull.String
	return r, nil
}

func (repo *talkRepository) ListRevisions(ctx context.Context, talkID string) ([]*domain.TalkRevision, error) {
	query := `
		SELECT id, talk_id, title, type, level, length, description, organizer_notes, created_at
		FROM talk_revisions
		WHERE talk_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := repo.DB.QueryContext(ctx, query, talkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	revisions := make([]*domain.TalkRevision, 0)
	for rows.Next() {
		r := &domain.TalkRevision{}
		var descNull, notesNull sql.NullString
		if err := rows.Scan(&r.ID, &r.TalkID, &r.Title, &r.Type, &r.Level, &r.Length, &descNull, &notesNull, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Description = descNull.String
		r.OrganizerNotes = notesNull.String
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// Delete removes the talk and cascades to its revisions in one transaction.
// Orphaned revisions would be unreachable by any route, so they go with the talk.
func (repo *talkRepository) Delete(ctx context.Context, id, authorID string) error {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM talk_revisions WHERE talk_id IN (SELECT id FROM talks WHERE id = $1 AND author_id = $2)`,
		id, authorID,
	); err != nil {
		return fmt.Errorf("delete revisions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM talks WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("delete talk: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete talk: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}
