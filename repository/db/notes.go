package db

import (
	"context"
	stderrors "errors"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"github.com/jackc/pgx/v5"
)

const noteColumns = `id, user_id, title, content, category, tags, color, is_pinned, is_archived, created_at, updated_at`

var noteSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "lower(title)",
	"category":  "category",
}

func scanNote(row pgx.Row) (models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Category, &n.Tags,
		&n.Color, &n.IsPinned, &n.IsArchived, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func collectNotes(rows pgx.Rows) ([]models.Note, error) {
	defer rows.Close()
	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

const noteSearchClause = `(title ILIKE $%[1]d OR content ILIKE $%[1]d
	OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%[1]d))`

func notePredicate(userID string, filter models.NoteFilter) *predicate {
	p := newPredicate(userID)
	if filter.Category != "" {
		p.add("category = $%[1]d", filter.Category)
	}
	if filter.Pinned != nil {
		p.add("is_pinned = $%[1]d", *filter.Pinned)
	}
	if filter.Archived != nil {
		p.add("is_archived = $%[1]d", *filter.Archived)
	}
	if filter.Search != "" {
		p.add(noteSearchClause, likePattern(filter.Search))
	}
	return p
}

func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `INSERT INTO notes (`+noteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		note.ID, note.UserID, note.Title, note.Content, note.Category, nonNil(note.Tags),
		note.Color, note.IsPinned, note.IsArchived, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		logger.Error("failed to create note", "err", err)
		return err
	}
	logger.Debug("note created", "id", note.ID)
	return nil
}

func (s *Storage) GetNote(ctx context.Context, userID, id string) (*models.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := scanNote(s.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		logger.Error("failed to get note", "id", id, "err", err)
		return nil, err
	}
	return &n, nil
}

func (s *Storage) ListNotes(ctx context.Context, userID string, filter models.NoteFilter, page models.Page) ([]models.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := notePredicate(userID, filter)
	query := `SELECT ` + noteColumns + ` FROM notes` + p.where() +
		orderBy(noteSortColumns, filter.Sort, "updatedAt") + p.page(page)
	rows, err := s.pool.Query(ctx, query, p.args...)
	if err != nil {
		logger.Error("failed to list notes", "err", err)
		return nil, err
	}
	return collectNotes(rows)
}

func (s *Storage) CountNotes(ctx context.Context, userID string, filter models.NoteFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := notePredicate(userID, filter)
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM notes`+p.where(), p.args...).Scan(&total); err != nil {
		logger.Error("failed to count notes", "err", err)
		return 0, err
	}
	return total, nil
}

func (s *Storage) SearchNotes(ctx context.Context, userID, query string, limit int) ([]models.Note, error) {
	filter := models.NoteFilter{Search: query, Sort: models.Sort{Field: "updatedAt", Desc: true}}
	return s.ListNotes(ctx, userID, filter, models.Page{Number: 1, Limit: limit})
}

func (s *Storage) UpdateNote(ctx context.Context, note *models.Note) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `UPDATE notes SET title = $1, content = $2, category = $3, tags = $4,
		color = $5, is_pinned = $6, is_archived = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10`,
		note.Title, note.Content, note.Category, nonNil(note.Tags), note.Color,
		note.IsPinned, note.IsArchived, note.UpdatedAt, note.ID, note.UserID)
	if err != nil {
		logger.Error("failed to update note", "id", note.ID, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	logger.Debug("note updated", "id", note.ID)
	return nil
}

func (s *Storage) DeleteNote(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.Error("failed to delete note", "id", id, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	logger.Debug("note deleted", "id", id)
	return nil
}
