package docstore

import (
	"context"

	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
)

var noteSortKeys = map[string]any{
	"createdAt": "$createdAt",
	"updatedAt": "$updatedAt",
	"title":     bson.M{"$toLower": "$title"},
	"category":  "$category",
}

func noteFilter(userID string, filter models.NoteFilter) bson.M {
	m := bson.M{"userId": userID}
	if filter.Category != "" {
		m["category"] = filter.Category
	}
	if filter.Pinned != nil {
		m["isPinned"] = *filter.Pinned
	}
	if filter.Archived != nil {
		m["isArchived"] = *filter.Archived
	}
	if filter.Search != "" {
		m["$or"] = searchClause(filter.Search, "title", "content", "tags")
	}
	return m
}

func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if note.Tags == nil {
		note.Tags = []string{}
	}
	if _, err := s.notes.InsertOne(ctx, note); err != nil {
		logger.Error("failed to create note", "err", err)
		return err
	}
	logger.Debug("note created", "id", note.ID)
	return nil
}

func (s *Storage) GetNote(ctx context.Context, userID, id string) (*models.Note, error) {
	return findOwned[models.Note](ctx, s.notes, userID, id)
}

func (s *Storage) ListNotes(ctx context.Context, userID string, filter models.NoteFilter, page models.Page) ([]models.Note, error) {
	key := sortExpr(noteSortKeys, filter.Sort, "updatedAt")
	return aggregate[models.Note](ctx, s.notes, listPipeline(noteFilter(userID, filter), key, filter.Sort.Desc, page))
}

func (s *Storage) CountNotes(ctx context.Context, userID string, filter models.NoteFilter) (int64, error) {
	return count(ctx, s.notes, noteFilter(userID, filter))
}

func (s *Storage) SearchNotes(ctx context.Context, userID, query string, limit int) ([]models.Note, error) {
	filter := models.NoteFilter{Search: query, Sort: models.Sort{Field: "updatedAt", Desc: true}}
	return s.ListNotes(ctx, userID, filter, models.Page{Number: 1, Limit: limit})
}

func (s *Storage) UpdateNote(ctx context.Context, note *models.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return replaceOwned(ctx, s.notes, note.ID, note.UserID, note)
}

func (s *Storage) DeleteNote(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, s.notes, userID, id)
}
