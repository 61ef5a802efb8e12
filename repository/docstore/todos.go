package docstore

import (
	"context"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
)

var todoSortKeys = map[string]any{
	"createdAt": "$createdAt",
	"updatedAt": "$updatedAt",
	"dueDate":   "$dueDate",
	"title":     bson.M{"$toLower": "$title"},
	"priority":  priorityRank,
}

func todoFilter(userID string, filter models.TodoFilter) bson.M {
	m := bson.M{"userId": userID, "isArchived": filter.Archived}
	if filter.Category != "" {
		m["category"] = filter.Category
	}
	if filter.Priority != "" {
		m["priority"] = filter.Priority
	}
	if filter.Completed != nil {
		m["isCompleted"] = *filter.Completed
	}
	if filter.Search != "" {
		m["$or"] = searchClause(filter.Search, "title", "description", "tags")
	}
	return m
}

func prepareTodo(todo *models.Todo) {
	if todo.Tags == nil {
		todo.Tags = []string{}
	}
	if todo.Reminders == nil {
		todo.Reminders = []time.Time{}
	}
}

func (s *Storage) CreateTodo(ctx context.Context, todo *models.Todo) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	prepareTodo(todo)
	if _, err := s.todos.InsertOne(ctx, todo); err != nil {
		logger.Error("failed to create todo", "err", err)
		return err
	}
	logger.Debug("todo created", "id", todo.ID)
	return nil
}

func (s *Storage) GetTodo(ctx context.Context, userID, id string) (*models.Todo, error) {
	return findOwned[models.Todo](ctx, s.todos, userID, id)
}

func (s *Storage) GetTodosByIDs(ctx context.Context, userID string, ids []string) ([]models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := s.todos.Find(ctx, bson.M{"userId": userID, "_id": bson.M{"$in": ids}})
	if err != nil {
		logger.Error("failed to get todos", "err", err)
		return nil, err
	}
	todos := []models.Todo{}
	if err := cur.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *Storage) ListTodos(ctx context.Context, userID string, filter models.TodoFilter, page models.Page) ([]models.Todo, error) {
	key := sortExpr(todoSortKeys, filter.Sort, "createdAt")
	return aggregate[models.Todo](ctx, s.todos, listPipeline(todoFilter(userID, filter), key, filter.Sort.Desc, page))
}

func (s *Storage) CountTodos(ctx context.Context, userID string, filter models.TodoFilter) (int64, error) {
	return count(ctx, s.todos, todoFilter(userID, filter))
}

func (s *Storage) TodoSummary(ctx context.Context, userID string) (models.TodoSummary, error) {
	rows, err := aggregate[models.TodoSummary](ctx, s.todos, summaryPipeline(userID))
	if err != nil || len(rows) == 0 {
		return models.TodoSummary{}, err
	}
	return rows[0], nil
}

func summaryPipeline(userID string) []bson.D {
	return []bson.D{
		{{Key: "$match", Value: bson.M{"userId": userID, "isArchived": false}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total":          bson.M{"$sum": 1},
			"completed":      countIf("$isCompleted"),
			"highPriority":   countIf(bson.M{"$eq": bson.A{"$priority", models.PriorityHigh}}),
			"mediumPriority": countIf(bson.M{"$eq": bson.A{"$priority", models.PriorityMedium}}),
			"lowPriority":    countIf(bson.M{"$eq": bson.A{"$priority", models.PriorityLow}}),
		}}},
	}
}

func (s *Storage) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	prepareTodo(todo)
	return replaceOwned(ctx, s.todos, todo.ID, todo.UserID, todo)
}

func (s *Storage) DeleteTodo(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, s.todos, userID, id)
}

func (s *Storage) DeleteTodos(ctx context.Context, userID string, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.todos.DeleteMany(ctx, bson.M{"userId": userID, "_id": bson.M{"$in": ids}})
	if err != nil {
		logger.Error("failed to delete todos", "err", err)
		return 0, err
	}
	logger.Debug("todos deleted", "count", res.DeletedCount)
	return res.DeletedCount, nil
}

func (s *Storage) AddActualTime(ctx context.Context, userID, id string, minutes int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.todos.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$inc": bson.M{"actualTime": minutes}})
	if err != nil {
		logger.Error("failed to add actual time", "id", id, "err", err)
		return err
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func statsMatch(userID, field string, r models.DateRange) bson.M {
	m := bson.M{"userId": userID}
	addRange(m, field, r)
	return m
}

func (s *Storage) TodoDailyStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoDayStat, error) {
	return aggregate[models.TodoDayStat](ctx, s.todos, recentDays(
		statsMatch(userID, "createdAt", r),
		bson.M{
			"_id":       dayOf("createdAt"),
			"created":   bson.M{"$sum": 1},
			"completed": countIf("$isCompleted"),
		},
		models.StatsDays))
}

func (s *Storage) TodoCategoryStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoCategoryStat, error) {
	return aggregate[models.TodoCategoryStat](ctx, s.todos, []bson.D{
		{{Key: "$match", Value: statsMatch(userID, "createdAt", r)}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$category",
			"count":     bson.M{"$sum": 1},
			"completed": countIf("$isCompleted"),
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	})
}

func (s *Storage) TodoPriorityStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoPriorityStat, error) {
	return aggregate[models.TodoPriorityStat](ctx, s.todos, []bson.D{
		{{Key: "$match", Value: statsMatch(userID, "createdAt", r)}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$priority",
			"count":     bson.M{"$sum": 1},
			"completed": countIf("$isCompleted"),
			"rank":      bson.M{"$first": priorityRank},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "rank", Value: -1}}}},
		{{Key: "$project", Value: bson.M{"rank": 0}}},
	})
}

func (s *Storage) TodoCompletionStats(ctx context.Context, userID string, r models.DateRange) ([]models.CompletionStat, error) {
	match := statsMatch(userID, "completedAt", r)
	match["isCompleted"] = true
	if _, ok := match["completedAt"]; !ok {
		match["completedAt"] = bson.M{"$ne": nil}
	}
	return aggregate[models.CompletionStat](ctx, s.todos, recentDays(
		match,
		bson.M{
			"_id":       dayOf("completedAt"),
			"completed": bson.M{"$sum": 1},
		},
		models.StatsDays))
}
