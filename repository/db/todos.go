package db

import (
	"context"
	stderrors "errors"
	"fmt"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"github.com/jackc/pgx/v5"
)

const todoColumns = `id, user_id, title, description, priority, category, due_date, tags, reminders,
	estimated_time, actual_time, is_completed, completed_at, is_archived, created_at, updated_at`

var todoSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "lower(title)",
	"priority":  priorityRankExpr,
}

func scanTodo(row pgx.Row) (models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.Category,
		&t.DueDate, &t.Tags, &t.Reminders, &t.EstimatedTime, &t.ActualTime,
		&t.IsCompleted, &t.CompletedAt, &t.IsArchived, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func collectTodos(rows pgx.Rows) ([]models.Todo, error) {
	defer rows.Close()
	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func todoPredicate(userID string, filter models.TodoFilter) *predicate {
	p := newPredicate(userID)
	p.add("is_archived = $%[1]d", filter.Archived)
	if filter.Category != "" {
		p.add("category = $%[1]d", filter.Category)
	}
	if filter.Priority != "" {
		p.add("priority = $%[1]d", filter.Priority)
	}
	if filter.Completed != nil {
		p.add("is_completed = $%[1]d", *filter.Completed)
	}
	if filter.Search != "" {
		p.add(`(title ILIKE $%[1]d OR description ILIKE $%[1]d
			OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%[1]d))`, likePattern(filter.Search))
	}
	return p
}

func (s *Storage) CreateTodo(ctx context.Context, todo *models.Todo) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `INSERT INTO todos (`+todoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		todo.ID, todo.UserID, todo.Title, todo.Description, todo.Priority, todo.Category,
		todo.DueDate, nonNil(todo.Tags), nonNil(todo.Reminders), todo.EstimatedTime, todo.ActualTime,
		todo.IsCompleted, todo.CompletedAt, todo.IsArchived, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		logger.Error("failed to create todo", "err", err)
		return err
	}
	logger.Debug("todo created", "id", todo.ID)
	return nil
}

func (s *Storage) GetTodo(ctx context.Context, userID, id string) (*models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	t, err := scanTodo(s.pool.QueryRow(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		logger.Error("failed to get todo", "id", id, "err", err)
		return nil, err
	}
	return &t, nil
}

func (s *Storage) GetTodosByIDs(ctx context.Context, userID string, ids []string) ([]models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		logger.Error("failed to get todos by ids", "err", err)
		return nil, err
	}
	return collectTodos(rows)
}

func (s *Storage) ListTodos(ctx context.Context, userID string, filter models.TodoFilter, page models.Page) ([]models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := todoPredicate(userID, filter)
	query := `SELECT ` + todoColumns + ` FROM todos` + p.where() +
		orderBy(todoSortColumns, filter.Sort, "createdAt") + p.page(page)
	rows, err := s.pool.Query(ctx, query, p.args...)
	if err != nil {
		logger.Error("failed to list todos", "err", err)
		return nil, err
	}
	return collectTodos(rows)
}

func (s *Storage) CountTodos(ctx context.Context, userID string, filter models.TodoFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := todoPredicate(userID, filter)
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM todos`+p.where(), p.args...).Scan(&total); err != nil {
		logger.Error("failed to count todos", "err", err)
		return 0, err
	}
	return total, nil
}

func (s *Storage) TodoSummary(ctx context.Context, userID string) (models.TodoSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sum models.TodoSummary
	err := s.pool.QueryRow(ctx, `SELECT
			count(*),
			count(*) FILTER (WHERE is_completed),
			count(*) FILTER (WHERE priority = 'high'),
			count(*) FILTER (WHERE priority = 'medium'),
			count(*) FILTER (WHERE priority = 'low')
		FROM todos WHERE user_id = $1 AND NOT is_archived`, userID).
		Scan(&sum.Total, &sum.Completed, &sum.HighPriority, &sum.MediumPriority, &sum.LowPriority)
	if err != nil {
		logger.Error("failed to summarize todos", "err", err)
		return models.TodoSummary{}, err
	}
	return sum, nil
}

func (s *Storage) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `UPDATE todos SET title = $1, description = $2, priority = $3,
		category = $4, due_date = $5, tags = $6, reminders = $7, estimated_time = $8,
		actual_time = $9, is_completed = $10, completed_at = $11, is_archived = $12, updated_at = $13
		WHERE id = $14 AND user_id = $15`,
		todo.Title, todo.Description, todo.Priority, todo.Category, todo.DueDate,
		nonNil(todo.Tags), nonNil(todo.Reminders), todo.EstimatedTime, todo.ActualTime,
		todo.IsCompleted, todo.CompletedAt, todo.IsArchived, todo.UpdatedAt,
		todo.ID, todo.UserID)
	if err != nil {
		logger.Error("failed to update todo", "id", todo.ID, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	logger.Debug("todo updated", "id", todo.ID)
	return nil
}

func (s *Storage) DeleteTodo(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.Error("failed to delete todo", "id", id, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	logger.Debug("todo deleted", "id", id)
	return nil
}

func (s *Storage) DeleteTodos(ctx context.Context, userID string, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		logger.Error("failed to bulk delete todos", "err", err)
		return 0, err
	}
	logger.Debug("todos deleted", "count", ct.RowsAffected())
	return ct.RowsAffected(), nil
}

func (s *Storage) AddActualTime(ctx context.Context, userID, id string, minutes int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx,
		`UPDATE todos SET actual_time = actual_time + $1 WHERE id = $2 AND user_id = $3`, minutes, id, userID)
	if err != nil {
		logger.Error("failed to add actual time", "id", id, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (s *Storage) TodoDailyStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoDayStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := newPredicate(userID)
	p.addRange("created_at", r)
	day := fmt.Sprintf(dayExpr, "created_at")
	query := `SELECT ` + day + ` AS day, count(*), count(*) FILTER (WHERE is_completed)
		FROM todos` + p.where() + ` GROUP BY day ORDER BY day DESC LIMIT ` + fmt.Sprint(models.StatsDays)

	rows, err := s.pool.Query(ctx, query, p.args...)
	if err != nil {
		logger.Error("failed to aggregate daily todo stats", "err", err)
		return nil, err
	}
	defer rows.Close()

	stats := []models.TodoDayStat{}
	for rows.Next() {
		var st models.TodoDayStat
		if err := rows.Scan(&st.Date, &st.Created, &st.Completed); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	reverse(stats)
	return stats, rows.Err()
}

func (s *Storage) TodoCategoryStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoCategoryStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := newPredicate(userID)
	p.addRange("created_at", r)
	rows, err := s.pool.Query(ctx, `SELECT category, count(*) AS n, count(*) FILTER (WHERE is_completed)
		FROM todos`+p.where()+` GROUP BY category ORDER BY n DESC, category`, p.args...)
	if err != nil {
		logger.Error("failed to aggregate todo category stats", "err", err)
		return nil, err
	}
	defer rows.Close()

	stats := []models.TodoCategoryStat{}
	for rows.Next() {
		var st models.TodoCategoryStat
		if err := rows.Scan(&st.Category, &st.Count, &st.Completed); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *Storage) TodoPriorityStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoPriorityStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := newPredicate(userID)
	p.addRange("created_at", r)
	rows, err := s.pool.Query(ctx, `SELECT priority, count(*), count(*) FILTER (WHERE is_completed)
		FROM todos`+p.where()+` GROUP BY priority ORDER BY `+priorityRankExpr+` DESC`, p.args...)
	if err != nil {
		logger.Error("failed to aggregate todo priority stats", "err", err)
		return nil, err
	}
	defer rows.Close()

	stats := []models.TodoPriorityStat{}
	for rows.Next() {
		var st models.TodoPriorityStat
		if err := rows.Scan(&st.Priority, &st.Count, &st.Completed); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *Storage) TodoCompletionStats(ctx context.Context, userID string, r models.DateRange) ([]models.CompletionStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := newPredicate(userID)
	p.clauses = append(p.clauses, "is_completed", "completed_at IS NOT NULL")
	p.addRange("completed_at", r)
	day := fmt.Sprintf(dayExpr, "completed_at")
	query := `SELECT ` + day + ` AS day, count(*) FROM todos` + p.where() +
		` GROUP BY day ORDER BY day DESC LIMIT ` + fmt.Sprint(models.StatsDays)

	rows, err := s.pool.Query(ctx, query, p.args...)
	if err != nil {
		logger.Error("failed to aggregate completion stats", "err", err)
		return nil, err
	}
	defer rows.Close()

	stats := []models.CompletionStat{}
	for rows.Next() {
		var st models.CompletionStat
		if err := rows.Scan(&st.Date, &st.Completed); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	reverse(stats)
	return stats, rows.Err()
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
