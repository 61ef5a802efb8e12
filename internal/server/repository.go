package server

import (
	"context"
	"time"

	"zenith/internal/domain/models"
)

// Every repository method below scopes by owner. A record owned by another
// user is reported exactly like a missing one (errors.ErrNotFound).

type UserRepository interface {
	// CreateUser fails with errors.ErrDuplicateEmail when the normalized email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	TouchLastActive(ctx context.Context, id string, at time.Time) error
}

type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *models.Todo) error
	GetTodo(ctx context.Context, userID, id string) (*models.Todo, error)
	GetTodosByIDs(ctx context.Context, userID string, ids []string) ([]models.Todo, error)
	ListTodos(ctx context.Context, userID string, filter models.TodoFilter, page models.Page) ([]models.Todo, error)
	CountTodos(ctx context.Context, userID string, filter models.TodoFilter) (int64, error)
	// TodoSummary aggregates over every non-archived todo of the owner.
	TodoSummary(ctx context.Context, userID string) (models.TodoSummary, error)
	UpdateTodo(ctx context.Context, todo *models.Todo) error
	DeleteTodo(ctx context.Context, userID, id string) error
	DeleteTodos(ctx context.Context, userID string, ids []string) (int64, error)
	// AddActualTime atomically increments actualTime by minutes.
	AddActualTime(ctx context.Context, userID, id string, minutes int) error

	TodoDailyStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoDayStat, error)
	TodoCategoryStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoCategoryStat, error)
	TodoPriorityStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoPriorityStat, error)
	TodoCompletionStats(ctx context.Context, userID string, r models.DateRange) ([]models.CompletionStat, error)
}

type NoteRepository interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, userID, id string) (*models.Note, error)
	ListNotes(ctx context.Context, userID string, filter models.NoteFilter, page models.Page) ([]models.Note, error)
	CountNotes(ctx context.Context, userID string, filter models.NoteFilter) (int64, error)
	SearchNotes(ctx context.Context, userID, query string, limit int) ([]models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, userID, id string) error
}

type FocusRepository interface {
	CreateSession(ctx context.Context, session *models.FocusSession) error
	GetSession(ctx context.Context, userID, id string) (*models.FocusSession, error)
	UpdateSession(ctx context.Context, session *models.FocusSession) error
	ListSessions(ctx context.Context, userID string, filter models.SessionFilter, page models.Page) ([]models.FocusSession, error)
	CountSessions(ctx context.Context, userID string, filter models.SessionFilter) (int64, error)
	// HasSessionBetween reports whether a session started in [from, to).
	HasSessionBetween(ctx context.Context, userID string, from, to time.Time) (bool, error)

	FocusTotals(ctx context.Context, userID string, r models.DateRange) (models.FocusTotals, error)
	FocusDailyStats(ctx context.Context, userID string, since time.Time) ([]models.FocusDayStat, error)
	FocusModeStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusModeStat, error)
	FocusWeekdayStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusWeekdayStat, error)
}

type Store interface {
	UserRepository
	TodoRepository
	NoteRepository
	FocusRepository

	Ping(ctx context.Context) error
	Close()
}
