package server

import (
	"context"
	"time"

	"zenith/internal/domain/models"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStore) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockStore) GetTodo(ctx context.Context, userID, id string) (*models.Todo, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Todo), args.Error(1)
}

func (m *MockStore) GetTodosByIDs(ctx context.Context, userID string, ids []string) ([]models.Todo, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockStore) ListTodos(ctx context.Context, userID string, filter models.TodoFilter, page models.Page) ([]models.Todo, error) {
	args := m.Called(ctx, userID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockStore) CountTodos(ctx context.Context, userID string, filter models.TodoFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) TodoSummary(ctx context.Context, userID string) (models.TodoSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.TodoSummary), args.Error(1)
}

func (m *MockStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockStore) DeleteTodo(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockStore) DeleteTodos(ctx context.Context, userID string, ids []string) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) AddActualTime(ctx context.Context, userID, id string, minutes int) error {
	args := m.Called(ctx, userID, id, minutes)
	return args.Error(0)
}

func (m *MockStore) TodoDailyStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoDayStat, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TodoDayStat), args.Error(1)
}

func (m *MockStore) TodoCategoryStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoCategoryStat, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TodoCategoryStat), args.Error(1)
}

func (m *MockStore) TodoPriorityStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoPriorityStat, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TodoPriorityStat), args.Error(1)
}

func (m *MockStore) TodoCompletionStats(ctx context.Context, userID string, r models.DateRange) ([]models.CompletionStat, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CompletionStat), args.Error(1)
}

func (m *MockStore) CreateNote(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockStore) GetNote(ctx context.Context, userID, id string) (*models.Note, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockStore) ListNotes(ctx context.Context, userID string, filter models.NoteFilter, page models.Page) ([]models.Note, error) {
	args := m.Called(ctx, userID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockStore) CountNotes(ctx context.Context, userID string, filter models.NoteFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) SearchNotes(ctx context.Context, userID, query string, limit int) ([]models.Note, error) {
	args := m.Called(ctx, userID, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockStore) UpdateNote(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockStore) DeleteNote(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockStore) CreateSession(ctx context.Context, session *models.FocusSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStore) GetSession(ctx context.Context, userID, id string) (*models.FocusSession, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FocusSession), args.Error(1)
}

func (m *MockStore) UpdateSession(ctx context.Context, session *models.FocusSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStore) ListSessions(ctx context.Context, userID string, filter models.SessionFilter, page models.Page) ([]models.FocusSession, error) {
	args := m.Called(ctx, userID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FocusSession), args.Error(1)
}

func (m *MockStore) CountSessions(ctx context.Context, userID string, filter models.SessionFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) HasSessionBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) FocusTotals(ctx context.Context, userID string, r models.DateRange) (models.FocusTotals, error) {
	args := m.Called(ctx, userID, r)
	return args.Get(0).(models.FocusTotals), args.Error(1)
}

func (m *MockStore) FocusDailyStats(ctx context.Context, userID string, since time.Time) ([]models.FocusDayStat, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FocusDayStat), args.Error(1)
}

func (m *MockStore) FocusModeStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusModeStat, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FocusModeStat), args.Error(1)
}

func (m *MockStore) FocusWeekdayStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusWeekdayStat, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FocusWeekdayStat), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() {
	m.Called()
}
