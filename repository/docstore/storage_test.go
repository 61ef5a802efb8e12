package docstore

import (
	"context"
	"os"
	"testing"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// setupTestStore connects to TEST_MONGODB_URI and empties every collection.
func setupTestStore(t *testing.T) *Storage {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("Skipping test: TEST_MONGODB_URI is not set")
	}

	storage, err := NewStorage(uri, "zenith_test")
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(storage.Close)

	ctx := context.Background()
	for _, coll := range []string{usersCollection, todosCollection, notesCollection, sessionsCollection} {
		_, err := storage.users.Database().Collection(coll).DeleteMany(ctx, bson.M{})
		require.NoError(t, err)
	}
	return storage
}

func TestNewStorageValidation(t *testing.T) {
	_, err := NewStorage("", "zenith")
	assert.ErrorIs(t, err, errors.ErrDatabaseConnection)

	_, err = NewStorage("mongodb://localhost:27017", "")
	assert.ErrorIs(t, err, errors.ErrDatabaseConnection)
}

func TestStorageUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	user := &models.User{
		ID:         uuid.New().String(),
		Name:       "Ada",
		Email:      " Ada@Example.com ",
		Password:   "hash",
		Settings:   models.DefaultSettings(),
		IsActive:   true,
		LastActive: now,
		CreatedAt:  now,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	dup := *user
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), errors.ErrDuplicateEmail)

	got, err := s.GetUserByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "ada@example.com", got.Email)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)

	later := now.Add(time.Hour)
	require.NoError(t, s.TouchLastActive(ctx, user.ID, later))
	got, err = s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(got.LastActive))
}

func TestStorageTodos(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	mk := func(title, priority string, offset time.Duration) *models.Todo {
		todo := models.CreateTodoRequest{Title: title, Priority: priority, Tags: []string{"home"}}.
			NewTodo(uuid.New().String(), "u1", base.Add(offset))
		require.NoError(t, s.CreateTodo(ctx, &todo))
		return &todo
	}
	low := mk("Buy milk", models.PriorityLow, 0)
	high := mk("File taxes", models.PriorityHigh, time.Hour)
	mk("Walk dog", models.PriorityMedium, 2*time.Hour)

	list, err := s.ListTodos(ctx, "u1", models.TodoFilter{Sort: models.Sort{Field: "priority", Desc: true}}, models.Page{Number: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, high.ID, list[0].ID)

	list, err = s.ListTodos(ctx, "u1", models.TodoFilter{Search: "MILK"}, models.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, low.ID, list[0].ID)

	_, err = s.GetTodo(ctx, "u2", low.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, s.AddActualTime(ctx, "u1", low.ID, 25))
	got, err := s.GetTodo(ctx, "u1", low.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.ActualTime)

	completed := base.Add(3 * time.Hour)
	got.IsCompleted = true
	got.CompletedAt = &completed
	require.NoError(t, s.UpdateTodo(ctx, got))

	sum, err := s.TodoSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.TodoSummary{Total: 3, Completed: 1, HighPriority: 1, MediumPriority: 1, LowPriority: 1}, sum)

	daily, err := s.TodoDailyStats(ctx, "u1", models.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, []models.TodoDayStat{{Date: "2024-05-10", Created: 3, Completed: 1}}, daily)

	prio, err := s.TodoPriorityStats(ctx, "u1", models.DateRange{})
	require.NoError(t, err)
	require.Len(t, prio, 3)
	assert.Equal(t, models.PriorityHigh, prio[0].Priority)

	n, err := s.DeleteTodos(ctx, "u1", []string{low.ID, high.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStorageNotes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	note := models.CreateNoteRequest{Content: "Standup agenda", Tags: []string{"team"}}.
		NewNote(uuid.New().String(), "u1", now)
	require.NoError(t, s.CreateNote(ctx, &note))

	found, err := s.SearchNotes(ctx, "u1", "TEAM", models.NoteSearchLimit)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, models.DefaultNoteTitle, found[0].Title)

	found, err = s.SearchNotes(ctx, "u2", "team", models.NoteSearchLimit)
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, s.DeleteNote(ctx, "u1", note.ID))
	assert.ErrorIs(t, s.DeleteNote(ctx, "u1", note.ID), errors.ErrNotFound)
}

func TestStorageFocusSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	friday := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	for i, mode := range []string{models.ModePomodoro, models.ModePomodoro, models.ModeShortBreak} {
		start := friday.Add(time.Duration(i) * time.Hour)
		session := &models.FocusSession{
			ID:            uuid.New().String(),
			UserID:        "u1",
			Duration:      1500,
			Mode:          mode,
			Interruptions: i,
			StartTime:     start,
			EndTime:       start.Add(25 * time.Minute),
			CreatedAt:     start,
		}
		require.NoError(t, s.CreateSession(ctx, session))
	}

	ok, err := s.HasSessionBetween(ctx, "u1", friday, friday.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.HasSessionBetween(ctx, "u1", friday.Add(24*time.Hour), friday.Add(48*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	totals, err := s.FocusTotals(ctx, "u1", models.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.TotalSessions)
	assert.Equal(t, int64(4500), totals.TotalDuration)
	assert.Equal(t, int64(3), totals.TotalInterruptions)
	assert.InDelta(t, 1500, totals.AvgDuration, 0.001)
	assert.Equal(t, int64(1), totals.ActiveDays)

	modes, err := s.FocusModeStats(ctx, "u1", models.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, []models.FocusModeStat{
		{Mode: models.ModePomodoro, Sessions: 2, Duration: 3000},
		{Mode: models.ModeShortBreak, Sessions: 1, Duration: 1500},
	}, modes)

	weekdays, err := s.FocusWeekdayStats(ctx, "u1", models.DateRange{})
	require.NoError(t, err)
	require.Len(t, weekdays, 1)
	assert.Equal(t, "Friday", weekdays[0].Day)

	list, err := s.ListSessions(ctx, "u1", models.SessionFilter{Mode: models.ModePomodoro, Sort: models.Sort{Field: "startTime", Desc: true}}, models.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].StartTime.After(list[1].StartTime))
}
