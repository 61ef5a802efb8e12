package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"

	"github.com/google/uuid"
)

type Storage struct {
	mu       sync.RWMutex
	users    map[string]models.User
	todos    map[string]models.Todo
	notes    map[string]models.Note
	sessions map[string]models.FocusSession
}

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[string]models.User),
		todos:    make(map[string]models.Todo),
		notes:    make(map[string]models.Note),
		sessions: make(map[string]models.FocusSession),
	}
}

func (s *Storage) Ping(ctx context.Context) error { return nil }

func (s *Storage) Close() {}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = models.NormalizeEmail(user.Email)
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return errors.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = models.NormalizeEmail(email)
	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; !exists {
		return errors.ErrUserNotFound
	}
	user.Email = models.NormalizeEmail(user.Email)
	for id, existing := range s.users {
		if id != user.ID && existing.Email == user.Email {
			return errors.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return errors.ErrUserNotFound
	}
	user.LastActive = at
	s.users[id] = user
	return nil
}

func (s *Storage) CreateTodo(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	s.todos[todo.ID] = cloneTodo(*todo)
	return nil
}

func (s *Storage) GetTodo(ctx context.Context, userID, id string) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, exists := s.todos[id]
	if !exists || todo.UserID != userID {
		return nil, errors.ErrNotFound
	}
	todo = cloneTodo(todo)
	return &todo, nil
}

func (s *Storage) GetTodosByIDs(ctx context.Context, userID string, ids []string) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := []models.Todo{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if todo, exists := s.todos[id]; exists && todo.UserID == userID {
			todos = append(todos, cloneTodo(todo))
		}
	}
	return todos, nil
}

func (s *Storage) ListTodos(ctx context.Context, userID string, filter models.TodoFilter, page models.Page) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := s.filterTodos(userID, filter)
	sortTodos(todos, filter.Sort)
	return paginate(todos, page), nil
}

func (s *Storage) CountTodos(ctx context.Context, userID string, filter models.TodoFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filterTodos(userID, filter))), nil
}

func (s *Storage) TodoSummary(ctx context.Context, userID string) (models.TodoSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summary models.TodoSummary
	for _, t := range s.todos {
		if t.UserID != userID || t.IsArchived {
			continue
		}
		summary.Total++
		if t.IsCompleted {
			summary.Completed++
		}
		switch t.Priority {
		case models.PriorityHigh:
			summary.HighPriority++
		case models.PriorityMedium:
			summary.MediumPriority++
		case models.PriorityLow:
			summary.LowPriority++
		}
	}
	return summary, nil
}

func (s *Storage) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.todos[todo.ID]
	if !exists || existing.UserID != todo.UserID {
		return errors.ErrNotFound
	}
	s.todos[todo.ID] = cloneTodo(*todo)
	return nil
}

func (s *Storage) DeleteTodo(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, exists := s.todos[id]
	if !exists || todo.UserID != userID {
		return errors.ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

func (s *Storage) DeleteTodos(ctx context.Context, userID string, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if todo, exists := s.todos[id]; exists && todo.UserID == userID {
			delete(s.todos, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Storage) AddActualTime(ctx context.Context, userID, id string, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, exists := s.todos[id]
	if !exists || todo.UserID != userID {
		return errors.ErrNotFound
	}
	todo.ActualTime += minutes
	s.todos[id] = todo
	return nil
}

func (s *Storage) TodoDailyStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoDayStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := map[string]*models.TodoDayStat{}
	for _, t := range s.todos {
		if t.UserID != userID || !r.Contains(t.CreatedAt) {
			continue
		}
		key := models.DayKey(t.CreatedAt)
		b, ok := buckets[key]
		if !ok {
			b = &models.TodoDayStat{Date: key}
			buckets[key] = b
		}
		b.Created++
		if t.IsCompleted {
			b.Completed++
		}
	}

	stats := make([]models.TodoDayStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, *b)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	if len(stats) > models.StatsDays {
		stats = stats[len(stats)-models.StatsDays:]
	}
	return stats, nil
}

func (s *Storage) TodoCategoryStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoCategoryStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]*models.TodoCategoryStat{}
	for _, t := range s.todos {
		if t.UserID != userID || !r.Contains(t.CreatedAt) {
			continue
		}
		c, ok := counts[t.Category]
		if !ok {
			c = &models.TodoCategoryStat{Category: t.Category}
			counts[t.Category] = c
		}
		c.Count++
		if t.IsCompleted {
			c.Completed++
		}
	}

	stats := make([]models.TodoCategoryStat, 0, len(counts))
	for _, c := range counts {
		stats = append(stats, *c)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Category < stats[j].Category
	})
	return stats, nil
}

func (s *Storage) TodoPriorityStats(ctx context.Context, userID string, r models.DateRange) ([]models.TodoPriorityStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]*models.TodoPriorityStat{}
	for _, t := range s.todos {
		if t.UserID != userID || !r.Contains(t.CreatedAt) {
			continue
		}
		p, ok := counts[t.Priority]
		if !ok {
			p = &models.TodoPriorityStat{Priority: t.Priority}
			counts[t.Priority] = p
		}
		p.Count++
		if t.IsCompleted {
			p.Completed++
		}
	}

	stats := make([]models.TodoPriorityStat, 0, len(counts))
	for _, p := range counts {
		stats = append(stats, *p)
	}
	sort.Slice(stats, func(i, j int) bool {
		return models.PriorityRank(stats[i].Priority) > models.PriorityRank(stats[j].Priority)
	})
	return stats, nil
}

func (s *Storage) TodoCompletionStats(ctx context.Context, userID string, r models.DateRange) ([]models.CompletionStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int64{}
	for _, t := range s.todos {
		if t.UserID != userID || !t.IsCompleted || t.CompletedAt == nil || !r.Contains(*t.CompletedAt) {
			continue
		}
		counts[models.DayKey(*t.CompletedAt)]++
	}

	stats := make([]models.CompletionStat, 0, len(counts))
	for day, n := range counts {
		stats = append(stats, models.CompletionStat{Date: day, Completed: n})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	if len(stats) > models.StatsDays {
		stats = stats[len(stats)-models.StatsDays:]
	}
	return stats, nil
}

func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	s.notes[note.ID] = cloneNote(*note)
	return nil
}

func (s *Storage) GetNote(ctx context.Context, userID, id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, exists := s.notes[id]
	if !exists || note.UserID != userID {
		return nil, errors.ErrNotFound
	}
	note = cloneNote(note)
	return &note, nil
}

func (s *Storage) ListNotes(ctx context.Context, userID string, filter models.NoteFilter, page models.Page) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := s.filterNotes(userID, filter)
	sortNotes(notes, filter.Sort)
	return paginate(notes, page), nil
}

func (s *Storage) CountNotes(ctx context.Context, userID string, filter models.NoteFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filterNotes(userID, filter))), nil
}

func (s *Storage) SearchNotes(ctx context.Context, userID, query string, limit int) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := s.filterNotes(userID, models.NoteFilter{Search: query})
	sortNotes(notes, models.Sort{Field: "updatedAt", Desc: true})
	return paginate(notes, models.Page{Number: 1, Limit: limit}), nil
}

func (s *Storage) UpdateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.notes[note.ID]
	if !exists || existing.UserID != note.UserID {
		return errors.ErrNotFound
	}
	s.notes[note.ID] = cloneNote(*note)
	return nil
}

func (s *Storage) DeleteNote(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, exists := s.notes[id]
	if !exists || note.UserID != userID {
		return errors.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *Storage) CreateSession(ctx context.Context, session *models.FocusSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, userID, id string) (*models.FocusSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists || session.UserID != userID {
		return nil, errors.ErrNotFound
	}
	return &session, nil
}

func (s *Storage) UpdateSession(ctx context.Context, session *models.FocusSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.sessions[session.ID]
	if !exists || existing.UserID != session.UserID {
		return errors.ErrNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *Storage) ListSessions(ctx context.Context, userID string, filter models.SessionFilter, page models.Page) ([]models.FocusSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.filterSessions(userID, filter.Mode, filter.Range)
	sortSessions(sessions, filter.Sort)
	return paginate(sessions, page), nil
}

func (s *Storage) CountSessions(ctx context.Context, userID string, filter models.SessionFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filterSessions(userID, filter.Mode, filter.Range))), nil
}

func (s *Storage) HasSessionBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		if !session.StartTime.Before(from) && session.StartTime.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) FocusTotals(ctx context.Context, userID string, r models.DateRange) (models.FocusTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totals models.FocusTotals
	days := map[string]struct{}{}
	for _, session := range s.filterSessions(userID, "", r) {
		totals.TotalSessions++
		totals.TotalDuration += int64(session.Duration)
		totals.TotalInterruptions += int64(session.Interruptions)
		days[models.DayKey(session.StartTime)] = struct{}{}
	}
	if totals.TotalSessions > 0 {
		totals.AvgDuration = float64(totals.TotalDuration) / float64(totals.TotalSessions)
	}
	totals.ActiveDays = int64(len(days))
	return totals, nil
}

func (s *Storage) FocusDailyStats(ctx context.Context, userID string, since time.Time) ([]models.FocusDayStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := map[string]*models.FocusDayStat{}
	for _, session := range s.filterSessions(userID, "", models.DateRange{From: &since}) {
		key := models.DayKey(session.StartTime)
		b, ok := buckets[key]
		if !ok {
			b = &models.FocusDayStat{Date: key}
			buckets[key] = b
		}
		b.Sessions++
		b.Duration += int64(session.Duration)
	}

	stats := make([]models.FocusDayStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, *b)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

func (s *Storage) FocusModeStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusModeStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := map[string]*models.FocusModeStat{}
	for _, session := range s.filterSessions(userID, "", r) {
		b, ok := buckets[session.Mode]
		if !ok {
			b = &models.FocusModeStat{Mode: session.Mode}
			buckets[session.Mode] = b
		}
		b.Sessions++
		b.Duration += int64(session.Duration)
	}

	stats := make([]models.FocusModeStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, *b)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Mode < stats[j].Mode })
	return stats, nil
}

func (s *Storage) FocusWeekdayStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusWeekdayStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := map[int]*models.FocusWeekdayStat{}
	for _, session := range s.filterSessions(userID, "", r) {
		day := int(session.StartTime.UTC().Weekday())
		b, ok := buckets[day]
		if !ok {
			b = &models.FocusWeekdayStat{Weekday: day, Day: models.WeekdayNames[day]}
			buckets[day] = b
		}
		b.Sessions++
		b.Duration += int64(session.Duration)
	}

	stats := make([]models.FocusWeekdayStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, *b)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Weekday < stats[j].Weekday })
	return stats, nil
}

func (s *Storage) filterTodos(userID string, filter models.TodoFilter) []models.Todo {
	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	todos := []models.Todo{}
	for _, t := range s.todos {
		if t.UserID != userID || t.IsArchived != filter.Archived {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.Completed != nil && t.IsCompleted != *filter.Completed {
			continue
		}
		if needle != "" && !containsFold(needle, t.Tags, t.Title, t.Description) {
			continue
		}
		todos = append(todos, cloneTodo(t))
	}
	return todos
}

func (s *Storage) filterNotes(userID string, filter models.NoteFilter) []models.Note {
	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	notes := []models.Note{}
	for _, n := range s.notes {
		if n.UserID != userID {
			continue
		}
		if filter.Category != "" && n.Category != filter.Category {
			continue
		}
		if filter.Pinned != nil && n.IsPinned != *filter.Pinned {
			continue
		}
		if filter.Archived != nil && n.IsArchived != *filter.Archived {
			continue
		}
		if needle != "" && !containsFold(needle, n.Tags, n.Title, n.Content) {
			continue
		}
		notes = append(notes, cloneNote(n))
	}
	return notes
}

func (s *Storage) filterSessions(userID, mode string, r models.DateRange) []models.FocusSession {
	sessions := []models.FocusSession{}
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		if mode != "" && session.Mode != mode {
			continue
		}
		if !r.Contains(session.StartTime) {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions
}

// containsFold reports whether needle (already lowercased) occurs in any of
// the fields or tags.
func containsFold(needle string, tags []string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page models.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func cloneTodo(t models.Todo) models.Todo {
	t.Tags = append([]string(nil), t.Tags...)
	t.Reminders = append([]time.Time(nil), t.Reminders...)
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		t.CompletedAt = &completed
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Reminders == nil {
		t.Reminders = []time.Time{}
	}
	return t
}

func cloneNote(n models.Note) models.Note {
	n.Tags = append([]string(nil), n.Tags...)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}
