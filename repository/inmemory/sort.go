package inmemory

import (
	"sort"
	"strings"
	"time"

	"zenith/internal/domain/models"
)

// Ties fall back to createdAt then id so that pages are stable.

func sortTodos(todos []models.Todo, by models.Sort) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		var c int
		switch by.Field {
		case "updatedAt":
			c = compareTime(a.UpdatedAt, b.UpdatedAt)
		case "dueDate":
			// Missing due dates always go last.
			if (a.DueDate == nil) != (b.DueDate == nil) {
				return b.DueDate == nil
			}
			if a.DueDate != nil {
				c = compareTime(*a.DueDate, *b.DueDate)
			}
		case "title":
			c = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case "priority":
			c = models.PriorityRank(a.Priority) - models.PriorityRank(b.Priority)
		default:
			c = compareTime(a.CreatedAt, b.CreatedAt)
		}
		if c == 0 {
			c = compareTime(a.CreatedAt, b.CreatedAt)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if by.Desc {
			return c > 0
		}
		return c < 0
	})
}

func sortNotes(notes []models.Note, by models.Sort) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		var c int
		switch by.Field {
		case "createdAt":
			c = compareTime(a.CreatedAt, b.CreatedAt)
		case "title":
			c = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case "category":
			c = strings.Compare(a.Category, b.Category)
		default:
			c = compareTime(a.UpdatedAt, b.UpdatedAt)
		}
		if c == 0 {
			c = compareTime(a.CreatedAt, b.CreatedAt)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if by.Desc {
			return c > 0
		}
		return c < 0
	})
}

func sortSessions(sessions []models.FocusSession, by models.Sort) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		var c int
		switch by.Field {
		case "endTime":
			c = compareTime(a.EndTime, b.EndTime)
		case "duration":
			c = a.Duration - b.Duration
		case "createdAt":
			c = compareTime(a.CreatedAt, b.CreatedAt)
		default:
			c = compareTime(a.StartTime, b.StartTime)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if by.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
