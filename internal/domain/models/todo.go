package models

import (
	"strings"
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	DefaultTodoCategory = "Work"
)

var (
	TodoPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
	TodoCategories = []string{"Work", "Personal", "Finance", "Health", "Learning", "Other"}
	TodoSortFields = []string{"createdAt", "updatedAt", "dueDate", "title", "priority"}
)

type Todo struct {
	ID            string      `json:"id" bson:"_id"`
	UserID        string      `json:"userId" bson:"userId"`
	Title         string      `json:"title" bson:"title"`
	Description   string      `json:"description" bson:"description"`
	Priority      string      `json:"priority" bson:"priority"`
	Category      string      `json:"category" bson:"category"`
	DueDate       *time.Time  `json:"dueDate" bson:"dueDate"`
	Tags          []string    `json:"tags" bson:"tags"`
	Reminders     []time.Time `json:"reminders" bson:"reminders"`
	EstimatedTime int         `json:"estimatedTime" bson:"estimatedTime"`
	ActualTime    int         `json:"actualTime" bson:"actualTime"`
	IsCompleted   bool        `json:"isCompleted" bson:"isCompleted"`
	CompletedAt   *time.Time  `json:"completedAt" bson:"completedAt"`
	IsArchived    bool        `json:"isArchived" bson:"isArchived"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt"`
}

type CreateTodoRequest struct {
	Title         string      `json:"title" validate:"required,max=200"`
	Description   string      `json:"description" validate:"max=1000"`
	Priority      string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category      string      `json:"category" validate:"omitempty,oneof=Work Personal Finance Health Learning Other"`
	DueDate       *time.Time  `json:"dueDate"`
	Tags          []string    `json:"tags"`
	Reminders     []time.Time `json:"reminders"`
	EstimatedTime int         `json:"estimatedTime" validate:"min=0"`
	ActualTime    int         `json:"actualTime" validate:"min=0"`
	IsCompleted   bool        `json:"isCompleted"`
}

// NewTodo builds a todo from a create request, filling the documented defaults.
func (r CreateTodoRequest) NewTodo(id, userID string, now time.Time) Todo {
	t := Todo{
		ID:            id,
		UserID:        userID,
		Title:         strings.TrimSpace(r.Title),
		Description:   strings.TrimSpace(r.Description),
		Priority:      r.Priority,
		Category:      r.Category,
		DueDate:       r.DueDate,
		Tags:          NormalizeTags(r.Tags),
		Reminders:     r.Reminders,
		EstimatedTime: r.EstimatedTime,
		ActualTime:    r.ActualTime,
		IsCompleted:   r.IsCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Category == "" {
		t.Category = DefaultTodoCategory
	}
	if t.Reminders == nil {
		t.Reminders = []time.Time{}
	}
	if t.IsCompleted {
		completed := now
		t.CompletedAt = &completed
	}
	return t
}

type TodoPatch struct {
	Title         Optional[string]      `json:"title"`
	Description   Optional[string]      `json:"description"`
	Priority      Optional[string]      `json:"priority"`
	Category      Optional[string]      `json:"category"`
	DueDate       Optional[time.Time]   `json:"dueDate"`
	Tags          Optional[[]string]    `json:"tags"`
	Reminders     Optional[[]time.Time] `json:"reminders"`
	EstimatedTime Optional[int]         `json:"estimatedTime"`
	ActualTime    Optional[int]         `json:"actualTime"`
	IsCompleted   Optional[bool]        `json:"isCompleted"`
	IsArchived    Optional[bool]        `json:"isArchived"`
}

// Apply mutates only the supplied fields. completedAt follows isCompleted and
// updatedAt is always refreshed.
func (p TodoPatch) Apply(t *Todo, now time.Time) {
	if p.Title.Present() {
		t.Title = strings.TrimSpace(p.Title.Value)
	}
	if p.Description.Set {
		t.Description = strings.TrimSpace(p.Description.Value)
	}
	if p.Priority.Present() {
		t.Priority = p.Priority.Value
	}
	if p.Category.Present() {
		t.Category = p.Category.Value
	}
	if p.DueDate.Set {
		if p.DueDate.Null {
			t.DueDate = nil
		} else {
			due := p.DueDate.Value
			t.DueDate = &due
		}
	}
	if p.Tags.Set {
		t.Tags = NormalizeTags(p.Tags.Value)
	}
	if p.Reminders.Set {
		t.Reminders = p.Reminders.Value
		if t.Reminders == nil {
			t.Reminders = []time.Time{}
		}
	}
	if p.EstimatedTime.Present() {
		t.EstimatedTime = p.EstimatedTime.Value
	}
	if p.ActualTime.Present() {
		t.ActualTime = p.ActualTime.Value
	}
	if p.IsCompleted.Present() && p.IsCompleted.Value != t.IsCompleted {
		t.IsCompleted = p.IsCompleted.Value
		if t.IsCompleted {
			completed := now
			t.CompletedAt = &completed
		} else {
			t.CompletedAt = nil
		}
	}
	if p.IsArchived.Present() {
		t.IsArchived = p.IsArchived.Value
	}
	t.UpdatedAt = now
}

type BulkUpdateRequest struct {
	IDs     []string  `json:"ids"`
	Updates TodoPatch `json:"updates"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type TodoFilter struct {
	Category  string
	Priority  string
	Completed *bool
	Archived  bool
	Search    string
	Sort      Sort
}

type TodoSummary struct {
	Total          int64 `json:"total" bson:"total"`
	Completed      int64 `json:"completed" bson:"completed"`
	HighPriority   int64 `json:"highPriority" bson:"highPriority"`
	MediumPriority int64 `json:"mediumPriority" bson:"mediumPriority"`
	LowPriority    int64 `json:"lowPriority" bson:"lowPriority"`
}

type TodoDayStat struct {
	Date      string `json:"date" bson:"_id"`
	Created   int64  `json:"created" bson:"created"`
	Completed int64  `json:"completed" bson:"completed"`
}

type TodoCategoryStat struct {
	Category  string `json:"category" bson:"_id"`
	Count     int64  `json:"count" bson:"count"`
	Completed int64  `json:"completed" bson:"completed"`
}

type TodoPriorityStat struct {
	Priority  string `json:"priority" bson:"_id"`
	Count     int64  `json:"count" bson:"count"`
	Completed int64  `json:"completed" bson:"completed"`
}

type CompletionStat struct {
	Date      string `json:"date" bson:"_id"`
	Completed int64  `json:"completed" bson:"completed"`
}

// StatsDays is the number of daily buckets reported by the todo analytics.
const StatsDays = 30
