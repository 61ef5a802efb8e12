package db

import (
	"testing"
	"time"

	"zenith/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestPredicate(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	completed := true

	p := todoPredicate("u1", models.TodoFilter{Category: "Work", Completed: &completed, Search: "50%_off"})
	p.addRange("created_at", models.DateRange{From: &from})
	limit := p.page(models.Page{Number: 3, Limit: 10})

	assert.Contains(t, p.where(), "user_id = $1 AND is_archived = $2 AND category = $3 AND is_completed = $4")
	assert.Contains(t, p.where(), "title ILIKE $5 OR description ILIKE $5")
	assert.Contains(t, p.where(), "created_at >= $6")
	assert.Equal(t, " LIMIT $7 OFFSET $8", limit)
	assert.Equal(t, []any{"u1", false, "Work", true, `%50\%\_off%`, from, 10, 20}, p.args)
}

func TestPredicateWithoutLimit(t *testing.T) {
	p := newPredicate("u1")
	assert.Equal(t, "", p.page(models.Page{}))
	assert.Equal(t, " WHERE user_id = $1", p.where())
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"milk", "%milk%"},
		{"  milk ", "%milk%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.input))
		})
	}
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY created_at DESC NULLS LAST, created_at DESC, id DESC",
		orderBy(todoSortColumns, models.Sort{Field: "createdAt", Desc: true}, "createdAt"))
	assert.Equal(t, " ORDER BY due_date ASC NULLS LAST, created_at ASC, id ASC",
		orderBy(todoSortColumns, models.Sort{Field: "dueDate"}, "createdAt"))
	assert.Equal(t, " ORDER BY updated_at ASC NULLS LAST, created_at ASC, id ASC",
		orderBy(noteSortColumns, models.Sort{Field: "unknown"}, "updatedAt"))
}

func TestReverse(t *testing.T) {
	items := []int{1, 2, 3, 4}
	reverse(items)
	assert.Equal(t, []int{4, 3, 2, 1}, items)

	var empty []int
	reverse(empty)
	assert.Empty(t, empty)
}
