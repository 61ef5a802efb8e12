package docstore

import (
	"testing"
	"time"

	"zenith/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestContainsRegex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"milk", "milk"},
		{"  milk ", "milk"},
		{"a.b", `a\.b`},
		{"(x)*", `\(x\)\*`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			re := containsRegex(tt.input)
			assert.Equal(t, tt.want, re.Pattern)
			assert.Equal(t, "i", re.Options)
		})
	}
}

func TestTodoFilter(t *testing.T) {
	completed := false
	m := todoFilter("u1", models.TodoFilter{
		Category:  "Work",
		Priority:  "high",
		Completed: &completed,
		Search:    "milk",
	})

	assert.Equal(t, "u1", m["userId"])
	assert.Equal(t, false, m["isArchived"])
	assert.Equal(t, "Work", m["category"])
	assert.Equal(t, "high", m["priority"])
	assert.Equal(t, false, m["isCompleted"])

	or, ok := m["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)
	assert.Equal(t, bson.M{"tags": primitive.Regex{Pattern: "milk", Options: "i"}}, or[2])
}

func TestNoteFilterDefaults(t *testing.T) {
	m := noteFilter("u1", models.NoteFilter{})
	assert.Equal(t, bson.M{"userId": "u1"}, m)

	archived := true
	m = noteFilter("u1", models.NoteFilter{Archived: &archived, Category: "Ideas"})
	assert.Equal(t, true, m["isArchived"])
	assert.Equal(t, "Ideas", m["category"])
	assert.NotContains(t, m, "isPinned")
}

func TestSessionFilterRange(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	m := sessionFilter("u1", models.SessionFilter{Mode: "pomodoro", Range: models.DateRange{From: &from, To: &to}})
	assert.Equal(t, "pomodoro", m["mode"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, m["startTime"])

	m = sessionFilter("u1", models.SessionFilter{})
	assert.NotContains(t, m, "startTime")
}

func TestListPipeline(t *testing.T) {
	tests := []struct {
		name string
		page models.Page
		desc bool
		want struct {
			stages int
			dir    int
		}
	}{
		{
			name: "paged descending",
			page: models.Page{Number: 2, Limit: 10},
			desc: true,
			want: struct {
				stages int
				dir    int
			}{stages: 6, dir: -1},
		},
		{
			name: "unpaged ascending",
			page: models.Page{},
			want: struct {
				stages int
				dir    int
			}{stages: 4, dir: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := listPipeline(bson.M{"userId": "u1"}, "$dueDate", tt.desc, tt.page)
			require.Len(t, p, tt.want.stages)

			sortStage := p[2][0]
			assert.Equal(t, "$sort", sortStage.Key)
			keys := sortStage.Value.(bson.D)
			assert.Equal(t, bson.E{Key: "_sortMissing", Value: 1}, keys[0])
			assert.Equal(t, bson.E{Key: "_sortKey", Value: tt.want.dir}, keys[1])
			assert.Equal(t, "$project", p[len(p)-1][0].Key)
		})
	}

	p := listPipeline(bson.M{}, "$createdAt", false, models.Page{Number: 3, Limit: 10})
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(20)}}, p[3])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(10)}}, p[4])
}

func TestSortExpr(t *testing.T) {
	assert.Equal(t, priorityRank, sortExpr(todoSortKeys, models.Sort{Field: "priority"}, "createdAt"))
	assert.Equal(t, "$createdAt", sortExpr(todoSortKeys, models.Sort{Field: "bogus"}, "createdAt"))
	assert.Equal(t, "$updatedAt", sortExpr(noteSortKeys, models.Sort{}, "updatedAt"))
}

func TestRecentDays(t *testing.T) {
	p := recentDays(bson.M{"userId": "u1"}, bson.M{"_id": dayOf("createdAt")}, models.StatsDays)
	require.Len(t, p, 5)
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, p[2][0].Value)
	assert.Equal(t, int64(models.StatsDays), p[3][0].Value)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, p[4][0].Value)
}
