package server

import (
	"net/http"
	"testing"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNote(t *testing.T, api *API, token string, body gin.H) map[string]any {
	t.Helper()
	code, resp := doJSON(t, api, http.MethodPost, "/api/notes", token, body)
	require.Equal(t, http.StatusCreated, code, resp)
	return resp["note"].(map[string]any)
}

func itemIDs(items any) []string {
	var ids []string
	for _, item := range items.([]any) {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	return ids
}

func TestCreateNote(t *testing.T) {
	api := newTestAPI(t)
	token, _ := registerUser(t, api, "Ada", "ada@example.com")

	tests := []struct {
		name string
		body any
		want struct {
			statusCode int
			title      string
			category   string
			color      string
			message    string
		}
	}{
		{
			name: "defaults",
			body: gin.H{"content": "  remember this  "},
			want: struct {
				statusCode int
				title      string
				category   string
				color      string
				message    string
			}{
				statusCode: http.StatusCreated,
				title:      models.DefaultNoteTitle,
				category:   models.DefaultNoteCategory,
				color:      models.DefaultNoteColor,
				message:    "Note created successfully",
			},
		},
		{
			name: "explicit fields",
			body: gin.H{"title": "Standup", "content": "notes", "category": "Meeting", "color": "#ff0000", "isPinned": true},
			want: struct {
				statusCode int
				title      string
				category   string
				color      string
				message    string
			}{
				statusCode: http.StatusCreated,
				title:      "Standup",
				category:   "Meeting",
				color:      "#ff0000",
				message:    "Note created successfully",
			},
		},
		{
			name: "blank content",
			body: gin.H{"content": "   "},
			want: struct {
				statusCode int
				title      string
				category   string
				color      string
				message    string
			}{
				statusCode: http.StatusBadRequest,
				message:    errors.ErrInvalidContent.Error(),
			},
		},
		{
			name: "invalid color",
			body: gin.H{"content": "x", "color": "red"},
			want: struct {
				statusCode int
				title      string
				category   string
				color      string
				message    string
			}{
				statusCode: http.StatusBadRequest,
				message:    errors.ErrInvalidColor.Error(),
			},
		},
		{
			name: "invalid category",
			body: gin.H{"content": "x", "category": "Finance"},
			want: struct {
				statusCode int
				title      string
				category   string
				color      string
				message    string
			}{
				statusCode: http.StatusBadRequest,
				message:    errors.ErrInvalidCategory.Error(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doJSON(t, api, http.MethodPost, "/api/notes", token, tt.body)
			assert.Equal(t, tt.want.statusCode, code)
			assert.Equal(t, tt.want.message, body["message"])
			if code != http.StatusCreated {
				assert.Equal(t, codeValidation, body["error"])
				return
			}
			note := body["note"].(map[string]any)
			assert.Equal(t, tt.want.title, note["title"])
			assert.Equal(t, tt.want.category, note["category"])
			assert.Equal(t, tt.want.color, note["color"])
		})
	}
}

func TestNoteLifecycle(t *testing.T) {
	clock := newTestClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	api := newTestAPI(t).WithClock(clock.Now)
	token, _ := registerUser(t, api, "Ada", "ada@example.com")
	other, _ := registerUser(t, api, "Eve", "eve@example.com")

	note := createNote(t, api, token, gin.H{"title": "Draft", "content": "first", "color": "#123456"})
	id := note["id"].(string)

	clock.Advance(time.Minute)
	code, body := doJSON(t, api, http.MethodPut, "/api/notes/"+id, token, gin.H{"title": "", "color": "", "isPinned": true})
	require.Equal(t, http.StatusOK, code, body)
	updated := body["note"].(map[string]any)
	assert.Equal(t, models.DefaultNoteTitle, updated["title"])
	assert.Equal(t, models.DefaultNoteColor, updated["color"])
	assert.Equal(t, true, updated["isPinned"])
	assert.Equal(t, "first", updated["content"])
	assert.NotEqual(t, note["updatedAt"], updated["updatedAt"])

	code, body = doJSON(t, api, http.MethodPut, "/api/notes/"+id, token, gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, errors.ErrInvalidContent.Error(), body["message"])

	code, _ = doJSON(t, api, http.MethodGet, "/api/notes/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doJSON(t, api, http.MethodPut, "/api/notes/"+id, other, gin.H{"title": "mine"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doJSON(t, api, http.MethodDelete, "/api/notes/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = doJSON(t, api, http.MethodGet, "/api/notes/"+id, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body["note"].(map[string]any)["id"])

	code, _ = doJSON(t, api, http.MethodDelete, "/api/notes/"+id, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, api, http.MethodGet, "/api/notes/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListAndSearchNotes(t *testing.T) {
	clock := newTestClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	api := newTestAPI(t).WithClock(clock.Now)
	token, _ := registerUser(t, api, "Ada", "ada@example.com")

	ids := map[string]string{}
	for _, n := range []gin.H{
		{"title": "Groceries", "content": "milk and eggs", "category": "Personal"},
		{"title": "Sprint plan", "content": "ship the API", "category": "Work", "isPinned": true},
		{"title": "Side project", "content": "idea board", "category": "Ideas", "tags": []string{"api"}},
	} {
		clock.Advance(time.Minute)
		note := createNote(t, api, token, n)
		ids[note["title"].(string)] = note["id"].(string)
	}
	clock.Advance(time.Minute)
	code, _ := doJSON(t, api, http.MethodPut, "/api/notes/"+ids["Groceries"], token, gin.H{"isArchived": true})
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "recently updated first", query: "", want: []string{ids["Groceries"], ids["Side project"], ids["Sprint plan"]}},
		{name: "by category", query: "?category=Work", want: []string{ids["Sprint plan"]}},
		{name: "pinned", query: "?pinned=true", want: []string{ids["Sprint plan"]}},
		{name: "not archived", query: "?archived=false", want: []string{ids["Side project"], ids["Sprint plan"]}},
		{name: "search content and tags", query: "?search=api", want: []string{ids["Side project"], ids["Sprint plan"]}},
		{name: "title ascending", query: "?sort=title", want: []string{ids["Groceries"], ids["Side project"], ids["Sprint plan"]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doJSON(t, api, http.MethodGet, "/api/notes"+tt.query, token, nil)
			require.Equal(t, http.StatusOK, code, body)
			assert.Equal(t, tt.want, itemIDs(body["notes"]))
			assert.Equal(t, float64(len(tt.want)), body["total"])
		})
	}

	code, body := doJSON(t, api, http.MethodGet, "/api/notes/search/MILK", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, []string{ids["Groceries"]}, itemIDs(body["notes"]))

	code, body = doJSON(t, api, http.MethodGet, "/api/notes?category=Finance", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, errors.ErrInvalidCategory.Error(), body["message"])
}
