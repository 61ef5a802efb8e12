package models

import (
	"strings"
	"time"
)

const (
	DefaultNoteTitle    = "Untitled Note"
	DefaultNoteCategory = "Personal"
	DefaultNoteColor    = "#6366f1"
	NoteSearchLimit     = 20
)

var (
	NoteCategories = []string{"Personal", "Work", "Ideas", "Meeting", "Learning", "Other"}
	NoteSortFields = []string{"createdAt", "updatedAt", "title", "category"}
)

type Note struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"userId" bson:"userId"`
	Title      string    `json:"title" bson:"title"`
	Content    string    `json:"content" bson:"content"`
	Category   string    `json:"category" bson:"category"`
	Tags       []string  `json:"tags" bson:"tags"`
	Color      string    `json:"color" bson:"color"`
	IsPinned   bool      `json:"isPinned" bson:"isPinned"`
	IsArchived bool      `json:"isArchived" bson:"isArchived"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type CreateNoteRequest struct {
	Title    string   `json:"title" validate:"max=100"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"omitempty,oneof=Personal Work Ideas Meeting Learning Other"`
	Tags     []string `json:"tags"`
	Color    string   `json:"color" validate:"omitempty,hexcolor"`
	IsPinned bool     `json:"isPinned"`
}

func (r CreateNoteRequest) NewNote(id, userID string, now time.Time) Note {
	n := Note{
		ID:        id,
		UserID:    userID,
		Title:     strings.TrimSpace(r.Title),
		Content:   strings.TrimSpace(r.Content),
		Category:  r.Category,
		Tags:      NormalizeTags(r.Tags),
		Color:     r.Color,
		IsPinned:  r.IsPinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if n.Title == "" {
		n.Title = DefaultNoteTitle
	}
	if n.Category == "" {
		n.Category = DefaultNoteCategory
	}
	if n.Color == "" {
		n.Color = DefaultNoteColor
	}
	return n
}

type NotePatch struct {
	Title      Optional[string]   `json:"title"`
	Content    Optional[string]   `json:"content"`
	Category   Optional[string]   `json:"category"`
	Tags       Optional[[]string] `json:"tags"`
	Color      Optional[string]   `json:"color"`
	IsPinned   Optional[bool]     `json:"isPinned"`
	IsArchived Optional[bool]     `json:"isArchived"`
}

// Apply mutates only the supplied fields. Clearing the title or color restores
// the default.
func (p NotePatch) Apply(n *Note, now time.Time) {
	if p.Title.Set {
		n.Title = strings.TrimSpace(p.Title.Value)
		if n.Title == "" {
			n.Title = DefaultNoteTitle
		}
	}
	if p.Content.Present() {
		n.Content = strings.TrimSpace(p.Content.Value)
	}
	if p.Category.Present() {
		n.Category = p.Category.Value
	}
	if p.Tags.Set {
		n.Tags = NormalizeTags(p.Tags.Value)
	}
	if p.Color.Set {
		n.Color = p.Color.Value
		if n.Color == "" {
			n.Color = DefaultNoteColor
		}
	}
	if p.IsPinned.Present() {
		n.IsPinned = p.IsPinned.Value
	}
	if p.IsArchived.Present() {
		n.IsArchived = p.IsArchived.Value
	}
	n.UpdatedAt = now
}

type NoteFilter struct {
	Category string
	Pinned   *bool
	Archived *bool
	Search   string
	Sort     Sort
}
