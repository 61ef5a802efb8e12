package server

import (
	"net/http"
	"strings"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var defaultNoteSort = models.Sort{Field: "updatedAt", Desc: true}

func noteFilter(ctx *gin.Context) (models.NoteFilter, error) {
	var filter models.NoteFilter
	var err error

	if filter.Category, err = parseChoice(ctx, "category", models.NoteCategories, errors.ErrInvalidCategory); err != nil {
		return filter, err
	}
	if filter.Pinned, err = parseBool(ctx, "pinned"); err != nil {
		return filter, err
	}
	if filter.Archived, err = parseBool(ctx, "archived"); err != nil {
		return filter, err
	}
	filter.Search = strings.TrimSpace(ctx.Query("search"))
	filter.Sort, err = parseSort(ctx, defaultNoteSort, models.NoteSortFields)
	return filter, err
}

func (api *API) listNotes(ctx *gin.Context) {
	filter, err := noteFilter(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}
	page, err := parsePage(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}

	userID := principal(ctx).UserID
	var (
		notes []models.Note
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		notes, err = api.store.ListNotes(gctx, userID, filter, page)
		return err
	})
	g.Go(func() (err error) {
		total, err = api.store.CountNotes(gctx, userID, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(ctx, err)
		return
	}

	body := paginated(page, total)
	body["count"] = len(notes)
	body["notes"] = notes
	ctx.JSON(http.StatusOK, body)
}

func (api *API) searchNotes(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Param("query"))
	if query == "" {
		fail(ctx, invalidArgument(errors.ErrInvalidInput))
		return
	}

	notes, err := api.store.SearchNotes(ctx, principal(ctx).UserID, query, models.NoteSearchLimit)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(notes), "notes": notes})
}

func (api *API) getNote(ctx *gin.Context) {
	note, err := api.store.GetNote(ctx, principal(ctx).UserID, ctx.Param("id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "note": note})
}

func (api *API) createNote(ctx *gin.Context) {
	var req models.CreateNoteRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	req.Title = strings.TrimSpace(req.Title)
	if err := api.validate.Struct(req); err != nil {
		fail(ctx, validationErrorToErrorResponse(err))
		return
	}

	note := req.NewNote(uuid.New().String(), principal(ctx).UserID, api.now())
	if err := api.store.CreateNote(ctx, &note); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Note created successfully", "note": note})
}

func (api *API) validateNotePatch(p models.NotePatch) error {
	if p.Title.Present() {
		if err := api.validate.Var(strings.TrimSpace(p.Title.Value), "max=100"); err != nil {
			return invalidField(errors.ErrInvalidTitle)
		}
	}
	if p.Content.Set {
		if err := api.validate.Var(strings.TrimSpace(p.Content.Value), "required"); err != nil {
			return invalidField(errors.ErrInvalidContent)
		}
	}
	if p.Category.Present() {
		if err := api.validate.Var(p.Category.Value, "oneof=Personal Work Ideas Meeting Learning Other"); err != nil {
			return invalidField(errors.ErrInvalidCategory)
		}
	}
	if p.Color.Present() && p.Color.Value != "" {
		if err := api.validate.Var(p.Color.Value, "hexcolor"); err != nil {
			return invalidField(errors.ErrInvalidColor)
		}
	}
	return nil
}

func (api *API) updateNote(ctx *gin.Context) {
	var patch models.NotePatch
	if err := bindJSON(ctx, &patch); err != nil {
		fail(ctx, err)
		return
	}
	if err := api.validateNotePatch(patch); err != nil {
		fail(ctx, err)
		return
	}

	note, err := api.store.GetNote(ctx, principal(ctx).UserID, ctx.Param("id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	patch.Apply(note, api.now())
	if err := api.store.UpdateNote(ctx, note); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Note updated successfully", "note": note})
}

func (api *API) deleteNote(ctx *gin.Context) {
	if err := api.store.DeleteNote(ctx, principal(ctx).UserID, ctx.Param("id")); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Note deleted successfully"})
}
