package server

import (
	"net/http"
	"strings"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var defaultTodoSort = models.Sort{Field: "createdAt", Desc: true}

func (api *API) todoFilter(ctx *gin.Context) (models.TodoFilter, error) {
	var filter models.TodoFilter
	var err error

	if filter.Category, err = parseChoice(ctx, "category", models.TodoCategories, errors.ErrInvalidCategory); err != nil {
		return filter, err
	}
	if filter.Priority, err = parseChoice(ctx, "priority", models.TodoPriorities, errors.ErrInvalidPriority); err != nil {
		return filter, err
	}
	if filter.Completed, err = parseBool(ctx, "completed"); err != nil {
		return filter, err
	}
	archived, err := parseBool(ctx, "archived")
	if err != nil {
		return filter, err
	}
	filter.Archived = archived != nil && *archived
	filter.Search = strings.TrimSpace(ctx.Query("search"))
	filter.Sort, err = parseSort(ctx, defaultTodoSort, models.TodoSortFields)
	return filter, err
}

// listTodos runs the page query, the count and the owner summary concurrently.
func (api *API) listTodos(ctx *gin.Context) {
	filter, err := api.todoFilter(ctx)
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
		todos   []models.Todo
		total   int64
		summary models.TodoSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		todos, err = api.store.ListTodos(gctx, userID, filter, page)
		return err
	})
	g.Go(func() (err error) {
		total, err = api.store.CountTodos(gctx, userID, filter)
		return err
	})
	g.Go(func() (err error) {
		summary, err = api.store.TodoSummary(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(ctx, err)
		return
	}

	body := paginated(page, total)
	body["count"] = len(todos)
	body["todos"] = todos
	body["stats"] = summary
	ctx.JSON(http.StatusOK, body)
}

func (api *API) getTodo(ctx *gin.Context) {
	todo, err := api.store.GetTodo(ctx, principal(ctx).UserID, ctx.Param("id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

func (api *API) createTodo(ctx *gin.Context) {
	var req models.CreateTodoRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := api.validate.Struct(req); err != nil {
		fail(ctx, validationErrorToErrorResponse(err))
		return
	}

	todo := req.NewTodo(uuid.New().String(), principal(ctx).UserID, api.now())
	if err := api.store.CreateTodo(ctx, &todo); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Todo created successfully", "todo": todo})
}

func (api *API) validateTodoPatch(p models.TodoPatch) error {
	checks := []struct {
		set   bool
		value any
		tag   string
		err   error
	}{
		{p.Title.Set, strings.TrimSpace(p.Title.Value), "required,max=200", errors.ErrInvalidTitle},
		{p.Description.Present(), p.Description.Value, "max=1000", errors.ErrInvalidDescription},
		{p.Priority.Present(), p.Priority.Value, "oneof=low medium high", errors.ErrInvalidPriority},
		{p.Category.Present(), p.Category.Value, "oneof=Work Personal Finance Health Learning Other", errors.ErrInvalidCategory},
		{p.EstimatedTime.Present(), p.EstimatedTime.Value, "min=0", errors.ErrInvalidTime},
		{p.ActualTime.Present(), p.ActualTime.Value, "min=0", errors.ErrInvalidTime},
	}
	for _, c := range checks {
		if !c.set {
			continue
		}
		if err := api.validate.Var(c.value, c.tag); err != nil {
			return invalidField(c.err)
		}
	}
	return nil
}

func (api *API) updateTodo(ctx *gin.Context) {
	var patch models.TodoPatch
	if err := bindJSON(ctx, &patch); err != nil {
		fail(ctx, err)
		return
	}
	if err := api.validateTodoPatch(patch); err != nil {
		fail(ctx, err)
		return
	}

	todo, err := api.store.GetTodo(ctx, principal(ctx).UserID, ctx.Param("id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	patch.Apply(todo, api.now())
	if err := api.store.UpdateTodo(ctx, todo); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo updated successfully", "todo": todo})
}

func (api *API) deleteTodo(ctx *gin.Context) {
	if err := api.store.DeleteTodo(ctx, principal(ctx).UserID, ctx.Param("id")); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo deleted successfully"})
}

// bulkUpdateTodos applies the single-item patch semantics to every owned id.
// Ids owned by someone else are skipped silently.
func (api *API) bulkUpdateTodos(ctx *gin.Context) {
	var req models.BulkUpdateRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	if len(req.IDs) == 0 {
		fail(ctx, invalidArgument(errors.ErrInvalidIDs))
		return
	}
	if err := api.validateTodoPatch(req.Updates); err != nil {
		fail(ctx, err)
		return
	}

	userID := principal(ctx).UserID
	todos, err := api.store.GetTodosByIDs(ctx, userID, req.IDs)
	if err != nil {
		fail(ctx, err)
		return
	}

	now := api.now()
	var modified int64
	for i := range todos {
		req.Updates.Apply(&todos[i], now)
		if err := api.store.UpdateTodo(ctx, &todos[i]); err != nil {
			fail(ctx, err)
			return
		}
		modified++
	}

	logger.Debug("todos bulk updated", "user", userID, "count", modified)
	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Todos updated successfully",
		"modifiedCount": modified,
	})
}

func (api *API) bulkDeleteTodos(ctx *gin.Context) {
	var req models.BulkDeleteRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	if len(req.IDs) == 0 {
		fail(ctx, invalidArgument(errors.ErrInvalidIDs))
		return
	}

	deleted, err := api.store.DeleteTodos(ctx, principal(ctx).UserID, req.IDs)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Todos deleted successfully",
		"deletedCount": deleted,
	})
}

func (api *API) todoStats(ctx *gin.Context) {
	r, err := parseDateRange(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}

	userID := principal(ctx).UserID
	var (
		daily      []models.TodoDayStat
		categories []models.TodoCategoryStat
		priorities []models.TodoPriorityStat
		completion []models.CompletionStat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		daily, err = api.store.TodoDailyStats(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		categories, err = api.store.TodoCategoryStats(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		priorities, err = api.store.TodoPriorityStats(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		completion, err = api.store.TodoCompletionStats(gctx, userID, r)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"dailyStats":     daily,
			"categoryStats":  categories,
			"priorityStats":  priorities,
			"completionRate": completion,
		},
	})
}
