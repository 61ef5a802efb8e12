package server

import (
	"context"
	stderrors "errors"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var defaultSessionSort = models.Sort{Field: "startTime", Desc: true}

// sessionSeconds accepts any positive JSON number and rounds it to whole
// seconds. Sub-second durations count as one second.
func sessionSeconds(raw interface{}) (int, error) {
	d, ok := raw.(float64)
	if !ok || math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 || d > math.MaxInt32 {
		return 0, invalidArgument(errors.ErrInvalidDuration)
	}
	return max(1, int(math.Round(d))), nil
}

// startSession creates the session first. Crediting the linked task is
// best-effort and never fails the request.
func (api *API) startSession(ctx *gin.Context) {
	var req models.StartSessionRequest
	if err := bindJSON(ctx, &req); err != nil {
		fail(ctx, err)
		return
	}
	seconds, err := sessionSeconds(req.Duration)
	if err != nil {
		fail(ctx, err)
		return
	}
	if err := api.validate.Struct(req); err != nil {
		fail(ctx, validationErrorToErrorResponse(err))
		return
	}

	userID := principal(ctx).UserID
	now := api.now()
	session := models.FocusSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Duration:  seconds,
		Mode:      req.Mode,
		Completed: true,
		Notes:     req.Notes,
		StartTime: now,
		EndTime:   now.Add(time.Duration(seconds) * time.Second),
		CreatedAt: now,
	}
	if session.Mode == "" {
		session.Mode = models.ModePomodoro
	}
	if taskID := strings.TrimSpace(req.TaskID); taskID != "" {
		session.TaskID = &taskID
	}

	if err := api.store.CreateSession(ctx, &session); err != nil {
		fail(ctx, err)
		return
	}

	if session.TaskID != nil {
		if minutes := session.DurationMinutes(); minutes > 0 {
			if err := api.store.AddActualTime(ctx, userID, *session.TaskID, minutes); err != nil {
				logger.Warn("failed to credit focus time to todo", "todo", *session.TaskID, "session", session.ID, "err", err)
			}
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Focus session started", "session": session})
}

func (api *API) endSession(ctx *gin.Context) {
	var req models.EndSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		fail(ctx, invalidField(errors.ErrInvalidInput))
		return
	}
	interruptions := 0
	if req.Interruptions.Present() {
		if req.Interruptions.Value < 0 {
			fail(ctx, invalidField(errors.ErrInvalidInterruptions))
			return
		}
		interruptions = req.Interruptions.Value
	}
	if req.Notes.Present() {
		if err := api.validate.Var(req.Notes.Value, "max=500"); err != nil {
			fail(ctx, invalidField(errors.ErrInvalidNotes))
			return
		}
	}

	session, err := api.store.GetSession(ctx, principal(ctx).UserID, ctx.Param("id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	session.End(api.now(), interruptions, req.Notes)
	if err := api.store.UpdateSession(ctx, session); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Focus session ended", "session": session})
}

func (api *API) listSessions(ctx *gin.Context) {
	var filter models.SessionFilter
	var err error
	if filter.Mode, err = parseChoice(ctx, "mode", models.FocusModes, errors.ErrInvalidMode); err != nil {
		fail(ctx, err)
		return
	}
	if filter.Range, err = parseDateRange(ctx); err != nil {
		fail(ctx, err)
		return
	}
	if filter.Sort, err = parseSort(ctx, defaultSessionSort, models.SessionSortFields); err != nil {
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
		sessions []models.FocusSession
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sessions, err = api.store.ListSessions(gctx, userID, filter, page)
		return err
	})
	g.Go(func() (err error) {
		total, err = api.store.CountSessions(gctx, userID, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(ctx, err)
		return
	}

	body := paginated(page, total)
	body["count"] = len(sessions)
	body["sessions"] = sessions
	ctx.JSON(http.StatusOK, body)
}

func (api *API) focusStats(ctx *gin.Context) {
	r, err := parseDateRange(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}
	loc, err := parseLocation(ctx, api.location)
	if err != nil {
		fail(ctx, err)
		return
	}

	userID := principal(ctx).UserID
	now := api.now()
	var (
		totals   models.FocusTotals
		daily    []models.FocusDayStat
		modes    []models.FocusModeStat
		weekdays []models.FocusWeekdayStat
		streak   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = api.store.FocusTotals(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		daily, err = api.store.FocusDailyStats(gctx, userID, now.AddDate(0, 0, -models.FocusDailyDays))
		return err
	})
	g.Go(func() (err error) {
		modes, err = api.store.FocusModeStats(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		weekdays, err = api.store.FocusWeekdayStats(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		streak, err = focusStreak(gctx, api.store, userID, now.In(loc))
		return err
	})
	if err := g.Wait(); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"totalStats":  totals,
		"dailyStats":  daily,
		"modeStats":   modes,
		"weeklyStats": weekdays,
		"streak":      streak,
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// focusStreak counts consecutive calendar days, ending today in now's
// location, that contain at least one session. A day without a session
// today yields 0.
func focusStreak(ctx context.Context, store FocusRepository, userID string, now time.Time) (int, error) {
	day := startOfDay(now)
	streak := 0
	for streak < models.MaxStreakDays {
		ok, err := store.HasSessionBetween(ctx, userID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// leaderboard ranks the caller against nobody but themself. A caller without
// sessions still gets a zeroed entry.
func (api *API) leaderboard(ctx *gin.Context) {
	userID := principal(ctx).UserID
	totals, err := api.store.FocusTotals(ctx, userID, models.DateRange{})
	if err != nil {
		fail(ctx, err)
		return
	}

	entries := []models.LeaderboardEntry{{
		UserID:          userID,
		TotalSessions:   totals.TotalSessions,
		TotalDuration:   totals.TotalDuration,
		AverageDuration: int64(math.Round(totals.AvgDuration)),
		TotalDays:       totals.ActiveDays,
		Rank:            1,
	}}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "leaderboard": entries})
}
