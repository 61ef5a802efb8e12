package server

import (
	"strconv"
	"strings"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"

	"github.com/gin-gonic/gin"
)

const allValues = "all"

func parsePage(ctx *gin.Context) (models.Page, error) {
	page := models.Page{Number: 1, Limit: models.DefaultPageLimit}
	if raw := ctx.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, invalidField(errors.ErrInvalidPagination)
		}
		page.Number = n
	}
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, invalidField(errors.ErrInvalidPagination)
		}
		page.Limit = min(n, models.MaxPageLimit)
	}
	return page, nil
}

func parseBool(ctx *gin.Context, key string) (*bool, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidField(errors.ErrInvalidInput)
	}
	return &v, nil
}

// parseChoice returns "" for an absent value or "all".
func parseChoice(ctx *gin.Context, key string, allowed []string, invalid error) (string, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" || strings.EqualFold(raw, allValues) {
		return "", nil
	}
	for _, a := range allowed {
		if a == raw {
			return raw, nil
		}
	}
	return "", invalidField(invalid)
}

func parseSort(ctx *gin.Context, def models.Sort, allowed []string) (models.Sort, error) {
	s, ok := models.ParseSort(ctx.Query("sort"), def, allowed...)
	if !ok {
		return s, invalidField(errors.ErrInvalidSort)
	}
	return s, nil
}

// parseDateRange reads startDate/endDate. A bare date as endDate covers the
// whole day.
func parseDateRange(ctx *gin.Context) (models.DateRange, error) {
	var r models.DateRange
	if raw := ctx.Query("startDate"); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			return r, err
		}
		r.From = &t
	}
	if raw := ctx.Query("endDate"); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			return r, err
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		r.To = &t
	}
	return r, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, invalidField(errors.ErrInvalidDate)
}

// parseLocation reads the tz query parameter, falling back to def.
func parseLocation(ctx *gin.Context, def *time.Location) (*time.Location, error) {
	name := strings.TrimSpace(ctx.Query("tz"))
	if name == "" {
		return def, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, invalidField(errors.ErrInvalidTimezone)
	}
	return loc, nil
}

func paginated(page models.Page, total int64) gin.H {
	return gin.H{
		"success":     true,
		"total":       total,
		"pages":       models.PageCount(total, page.Limit),
		"currentPage": page.Number,
	}
}
