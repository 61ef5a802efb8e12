package models

import (
	"strings"
	"time"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// PageCount returns ceil(total/limit).
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// DateRange bounds a timestamp inclusively on both ends; nil means unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

type Sort struct {
	Field string
	Desc  bool
}

// ParseSort reads "field" or "-field". An empty value yields def.
func ParseSort(raw string, def Sort, allowed ...string) (Sort, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, true
	}
	s := Sort{Field: raw}
	if strings.HasPrefix(raw, "-") {
		s = Sort{Field: raw[1:], Desc: true}
	}
	for _, a := range allowed {
		if a == s.Field {
			return s, true
		}
	}
	return Sort{}, false
}

// NormalizeTags trims, drops empties and removes duplicates while keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DayKey is the UTC calendar-date bucket used by the daily statistics.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PriorityRank orders priorities low < medium < high; unknown values sort first.
func PriorityRank(p string) int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}
