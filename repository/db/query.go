package db

import (
	"fmt"
	"strings"

	"zenith/internal/domain/models"
)

// predicate accumulates AND-ed WHERE clauses with positional arguments.
// Each clause is a format string whose %[1]d verbs receive the placeholder
// number of the argument added with it.
type predicate struct {
	clauses []string
	args    []any
}

func newPredicate(userID string) *predicate {
	return &predicate{clauses: []string{"user_id = $1"}, args: []any{userID}}
}

func (p *predicate) add(clause string, arg any) {
	p.args = append(p.args, arg)
	p.clauses = append(p.clauses, fmt.Sprintf(clause, len(p.args)))
}

func (p *predicate) addRange(column string, r models.DateRange) {
	if r.From != nil {
		p.add(column+" >= $%[1]d", *r.From)
	}
	if r.To != nil {
		p.add(column+" <= $%[1]d", *r.To)
	}
}

func (p *predicate) where() string {
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders; a non-positive limit means no limit.
func (p *predicate) page(pg models.Page) string {
	if pg.Limit <= 0 {
		return ""
	}
	args := append(p.args, pg.Limit, pg.Offset())
	p.args = args
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
}

// likePattern turns user input into a literal, case-insensitive substring pattern.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

func orderBy(columns map[string]string, by models.Sort, fallback string) string {
	col, ok := columns[by.Field]
	if !ok {
		col = columns[fallback]
	}
	dir := " ASC"
	if by.Desc {
		dir = " DESC"
	}
	return " ORDER BY " + col + dir + " NULLS LAST, created_at" + dir + ", id" + dir
}

const priorityRankExpr = `CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END`

const dayExpr = `to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD')`

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
