package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, user_id, duration, mode, task_id, completed, interruptions, notes,
	start_time, end_time, created_at`

var sessionSortColumns = map[string]string{
	"startTime": "start_time",
	"endTime":   "end_time",
	"duration":  "duration",
	"createdAt": "created_at",
}

func scanSession(row pgx.Row) (models.FocusSession, error) {
	var fs models.FocusSession
	err := row.Scan(&fs.ID, &fs.UserID, &fs.Duration, &fs.Mode, &fs.TaskID, &fs.Completed,
		&fs.Interruptions, &fs.Notes, &fs.StartTime, &fs.EndTime, &fs.CreatedAt)
	return fs, err
}

func sessionPredicate(userID string, filter models.SessionFilter) *predicate {
	p := newPredicate(userID)
	if filter.Mode != "" {
		p.add("mode = $%[1]d", filter.Mode)
	}
	p.addRange("start_time", filter.Range)
	return p
}

func (s *Storage) CreateSession(ctx context.Context, session *models.FocusSession) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `INSERT INTO focus_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		session.ID, session.UserID, session.Duration, session.Mode, session.TaskID, session.Completed,
		session.Interruptions, session.Notes, session.StartTime, session.EndTime, session.CreatedAt)
	if err != nil {
		logger.Error("failed to create focus session", "err", err)
		return err
	}
	logger.Debug("focus session created", "id", session.ID)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, userID, id string) (*models.FocusSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	fs, err := scanSession(s.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM focus_sessions WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		logger.Error("failed to get focus session", "id", id, "err", err)
		return nil, err
	}
	return &fs, nil
}

func (s *Storage) UpdateSession(ctx context.Context, session *models.FocusSession) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `UPDATE focus_sessions SET duration = $1, mode = $2, task_id = $3,
		completed = $4, interruptions = $5, notes = $6, start_time = $7, end_time = $8
		WHERE id = $9 AND user_id = $10`,
		session.Duration, session.Mode, session.TaskID, session.Completed, session.Interruptions,
		session.Notes, session.StartTime, session.EndTime, session.ID, session.UserID)
	if err != nil {
		logger.Error("failed to update focus session", "id", session.ID, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	logger.Debug("focus session updated", "id", session.ID)
	return nil
}

func (s *Storage) ListSessions(ctx context.Context, userID string, filter models.SessionFilter, page models.Page) ([]models.FocusSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := sessionPredicate(userID, filter)
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions` + p.where() +
		orderBy(sessionSortColumns, filter.Sort, "startTime") + p.page(page)
	rows, err := s.pool.Query(ctx, query, p.args...)
	if err != nil {
		logger.Error("failed to list focus sessions", "err", err)
		return nil, err
	}
	defer rows.Close()

	sessions := []models.FocusSession{}
	for rows.Next() {
		fs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}

func (s *Storage) CountSessions(ctx context.Context, userID string, filter models.SessionFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := sessionPredicate(userID, filter)
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM focus_sessions`+p.where(), p.args...).Scan(&total); err != nil {
		logger.Error("failed to count focus sessions", "err", err)
		return 0, err
	}
	return total, nil
}

func (s *Storage) HasSessionBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM focus_sessions
		WHERE user_id = $1 AND start_time >= $2 AND start_time < $3)`, userID, from, to).Scan(&exists)
	if err != nil {
		logger.Error("failed to check focus session existence", "err", err)
		return false, err
	}
	return exists, nil
}

func (s *Storage) FocusTotals(ctx context.Context, userID string, r models.DateRange) (models.FocusTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := newPredicate(userID)
	p.addRange("start_time", r)
	var t models.FocusTotals
	err := s.pool.QueryRow(ctx, `SELECT
			count(*),
			coalesce(sum(duration), 0),
			coalesce(sum(interruptions), 0),
			coalesce(avg(duration), 0)::float8,
			count(DISTINCT `+fmt.Sprintf(dayExpr, "start_time")+`)
		FROM focus_sessions`+p.where(), p.args...).
		Scan(&t.TotalSessions, &t.TotalDuration, &t.TotalInterruptions, &t.AvgDuration, &t.ActiveDays)
	if err != nil {
		logger.Error("failed to aggregate focus totals", "err", err)
		return models.FocusTotals{}, err
	}
	return t, nil
}

func (s *Storage) FocusDailyStats(ctx context.Context, userID string, since time.Time) ([]models.FocusDayStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+fmt.Sprintf(dayExpr, "start_time")+` AS day,
			count(*), coalesce(sum(duration), 0)
		FROM focus_sessions WHERE user_id = $1 AND start_time >= $2
		GROUP BY day ORDER BY day`, userID, since)
	if err != nil {
		logger.Error("failed to aggregate daily focus stats", "err", err)
		return nil, err
	}
	defer rows.Close()

	stats := []models.FocusDayStat{}
	for rows.Next() {
		var st models.FocusDayStat
		if err := rows.Scan(&st.Date, &st.Sessions, &st.Duration); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *Storage) FocusModeStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusModeStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := newPredicate(userID)
	p.addRange("start_time", r)
	rows, err := s.pool.Query(ctx, `SELECT mode, count(*), coalesce(sum(duration), 0)
		FROM focus_sessions`+p.where()+` GROUP BY mode ORDER BY mode`, p.args...)
	if err != nil {
		logger.Error("failed to aggregate focus mode stats", "err", err)
		return nil, err
	}
	defer rows.Close()

	stats := []models.FocusModeStat{}
	for rows.Next() {
		var st models.FocusModeStat
		if err := rows.Scan(&st.Mode, &st.Sessions, &st.Duration); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *Storage) FocusWeekdayStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusWeekdayStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p := newPredicate(userID)
	p.addRange("start_time", r)
	rows, err := s.pool.Query(ctx, `SELECT EXTRACT(DOW FROM start_time AT TIME ZONE 'UTC')::int AS dow,
			count(*), coalesce(sum(duration), 0)
		FROM focus_sessions`+p.where()+` GROUP BY dow ORDER BY dow`, p.args...)
	if err != nil {
		logger.Error("failed to aggregate weekday focus stats", "err", err)
		return nil, err
	}
	defer rows.Close()

	stats := []models.FocusWeekdayStat{}
	for rows.Next() {
		var st models.FocusWeekdayStat
		if err := rows.Scan(&st.Weekday, &st.Sessions, &st.Duration); err != nil {
			return nil, err
		}
		st.Day = models.WeekdayNames[st.Weekday]
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
