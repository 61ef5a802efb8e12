package docstore

import (
	"context"
	"time"

	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sessionSortKeys = map[string]any{
	"startTime": "$startTime",
	"endTime":   "$endTime",
	"duration":  "$duration",
	"createdAt": "$createdAt",
}

func sessionFilter(userID string, filter models.SessionFilter) bson.M {
	m := bson.M{"userId": userID}
	if filter.Mode != "" {
		m["mode"] = filter.Mode
	}
	addRange(m, "startTime", filter.Range)
	return m
}

func (s *Storage) CreateSession(ctx context.Context, session *models.FocusSession) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.sessions.InsertOne(ctx, session); err != nil {
		logger.Error("failed to create focus session", "err", err)
		return err
	}
	logger.Debug("focus session created", "id", session.ID)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, userID, id string) (*models.FocusSession, error) {
	return findOwned[models.FocusSession](ctx, s.sessions, userID, id)
}

func (s *Storage) UpdateSession(ctx context.Context, session *models.FocusSession) error {
	return replaceOwned(ctx, s.sessions, session.ID, session.UserID, session)
}

func (s *Storage) ListSessions(ctx context.Context, userID string, filter models.SessionFilter, page models.Page) ([]models.FocusSession, error) {
	key := sortExpr(sessionSortKeys, filter.Sort, "startTime")
	return aggregate[models.FocusSession](ctx, s.sessions, listPipeline(sessionFilter(userID, filter), key, filter.Sort.Desc, page))
}

func (s *Storage) CountSessions(ctx context.Context, userID string, filter models.SessionFilter) (int64, error) {
	return count(ctx, s.sessions, sessionFilter(userID, filter))
}

func (s *Storage) HasSessionBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := s.sessions.CountDocuments(ctx,
		bson.M{"userId": userID, "startTime": bson.M{"$gte": from, "$lt": to}},
		options.Count().SetLimit(1))
	if err != nil {
		logger.Error("failed to look up focus sessions", "err", err)
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) FocusTotals(ctx context.Context, userID string, r models.DateRange) (models.FocusTotals, error) {
	rows, err := aggregate[models.FocusTotals](ctx, s.sessions, totalsPipeline(statsMatch(userID, "startTime", r)))
	if err != nil || len(rows) == 0 {
		return models.FocusTotals{}, err
	}
	return rows[0], nil
}

func totalsPipeline(match bson.M) []bson.D {
	return []bson.D{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":                nil,
			"totalSessions":      bson.M{"$sum": 1},
			"totalDuration":      bson.M{"$sum": "$duration"},
			"totalInterruptions": bson.M{"$sum": "$interruptions"},
			"avgDuration":        bson.M{"$avg": "$duration"},
			"days":               bson.M{"$addToSet": dayOf("startTime")},
		}}},
		{{Key: "$project", Value: bson.M{
			"totalSessions":      1,
			"totalDuration":      1,
			"totalInterruptions": 1,
			"avgDuration":        1,
			"activeDays":         bson.M{"$size": "$days"},
		}}},
	}
}

func (s *Storage) FocusDailyStats(ctx context.Context, userID string, since time.Time) ([]models.FocusDayStat, error) {
	return aggregate[models.FocusDayStat](ctx, s.sessions, []bson.D{
		{{Key: "$match", Value: bson.M{"userId": userID, "startTime": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      dayOf("startTime"),
			"sessions": bson.M{"$sum": 1},
			"duration": bson.M{"$sum": "$duration"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
}

func (s *Storage) FocusModeStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusModeStat, error) {
	return aggregate[models.FocusModeStat](ctx, s.sessions, []bson.D{
		{{Key: "$match", Value: statsMatch(userID, "startTime", r)}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$mode",
			"sessions": bson.M{"$sum": 1},
			"duration": bson.M{"$sum": "$duration"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
}

func (s *Storage) FocusWeekdayStats(ctx context.Context, userID string, r models.DateRange) ([]models.FocusWeekdayStat, error) {
	stats, err := aggregate[models.FocusWeekdayStat](ctx, s.sessions, []bson.D{
		{{Key: "$match", Value: statsMatch(userID, "startTime", r)}},
		{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"$subtract": bson.A{bson.M{"$dayOfWeek": "$startTime"}, 1}},
			"sessions": bson.M{"$sum": 1},
			"duration": bson.M{"$sum": "$duration"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].Day = models.WeekdayNames[stats[i].Weekday]
	}
	return stats, nil
}
