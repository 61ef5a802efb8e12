package models

import "time"

const (
	ModePomodoro   = "pomodoro"
	ModeShortBreak = "short_break"
	ModeLongBreak  = "long_break"
	ModeCustom     = "custom"

	// MaxStreakDays bounds the backwards day walk of the streak calculation.
	MaxStreakDays  = 365
	FocusDailyDays = 7
)

var (
	FocusModes        = []string{ModePomodoro, ModeShortBreak, ModeLongBreak, ModeCustom}
	SessionSortFields = []string{"startTime", "endTime", "duration", "createdAt"}
	WeekdayNames      = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// FocusSession durations are in seconds.
type FocusSession struct {
	ID            string    `json:"id" bson:"_id"`
	UserID        string    `json:"userId" bson:"userId"`
	Duration      int       `json:"duration" bson:"duration"`
	Mode          string    `json:"mode" bson:"mode"`
	TaskID        *string   `json:"taskId" bson:"taskId"`
	Completed     bool      `json:"completed" bson:"completed"`
	Interruptions int       `json:"interruptions" bson:"interruptions"`
	Notes         string    `json:"notes" bson:"notes"`
	StartTime     time.Time `json:"startTime" bson:"startTime"`
	EndTime       time.Time `json:"endTime" bson:"endTime"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// DurationMinutes mirrors the whole-minute view used for task time tracking.
func (s FocusSession) DurationMinutes() int {
	return s.Duration / 60
}

// End closes the session at now: the duration becomes the elapsed wall-clock
// time since start. endTime never precedes startTime.
func (s *FocusSession) End(now time.Time, interruptions int, notes Optional[string]) {
	if now.Before(s.StartTime) {
		now = s.StartTime
	}
	s.EndTime = now
	s.Duration = int(now.Sub(s.StartTime) / time.Second)
	s.Interruptions = interruptions
	if notes.Set {
		s.Notes = notes.Value
	}
}

type StartSessionRequest struct {
	Duration interface{} `json:"duration"`
	Mode     string      `json:"mode" validate:"omitempty,oneof=pomodoro short_break long_break custom"`
	TaskID   string      `json:"taskId"`
	Notes    string      `json:"notes" validate:"max=500"`
}

type EndSessionRequest struct {
	Interruptions Optional[int]    `json:"interruptions"`
	Notes         Optional[string] `json:"notes"`
}

type SessionFilter struct {
	Mode  string
	Range DateRange
	Sort  Sort
}

type FocusTotals struct {
	TotalSessions      int64   `json:"totalSessions" bson:"totalSessions"`
	TotalDuration      int64   `json:"totalDuration" bson:"totalDuration"`
	TotalInterruptions int64   `json:"totalInterruptions" bson:"totalInterruptions"`
	AvgDuration        float64 `json:"avgDuration" bson:"avgDuration"`
	ActiveDays         int64   `json:"activeDays" bson:"activeDays"`
}

type FocusDayStat struct {
	Date     string `json:"date" bson:"_id"`
	Sessions int64  `json:"sessions" bson:"sessions"`
	Duration int64  `json:"duration" bson:"duration"`
}

type FocusModeStat struct {
	Mode     string `json:"mode" bson:"_id"`
	Sessions int64  `json:"sessions" bson:"sessions"`
	Duration int64  `json:"duration" bson:"duration"`
}

// FocusWeekdayStat.Weekday follows time.Weekday (0 = Sunday).
type FocusWeekdayStat struct {
	Weekday  int    `json:"-" bson:"_id"`
	Day      string `json:"day" bson:"-"`
	Sessions int64  `json:"sessions" bson:"sessions"`
	Duration int64  `json:"duration" bson:"duration"`
}

type LeaderboardEntry struct {
	UserID          string `json:"userId"`
	TotalSessions   int64  `json:"totalSessions"`
	TotalDuration   int64  `json:"totalDuration"`
	AverageDuration int64  `json:"averageDuration"`
	TotalDays       int64  `json:"totalDays"`
	Rank            int    `json:"rank"`
}
