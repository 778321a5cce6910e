package sessions

import (
	"fmt"
	"time"

	"github.com/anchor-ministry/backend/internal/models"
)

// IsLive reports whether a session should be shown as live at the given
// instant. Both conditions are required: the moderator has opened the room
// (IsActive) and the wall clock is inside the scheduled [StartTime, EndTime]
// window. A session started early becomes live immediately; a session whose
// window has elapsed stops being live for new viewers even while IsActive
// remains set. IsActive alone is never sufficient.
func IsLive(s *models.ChatSession, now time.Time) bool {
	if s == nil {
		return false
	}
	return s.IsActive && !now.Before(s.StartTime) && !now.After(s.EndTime)
}

// NextSession returns the earliest non-completed session whose date is not
// before today, or nil when none is scheduled. Comparison is at calendar-date
// precision so today's session stays visible for the whole day.
func NextSession(list []models.ChatSession, now time.Time) *models.ChatSession {
	today := truncateToDate(now)
	var next *models.ChatSession
	for i := range list {
		s := &list[i]
		if s.IsCompleted || truncateToDate(s.SessionDate).Before(today) {
			continue
		}
		if next == nil || s.SessionDate.Before(next.SessionDate) {
			next = s
		}
	}
	return next
}

// CurrentSession returns the session the moderator has opened, or nil.
// With a single moderator at most one session is active at a time; if the
// store ever holds more, the earliest-dated one wins.
func CurrentSession(list []models.ChatSession) *models.ChatSession {
	var current *models.ChatSession
	for i := range list {
		s := &list[i]
		if !s.IsActive || s.IsCompleted {
			continue
		}
		if current == nil || s.SessionDate.Before(current.SessionDate) {
			current = s
		}
	}
	return current
}

// Countdown is the remaining time before a session starts, decomposed for
// display.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// String renders the largest non-zero unit pair: "2d 5h", "5h 30m", "12m".
func (c Countdown) String() string {
	if c.Days > 0 {
		return fmt.Sprintf("%dd %dh", c.Days, c.Hours)
	}
	if c.Hours > 0 {
		return fmt.Sprintf("%dh %dm", c.Hours, c.Minutes)
	}
	return fmt.Sprintf("%dm", c.Minutes)
}

// TimeUntil returns the countdown to the session start, or nil once the
// session has started or is overdue.
func TimeUntil(s *models.ChatSession, now time.Time) *Countdown {
	if s == nil {
		return nil
	}
	diff := s.StartTime.Sub(now)
	if diff <= 0 {
		return nil
	}
	days := int(diff / (24 * time.Hour))
	diff -= time.Duration(days) * 24 * time.Hour
	hours := int(diff / time.Hour)
	diff -= time.Duration(hours) * time.Hour
	minutes := int(diff / time.Minute)
	return &Countdown{Days: days, Hours: hours, Minutes: minutes}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
