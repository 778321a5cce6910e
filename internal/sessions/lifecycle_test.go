package sessions

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anchor-ministry/backend/internal/models"
)

func makeSession(date string, startHour, endHour int, active, completed bool) models.ChatSession {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.ChatSession{
		ID:          uuid.New(),
		SessionDate: d,
		StartTime:   time.Date(d.Year(), d.Month(), d.Day(), startHour, 0, 0, 0, time.UTC),
		EndTime:     time.Date(d.Year(), d.Month(), d.Day(), endHour, 0, 0, 0, time.UTC),
		IsActive:    active,
		IsCompleted: completed,
	}
}

func at(date string, hour, minute int) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

func TestIsLive(t *testing.T) {
	tests := []struct {
		name    string
		session models.ChatSession
		now     time.Time
		want    bool
	}{
		{
			name:    "active inside window",
			session: makeSession("2026-03-06", 19, 20, true, false),
			now:     at("2026-03-06", 19, 30),
			want:    true,
		},
		{
			name:    "active at exact start",
			session: makeSession("2026-03-06", 19, 20, true, false),
			now:     at("2026-03-06", 19, 0),
			want:    true,
		},
		{
			name:    "active at exact end",
			session: makeSession("2026-03-06", 19, 20, true, false),
			now:     at("2026-03-06", 20, 0),
			want:    true,
		},
		{
			name:    "active but before window",
			session: makeSession("2026-03-06", 19, 20, true, false),
			now:     at("2026-03-06", 18, 59),
			want:    false,
		},
		{
			name:    "active but after window",
			session: makeSession("2026-03-06", 19, 20, true, false),
			now:     at("2026-03-06", 20, 1),
			want:    false,
		},
		{
			name:    "inactive inside window",
			session: makeSession("2026-03-06", 19, 20, false, false),
			now:     at("2026-03-06", 19, 30),
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLive(&tt.session, tt.now); got != tt.want {
				t.Errorf("IsLive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLiveNil(t *testing.T) {
	if IsLive(nil, time.Now()) {
		t.Error("IsLive(nil) should be false")
	}
}

func TestNextSession(t *testing.T) {
	now := at("2026-03-04", 12, 0)
	list := []models.ChatSession{
		makeSession("2026-02-27", 19, 20, false, true), // past, completed
		makeSession("2026-03-06", 19, 20, false, false),
		makeSession("2026-03-13", 19, 20, false, false),
	}

	next := NextSession(list, now)
	if next == nil {
		t.Fatal("expected a next session")
	}
	if got := next.SessionDate.Format("2006-01-02"); got != "2026-03-06" {
		t.Errorf("next session date = %s, want 2026-03-06", got)
	}
}

func TestNextSessionSkipsCompleted(t *testing.T) {
	now := at("2026-03-06", 21, 0)
	list := []models.ChatSession{
		makeSession("2026-03-06", 19, 20, false, true), // tonight's, already ended
		makeSession("2026-03-13", 19, 20, false, false),
	}

	next := NextSession(list, now)
	if next == nil {
		t.Fatal("expected a next session")
	}
	if got := next.SessionDate.Format("2006-01-02"); got != "2026-03-13" {
		t.Errorf("next session date = %s, want 2026-03-13", got)
	}
}

func TestNextSessionTodayStaysVisibleAllDay(t *testing.T) {
	// After tonight's window elapses the session is still "next" until the
	// calendar date passes, as long as it was never completed.
	now := at("2026-03-06", 23, 0)
	list := []models.ChatSession{
		makeSession("2026-03-06", 19, 20, false, false),
	}

	next := NextSession(list, now)
	if next == nil {
		t.Fatal("expected today's session to remain the next session")
	}
}

func TestNextSessionEmpty(t *testing.T) {
	if next := NextSession(nil, time.Now()); next != nil {
		t.Errorf("expected nil, got %+v", next)
	}
	past := []models.ChatSession{makeSession("2020-01-03", 19, 20, false, true)}
	if next := NextSession(past, at("2026-03-04", 12, 0)); next != nil {
		t.Errorf("expected nil for past-only list, got %+v", next)
	}
}

func TestCurrentSession(t *testing.T) {
	list := []models.ChatSession{
		makeSession("2026-03-06", 19, 20, false, false),
		makeSession("2026-03-13", 19, 20, true, false),
	}
	current := CurrentSession(list)
	if current == nil {
		t.Fatal("expected a current session")
	}
	if got := current.SessionDate.Format("2006-01-02"); got != "2026-03-13" {
		t.Errorf("current session date = %s, want 2026-03-13", got)
	}

	if CurrentSession(nil) != nil {
		t.Error("expected nil for empty list")
	}

	completed := []models.ChatSession{makeSession("2026-03-06", 19, 20, true, true)}
	if CurrentSession(completed) != nil {
		t.Error("completed session must never be current")
	}
}

func TestCurrentSessionEarliestWins(t *testing.T) {
	list := []models.ChatSession{
		makeSession("2026-03-13", 19, 20, true, false),
		makeSession("2026-03-06", 19, 20, true, false),
	}
	current := CurrentSession(list)
	if current == nil {
		t.Fatal("expected a current session")
	}
	if got := current.SessionDate.Format("2006-01-02"); got != "2026-03-06" {
		t.Errorf("current session date = %s, want 2026-03-06", got)
	}
}

func TestTimeUntil(t *testing.T) {
	s := makeSession("2026-03-06", 19, 0, false, false)

	cd := TimeUntil(&s, at("2026-03-04", 14, 0))
	if cd == nil {
		t.Fatal("expected a countdown")
	}
	if cd.Days != 2 || cd.Hours != 5 || cd.Minutes != 0 {
		t.Errorf("countdown = %+v, want 2d 5h 0m", cd)
	}
	if got := cd.String(); got != "2d 5h" {
		t.Errorf("String() = %q, want %q", got, "2d 5h")
	}
}

func TestTimeUntilNilAfterStart(t *testing.T) {
	s := makeSession("2026-03-06", 19, 20, true, false)
	if cd := TimeUntil(&s, at("2026-03-06", 19, 0)); cd != nil {
		t.Errorf("expected nil at exact start, got %+v", cd)
	}
	if cd := TimeUntil(&s, at("2026-03-06", 19, 30)); cd != nil {
		t.Errorf("expected nil after start, got %+v", cd)
	}
	if cd := TimeUntil(nil, time.Now()); cd != nil {
		t.Errorf("expected nil for nil session, got %+v", cd)
	}
}

func TestTimeUntilDecreases(t *testing.T) {
	s := makeSession("2026-03-06", 19, 0, false, false)
	earlier := TimeUntil(&s, at("2026-03-05", 10, 0))
	later := TimeUntil(&s, at("2026-03-06", 10, 0))
	if earlier == nil || later == nil {
		t.Fatal("expected countdowns at both instants")
	}
	em := earlier.Days*24*60 + earlier.Hours*60 + earlier.Minutes
	lm := later.Days*24*60 + later.Hours*60 + later.Minutes
	if lm >= em {
		t.Errorf("countdown did not decrease: earlier %d min, later %d min", em, lm)
	}
}

func TestCountdownString(t *testing.T) {
	tests := []struct {
		cd   Countdown
		want string
	}{
		{Countdown{Days: 2, Hours: 5, Minutes: 30}, "2d 5h"},
		{Countdown{Hours: 5, Minutes: 30}, "5h 30m"},
		{Countdown{Minutes: 12}, "12m"},
		{Countdown{}, "0m"},
	}
	for _, tt := range tests {
		if got := tt.cd.String(); got != tt.want {
			t.Errorf("Countdown%+v.String() = %q, want %q", tt.cd, got, tt.want)
		}
	}
}
