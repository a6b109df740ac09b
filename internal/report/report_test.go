package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Kilerd/todoki/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an in-memory SQLite DB with the event table.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.TaskEvent{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, kind, state string, at time.Time) {
	t.Helper()
	evt := models.TaskEvent{TaskID: "seed-task", Kind: kind, State: state, CreatedAt: at}
	if err := db.Create(&evt).Error; err != nil {
		t.Fatalf("seed %s event: %v", kind, err)
	}
}

func TestAggregate_EmptyWindow(t *testing.T) {
	db := openTestDB(t)

	for _, period := range []string{PeriodToday, PeriodWeek, PeriodMonth} {
		rep, err := Aggregate(db, period, time.UTC)
		if err != nil {
			t.Fatalf("Aggregate(%s): %v", period, err)
		}
		if rep.Period != period {
			t.Errorf("Period = %q, want %q", rep.Period, period)
		}
		if rep.Created != 0 || rep.Done != 0 || rep.Archived != 0 ||
			rep.StateChanges != 0 || rep.Comments != 0 {
			t.Errorf("Aggregate(%s) = %+v, want all zero", period, rep)
		}
	}
}

func TestAggregate_CountsByKind(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()

	seedEvent(t, db, models.EventCreate, "", now)
	seedEvent(t, db, models.EventCreate, "", now)
	seedEvent(t, db, models.EventDone, "", now)
	seedEvent(t, db, models.EventStatusChanged, models.StatusDone, now)
	seedEvent(t, db, models.EventStatusChanged, models.StatusTodo, now)
	seedEvent(t, db, models.EventStateChanged, "Review", now)
	seedEvent(t, db, models.EventArchived, "", now)
	seedEvent(t, db, models.EventUnarchived, "", now)
	seedEvent(t, db, models.EventComment, "", now)

	rep, err := Aggregate(db, PeriodToday, time.UTC)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rep.Created != 2 {
		t.Errorf("Created = %d, want 2", rep.Created)
	}
	// done events plus board moves into done.
	if rep.Done != 2 {
		t.Errorf("Done = %d, want 2", rep.Done)
	}
	if rep.Archived != 1 {
		t.Errorf("Archived = %d, want 1", rep.Archived)
	}
	// Two board moves and one custom-state move.
	if rep.StateChanges != 3 {
		t.Errorf("StateChanges = %d, want 3", rep.StateChanges)
	}
	if rep.Comments != 1 {
		t.Errorf("Comments = %d, want 1", rep.Comments)
	}
}

func TestAggregate_TerminalStateNamedDone(t *testing.T) {
	// A custom-state move to a state named "done" is a state change, not
	// a second done count; the synthetic done event carries the count.
	db := openTestDB(t)
	now := time.Now()

	seedEvent(t, db, models.EventStateChanged, "done", now)
	seedEvent(t, db, models.EventDone, "", now)

	rep, err := Aggregate(db, PeriodToday, time.UTC)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rep.Done != 1 {
		t.Errorf("Done = %d, want 1", rep.Done)
	}
	if rep.StateChanges != 1 {
		t.Errorf("StateChanges = %d, want 1", rep.StateChanges)
	}
}

func TestAggregate_RollingWindows(t *testing.T) {
	db := openTestDB(t)

	seedEvent(t, db, models.EventCreate, "", time.Now().Add(-8*24*time.Hour))

	week, err := Aggregate(db, PeriodWeek, time.UTC)
	if err != nil {
		t.Fatalf("Aggregate(week): %v", err)
	}
	if week.Created != 0 {
		t.Errorf("week Created = %d, want 0 for an 8-day-old event", week.Created)
	}

	month, err := Aggregate(db, PeriodMonth, time.UTC)
	if err != nil {
		t.Fatalf("Aggregate(month): %v", err)
	}
	if month.Created != 1 {
		t.Errorf("month Created = %d, want 1", month.Created)
	}
}

func TestAggregate_UnknownPeriod(t *testing.T) {
	db := openTestDB(t)

	_, err := Aggregate(db, "fortnight", time.UTC)
	if err == nil {
		t.Fatal("expected error for unknown period")
	}
	if !strings.Contains(err.Error(), "fortnight") {
		t.Errorf("error %q does not mention the period value", err.Error())
	}
}

func TestKnownPeriod(t *testing.T) {
	for _, p := range []string{PeriodToday, PeriodWeek, PeriodMonth} {
		if !KnownPeriod(p) {
			t.Errorf("KnownPeriod(%q) = false", p)
		}
	}
	for _, p := range []string{"", "day", "year", "Today"} {
		if KnownPeriod(p) {
			t.Errorf("KnownPeriod(%q) = true", p)
		}
	}
}

func TestWindow_TodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC) // 09:30 local

	start, end, err := window(PeriodToday, now, loc)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if !start.Equal(time.Date(2026, 3, 9, 16, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v, want local midnight", start.UTC())
	}
	if !end.Equal(time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want next local midnight", end.UTC())
	}
}

func TestWindow_RollingHasNoUpperBound(t *testing.T) {
	now := time.Now()
	start, end, err := window(PeriodWeek, now, time.UTC)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if !end.IsZero() {
		t.Errorf("end = %v, want zero", end)
	}
	if got := now.Sub(start); got < 7*24*time.Hour-time.Second || got > 7*24*time.Hour+time.Second {
		t.Errorf("lookback = %v, want about 168h", got)
	}
}
