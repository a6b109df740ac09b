// Package report computes time-windowed activity counts over the task
// event log. It only ever reads.
package report

import (
	"fmt"
	"time"

	"github.com/Kilerd/todoki/internal/models"
	"gorm.io/gorm"
)

// Reporting periods.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Report holds event counts for one period. Done counts both done events
// and board moves into the done status; state changes count both board
// and custom-state transitions.
type Report struct {
	Period       string `json:"period"`
	Created      int64  `json:"created_count"`
	Done         int64  `json:"done_count"`
	Archived     int64  `json:"archived_count"`
	StateChanges int64  `json:"state_changes_count"`
	Comments     int64  `json:"comments_count"`
}

// KnownPeriod reports whether p is a valid reporting period.
func KnownPeriod(p string) bool {
	return p == PeriodToday || p == PeriodWeek || p == PeriodMonth
}

// Aggregate counts events for the period. Today covers the calendar day
// in loc; week and month look back 7 and 30 days from the moment of the
// query. An empty window yields a zero report, not an error.
func Aggregate(db *gorm.DB, period string, loc *time.Location) (*Report, error) {
	start, end, err := window(period, time.Now(), loc)
	if err != nil {
		return nil, err
	}

	q := db.Model(&models.TaskEvent{}).Where("created_at >= ?", start)
	if !end.IsZero() {
		q = q.Where("created_at < ?", end)
	}

	var rows []struct {
		Kind  string
		State string
		N     int64
	}
	if err := q.Select("kind, state, COUNT(*) AS n").
		Group("kind").Group("state").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("report: aggregate %s: %w", period, err)
	}

	rep := &Report{Period: period}
	for _, row := range rows {
		switch row.Kind {
		case models.EventCreate:
			rep.Created += row.N
		case models.EventDone:
			rep.Done += row.N
		case models.EventArchived:
			rep.Archived += row.N
		case models.EventStateChanged:
			rep.StateChanges += row.N
		case models.EventStatusChanged:
			rep.StateChanges += row.N
			if row.State == models.StatusDone {
				rep.Done += row.N
			}
		case models.EventComment:
			rep.Comments += row.N
		}
	}
	return rep, nil
}

// window returns the half-open bounds for period. A zero end means
// unbounded; the rolling lookbacks have no upper edge.
func window(period string, now time.Time, loc *time.Location) (start, end time.Time, err error) {
	switch period {
	case PeriodToday:
		local := now.In(loc)
		start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1), nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), time.Time{}, nil
	case PeriodMonth:
		return now.AddDate(0, 0, -30), time.Time{}, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("report: unknown period: %q", period)
	}
}
