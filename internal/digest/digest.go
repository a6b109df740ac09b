// Package digest builds daily activity summaries and pushes them to chat
// platforms on a cron schedule.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Kilerd/todoki/internal/models"
	"github.com/Kilerd/todoki/internal/report"
	"github.com/Kilerd/todoki/internal/task"
)

// Digest is one day's activity summary: the event counts plus the tasks
// finished inside the day.
type Digest struct {
	Date     time.Time
	Report   *report.Report
	Finished []models.Task
}

// Notifier delivers a digest to one destination.
type Notifier interface {
	Send(ctx context.Context, d Digest) error
}

// Build assembles today's digest: the today report plus the tasks whose
// closing event happened inside today's calendar day in loc.
func Build(db *gorm.DB, loc *time.Location) (*Digest, error) {
	rep, err := report.Aggregate(db, report.PeriodToday, loc)
	if err != nil {
		return nil, fmt.Errorf("digest: %w", err)
	}
	finished, err := task.ListDoneToday(db, loc)
	if err != nil {
		return nil, fmt.Errorf("digest: %w", err)
	}
	return &Digest{
		Date:     time.Now().In(loc),
		Report:   rep,
		Finished: finished,
	}, nil
}

// Empty reports whether the digest has nothing worth sending.
func (d Digest) Empty() bool {
	r := d.Report
	return r.Created == 0 && r.Done == 0 && r.Archived == 0 &&
		r.StateChanges == 0 && r.Comments == 0 && len(d.Finished) == 0
}

// Title is the digest headline.
func (d Digest) Title() string {
	return "Todoki Digest — " + d.Date.Format("Jan 2, 2006")
}

// Body renders the digest as plain text, one line per count and one line
// per finished task.
func (d Digest) Body() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Created: %d", d.Report.Created))
	lines = append(lines, fmt.Sprintf("Done: %d", d.Report.Done))
	lines = append(lines, fmt.Sprintf("Archived: %d", d.Report.Archived))
	lines = append(lines, fmt.Sprintf("State changes: %d", d.Report.StateChanges))
	lines = append(lines, fmt.Sprintf("Comments: %d", d.Report.Comments))

	if len(d.Finished) > 0 {
		lines = append(lines, "", "Finished today:")
		for _, t := range d.Finished {
			lines = append(lines, "  - "+t.Content)
		}
	}
	return strings.Join(lines, "\n")
}
