package digest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser accepts standard 5-field cron expressions (minute, hour,
// dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Scheduler builds and sends the digest on a cron schedule. Send
// failures are logged and swallowed; the next run tries again from
// scratch.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers the digest job for the given 5-field cron
// expression. Every notifier gets every digest; empty digests are
// skipped.
func NewScheduler(db *gorm.DB, loc *time.Location, schedule string, notifiers ...Notifier) (*Scheduler, error) {
	if _, err := cronParser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("digest: schedule %q: %w", schedule, err)
	}

	c := cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))
	c.AddFunc(schedule, func() {
		runOnce(db, loc, notifiers)
	})
	return &Scheduler{cron: c}, nil
}

// Run starts the scheduler, blocks until ctx is cancelled, then waits
// for a running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// runOnce builds and delivers one digest. Exposed to the scheduler and
// tests only.
func runOnce(db *gorm.DB, loc *time.Location, notifiers []Notifier) {
	d, err := Build(db, loc)
	if err != nil {
		log.Printf("digest: build: %v", err)
		return
	}
	if d.Empty() {
		log.Printf("digest: no activity, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, n := range notifiers {
		if err := n.Send(ctx, *d); err != nil {
			log.Printf("digest: send: %v", err)
		}
	}
}
