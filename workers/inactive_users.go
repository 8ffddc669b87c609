// workers/inactive_users.go
package workers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"

	"golang.org/x/sync/errgroup"
)

// InactiveUserSource lists users who have not recycled since a cutoff.
type InactiveUserSource interface {
	ListInactiveSince(ctx context.Context, since time.Time) ([]models.User, error)
}

// Notifier delivers a message to one user.
type Notifier interface {
	Notify(ctx context.Context, u models.User, subject, body string) error
}

// SweepReport summarises one sweep.
type SweepReport struct {
	Candidates int
	Notified   int64
	Failed     int64
}

// InactiveUserSweep reminds users who stopped recycling. Notifications fan out
// over at most Workers goroutines.
type InactiveUserSweep struct {
	users         InactiveUserSource
	notifier      Notifier
	inactiveAfter time.Duration
	workers       int
	now           func() time.Time
}

func NewInactiveUserSweep(users InactiveUserSource, notifier Notifier, inactiveAfter time.Duration, workers int) *InactiveUserSweep {
	if workers < 1 {
		workers = 1
	}
	return &InactiveUserSweep{
		users:         users,
		notifier:      notifier,
		inactiveAfter: inactiveAfter,
		workers:       workers,
		now:           time.Now,
	}
}

func (w *InactiveUserSweep) Run(ctx context.Context) error {
	_, err := w.Sweep(ctx)
	return err
}

// Sweep notifies every inactive user once. A failed notification is logged and
// counted; only a failure to list users aborts the sweep.
func (w *InactiveUserSweep) Sweep(ctx context.Context) (SweepReport, error) {
	since := w.now().Add(-w.inactiveAfter)
	users, err := w.users.ListInactiveSince(ctx, since)
	if err != nil {
		return SweepReport{}, fmt.Errorf("list inactive users: %w", err)
	}

	report := SweepReport{Candidates: len(users)}
	if len(users) == 0 {
		utils.LogInfo("[SWEEP] no inactive users since %s", since.Format(time.RFC3339))
		return report, nil
	}

	utils.LogInfo("[SWEEP] notifying %d inactive user(s) with %d worker(s)", len(users), w.workers)

	var notified, failed atomic.Int64
	days := int(w.inactiveAfter.Hours() / 24)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for _, u := range users {
		u := u
		g.Go(func() error {
			subject := "We miss your recycling!"
			body := fmt.Sprintf("Hi %s, you have not logged any recycling in the last %d days. "+
				"Drop off your recyclables at a nearby center to keep earning points and vouchers.", u.Username, days)
			if err := w.notifier.Notify(gctx, u, subject, body); err != nil {
				failed.Add(1)
				utils.LogWarn("[SWEEP] failed to notify %s: %v", u.ID, err)
				return nil
			}
			notified.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report.Notified = notified.Load()
	report.Failed = failed.Load()
	utils.LogSuccess("[SWEEP] done: %d notified, %d failed", report.Notified, report.Failed)
	return report, nil
}
