// services/scheduler.go
package services

import (
	"context"
	"time"

	"recycling-rewards-backend/utils"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper is a periodic job body that reports its own failures.
type Sweeper interface {
	Run(ctx context.Context) error
}

// StartScheduler registers the monthly points reset and, when sweep is not
// nil, the inactive-user sweep. The caller shuts the scheduler down.
func StartScheduler(ctx context.Context, ledger *PointsLedger, resetCron string, sweep Sweeper, sweepCron string) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.CronJob(resetCron, false),
		gocron.NewTask(func() {
			runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			n, err := ledger.ResetEveryone(runCtx)
			if err != nil {
				utils.LogError("[SCHEDULER] points reset failed: %v", err)
				return
			}
			utils.LogSuccess("[SCHEDULER] reset points for %d user(s)", n)
		}),
		gocron.WithName("points-reset"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	if sweep != nil {
		_, err = sched.NewJob(
			gocron.CronJob(sweepCron, false),
			gocron.NewTask(func() {
				runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
				defer cancel()
				if err := sweep.Run(runCtx); err != nil {
					utils.LogError("[SCHEDULER] inactive-user sweep failed: %v", err)
				}
			}),
			gocron.WithName("inactive-user-sweep"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	sched.Start()
	return sched, nil
}
