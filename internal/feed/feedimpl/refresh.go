package feedimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleRefresh sets up a periodic background refresh of the current
// filter's first page. It keeps the feed converging when the real-time
// subscription is unavailable.
func (f *FeedImpl) ScheduleRefresh(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	interval := f.Config.Feed.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				f.Logger.Info("Context cancelled, stopping scheduled refresh")
				return
			}

			f.mu.Lock()
			selected := f.filter.OrgID != 0
			f.mu.Unlock()
			if !selected {
				return
			}

			refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := f.Refresh(refreshCtx); err != nil {
				f.Logger.Error("Scheduled refresh failed", "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed refresh: %w", err)
	}

	scheduler.Start()
	f.scheduler = scheduler

	go func() {
		<-ctx.Done()
		f.Logger.Info("Stopping refresh scheduler")
		if err := scheduler.Shutdown(); err != nil {
			f.Logger.Error("Failed to shut down refresh scheduler", "error", err)
		}
	}()

	return nil
}
