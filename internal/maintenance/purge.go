// Package maintenance runs periodic housekeeping jobs.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/wealthwise/internal/observability"
)

// InvitePurger deletes used invite links.
type InvitePurger interface {
	PurgeUsedInvites(ctx context.Context, before int64) (int64, error)
}

// Scheduler removes used invite links on a cron schedule.
type Scheduler struct {
	store     InvitePurger
	metrics   *observability.Metrics
	retention time.Duration
	now       func() time.Time
}

// NewScheduler creates a scheduler that keeps used invites for retention.
func NewScheduler(store InvitePurger, metrics *observability.Metrics, retention time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		metrics:   metrics,
		retention: retention,
		now:       time.Now,
	}
}

// PurgeInvites deletes used invites older than the retention period.
func (s *Scheduler) PurgeInvites(ctx context.Context) (int64, error) {
	before := s.now().Add(-s.retention).Unix()
	n, err := s.store.PurgeUsedInvites(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge used invites: %w", err)
	}
	s.metrics.RecordInvitesPurged(n)
	return n, nil
}

// Run schedules PurgeInvites and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		n, err := s.PurgeInvites(ctx)
		if err != nil {
			slog.Error("Invite purge failed", "error", err)
			return
		}
		slog.Info("Invite purge completed", "purged", n)
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}

	c.Start()
	slog.Info("Maintenance scheduler started", "purge_schedule", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("Maintenance scheduler stopped")
	return nil
}
