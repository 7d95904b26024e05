package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RetentionPolicy bounds how long audit events are kept.
type RetentionPolicy struct {
	// MaxAge is the age past which events are purged.
	MaxAge time.Duration
}

// DefaultRetentionPolicy keeps events for 90 days.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{MaxAge: 90 * 24 * time.Hour}
}

// Purger deletes events older than a cutoff. DBLogger implements it.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler purges expired audit events on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	purger Purger
	policy RetentionPolicy
	log    *logrus.Logger
}

// NewScheduler creates a retention scheduler. schedule is a cron expression,
// e.g. "5 0 * * *" for daily at 00:05. log may be nil.
func NewScheduler(purger Purger, policy RetentionPolicy, schedule string, log *logrus.Logger) (*Scheduler, error) {
	if log == nil {
		log = logrus.New()
	}

	s := &Scheduler{
		cron:   cron.New(),
		purger: purger,
		policy: policy,
		log:    log,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("failed to schedule audit retention: %w", err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx := context.Background()
	removed, err := s.purger.Purge(ctx, time.Now().UTC().Add(-s.policy.MaxAge))
	if err != nil {
		s.log.WithError(err).Error("Audit retention purge failed")
		return
	}
	s.log.WithField("removed", removed).Info("Audit retention purge completed")
}

// Start begins running the schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for a running purge to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// PurgeNow runs one purge immediately, outside the schedule.
func (s *Scheduler) PurgeNow(ctx context.Context) (int64, error) {
	return s.purger.Purge(ctx, time.Now().UTC().Add(-s.policy.MaxAge))
}
