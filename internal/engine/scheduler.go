package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
)

// watchCheckTimeout bounds one scheduled watch pass.
const watchCheckTimeout = 5 * time.Minute

// Schedule selects the periodic jobs. A job is registered only when its
// worker is set and its interval is positive.
type Schedule struct {
	Refresher       *ReferenceRefresher
	RefreshInterval time.Duration
	Watches         *WatchChecker
	WatchInterval   time.Duration
}

// Scheduler runs the periodic reference price refresh and price watch check.
type Scheduler struct {
	cron      *cron.Cron
	refresher *ReferenceRefresher
	watches   *WatchChecker
	log       *slog.Logger

	refreshEntryID cron.EntryID
	watchEntryID   cron.EntryID
}

// NewScheduler creates a Scheduler for the jobs selected by sc. It fails when
// no job is selected or an interval is negative.
func NewScheduler(sc Schedule, log *slog.Logger) (*Scheduler, error) {
	if sc.RefreshInterval < 0 {
		return nil, fmt.Errorf("reference refresh interval must not be negative, got %s", sc.RefreshInterval)
	}
	if sc.WatchInterval < 0 {
		return nil, fmt.Errorf("watch check interval must not be negative, got %s", sc.WatchInterval)
	}

	c := cron.New()
	s := &Scheduler{
		cron: c,
		log:  log,
	}

	if sc.Refresher != nil && sc.RefreshInterval > 0 {
		id, err := c.AddFunc("@every "+sc.RefreshInterval.String(), s.runReferenceRefresh)
		if err != nil {
			return nil, err
		}
		s.refresher = sc.Refresher
		s.refreshEntryID = id
	}

	if sc.Watches != nil && sc.WatchInterval > 0 {
		id, err := c.AddFunc("@every "+sc.WatchInterval.String(), s.runWatchCheck)
		if err != nil {
			return nil, err
		}
		s.watches = sc.Watches
		s.watchEntryID = id
	}

	if len(c.Entries()) == 0 {
		return nil, errors.New("no scheduled jobs configured")
	}
	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
	s.SyncNextRunTimestamps()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamps publishes the next scheduled runs as gauges.
func (s *Scheduler) SyncNextRunTimestamps() {
	if s.refreshEntryID != 0 {
		if e := s.cron.Entry(s.refreshEntryID); !e.Next.IsZero() {
			metrics.SchedulerNextRefreshTimestamp.Set(float64(e.Next.Unix()))
		}
	}
	if s.watchEntryID != 0 {
		if e := s.cron.Entry(s.watchEntryID); !e.Next.IsZero() {
			metrics.SchedulerNextWatchCheckTimestamp.Set(float64(e.Next.Unix()))
		}
	}
}

func (s *Scheduler) runReferenceRefresh() {
	ctx := context.Background()
	s.log.Info("scheduled reference refresh starting")
	if _, err := s.refresher.Run(ctx); err != nil {
		s.log.Error("scheduled reference refresh failed", "error", err)
	}
	s.SyncNextRunTimestamps()
}

func (s *Scheduler) runWatchCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), watchCheckTimeout)
	defer cancel()

	s.log.Info("scheduled watch check starting")
	if _, err := s.watches.Run(ctx); err != nil {
		s.log.Error("scheduled watch check failed", "error", err)
	}
	s.SyncNextRunTimestamps()
}
