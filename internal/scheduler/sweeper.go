package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dvalim/papermill/internal/store"
)

// Sweeper periodically removes finished job records older than the retention
// TTL so a long-lived process does not accumulate terminal jobs without
// bound. Jobs still Queued or Processing are never touched.
type Sweeper struct {
	store    *store.Store
	schedule string
	ttl      time.Duration
	cron     *cron.Cron
}

// NewSweeper creates a sweeper running on the given cron schedule. The
// schedule accepts standard cron expressions and descriptors like
// "@every 10m".
func NewSweeper(st *store.Store, schedule string, ttl time.Duration) *Sweeper {
	return &Sweeper{
		store:    st,
		schedule: schedule,
		ttl:      ttl,
		cron:     cron.New(),
	}
}

// Start registers the sweep job and starts the cron runner
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	slog.Info("Retention sweeper started",
		"schedule", s.schedule,
		"ttl", s.ttl,
	)
	return nil
}

// Stop stops the cron runner and waits for an in-progress sweep to finish
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Retention sweeper stopped")
}

func (s *Sweeper) sweep() {
	removed := s.store.Sweep(time.Now().Add(-s.ttl))
	if removed > 0 {
		slog.Info("Swept finished job records",
			"removed", removed,
			"remaining", s.store.Len(),
		)
	}
}
