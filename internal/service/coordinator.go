package service

import (
	"log/slog"

	"github.com/dvalim/papermill/internal/model"
	"github.com/dvalim/papermill/internal/pattern"
	"github.com/dvalim/papermill/internal/store"
	"github.com/dvalim/papermill/internal/worker"
)

// Coordinator orchestrates one batch submission: expand patterns into files,
// register each file as Queued, and hand the newly registered ones to the
// worker pool. Submission is fire-and-forget; progress is only observable
// through Status.
type Coordinator struct {
	expander *pattern.Expander
	store    *store.Store
	pool     *worker.Pool
}

// NewCoordinator creates a batch coordinator
func NewCoordinator(expander *pattern.Expander, st *store.Store, pool *worker.Pool) *Coordinator {
	return &Coordinator{
		expander: expander,
		store:    st,
		pool:     pool,
	}
}

// Submit expands patterns and enqueues every resolved file that is not
// already in flight. It returns promptly and never waits for a conversion to
// finish. Files skipped because they are already Queued or Processing do not
// appear in the result.
func (c *Coordinator) Submit(patterns []string) model.BatchResult {
	files, unmatched := c.expander.Expand(patterns)

	queued := make([]string, 0, len(files))
	for _, path := range files {
		if !c.store.Register(path) {
			slog.Debug("Skipping file already in flight", "path", path)
			continue
		}
		if err := c.pool.Submit(path); err != nil {
			// Pool shut down underneath us; roll the record into Error so the
			// job does not sit Queued forever.
			slog.Error("Failed to enqueue conversion", "path", path, "error", err)
			c.store.Transition(path, model.StatusError, "could not enqueue: "+err.Error())
			continue
		}
		queued = append(queued, path)
	}

	slog.Info("Batch submitted",
		"patterns", len(patterns),
		"resolved", len(files),
		"queued", len(queued),
		"unmatched", len(unmatched),
	)

	return model.BatchResult{
		Queued:    len(queued),
		Files:     queued,
		Unmatched: unmatched,
	}
}

// Status returns a consistent snapshot of every known job. It has no side
// effects and is safe to call on any cadence while workers are writing.
func (c *Coordinator) Status() map[string]model.Job {
	return c.store.Snapshot()
}

// Clear atomically removes all job records
func (c *Coordinator) Clear() {
	c.store.Clear()
	slog.Info("Job status store cleared")
}
