package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/dvalim/papermill/internal/convert"
	"github.com/dvalim/papermill/internal/model"
	"github.com/dvalim/papermill/internal/store"
)

// DefaultWorkers returns the default pool size: all CPUs but one, at least one
func DefaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// ErrPoolStopped is returned by Submit once the pool has been stopped
var ErrPoolStopped = errors.New("worker pool stopped")

// Pool is a fixed-size pool of conversion workers draining a shared FIFO
// queue. Each job is run through the converter under a per-job timeout and
// its outcome is written into the status store. A job failure never
// propagates to sibling jobs or the pool itself.
type Pool struct {
	workers   int
	timeout   time.Duration
	jobs      chan Job
	store     *store.Store
	converter convert.Converter
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a worker pool writing results into st
func NewPool(workers, queueSize int, timeout time.Duration, st *store.Store, converter convert.Converter) *Pool {
	if workers < 1 {
		workers = DefaultWorkers()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:   workers,
		timeout:   timeout,
		jobs:      make(chan Job, queueSize),
		store:     st,
		converter: converter,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	slog.Info("Starting conversion worker pool",
		"workers", p.workers,
		"job_timeout", p.timeout,
	)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop stops the pool gracefully: queued jobs are drained, then workers exit
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	slog.Info("Stopping conversion worker pool")

	p.wg.Wait()
	p.cancel()

	slog.Info("Conversion worker pool stopped")
}

// Submit enqueues one file for conversion. It blocks only while the queue is
// full and returns ErrPoolStopped once the pool has been shut down.
func (p *Pool) Submit(path string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- Job{Path: path}:
		slog.Debug("Job submitted to worker pool", "path", path)
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// QueueLength returns the current number of jobs waiting in the queue
func (p *Pool) QueueLength() int {
	return len(p.jobs)
}

// worker drains the shared queue until it is closed
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	slog.Debug("Worker started", "worker_id", id)

	for job := range p.jobs {
		p.process(id, job)
	}

	slog.Debug("Worker stopped", "worker_id", id)
}

// process runs one job end to end: flip the record to Processing, run the
// converter under the per-job timeout, record the terminal outcome.
func (p *Pool) process(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while processing job",
				"worker_id", id,
				"path", job.Path,
				"panic", r,
			)
			p.record(job.Path, model.StatusError, fmt.Sprintf("internal error: %v", r))
		}
	}()

	p.record(job.Path, model.StatusProcessing, "")

	slog.Info("Converting file", "worker_id", id, "path", job.Path)
	start := time.Now()

	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	// The converter runs in its own goroutine so a blocked call cannot wedge
	// the worker past the deadline. The channel is buffered: when the timeout
	// wins, the late send completes without a reader and the result is
	// discarded.
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic during conversion: %v", r)}
			}
		}()
		output, err := p.converter.Convert(ctx, job.Path)
		done <- outcome{output: output, err: err}
	}()

	select {
	case res := <-done:
		p.finish(id, job.Path, res, time.Since(start))
	case <-ctx.Done():
		slog.Warn("Conversion timed out",
			"worker_id", id,
			"path", job.Path,
			"timeout", p.timeout,
		)
		p.record(job.Path, model.StatusError,
			fmt.Sprintf("conversion timed out after %s", p.timeout))
	}
}

// finish records a completed converter call
func (p *Pool) finish(id int, path string, res outcome, elapsed time.Duration) {
	if res.err != nil {
		slog.Warn("Conversion failed",
			"worker_id", id,
			"path", path,
			"error", res.err,
		)
		msg := res.err.Error()
		var convErr *convert.Error
		if errors.As(res.err, &convErr) {
			msg = convErr.Reason
		}
		p.record(path, model.StatusError, msg)
		return
	}

	slog.Info("Conversion completed",
		"worker_id", id,
		"path", path,
		"output", res.output,
		"duration_ms", elapsed.Milliseconds(),
	)
	// Guarded write: if a timeout already recorded Error for this job, the
	// terminal state stands and this result is dropped.
	if !p.store.TransitionIf(path, model.StatusProcessing, model.StatusCompleted,
		"converted to: "+res.output) {
		slog.Warn("Discarding late conversion result", "path", path)
	}
}

// record applies an unconditional transition, logging instead of failing when
// the record vanished underneath the worker (a concurrent clear).
func (p *Pool) record(path string, status model.Status, message string) {
	if err := p.store.Transition(path, status, message); err != nil {
		slog.Warn("Dropping status transition for unknown job",
			"path", path,
			"status", status,
			"error", err,
		)
	}
}

type outcome struct {
	output string
	err    error
}
