package store

import (
	"errors"
	"sync"
	"time"

	"github.com/dvalim/papermill/internal/model"
)

// ErrUnknownJob is returned when a transition targets a path that was never
// registered. Workers only transition jobs they dequeued, so hitting this
// outside of a concurrent Clear indicates a logic fault.
var ErrUnknownJob = errors.New("unknown job")

// Store is the in-memory job status store. It is the single owner of all job
// records; workers and the status poller only read and write through its
// synchronized methods. Records are copied in and out, never shared.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]model.Job
}

// NewStore creates an empty job status store
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]model.Job),
	}
}

// Register inserts a fresh Queued record for path and returns true when the
// path is absent or already in a terminal state. It returns false without
// touching the record when the path is currently Queued or Processing, so a
// re-submission never creates a second in-flight job for the same file.
func (s *Store) Register(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, exists := s.jobs[path]; exists && !job.Status.Terminal() {
		return false
	}

	s.jobs[path] = model.Job{
		Status:    model.StatusQueued,
		Message:   "Waiting to be processed",
		Timestamp: time.Now(),
	}
	return true
}

// Transition unconditionally overwrites status, message and timestamp for an
// existing path. It returns ErrUnknownJob when the path was never registered.
func (s *Store) Transition(path string, status model.Status, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[path]; !exists {
		return ErrUnknownJob
	}

	s.jobs[path] = model.Job{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
	return nil
}

// TransitionIf overwrites the record only when its current status equals
// from. It returns true when the write was applied. Workers use this for
// completion writes so a result arriving after a timeout already recorded
// Error cannot overwrite the terminal state.
func (s *Store) TransitionIf(path string, from, to model.Status, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[path]
	if !exists || job.Status != from {
		return false
	}

	s.jobs[path] = model.Job{
		Status:    to,
		Message:   message,
		Timestamp: time.Now(),
	}
	return true
}

// Snapshot returns a consistent point-in-time copy of all records. The
// returned map is owned by the caller.
func (s *Store) Snapshot() map[string]model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.Job, len(s.jobs))
	for path, job := range s.jobs {
		out[path] = job
	}
	return out
}

// Clear atomically removes all records
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[string]model.Job)
}

// Sweep removes terminal records whose last transition predates cutoff and
// returns how many were removed. In-flight records are never swept.
func (s *Store) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for path, job := range s.jobs {
		if job.Status.Terminal() && job.Timestamp.Before(cutoff) {
			delete(s.jobs, path)
			removed++
		}
	}
	return removed
}

// Len returns the current number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
