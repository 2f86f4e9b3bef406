package service

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dvalim/papermill/internal/convert"
	"github.com/dvalim/papermill/internal/model"
	"github.com/dvalim/papermill/internal/pattern"
	"github.com/dvalim/papermill/internal/store"
	"github.com/dvalim/papermill/internal/worker"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestCoordinator(t *testing.T, conv convert.Converter) (*Coordinator, *store.Store, *worker.Pool) {
	t.Helper()
	st := store.NewStore()
	pool := worker.NewPool(2, 64, time.Second, st, conv)
	pool.Start()
	exp := pattern.NewExpander([]string{"pdf", "docx", "pptx", "txt", "md"})
	return NewCoordinator(exp, st, pool), st, pool
}

func instantConverter() convert.Converter {
	return convert.Func(func(ctx context.Context, path string) (string, error) {
		return convert.OutputPath(path), nil
	})
}

func TestSubmitDeduplicatesAndQueues(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.docx")
	writeFile(t, a)
	writeFile(t, b)

	c, st, pool := newTestCoordinator(t, instantConverter())

	result := c.Submit([]string{a, a, b})
	if result.Queued != 2 {
		t.Fatalf("queued = %d, want 2", result.Queued)
	}
	if !reflect.DeepEqual(result.Files, []string{a, b}) {
		t.Fatalf("files = %v, want [%s %s]", result.Files, a, b)
	}

	pool.Stop()

	snap := st.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d records, want 2", len(snap))
	}
	for path, job := range snap {
		if !job.Status.Terminal() {
			t.Fatalf("%s status = %s, want terminal after drain", path, job.Status)
		}
	}
}

func TestSubmitUnmatchedPattern(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing", "*.pdf")

	c, _, pool := newTestCoordinator(t, instantConverter())
	defer pool.Stop()

	result := c.Submit([]string{missing})
	if result.Queued != 0 {
		t.Fatalf("queued = %d, want 0", result.Queued)
	}
	if !reflect.DeepEqual(result.Unmatched, []string{missing}) {
		t.Fatalf("unmatched = %v, want [%s]", result.Unmatched, missing)
	}
}

func TestSubmitSkipsInFlightJobs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	writeFile(t, a)

	release := make(chan struct{})
	conv := convert.Func(func(ctx context.Context, path string) (string, error) {
		<-release
		return convert.OutputPath(path), nil
	})

	c, _, pool := newTestCoordinator(t, conv)

	first := c.Submit([]string{a})
	if first.Queued != 1 {
		t.Fatalf("first queued = %d, want 1", first.Queued)
	}

	// While the job is still Queued or Processing, a re-submission is a no-op.
	second := c.Submit([]string{a})
	if second.Queued != 0 {
		t.Fatalf("second queued = %d, want 0 while in flight", second.Queued)
	}

	close(release)
	pool.Stop()
}

func TestSubmitRequeuesAfterTerminal(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	writeFile(t, a)

	c, st, pool := newTestCoordinator(t, instantConverter())
	defer pool.Stop()

	c.Submit([]string{a})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st.Snapshot()[a].Status.Terminal() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !st.Snapshot()[a].Status.Terminal() {
		t.Fatal("first conversion never reached a terminal state")
	}

	result := c.Submit([]string{a})
	if result.Queued != 1 {
		t.Fatalf("re-submission queued = %d, want 1", result.Queued)
	}
}

func TestSubmitAfterPoolStoppedMarksError(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	writeFile(t, a)

	c, st, pool := newTestCoordinator(t, instantConverter())
	pool.Stop()

	result := c.Submit([]string{a})
	if result.Queued != 0 {
		t.Fatalf("queued = %d, want 0 after pool stop", result.Queued)
	}
	if st.Snapshot()[a].Status != model.StatusError {
		t.Fatalf("status = %s, want %s for unenqueueable job", st.Snapshot()[a].Status, model.StatusError)
	}
}

func TestClearEmptiesStatus(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	writeFile(t, a)

	c, _, pool := newTestCoordinator(t, instantConverter())
	c.Submit([]string{a})
	pool.Stop()

	c.Clear()
	if len(c.Status()) != 0 {
		t.Fatal("status should be empty after Clear")
	}
}
