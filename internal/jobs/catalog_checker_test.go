package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"helpdeskbot/internal/metrics"
	"helpdeskbot/internal/models"
	"helpdeskbot/internal/testutil"
)

type countingSource struct {
	calls   atomic.Int32
	entries []models.CatalogEntry
	err     error
}

func (s *countingSource) Load(ctx context.Context) ([]models.CatalogEntry, error) {
	s.calls.Add(1)
	return s.entries, s.err
}

func TestCatalogChecker_Check(t *testing.T) {
	ok := &countingSource{entries: testutil.FixtureCatalog()}
	if !NewCatalogChecker(ok, time.Minute, nil).check(context.Background()) {
		t.Fatal("check() = false, want true")
	}
	if got := promtestutil.ToFloat64(metrics.CatalogUp); got != 1 {
		t.Errorf("catalog up = %v, want 1", got)
	}
	if got := promtestutil.ToFloat64(metrics.CatalogEntries); got != 3 {
		t.Errorf("catalog entries = %v, want 3", got)
	}

	broken := &countingSource{err: errors.New("unreadable")}
	if NewCatalogChecker(broken, time.Minute, nil).check(context.Background()) {
		t.Fatal("check() = true, want false")
	}
	if got := promtestutil.ToFloat64(metrics.CatalogUp); got != 0 {
		t.Errorf("catalog up = %v, want 0", got)
	}
	if got := promtestutil.ToFloat64(metrics.CatalogEntries); got != 3 {
		t.Errorf("catalog entries = %v, want last known 3", got)
	}
}

func TestCatalogChecker_StartStops(t *testing.T) {
	src := &countingSource{entries: testutil.FixtureCatalog()}
	checker := NewCatalogChecker(src, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		checker.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for src.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d checks ran", src.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
