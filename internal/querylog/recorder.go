package querylog

import (
	"context"
	"log/slog"

	"helpdeskbot/internal/metrics"
)

// Search is one search to record.
type Search struct {
	Term      string
	UserID    string
	Utterance string
}

// Recorder runs query log writes off the response path.
// Failures are logged and counted, never returned.
type Recorder struct {
	svc *Service
	log *slog.Logger
}

// NewRecorder creates a Recorder around svc.
func NewRecorder(svc *Service, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{svc: svc, log: logger}
}

// Pending is an in-flight write. Wait blocks until the write was attempted.
type Pending struct {
	done chan struct{}
}

// Wait blocks until the write finished, successfully or not.
func (p *Pending) Wait() {
	if p == nil {
		return
	}
	<-p.done
}

// Record starts recording search asynchronously. The write is detached from
// ctx cancellation so a caller that goes away does not abort it.
func (r *Recorder) Record(ctx context.Context, search Search) *Pending {
	p := &Pending{done: make(chan struct{})}
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(p.done)
		if err := r.svc.RecordSearch(ctx, search.Term, search.UserID, search.Utterance); err != nil {
			metrics.QueryLogErrors.Inc()
			r.log.Error("failed to record search", "term", search.Term, "user_id", search.UserID, "error", err)
		}
	}()
	return p
}
