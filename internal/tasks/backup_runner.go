// Package tasks provides background task runners for sprout.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/backup"
	"github.com/diogenes-ai-code/sprout/internal/logger"
)

// DefaultCheckInterval is how often a long-running process asks whether a
// snapshot is due.
const DefaultCheckInterval = time.Hour

// BackupRunResult is the outcome of one scheduled check.
type BackupRunResult struct {
	CheckedAt    time.Time        `json:"checked_at"`
	Snapshot     *backup.Snapshot `json:"snapshot,omitempty"`
	ErrorMessage string           `json:"error,omitempty"`
}

// BackupRunner takes snapshots while a long-running command such as
// `sprout serve` keeps the database open.
type BackupRunner struct {
	mgr      *backup.Manager
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	// onRun observes every check; tests use it to wait for ticks.
	onRun func(*BackupRunResult)
}

// NewBackupRunner creates a runner checking mgr every interval.
// A non-positive interval means DefaultCheckInterval.
func NewBackupRunner(mgr *backup.Manager, interval time.Duration, log *slog.Logger) *BackupRunner {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if log == nil {
		log = logger.NewNope()
	}
	return &BackupRunner{mgr: mgr, interval: interval, log: log, now: time.Now}
}

// RunOnce takes a snapshot if one is due.
func (r *BackupRunner) RunOnce(ctx context.Context) *BackupRunResult {
	result := &BackupRunResult{CheckedAt: r.now()}

	snap, err := r.mgr.BackupIfDue(ctx)
	switch {
	case err != nil:
		result.ErrorMessage = err.Error()
		r.log.WarnContext(ctx, "scheduled backup failed", slog.String("error", err.Error()))
	case snap != nil:
		result.Snapshot = snap
		r.log.InfoContext(ctx, "scheduled backup written", slog.String("path", snap.Path), slog.Int64("size", snap.Size))
	}

	if r.onRun != nil {
		r.onRun(result)
	}
	return result
}

// Run checks immediately and then on every tick until ctx is done.
func (r *BackupRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}
