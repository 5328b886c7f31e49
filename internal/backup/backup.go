// Package backup writes periodic snapshots of the persisted documents to
// timestamped files. A snapshot failure is logged and skipped; backups
// must never take the service down.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"libretto/internal/kv"
	applog "libretto/internal/log"
)

// Scheduler runs cron-driven snapshots of every known store key.
type Scheduler struct {
	store  kv.Store
	dir    string
	cron   *cron.Cron
	logger *applog.Logger
}

// NewScheduler creates a scheduler writing snapshots under dir.
func NewScheduler(store kv.Store, dir string, logger *applog.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		dir:    dir,
		cron:   cron.New(),
		logger: logger.WithComponent(applog.ComponentBackup),
	}
}

// Start registers the snapshot job under the given cron schedule and
// begins running it.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Snapshot(ctx); err != nil {
			s.logger.Error("Backup snapshot failed", applog.FieldError, err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("register backup schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("Backup scheduler started", "schedule", schedule, applog.FieldBackupPath, s.dir)
	return nil
}

// Stop halts the cron runner and waits for a running snapshot to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Snapshot copies every known key to <dir>/<key>-<timestamp>.json.
// Missing keys are skipped; any other error aborts the snapshot.
func (s *Scheduler) Snapshot(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	for _, key := range kv.Keys() {
		raw, err := s.store.Get(ctx, key)
		if err != nil {
			if err == kv.ErrNotFound {
				continue
			}
			return fmt.Errorf("read %s: %w", key, err)
		}
		path := filepath.Join(s.dir, key+"-"+stamp+".json")
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		s.logger.InfoContext(ctx, "Snapshot written", applog.FieldKey, key, applog.FieldBackupPath, path)
	}
	return nil
}
