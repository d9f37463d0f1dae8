// Package scheduler runs the periodic backup job: a full-store JSON export
// written to disk so a broken browser-side store is never the only copy.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"

	"fever-tracker/internal/domain/profiles"
	"fever-tracker/internal/metrics"
	"fever-tracker/internal/platform/logger"
)

type Scheduler struct {
	profilesSvc *profiles.Service
	scheduler   *gocron.Scheduler
	log         logger.Logger

	path     string
	interval time.Duration
}

func New(profilesSvc *profiles.Service, path string, interval time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{
		profilesSvc: profilesSvc,
		scheduler:   gocron.NewScheduler(time.Local),
		log:         log,
		path:        path,
		interval:    interval,
	}
}

// Start schedules the backup job. A failing backup is logged and retried on
// the next tick; it never takes the service down.
func (s *Scheduler) Start() error {
	if s.path == "" {
		return nil // backups disabled
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		if err := s.backup(); err != nil {
			metrics.BackupRunsTotal.WithLabelValues("error").Inc()
			s.log.Error("backup failed", map[string]any{"error": err.Error(), "path": s.path})
			return
		}
		metrics.BackupRunsTotal.WithLabelValues("ok").Inc()
		s.log.Info("backup written", map[string]any{"path": s.path})
	})
	if err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// backup writes the export to a temp file and renames it into place so a
// crash mid-write never truncates the previous backup.
func (s *Scheduler) backup() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	export, err := s.profilesSvc.ExportAll(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	raw, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".backup-*.json")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
