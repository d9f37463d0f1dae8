package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fever-tracker/internal/adapters/storage/memory"
	"fever-tracker/internal/domain/profiles"
	"fever-tracker/internal/platform/logger"
)

func TestBackup_WritesFullExport(t *testing.T) {
	svc := profiles.NewService(memory.NewProfilesRepo())
	p, err := svc.Create(context.Background(), profiles.CreateInput{Name: "Zosia", WeightKg: 12})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "backup.json")
	s := New(svc, path, time.Hour, logger.New(logger.Options{Level: logger.Error}))

	if err := s.backup(); err != nil {
		t.Fatalf("backup error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var export profiles.Export
	if err := json.Unmarshal(raw, &export); err != nil {
		t.Fatalf("backup not valid JSON: %v", err)
	}
	if export.Version != profiles.ExportVersion {
		t.Fatalf("expected export version %q, got %q", profiles.ExportVersion, export.Version)
	}
	if len(export.Profiles) != 1 || export.Profiles[0].ID != p.ID {
		t.Fatalf("unexpected backup contents: %+v", export.Profiles)
	}
}

func TestBackup_OverwritesAtomically(t *testing.T) {
	svc := profiles.NewService(memory.NewProfilesRepo())
	path := filepath.Join(t.TempDir(), "backup.json")
	s := New(svc, path, time.Hour, logger.New(logger.Options{Level: logger.Error}))

	if err := s.backup(); err != nil {
		t.Fatalf("backup #1 error: %v", err)
	}
	if _, err := svc.Create(context.Background(), profiles.CreateInput{Name: "Zosia", WeightKg: 12}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := s.backup(); err != nil {
		t.Fatalf("backup #2 error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var export profiles.Export
	if err := json.Unmarshal(raw, &export); err != nil {
		t.Fatalf("backup not valid JSON: %v", err)
	}
	if len(export.Profiles) != 1 {
		t.Fatalf("expected second backup to replace the first, got %d profiles", len(export.Profiles))
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected only the backup file in the directory, got %d entries", len(entries))
	}
}

func TestStart_DisabledWithoutPath(t *testing.T) {
	svc := profiles.NewService(memory.NewProfilesRepo())
	s := New(svc, "", time.Hour, logger.New(logger.Options{Level: logger.Error}))

	if err := s.Start(); err != nil {
		t.Fatalf("Start with empty path must be a no-op, got %v", err)
	}
	s.Stop()
}
