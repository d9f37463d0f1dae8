package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fever-tracker/internal/domain/profiles"
)

func testProfile(id string, createdAt time.Time) profiles.Profile {
	return profiles.Profile{
		ID:        id,
		Name:      "Zosia",
		WeightKg:  12,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		History:   []profiles.Entry{},
	}
}

func TestRepo_CreateGetUpdateDelete(t *testing.T) {
	repo := NewProfilesRepo()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	p := testProfile("p-1", now)
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := repo.Create(ctx, p); err == nil {
		t.Fatalf("expected duplicate create to fail")
	}

	got, err := repo.GetByID(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "Zosia" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	got.Name = "Ania"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	got2, _ := repo.GetByID(ctx, "p-1")
	if got2.Name != "Ania" {
		t.Fatalf("update not persisted: %+v", got2)
	}

	if err := repo.Delete(ctx, "p-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := repo.GetByID(ctx, "p-1"); !errors.Is(err, profiles.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "p-1"); !errors.Is(err, profiles.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestRepo_UpdateMissing(t *testing.T) {
	repo := NewProfilesRepo()
	err := repo.Update(context.Background(), testProfile("ghost", time.Now()))
	if !errors.Is(err, profiles.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ListOrderedByCreation(t *testing.T) {
	repo := NewProfilesRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, testProfile("p-b", base.Add(time.Hour)))
	_ = repo.Create(ctx, testProfile("p-a", base))

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p-a" || got[1].ID != "p-b" {
		t.Fatalf("expected creation order, got %+v", got)
	}
}

func TestRepo_StoredStateIsIsolated(t *testing.T) {
	repo := NewProfilesRepo()
	ctx := context.Background()

	p := testProfile("p-1", time.Now())
	temp := 38.0
	p.History = []profiles.Entry{{ID: "e-1", Kind: profiles.EntryKindTemperature, Temperature: &temp}}
	_ = repo.Create(ctx, p)

	// Mutating the caller's slice must not leak into the store.
	p.History[0].ID = "tampered"

	got, _ := repo.GetByID(ctx, "p-1")
	if got.History[0].ID != "e-1" {
		t.Fatalf("store shares backing array with caller")
	}

	// Mutating a read result must not leak either.
	got.History[0].ID = "tampered"
	again, _ := repo.GetByID(ctx, "p-1")
	if again.History[0].ID != "e-1" {
		t.Fatalf("read result shares backing array with store")
	}
}

func TestRepo_ReplaceAll(t *testing.T) {
	repo := NewProfilesRepo()
	ctx := context.Background()

	_ = repo.Create(ctx, testProfile("old", time.Now()))

	if err := repo.ReplaceAll(ctx, []profiles.Profile{testProfile("new", time.Now())}); err != nil {
		t.Fatalf("ReplaceAll error: %v", err)
	}

	if _, err := repo.GetByID(ctx, "old"); !errors.Is(err, profiles.ErrNotFound) {
		t.Fatalf("expected old profile gone, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "new"); err != nil {
		t.Fatalf("expected new profile present, got %v", err)
	}
}
