package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.Settings()
	ctx := context.Background()

	// No user yet.
	name, err := repo.User(ctx)
	if err != nil {
		t.Fatalf("read empty user: %v", err)
	}
	if name != "" {
		t.Errorf("expected empty user, got %q", name)
	}

	if err := repo.SetUser(ctx, "pat"); err != nil {
		t.Fatalf("set user: %v", err)
	}
	name, err = repo.User(ctx)
	if err != nil {
		t.Fatalf("read user: %v", err)
	}
	if name != "pat" {
		t.Errorf("expected user 'pat', got %q", name)
	}

	// Overwrite, then clear.
	if err := repo.SetUser(ctx, "sam"); err != nil {
		t.Fatalf("overwrite user: %v", err)
	}
	name, _ = repo.User(ctx)
	if name != "sam" {
		t.Errorf("expected user 'sam' after overwrite, got %q", name)
	}

	if err := repo.ClearUser(ctx); err != nil {
		t.Fatalf("clear user: %v", err)
	}
	name, _ = repo.User(ctx)
	if name != "" {
		t.Errorf("expected empty user after clear, got %q", name)
	}
}

func TestSaveLogAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.SaveLog()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.Append(ctx, SaveRecord{
			Topic:     "Algebra",
			SkillName: "Linear Equations",
			Format:    i + 1,
			Type:      "MCQ",
			Grade:     4,
			Author:    "pat",
			SavedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append record %d: %v", i, err)
		}
	}

	recs, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Format != 3 || recs[1].Format != 2 {
		t.Errorf("expected newest first (formats 3, 2), got %d, %d", recs[0].Format, recs[1].Format)
	}
	if recs[0].ID == "" {
		t.Error("expected an assigned ID")
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	recs, err = repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent after clear: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty log after clear, got %d records", len(recs))
	}
}
