package store

import (
	"context"
	"path/filepath"
	"testing"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/models"
)

func tempStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "saham.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestVaultRoundTrip(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	entries := []models.AnalysisResult{
		{ID: "a", Ticker: "BBRI", Timestamp: 300, Summary: "newest"},
		{ID: "b", Ticker: "BBCA", Timestamp: 100, Summary: "oldest"},
	}
	if err := s.SaveVault(ctx, entries); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadVault(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("len = %d", len(loaded))
	}
	// Positional order is preserved, not timestamp order.
	if loaded[0].ID != "a" || loaded[1].ID != "b" {
		t.Errorf("order not preserved: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if loaded[1].Summary != "oldest" {
		t.Errorf("payload diverged: %+v", loaded[1])
	}
}

func TestSaveVaultReplacesPreviousState(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	if err := s.SaveVault(ctx, []models.AnalysisResult{
		{ID: "a", Ticker: "BBCA"},
		{ID: "b", Ticker: "BBCA"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveVault(ctx, []models.AnalysisResult{
		{ID: "c", Ticker: "ANTM"},
	}); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadVault(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != "c" {
		t.Errorf("stale vault rows survived: %+v", loaded)
	}
}

func TestLoadVaultEmpty(t *testing.T) {
	s := tempStore(t)

	loaded, err := s.LoadVault(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty vault, got %d", len(loaded))
	}
}

func TestDraftLifecycle(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	if _, err := s.LoadDraft(ctx); !apperrors.Is(err, apperrors.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}

	draft := &models.StockAnalysisInput{
		Ticker:          "GOTO",
		Price:           "64",
		RawIntelligence: "burn rate narrowing per last filing",
	}
	if err := s.SaveDraft(ctx, draft); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadDraft(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Ticker != "GOTO" || loaded.RawIntelligence != draft.RawIntelligence {
		t.Errorf("draft diverged: %+v", loaded)
	}

	// Saving again overwrites the single slot.
	draft.Price = "70"
	if err := s.SaveDraft(ctx, draft); err != nil {
		t.Fatal(err)
	}
	loaded, err = s.LoadDraft(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Price != "70" {
		t.Errorf("price = %s after overwrite", loaded.Price)
	}

	if err := s.ClearDraft(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadDraft(ctx); !apperrors.Is(err, apperrors.ErrDraftNotFound) {
		t.Fatalf("draft survived clear: %v", err)
	}
}
