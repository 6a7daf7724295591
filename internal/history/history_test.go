package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-dinner-planner/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "history_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := database.NewDB(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.SQL)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	base := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)

	menus := []SavedMenu{
		{ClientID: "1.2.3.4", TimeToMake: "30 minutes", PriceRange: "budget", Restrictions: []string{"vegetarian", "nut-free"}, Model: "gemini-1.5-flash", MenuData: []byte(`[{"day":"Monday"}]`), CreatedAt: base},
		{ClientID: "1.2.3.4", TimeToMake: "15 minutes", PriceRange: "average", MenuData: []byte(`[{"day":"Tuesday"}]`), CreatedAt: base.Add(time.Hour)},
		{ClientID: "1.2.3.4", TimeToMake: "45-60 minutes", PriceRange: "gourmet", MenuData: []byte(`[{"day":"Wednesday"}]`), CreatedAt: base.Add(2 * time.Hour)},
		{ClientID: "5.6.7.8", TimeToMake: "30 minutes", PriceRange: "average", MenuData: []byte(`[{"day":"Thursday"}]`), CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, m := range menus {
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("Failed to save menu: %v", err)
		}
	}

	t.Run("ListRecentOrdersNewestFirst", func(t *testing.T) {
		got, err := repo.ListRecent(ctx, "1.2.3.4", 2)
		if err != nil {
			t.Fatalf("Failed to list recent menus: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 menus, got %d", len(got))
		}
		if got[0].PriceRange != "gourmet" {
			t.Errorf("Expected newest menu first, got price range '%s'", got[0].PriceRange)
		}
		if got[1].PriceRange != "average" {
			t.Errorf("Expected second newest menu, got price range '%s'", got[1].PriceRange)
		}
	})

	t.Run("RestrictionsRoundTrip", func(t *testing.T) {
		got, err := repo.ListRecent(ctx, "1.2.3.4", 10)
		if err != nil {
			t.Fatalf("Failed to list recent menus: %v", err)
		}
		oldest := got[len(got)-1]
		if len(oldest.Restrictions) != 2 {
			t.Fatalf("Expected 2 restrictions, got %d", len(oldest.Restrictions))
		}
		if oldest.Restrictions[0] != "vegetarian" || oldest.Restrictions[1] != "nut-free" {
			t.Errorf("Expected restrictions to round-trip, got %v", oldest.Restrictions)
		}
	})

	t.Run("ClientsAreIsolated", func(t *testing.T) {
		got, err := repo.ListRecent(ctx, "5.6.7.8", 10)
		if err != nil {
			t.Fatalf("Failed to list recent menus: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Expected 1 menu for the second client, got %d", len(got))
		}
		if string(got[0].MenuData) != `[{"day":"Thursday"}]` {
			t.Errorf("Expected menu data to round-trip, got '%s'", got[0].MenuData)
		}
	})

	t.Run("UnknownClientIsEmpty", func(t *testing.T) {
		got, err := repo.ListRecent(ctx, "9.9.9.9", 10)
		if err != nil {
			t.Fatalf("Failed to list recent menus: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no menus for an unknown client, got %d", len(got))
		}
	})
}
