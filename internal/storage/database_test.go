package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/maurya-sachin/prepdeck/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadProgressDefaults(t *testing.T) {
	db := openTestDB(t)

	p, err := db.LoadProgress()
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	want := domain.StudyProgress{}
	if p != want {
		t.Errorf("expected zero progress on first run, got %+v", p)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	db := openTestDB(t)

	in := domain.StudyProgress{
		LastStudied:   "2026-08-25",
		TotalCards:    42,
		MasteredCards: 40,
		Streak:        7,
	}
	if err := db.SaveProgress(in); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	out, err := db.LoadProgress()
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if out != in {
		t.Errorf("progress round trip mismatch: got %+v, want %+v", out, in)
	}

	// Overwrite semantics: a second save replaces the record wholesale.
	in.TotalCards = 43
	in.MasteredCards = 41
	if err := db.SaveProgress(in); err != nil {
		t.Fatalf("SaveProgress (second): %v", err)
	}
	out, err = db.LoadProgress()
	if err != nil {
		t.Fatalf("LoadProgress (second): %v", err)
	}
	if out != in {
		t.Errorf("second save not visible: got %+v, want %+v", out, in)
	}
}

func TestThemePersistence(t *testing.T) {
	db := openTestDB(t)

	if got := db.Theme(); got != domain.ThemeLight {
		t.Errorf("expected light theme by default, got %q", got)
	}
	if err := db.SaveTheme(domain.ThemeDark); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if got := db.Theme(); got != domain.ThemeDark {
		t.Errorf("expected dark theme after save, got %q", got)
	}
	if err := db.SaveTheme(domain.ThemeLight); err != nil {
		t.Fatalf("SaveTheme (second): %v", err)
	}
	if got := db.Theme(); got != domain.ThemeLight {
		t.Errorf("expected light theme after second save, got %q", got)
	}
}

func TestReviewTotals(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	for _, r := range []struct {
		deck    string
		correct bool
	}{
		{"javascript", true},
		{"javascript", true},
		{"javascript", false},
		{"css", true},
	} {
		if err := db.AppendReview(r.deck, r.correct, now); err != nil {
			t.Fatalf("AppendReview: %v", err)
		}
	}

	totals, err := db.ReviewTotals()
	if err != nil {
		t.Fatalf("ReviewTotals: %v", err)
	}
	want := []DeckTotals{
		{DeckID: "css", Correct: 1, Total: 1},
		{DeckID: "javascript", Correct: 2, Total: 3},
	}
	if len(totals) != len(want) {
		t.Fatalf("expected %d rows, got %d: %+v", len(want), len(totals), totals)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, totals[i], want[i])
		}
	}
}
