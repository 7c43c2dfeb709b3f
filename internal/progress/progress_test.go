package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/maurya-sachin/prepdeck/internal/domain"
)

type memStore struct {
	progress domain.StudyProgress
	reviews  int
	loadErr  error
}

func (m *memStore) LoadProgress() (domain.StudyProgress, error) {
	if m.loadErr != nil {
		return domain.StudyProgress{}, m.loadErr
	}
	return m.progress, nil
}

func (m *memStore) SaveProgress(p domain.StudyProgress) error {
	m.progress = p
	return nil
}

func (m *memStore) AppendReview(deckID string, correct bool, at time.Time) error {
	m.reviews++
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 4, 5, 0, time.Local)
}

func TestNextStreak(t *testing.T) {
	now := date(2026, time.August, 25)

	testCases := []struct {
		name        string
		lastStudied string
		streak      int
		want        int
	}{
		{"first ever study", "", 0, 1},
		{"same day leaves streak unchanged", "2026-08-25", 4, 4},
		{"same day with inconsistent zero streak", "2026-08-25", 0, 1},
		{"yesterday extends streak", "2026-08-24", 4, 5},
		{"two day gap resets", "2026-08-23", 9, 1},
		{"three day gap resets", "2026-08-22", 9, 1},
		{"unparseable date resets", "not-a-date", 9, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := domain.StudyProgress{LastStudied: tc.lastStudied, Streak: tc.streak}
			if got := NextStreak(p, now); got != tc.want {
				t.Errorf("NextStreak(%q, streak=%d) = %d, want %d",
					tc.lastStudied, tc.streak, got, tc.want)
			}
		})
	}
}

func TestNextStreakAcrossMonthBoundary(t *testing.T) {
	p := domain.StudyProgress{LastStudied: "2026-07-31", Streak: 2}
	if got := NextStreak(p, date(2026, time.August, 1)); got != 3 {
		t.Errorf("expected streak 3 across the month boundary, got %d", got)
	}
}

func TestRecordAnswerCorrect(t *testing.T) {
	store := &memStore{}
	agg := New(store, nil)
	now := date(2026, time.August, 25)

	p := agg.RecordAnswer("javascript", true, now)
	if p.TotalCards != 1 || p.MasteredCards != 1 {
		t.Errorf("expected counters at 1/1, got %d/%d", p.TotalCards, p.MasteredCards)
	}
	if p.Streak != 1 {
		t.Errorf("expected streak 1 after first answer, got %d", p.Streak)
	}
	if p.LastStudied != "2026-08-25" {
		t.Errorf("expected LastStudied 2026-08-25, got %q", p.LastStudied)
	}
	if store.progress != p {
		t.Error("progress was not persisted")
	}
	if store.reviews != 1 {
		t.Errorf("expected 1 review log entry, got %d", store.reviews)
	}
}

func TestRecordAnswerIncorrectOnlyLogs(t *testing.T) {
	store := &memStore{progress: domain.StudyProgress{
		LastStudied: "2026-08-24", TotalCards: 5, MasteredCards: 5, Streak: 2,
	}}
	agg := New(store, nil)

	p := agg.RecordAnswer("css", false, date(2026, time.August, 25))
	if p.TotalCards != 5 || p.MasteredCards != 5 || p.Streak != 2 {
		t.Errorf("incorrect answer must not touch counters, got %+v", p)
	}
	if store.reviews != 1 {
		t.Errorf("expected the answer in the review log, got %d entries", store.reviews)
	}
}

func TestRecordAnswerMonotonic(t *testing.T) {
	store := &memStore{}
	agg := New(store, nil)
	now := date(2026, time.August, 25)

	prevTotal, prevMastered := 0, 0
	for i := 0; i < 10; i++ {
		p := agg.RecordAnswer("javascript", true, now)
		if p.TotalCards < prevTotal || p.MasteredCards < prevMastered {
			t.Fatalf("counters decreased at step %d: %+v", i, p)
		}
		prevTotal, prevMastered = p.TotalCards, p.MasteredCards
	}
	if prevTotal != 10 || prevMastered != 10 {
		t.Errorf("expected 10/10 after ten correct answers, got %d/%d", prevTotal, prevMastered)
	}
}

func TestSnapshotDefaultsOnLoadError(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk on fire")}
	agg := New(store, nil)

	if p := agg.Snapshot(); p != (domain.StudyProgress{}) {
		t.Errorf("expected zero-valued snapshot on load error, got %+v", p)
	}
}
