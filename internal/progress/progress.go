package progress

import (
	"log/slog"
	"time"

	"github.com/maurya-sachin/prepdeck/internal/domain"
)

// DateLayout is the stored form of StudyProgress.LastStudied.
const DateLayout = "2006-01-02"

// Store is the persistence surface the aggregator needs. *storage.DB
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	LoadProgress() (domain.StudyProgress, error)
	SaveProgress(domain.StudyProgress) error
	AppendReview(deckID string, correct bool, at time.Time) error
}

// Aggregator derives streak and mastery counters from the store and
// applies answer events to them.
type Aggregator struct {
	store  Store
	logger *slog.Logger
}

// New creates an aggregator over the given store.
func New(store Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, logger: logger}
}

// Snapshot returns the current study record. Read failures are treated
// as "no data" and reported as zero-valued progress.
func (a *Aggregator) Snapshot() domain.StudyProgress {
	p, err := a.store.LoadProgress()
	if err != nil {
		a.logger.Warn("failed to load study progress, using defaults", "error", err)
		return domain.StudyProgress{}
	}
	return p
}

// RecordAnswer applies one answered card. Every answer lands in the
// review log; a correct answer additionally bumps the lifetime counters
// and the daily streak and persists the record. Returns the record as it
// stands after the event.
func (a *Aggregator) RecordAnswer(deckID string, correct bool, now time.Time) domain.StudyProgress {
	if err := a.store.AppendReview(deckID, correct, now); err != nil {
		a.logger.Warn("failed to append review log entry", "deck", deckID, "error", err)
	}

	p := a.Snapshot()
	if !correct {
		return p
	}

	p.TotalCards++
	p.MasteredCards++
	p.Streak = NextStreak(p, now)
	p.LastStudied = now.Format(DateLayout)

	if err := a.store.SaveProgress(p); err != nil {
		a.logger.Warn("failed to save study progress", "error", err)
	}
	return p
}

// NextStreak computes the streak value after a correct answer at the
// given time. Days are local calendar days: answering again on the same
// day leaves the streak alone, answering the day after the last study
// extends it, and any gap (or a first-ever or unparseable record)
// restarts it at 1.
func NextStreak(p domain.StudyProgress, now time.Time) int {
	last, err := time.ParseInLocation(DateLayout, p.LastStudied, now.Location())
	if err != nil {
		return 1
	}

	today := now.Format(DateLayout)
	yesterday := last.AddDate(0, 0, 1).Format(DateLayout)

	switch {
	case p.LastStudied == today:
		if p.Streak < 1 {
			return 1
		}
		return p.Streak
	case yesterday == today:
		return p.Streak + 1
	default:
		return 1
	}
}
