package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/maurya-sachin/prepdeck/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

const themeKey = "theme"

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadProgress returns the stored study record. A missing or unreadable
// row is reported as zero-valued progress, never as an error the caller
// has to branch on for the first-run case.
func (db *DB) LoadProgress() (domain.StudyProgress, error) {
	var p domain.StudyProgress
	row := db.conn.QueryRow(`
		SELECT last_studied, total_cards, mastered_cards, streak
		FROM progress WHERE id = 1
	`)
	err := row.Scan(&p.LastStudied, &p.TotalCards, &p.MasteredCards, &p.Streak)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.StudyProgress{}, nil
		}
		return domain.StudyProgress{}, fmt.Errorf("failed to load progress: %w", err)
	}
	return p, nil
}

// SaveProgress overwrites the stored study record. Last writer wins;
// there are no merge semantics.
func (db *DB) SaveProgress(p domain.StudyProgress) error {
	_, err := db.conn.Exec(`
		INSERT INTO progress (id, last_studied, total_cards, mastered_cards, streak)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_studied = excluded.last_studied,
			total_cards = excluded.total_cards,
			mastered_cards = excluded.mastered_cards,
			streak = excluded.streak
	`, p.LastStudied, p.TotalCards, p.MasteredCards, p.Streak)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Theme returns the stored theme preference, defaulting to light when
// nothing valid is stored.
func (db *DB) Theme() domain.Theme {
	var value string
	row := db.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, themeKey)
	if err := row.Scan(&value); err != nil {
		return domain.ThemeLight
	}
	return domain.ParseTheme(value)
}

// SaveTheme stores the theme preference.
func (db *DB) SaveTheme(theme domain.Theme) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, themeKey, string(theme))
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// AppendReview records one answered card in the review log.
func (db *DB) AppendReview(deckID string, correct bool, at time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO review_log (deck_id, correct, reviewed_at)
		VALUES (?, ?, ?)
	`, deckID, correct, at)
	if err != nil {
		return fmt.Errorf("failed to append review for deck %s: %w", deckID, err)
	}
	return nil
}

// DeckTotals summarizes the review log for one deck.
type DeckTotals struct {
	DeckID  string `json:"deck_id"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// ReviewTotals aggregates the review log per deck, ordered by deck id.
func (db *DB) ReviewTotals() ([]DeckTotals, error) {
	rows, err := db.conn.Query(`
		SELECT deck_id, SUM(correct), COUNT(*)
		FROM review_log
		GROUP BY deck_id
		ORDER BY deck_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate review log: %w", err)
	}
	defer rows.Close()

	var totals []DeckTotals
	for rows.Next() {
		var t DeckTotals
		if err := rows.Scan(&t.DeckID, &t.Correct, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan review totals row: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
