package domain

import "math"

// FlashCard is a single question-answer entry parsed from a deck file.
type FlashCard struct {
	Question   string
	Answer     string
	Title      string
	Number     int
	Difficulty string
}

// Deck is a named, ordered collection of flashcards sourced from one
// markdown file. Card order follows document order and determines the
// study sequence.
type Deck struct {
	ID    string
	Title string
	Path  string
	Cards []FlashCard
}

// SessionStats tallies answers within a single study session.
// Counters reset at deck start and on restart, and are never decremented.
type SessionStats struct {
	Correct   int
	Incorrect int
}

// Total returns the number of cards answered so far.
func (s SessionStats) Total() int {
	return s.Correct + s.Incorrect
}

// Accuracy returns the share of correct answers as a rounded whole
// percentage. It is 0 when nothing has been answered yet.
func (s SessionStats) Accuracy() int {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(total) * 100))
}

// StudyProgress is the persisted long-term study record.
// TotalCards and MasteredCards only ever grow; Streak counts consecutive
// calendar days with at least one correct answer.
type StudyProgress struct {
	LastStudied   string `json:"last_studied"` // local date, yyyy-mm-dd
	TotalCards    int    `json:"total_cards"`
	MasteredCards int    `json:"mastered_cards"`
	Streak        int    `json:"streak"`
}

// Theme is the persisted UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored value back to a Theme, falling back to light
// for anything unrecognized.
func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}
