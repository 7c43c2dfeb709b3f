package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/maurya-sachin/prepdeck/internal/domain"
)

// State is the phase the study session is in.
type State int

const (
	StateNoDeck State = iota
	StateLoading
	StateStudying
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateNoDeck:
		return "no-deck"
	case StateLoading:
		return "loading"
	case StateStudying:
		return "studying"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

var (
	// ErrNotStudying is returned for card actions outside an active deck.
	ErrNotStudying = errors.New("no card is being studied")
	// ErrNotFlipped is returned when answering a card that is still face up.
	ErrNotFlipped = errors.New("card has not been flipped")
	// ErrAlreadyAnswered is returned when the current card was already graded.
	ErrAlreadyAnswered = errors.New("card already answered")
	// ErrNothingToRestart is returned when restarting outside the summary
	// screen or after an empty deck.
	ErrNothingToRestart = errors.New("nothing to restart")
)

// Loader fetches a deck by id. *deck.Loader satisfies it.
type Loader interface {
	Load(ctx context.Context, id string) (*domain.Deck, error)
}

// Tracker persists long-term progress for answered cards.
// *progress.Aggregator satisfies it.
type Tracker interface {
	RecordAnswer(deckID string, correct bool, now time.Time) domain.StudyProgress
}

// Controller drives one study session through
// NoDeck -> Loading -> Studying -> Complete. It is safe for use from
// concurrent handlers; card advancement after an answer happens after a
// configurable delay on a timer that Exit and Close cancel.
type Controller struct {
	loader       Loader
	tracker      Tracker
	logger       *slog.Logger
	clock        func() time.Time
	advanceDelay time.Duration
	id           string

	mu       sync.Mutex
	state    State
	deck     *domain.Deck
	index    int
	flipped  bool
	answered bool
	stats    domain.SessionStats
	timer    *time.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithAdvanceDelay sets the pause between grading a card and showing the
// next one. Zero advances immediately.
func WithAdvanceDelay(d time.Duration) Option {
	return func(c *Controller) { c.advanceDelay = d }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

// New creates a session controller in the NoDeck state.
func New(loader Loader, tracker Tracker, opts ...Option) *Controller {
	c := &Controller{
		loader:       loader,
		tracker:      tracker,
		logger:       slog.Default(),
		clock:        time.Now,
		advanceDelay: 300 * time.Millisecond,
		state:        StateNoDeck,
	}
	for _, opt := range opts {
		opt(c)
	}
	id, err := gonanoid.New()
	if err != nil {
		id = "session"
	}
	c.id = id
	return c
}

// ID returns the session's correlation id.
func (c *Controller) ID() string { return c.id }

// Select loads the named deck and starts studying it. A load failure or
// an empty deck is not an error to the caller: the session degrades to
// the Complete state with zero stats, which the UI presents as
// "No Cards Found".
func (c *Controller) Select(ctx context.Context, deckID string) {
	c.mu.Lock()
	c.stopTimerLocked()
	c.state = StateLoading
	c.deck = nil
	c.reset()
	c.mu.Unlock()

	d, err := c.loader.Load(ctx, deckID)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The user may have exited while the load was in flight; if so the
	// result is stale and gets dropped.
	if c.state != StateLoading {
		return
	}

	if err != nil {
		c.logger.Error("deck load failed", "session", c.id, "deck", deckID, "error", err)
		c.deck = &domain.Deck{ID: deckID}
		c.state = StateComplete
		return
	}
	if len(d.Cards) == 0 {
		c.logger.Warn("deck has no cards", "session", c.id, "deck", deckID)
		c.deck = d
		c.state = StateComplete
		return
	}

	c.logger.Info("session started", "session", c.id, "deck", deckID, "cards", len(d.Cards))
	c.deck = d
	c.state = StateStudying
}

// Flip toggles the current card between question and answer.
func (c *Controller) Flip() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStudying || c.answered {
		return ErrNotStudying
	}
	c.flipped = !c.flipped
	return nil
}

// Answer grades the flipped card. Exactly one stat counter is bumped per
// card; correct answers also feed the long-term progress record. The
// next card appears after the advance delay.
func (c *Controller) Answer(correct bool) error {
	c.mu.Lock()

	if c.state != StateStudying {
		c.mu.Unlock()
		return ErrNotStudying
	}
	if !c.flipped {
		c.mu.Unlock()
		return ErrNotFlipped
	}
	if c.answered {
		c.mu.Unlock()
		return ErrAlreadyAnswered
	}

	c.answered = true
	if correct {
		c.stats.Correct++
	} else {
		c.stats.Incorrect++
	}
	deckID := c.deck.ID

	if c.advanceDelay > 0 {
		c.timer = time.AfterFunc(c.advanceDelay, c.advance)
		c.mu.Unlock()
	} else {
		c.advanceLocked()
		c.mu.Unlock()
	}

	c.tracker.RecordAnswer(deckID, correct, c.clock())
	return nil
}

func (c *Controller) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
}

func (c *Controller) advanceLocked() {
	if c.state != StateStudying || !c.answered {
		return
	}
	c.index++
	c.flipped = false
	c.answered = false
	if c.index >= len(c.deck.Cards) {
		c.logger.Info("session complete",
			"session", c.id,
			"deck", c.deck.ID,
			"correct", c.stats.Correct,
			"incorrect", c.stats.Incorrect,
		)
		c.state = StateComplete
	}
}

// Restart replays the already-loaded deck from the first card with fresh
// stats. No re-fetch happens. Restarting an empty deck is an error.
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComplete || c.deck == nil || len(c.deck.Cards) == 0 {
		return ErrNothingToRestart
	}
	c.reset()
	c.state = StateStudying
	return nil
}

// Exit abandons the session and returns to deck selection, discarding
// the deck, stats and any pending card advance.
func (c *Controller) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.state = StateNoDeck
	c.deck = nil
	c.reset()
}

// Close releases the controller's timer. The controller is unusable
// afterwards except for Exit/Close.
func (c *Controller) Close() {
	c.Exit()
}

func (c *Controller) reset() {
	c.index = 0
	c.flipped = false
	c.answered = false
	c.stats = domain.SessionStats{}
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// State returns the current session phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Deck returns the active deck, or nil outside a session.
func (c *Controller) Deck() *domain.Deck {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck
}

// Card returns the card currently being studied.
func (c *Controller) Card() (domain.FlashCard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStudying || c.index >= len(c.deck.Cards) {
		return domain.FlashCard{}, false
	}
	return c.deck.Cards[c.index], true
}

// Index returns the zero-based position of the current card.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Flipped reports whether the current card shows its answer side.
func (c *Controller) Flipped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flipped
}

// Stats returns the session tally so far.
func (c *Controller) Stats() domain.SessionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// CanRestart reports whether the summary screen should offer a restart.
func (c *Controller) CanRestart() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateComplete && c.deck != nil && len(c.deck.Cards) > 0
}
