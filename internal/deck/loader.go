package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/maurya-sachin/prepdeck/internal/domain"
	"github.com/maurya-sachin/prepdeck/internal/parser"
)

// ErrUnknownDeck is returned when a deck id has no registry entry.
var ErrUnknownDeck = errors.New("unknown deck id")

// Loader resolves deck ids through a Registry and reads the backing
// markdown either from a local content root or from an HTTP base URL.
// Every Load re-reads and re-parses the file; there is no cache.
type Loader struct {
	registry *Registry
	root     string
	baseURL  string
	client   *http.Client
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBaseURL makes the loader fetch deck files over HTTP from the given
// base URL instead of the local content root.
func WithBaseURL(base string) LoaderOption {
	return func(l *Loader) { l.baseURL = base }
}

// WithHTTPClient overrides the HTTP client used for remote loads.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// NewLoader creates a loader serving decks from the given registry and
// local content root.
func NewLoader(registry *Registry, root string, opts ...LoaderOption) *Loader {
	l := &Loader{
		registry: registry,
		root:     root,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses the deck for the given id. The returned deck
// preserves document order. Context cancellation aborts remote fetches
// and is checked before local reads.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Deck, error) {
	entry, ok := l.registry.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("load deck %q: %w", id, ErrUnknownDeck)
	}

	var (
		cards []domain.FlashCard
		err   error
	)
	if l.baseURL != "" {
		cards, err = l.loadRemote(ctx, entry.Path)
	} else {
		cards, err = l.loadLocal(ctx, entry.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("load deck %q: %w", id, err)
	}

	return &domain.Deck{
		ID:    id,
		Title: entry.Title,
		Path:  entry.Path,
		Cards: cards,
	}, nil
}

func (l *Loader) loadLocal(ctx context.Context, relPath string) ([]domain.FlashCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parser.ParseFile(filepath.Join(l.root, filepath.FromSlash(relPath)))
}

func (l *Loader) loadRemote(ctx context.Context, relPath string) ([]domain.FlashCard, error) {
	u, err := url.JoinPath(l.baseURL, relPath)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}
	return parser.Parse(resp.Body)
}

// Exists reports whether the deck file for an id is present on disk.
// Only meaningful for local loaders; remote decks always report true.
func (l *Loader) Exists(id string) bool {
	entry, ok := l.registry.Lookup(id)
	if !ok {
		return false
	}
	if l.baseURL != "" {
		return true
	}
	_, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(entry.Path)))
	return err == nil
}
