package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/maurya-sachin/prepdeck/internal/deck"
	"github.com/maurya-sachin/prepdeck/internal/domain"
	"github.com/maurya-sachin/prepdeck/internal/progress"
	"github.com/maurya-sachin/prepdeck/internal/session"
	"github.com/maurya-sachin/prepdeck/internal/storage"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// loadTimeout bounds a single deck fetch+parse.
const loadTimeout = 10 * time.Second

// Server holds the dependencies for the HTTP server.
type Server struct {
	db           *storage.DB
	registry     *deck.Registry
	loader       *deck.Loader
	progress     *progress.Aggregator
	session      *session.Controller
	router       *http.ServeMux
	templates    *template.Template
	logger       *slog.Logger
	advanceDelay time.Duration
}

// NewServer creates and configures a new server. The card-advance pause
// is rendered client-side, so the session controller advances
// immediately.
func NewServer(db *storage.DB, registry *deck.Registry, loader *deck.Loader, advanceDelay time.Duration, logger *slog.Logger) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	agg := progress.New(db, logger)
	s := &Server{
		db:           db,
		registry:     registry,
		loader:       loader,
		progress:     agg,
		session:      session.New(loader, agg, session.WithAdvanceDelay(0), session.WithLogger(logger)),
		router:       http.NewServeMux(),
		templates:    tpl,
		logger:       logger,
		advanceDelay: advanceDelay,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create sub-filesystem for static assets: %v", err)
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("GET /stats", s.handleStatsPage)
	s.router.HandleFunc("POST /theme", s.handleToggleTheme)

	// HTMX session routes; each responds with the partial for the
	// session's next view.
	s.router.HandleFunc("POST /study", s.handleStartSession)
	s.router.HandleFunc("POST /flip", s.handleFlip)
	s.router.HandleFunc("POST /answer", s.handleAnswer)
	s.router.HandleFunc("POST /restart", s.handleRestart)
	s.router.HandleFunc("POST /exit", s.handleExit)

	// JSON API for local tooling.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{http.MethodGet},
	})
	s.router.Handle("GET /api/stats", c.Handler(http.HandlerFunc(s.handleAPIStats)))
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
	}
}

type deckItem struct {
	ID        string
	Title     string
	Available bool
}

func (s *Server) deckItems() []deckItem {
	var items []deckItem
	for _, id := range s.registry.IDs() {
		entry, _ := s.registry.Lookup(id)
		items = append(items, deckItem{
			ID:        id,
			Title:     entry.Title,
			Available: s.loader.Exists(id),
		})
	}
	return items
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.session.Exit() // navigating home abandons any session in flight
	s.render(w, "index", map[string]any{
		"Theme":    s.db.Theme(),
		"Progress": s.progress.Snapshot(),
		"Decks":    s.deckItems(),
	})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	deckID := r.PostFormValue("deck")
	if deckID == "" {
		http.Error(w, "deck is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), loadTimeout)
	defer cancel()
	s.session.Select(ctx, deckID)

	s.renderSessionView(w)
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Flip(); err != nil {
		s.logger.Warn("flip rejected", "error", err)
	}
	s.renderSessionView(w)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	correct := r.PostFormValue("result") == "correct"
	if err := s.session.Answer(correct); err != nil {
		s.logger.Warn("answer rejected", "error", err)
	}
	s.renderSessionView(w)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Restart(); err != nil {
		s.logger.Warn("restart rejected", "error", err)
	}
	s.renderSessionView(w)
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	s.session.Exit()
	s.render(w, "deck_picker", map[string]any{
		"Decks": s.deckItems(),
	})
}

// renderSessionView picks the partial matching the session state.
func (s *Server) renderSessionView(w http.ResponseWriter) {
	switch s.session.State() {
	case session.StateStudying:
		card, ok := s.session.Card()
		if !ok {
			break
		}
		d := s.session.Deck()
		data := map[string]any{
			"Deck":         d,
			"Card":         card,
			"Position":     s.session.Index() + 1,
			"Total":        len(d.Cards),
			"Flipped":      s.session.Flipped(),
			"AdvanceDelay": s.advanceDelay.Milliseconds(),
		}
		if s.session.Flipped() {
			s.render(w, "card_back", data)
		} else {
			s.render(w, "card_front", data)
		}
		return
	case session.StateComplete:
		stats := s.session.Stats()
		d := s.session.Deck()
		title := ""
		if d != nil {
			title = d.Title
		}
		s.render(w, "summary", map[string]any{
			"DeckTitle":  title,
			"Stats":      stats,
			"Empty":      d == nil || len(d.Cards) == 0,
			"CanRestart": s.session.CanRestart(),
		})
		return
	}

	s.render(w, "deck_picker", map[string]any{
		"Decks": s.deckItems(),
	})
}

func (s *Server) handleStatsPage(w http.ResponseWriter, r *http.Request) {
	totals, err := s.db.ReviewTotals()
	if err != nil {
		s.logger.Error("failed to load review totals", "error", err)
	}
	s.render(w, "stats", map[string]any{
		"Theme":    s.db.Theme(),
		"Progress": s.progress.Snapshot(),
		"Totals":   totals,
	})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	next := domain.ThemeDark
	if s.db.Theme() == domain.ThemeDark {
		next = domain.ThemeLight
	}
	if err := s.db.SaveTheme(next); err != nil {
		s.logger.Warn("failed to save theme", "error", err)
	}

	redirect := r.Header.Get("Referer")
	if redirect == "" {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

type apiStats struct {
	Progress domain.StudyProgress `json:"progress"`
	Decks    []storage.DeckTotals `json:"decks"`
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.db.ReviewTotals()
	if err != nil {
		s.logger.Error("failed to load review totals", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(apiStats{
		Progress: s.progress.Snapshot(),
		Decks:    totals,
	}); err != nil {
		s.logger.Error("failed to encode stats", "error", err)
	}
}
