package deck

import "sort"

// Entry describes one deck: a display title and the markdown file path
// it is parsed from, relative to the content root.
type Entry struct {
	Title string
	Path  string
}

// Registry maps deck identifiers to their content files. Lookup order is
// deterministic so the deck picker renders stably.
type Registry struct {
	entries map[string]Entry
	ids     []string
}

// NewRegistry builds a registry from an id -> entry table.
func NewRegistry(entries map[string]Entry) *Registry {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for id, e := range entries {
		r.entries[id] = e
		r.ids = append(r.ids, id)
	}
	sort.Strings(r.ids)
	return r
}

// DefaultRegistry returns the built-in deck table matching the layout of
// the published content tree.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Entry{
		"javascript":    {Title: "JavaScript", Path: "19-flashcards/by-topic/javascript.md"},
		"typescript":    {Title: "TypeScript", Path: "19-flashcards/by-topic/typescript.md"},
		"react":         {Title: "React", Path: "19-flashcards/by-topic/react.md"},
		"css":           {Title: "CSS", Path: "19-flashcards/by-topic/css.md"},
		"html":          {Title: "HTML", Path: "19-flashcards/by-topic/html.md"},
		"browser":       {Title: "Browser Internals", Path: "19-flashcards/by-topic/browser.md"},
		"system-design": {Title: "Frontend System Design", Path: "19-flashcards/by-topic/system-design.md"},
	})
}

// Lookup returns the entry for a deck id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// IDs returns all deck ids in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}
