package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/maurya-sachin/prepdeck/internal/deck"
)

const envPrefix = "PREPDECK_"

// DeckEntry is one configured deck: a display title and the markdown
// path it is loaded from, relative to the content root.
type DeckEntry struct {
	Title string `koanf:"title"`
	Path  string `koanf:"path" validate:"required"`
}

// Config is the resolved application configuration. Values are layered:
// flag defaults, then the YAML config file, then PREPDECK_* environment
// variables, then explicitly set flags.
type Config struct {
	ListenAddr     string               `koanf:"listen_addr" validate:"required,hostname_port"`
	DBPath         string               `koanf:"db_path" validate:"required"`
	ContentRoot    string               `koanf:"content_root" validate:"required"`
	ContentGit     string               `koanf:"content_git"`
	OutputDir      string               `koanf:"output_dir" validate:"required"`
	ContentDirs    []string             `koanf:"content_dirs" validate:"min=1,dive,required"`
	AdvanceDelayMS int                  `koanf:"advance_delay_ms" validate:"gte=0"`
	LogLevel       string               `koanf:"log_level" validate:"oneof=debug info warn error"`
	Decks          map[string]DeckEntry `koanf:"decks" validate:"dive"`
}

// Flags returns the pflag set whose defaults seed the configuration.
func Flags(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ExitOnError)
	f.String("config", "prepdeck.yaml", "Path to the YAML config file")
	f.String("listen_addr", "localhost:8484", "Address the web UI listens on")
	f.String("db_path", "prepdeck.db", "Path to the SQLite database file")
	f.String("content_root", "content", "Directory holding the markdown content tree")
	f.String("content_git", "", "Optional git URL to sync the content tree from")
	f.String("output_dir", "dist", "Directory the publish command copies markdown into")
	f.StringSlice("content_dirs", []string{"19-flashcards", "10-coding-challenges", "15-tooling"},
		"Content folders included when publishing")
	f.Int("advance_delay_ms", 300, "Pause in milliseconds before the next card appears")
	f.String("log_level", "info", "Log level (debug, info, warn, error)")
	return f
}

// Load resolves the configuration from the given parsed flag set.
func Load(f *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	cfgPath, _ := f.GetString("config")
	if _, err := os.Stat(cfgPath); err == nil {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", cfgPath, err)
		}
	} else if f.Changed("config") {
		// An explicitly named config file must exist.
		return Config{}, fmt.Errorf("config file %s: %w", cfgPath, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	// Explicitly set flags win; unset flags only fill missing keys.
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("reading flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Registry builds the deck registry: the configured deck table when one
// is present, the built-in table otherwise.
func (c Config) Registry() *deck.Registry {
	if len(c.Decks) == 0 {
		return deck.DefaultRegistry()
	}
	entries := make(map[string]deck.Entry, len(c.Decks))
	for id, e := range c.Decks {
		title := e.Title
		if title == "" {
			title = id
		}
		entries[id] = deck.Entry{Title: title, Path: e.Path}
	}
	return deck.NewRegistry(entries)
}
