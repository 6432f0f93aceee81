package notter

import (
	"log/slog"
	"time"

	"github.com/notterhq/notter/internal/platform"
	"github.com/notterhq/notter/pkg/core"
)

// --- Types ---

// Note is a public alias for the core note model.
type Note = core.Note

// Tag is a public alias for the core tag model.
type Tag = core.Tag

// NoteDraft carries user input for a new note.
type NoteDraft = core.NoteDraft

// NoteFields is a partial-update patch.
type NoteFields = core.NoteFields

// Engine is the synchronization engine owning the note collection.
type Engine = core.Engine

// ViewState is the presentation-side filter state.
type ViewState = core.ViewState

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = platform.Option

// WithLogger sets the logger for the engine and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRemote injects a custom remote store (e.g. a mock or an alternative backend).
func WithRemote(remote core.RemoteStore) Option {
	return platform.WithRemote(remote)
}

// WithRemoteCredentials points the default remote store at a Supabase project.
func WithRemoteCredentials(url, key string) Option {
	return platform.WithRemoteCredentials(url, key)
}

// WithLocalCache injects a custom durable cache.
func WithLocalCache(cache core.LocalCache) Option {
	return platform.WithLocalCache(cache)
}

// WithCachePath opens the default sqlite cache at path.
func WithCachePath(path string) Option {
	return platform.WithCachePath(path)
}

// WithDebounceWindow overrides the free-text edit debounce window.
func WithDebounceWindow(d time.Duration) Option {
	return platform.WithDebounceWindow(d)
}

// WithEventBuffer allows specifying the size of the event broker buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New creates a new synchronization Engine.
func New(opts ...Option) (*core.Engine, error) {
	return platform.New(opts...)
}

// --- Utils ---

// FindConfig recursively looks upwards for a notter.yaml file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}
