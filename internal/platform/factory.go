// Package platform wires the engine to its default adapters: the PostgREST
// remote store, the sqlite cache and the connectivity probe.
package platform

import (
	"errors"
	"log/slog"

	"github.com/notterhq/notter/pkg/adapters/postgrest"
	"github.com/notterhq/notter/pkg/adapters/sqlite"
	"github.com/notterhq/notter/pkg/core"
)

// New assembles an Engine from options. A remote store is required, either
// injected directly or through credentials for the default backend.
func New(opts ...Option) (*core.Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	remote := o.remote
	if remote == nil {
		if o.remoteURL == "" {
			return nil, errors.New("platform: no remote store configured")
		}
		store, err := postgrest.New(o.remoteURL, o.remoteKey, logger)
		if err != nil {
			return nil, err
		}
		remote = store
	}

	cache := o.cache
	if cache == nil && o.cachePath != "" {
		c, err := sqlite.Open(o.cachePath, logger)
		if err != nil {
			// The cache is an availability aid, not a correctness
			// requirement; run without it rather than fail startup.
			logger.Warn("local cache unavailable, continuing without it", "path", o.cachePath, "error", err)
		} else {
			cache = c
		}
	}

	return core.NewEngine(core.Config{
		Remote:         remote,
		Cache:          cache,
		Logger:         logger,
		DebounceWindow: o.debounce,
		EventBuffer:    o.buffer,
		Clock:          o.clock,
	}), nil
}
