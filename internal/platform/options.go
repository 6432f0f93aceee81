package platform

import (
	"log/slog"
	"time"

	"github.com/notterhq/notter/pkg/core"
)

// options holds the internal configuration assembled by New.
type options struct {
	remote    core.RemoteStore
	cache     core.LocalCache
	logger    *slog.Logger
	remoteURL string
	remoteKey string
	cachePath string
	debounce  time.Duration
	buffer    int
	clock     func() time.Time
	probe     time.Duration
}

// Option defines a functional option for configuring the engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		probe: 30 * time.Second,
	}
}

// WithLogger sets the logger for the engine and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRemote injects a custom remote store (e.g. a mock or an alternative
// backend). If provided, remote credentials are ignored.
func WithRemote(remote core.RemoteStore) Option {
	return func(o *options) {
		o.remote = remote
	}
}

// WithRemoteCredentials points the default PostgREST remote store at a
// Supabase project.
func WithRemoteCredentials(url, key string) Option {
	return func(o *options) {
		o.remoteURL = url
		o.remoteKey = key
	}
}

// WithLocalCache injects a custom durable cache. If provided, the cache
// path is ignored.
func WithLocalCache(cache core.LocalCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithCachePath opens the default sqlite cache at path. An empty path
// disables durable caching entirely.
func WithCachePath(path string) Option {
	return func(o *options) {
		o.cachePath = path
	}
}

// WithDebounceWindow overrides the free-text edit debounce window.
// Zero means the engine default.
func WithDebounceWindow(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithEventBuffer allows specifying the per-subscriber event channel size.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.buffer = size
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithProbeInterval sets how often the connectivity probe pings the remote
// store. Zero or negative disables the probe worker.
func WithProbeInterval(d time.Duration) Option {
	return func(o *options) {
		o.probe = d
	}
}
