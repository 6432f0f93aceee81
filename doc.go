// Package notter is the Composition Root for the Notter sync library.
//
// It connects the synchronization engine (Domain Layer) with the
// infrastructure adapters (Remote Store, Local Cache) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// Notter keeps a note collection usable with or without a network. The
// in-memory collection is the single source of truth for rendering; a
// hosted PostgREST backend is the durable source of truth; a local sqlite
// mirror bridges the gap while offline. Every mutation is attempted
// remote-first and falls back to an optimistic local apply, so the user
// never loses an edit to a dead connection.
//
// Features:
//
//   - **Hexagonal Architecture**: Core engine is isolated from persistence details.
//   - **Remote-First Mutations**: Confirmed server state wins; local fallback keeps the UI live.
//   - **Durable Local Cache**: sqlite mirror of the last known remote state.
//   - **Debounced Text Edits**: Free-text typing collapses into one persistence call.
//   - **Reactive Events**: Pattern-based subscriptions over collection changes.
//   - **Extensible**: Alternative backends plug in via `core.RemoteStore` and `core.LocalCache`.
//
// Usage:
//
//	// Initialize the engine with functional options
//	engine, err := notter.New(
//		notter.WithRemoteCredentials(url, key),
//		notter.WithCachePath("notter.db"),
//		notter.WithLogger(logger),
//	)
//
//	// Load the collection and create a note
//	err = engine.Load(ctx)
//	note, err := engine.Create(ctx, notter.NoteDraft{Title: "Hello"})
package notter
