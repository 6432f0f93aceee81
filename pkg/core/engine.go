package core

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SyncStatus describes the engine's connectivity lifecycle.
type SyncStatus string

const (
	// StatusSynced means the canonical collection was last refreshed from a
	// complete successful fetch.
	StatusSynced SyncStatus = "SYNCED"
	// StatusSyncing means a full refetch is in flight.
	StatusSyncing SyncStatus = "SYNCING"
	// StatusDirtyLocal means at least one mutation was applied locally
	// without confirmed remote persistence.
	StatusDirtyLocal SyncStatus = "DIRTY_LOCAL"
)

// Config holds the dependencies and tuning knobs for the Engine.
type Config struct {
	Remote RemoteStore
	Cache  LocalCache // optional; nil disables durable mirroring
	Logger *slog.Logger

	// DebounceWindow for free-text edit propagation. Zero means the default.
	DebounceWindow time.Duration
	// EventBuffer is the per-subscriber event channel size. Zero means 100.
	EventBuffer int
	// Clock overrides time.Now, for deterministic tests.
	Clock func() time.Time
}

// Engine owns the canonical in-memory note collection and mediates every
// mutation through remote-first, optimistic-local-fallback logic.
//
// The collection is the single source of truth for rendering; the local
// cache and the remote store are projections of it, except immediately
// after a reconnect-triggered refetch, when a successful FetchAll replaces
// the collection wholesale. There is no pending-operations queue: offline
// edits that were never re-attempted are overwritten by the next successful
// resync. That is an accepted weakness of the last-writer-wins design, not
// something the engine tries to paper over.
//
// Engines are constructed explicitly and injected where needed; there is no
// package-level instance.
type Engine struct {
	remote RemoteStore
	cache  LocalCache
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	notes    []Note // canonical collection, ascending position
	status   SyncStatus
	online   bool
	loading  bool
	selected string
	view     ViewState
	lastErr  *SyncError

	events   *broker
	debounce *debouncer
}

// NewEngine creates an Engine. Config.Remote must be set.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		remote:   cfg.Remote,
		cache:    cfg.Cache,
		logger:   logger,
		now:      clock,
		status:   StatusDirtyLocal,
		online:   true,
		events:   newBroker(cfg.EventBuffer),
		debounce: newDebouncer(cfg.DebounceWindow),
	}
}

// Close flushes pending debounced edits and closes event subscriptions.
func (e *Engine) Close() {
	e.debounce.stop()
	e.events.close()
}

// --- Reads ---

// Notes returns a copy of the canonical collection, ascending by position.
func (e *Engine) Notes() []Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneNotes(e.notes)
}

// Note returns a single note by id.
func (e *Engine) Note(id string) (Note, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(id); i >= 0 {
		return e.notes[i].Clone(), true
	}
	return Note{}, false
}

// VisibleNotes applies the current view state to the canonical collection.
func (e *Engine) VisibleNotes() []Note {
	e.mu.Lock()
	notes := cloneNotes(e.notes)
	view := e.view
	e.mu.Unlock()
	return VisibleNotes(notes, view)
}

// Status returns the connectivity lifecycle state.
func (e *Engine) Status() SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Online reports the last connectivity signal received.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Loading reports whether a full refetch is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// LastError returns the most recent recoverable failure, or nil.
func (e *Engine) LastError() *SyncError {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// --- View state ---

// SetSearchQuery updates the text filter.
func (e *Engine) SetSearchQuery(q string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.SearchQuery = q
}

// SetFilter updates the status-flag filter.
func (e *Engine) SetFilter(f Filter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.ActiveFilter = f
}

// SetActiveTag updates the tag filter. Empty clears it.
func (e *Engine) SetActiveTag(tagID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.ActiveTagID = tagID
}

// View returns the current view state.
func (e *Engine) View() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Select marks a note as the current selection. Empty clears it.
func (e *Engine) Select(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = id
}

// Selected returns the current selection, or empty.
func (e *Engine) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// Watch subscribes to engine events whose note id matches the doublestar
// pattern. Lifecycle events (resync, online, offline) always match.
func (e *Engine) Watch(pattern string) (<-chan Event, error) {
	return e.events.subscribe(pattern)
}

// --- Lifecycle ---

// Load performs the initial fill of the canonical collection: a full remote
// fetch, falling back to the local cache when the remote is unreachable.
// The fallback is not an error; the returned error is the recoverable fetch
// failure, if any, for status indicators.
func (e *Engine) Load(ctx context.Context) error {
	if err := e.Resync(ctx); err != nil {
		e.loadFromCache(ctx)
		return err
	}
	return nil
}

func (e *Engine) loadFromCache(ctx context.Context) {
	if e.cache == nil {
		return
	}
	notes, err := e.cache.GetAll(ctx)
	if err != nil {
		e.logger.Warn("local cache read failed", "error", err)
		return
	}
	e.mu.Lock()
	e.notes = notes
	e.sortByPosition()
	e.mu.Unlock()
	e.logger.Info("collection loaded from local cache", "count", len(notes))
}

// Resync replaces the canonical collection wholesale with a fresh remote
// fetch and mirrors it to the local cache. On failure the prior collection
// and status are kept and a recoverable error is returned.
func (e *Engine) Resync(ctx context.Context) error {
	e.mu.Lock()
	prior := e.status
	e.status = StatusSyncing
	e.loading = true
	e.mu.Unlock()

	notes, err := e.remote.FetchAll(ctx)

	e.mu.Lock()
	e.loading = false
	if err != nil {
		e.status = prior
		serr := syncErr("resync", "could not refresh notes from the server", err)
		e.lastErr = serr
		e.mu.Unlock()
		e.logger.Warn("resync failed", "error", err)
		return serr
	}
	e.notes = notes
	e.sortByPosition()
	e.status = StatusSynced
	e.lastErr = nil
	mirror := cloneNotes(e.notes)
	e.mu.Unlock()

	e.mirrorReplaceAll(ctx, mirror)
	e.publish(EventResync, "")
	e.logger.Info("resynced with remote store", "count", len(notes))
	return nil
}

// SetOnlineStatus records a connectivity signal. The offline-to-online
// transition triggers an automatic resync; its failure is returned as a
// recoverable error.
func (e *Engine) SetOnlineStatus(ctx context.Context, online bool) error {
	e.mu.Lock()
	wasOnline := e.online
	e.online = online
	e.mu.Unlock()

	if online && !wasOnline {
		e.publish(EventOnline, "")
		return e.Resync(ctx)
	}
	if !online && wasOnline {
		e.publish(EventOffline, "")
	}
	return nil
}

// --- Mutations ---

// NoteDraft is the caller-supplied part of a new note.
type NoteDraft struct {
	Title   string
	Content string
	Tags    []Tag
	Color   string
}

// Create assigns an id, timestamps and the next tail position, then persists
// remote-first. On remote failure the note is appended optimistically and
// the engine transitions to DIRTY_LOCAL; the returned note is the local one
// and the error is recoverable.
func (e *Engine) Create(ctx context.Context, draft NoteDraft) (Note, error) {
	now := Timestamp(e.now())

	e.mu.Lock()
	n := Note{
		ID:         uuid.NewString(),
		Title:      draft.Title,
		Content:    draft.Content,
		Tags:       normalizeTags(draft.Tags, now),
		Color:      draft.Color,
		Position:   e.nextPosition(),
		CreatedAt:  now,
		UpdatedAt:  now,
		IsFavorite: false,
		IsArchived: false,
	}
	e.mu.Unlock()

	if err := n.Validate(); err != nil {
		return Note{}, syncErr("create", "refusing to create malformed note", err)
	}

	confirmed, err := e.remote.Insert(ctx, n.Clone())
	if err != nil {
		e.applyLocal(func() {
			e.notes = append(e.notes, n)
			e.sortByPosition()
		})
		serr := syncErr("create", "note saved locally, not yet on the server", err)
		e.recordErr(serr)
		e.publish(EventCreate, n.ID)
		e.logger.Warn("remote insert failed, applied optimistically", "note", n.ID, "error", err)
		return n.Clone(), serr
	}
	if confirmed.Tags == nil {
		confirmed.Tags = n.Tags
	}

	e.mu.Lock()
	e.notes = append(e.notes, confirmed)
	e.sortByPosition()
	e.mu.Unlock()

	e.mirrorPut(ctx, confirmed)
	e.publish(EventCreate, confirmed.ID)
	return confirmed.Clone(), nil
}

// Update merges partial fields into an existing note and refreshes
// updated_at. A non-nil fields.Tags replaces the tag set wholesale; a nil
// one preserves it. Unknown ids are a no-op with a recoverable error.
func (e *Engine) Update(ctx context.Context, id string, fields NoteFields) (Note, error) {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		serr := syncErr("update", "note does not exist", ErrNotFound)
		e.recordErr(serr)
		return Note{}, serr
	}
	current := e.notes[i].Clone()
	e.mu.Unlock()

	now := Timestamp(e.now())
	if fields.Tags != nil {
		normalized := normalizeTags(*fields.Tags, now)
		fields.Tags = &normalized
	}

	confirmed, err := e.remote.Update(ctx, id, now, fields)
	if err != nil {
		local := current
		mergeFields(&local, fields, now)
		e.replaceByID(local)
		serr := syncErr("update", "change saved locally, not yet on the server", err)
		e.recordErr(serr)
		e.publish(EventModify, id)
		e.logger.Warn("remote update failed, applied optimistically", "note", id, "error", err)
		return local.Clone(), serr
	}

	// The adapter resolves tags only when the tag set was part of the
	// update; otherwise the note keeps the set it already had.
	if fields.Tags == nil {
		confirmed.Tags = current.Tags
	}
	e.replaceByID(confirmed)
	e.mirrorPut(ctx, confirmed)
	e.publish(EventModify, id)
	return confirmed.Clone(), nil
}

// EditText coalesces rapid title/content edits through the trailing debounce
// window before propagating a remote update. The canonical collection is
// updated immediately so the UI reflects every keystroke.
func (e *Engine) EditText(id, title, content string) {
	e.mu.Lock()
	i := e.indexOf(id)
	if i >= 0 {
		e.notes[i].Title = title
		e.notes[i].Content = content
	}
	e.mu.Unlock()
	if i < 0 {
		return
	}

	e.debounce.add(id, func() {
		_, err := e.Update(context.Background(), id, NoteFields{
			Title:   &title,
			Content: &content,
		})
		if err != nil {
			e.logger.Debug("debounced edit not yet persisted", "note", id, "error", err)
		}
	})
}

// FlushEdits forces pending debounced edits to propagate now.
func (e *Engine) FlushEdits() {
	e.debounce.flush()
}

// ToggleFavorite flips the favorite flag, reading the current in-memory
// value. The tag set is preserved across the round trip.
func (e *Engine) ToggleFavorite(ctx context.Context, id string) (Note, error) {
	return e.toggleFlag(ctx, id, "favorite")
}

// ToggleArchive flips the archived flag, reading the current in-memory value.
func (e *Engine) ToggleArchive(ctx context.Context, id string) (Note, error) {
	return e.toggleFlag(ctx, id, "archive")
}

func (e *Engine) toggleFlag(ctx context.Context, id, which string) (Note, error) {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		serr := syncErr(which, "note does not exist", ErrNotFound)
		e.recordErr(serr)
		return Note{}, serr
	}
	var fields NoteFields
	if which == "favorite" {
		next := !e.notes[i].IsFavorite
		fields.IsFavorite = &next
	} else {
		next := !e.notes[i].IsArchived
		fields.IsArchived = &next
	}
	e.mu.Unlock()

	return e.Update(ctx, id, fields)
}

// Delete removes the note remote-first and clears the selection when it was
// selected. Deleting an absent id is an idempotent no-op.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.indexOf(id) < 0 {
		e.mu.Unlock()
		e.logger.Debug("delete of unknown note ignored", "note", id)
		return nil
	}
	e.mu.Unlock()

	removeLocal := func() {
		e.mu.Lock()
		if i := e.indexOf(id); i >= 0 {
			e.notes = append(e.notes[:i], e.notes[i+1:]...)
		}
		if e.selected == id {
			e.selected = ""
		}
		e.mu.Unlock()
	}

	if err := e.remote.Remove(ctx, id); err != nil {
		removeLocal()
		e.markDirty()
		serr := syncErr("delete", "note removed locally, not yet on the server", err)
		e.recordErr(serr)
		e.publish(EventDelete, id)
		e.logger.Warn("remote delete failed, applied optimistically", "note", id, "error", err)
		return serr
	}

	removeLocal()
	e.mirrorRemove(ctx, id)
	e.publish(EventDelete, id)
	return nil
}

// Reorder recomputes positions as the dense sequence 0..N-1 matching the
// given id order and applies it locally first; the UI order is authoritative
// intent and is never rolled back. Ids absent from the collection are
// skipped; notes absent from the submission keep their relative order after
// the submitted ones. The same dense mapping is then submitted remotely.
func (e *Engine) Reorder(ctx context.Context, orderedIDs []string) error {
	e.mu.Lock()
	byID := make(map[string]int, len(e.notes))
	for i, n := range e.notes {
		byID[n.ID] = i
	}

	ordered := make([]Note, 0, len(e.notes))
	taken := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if i, ok := byID[id]; ok && !taken[id] {
			ordered = append(ordered, e.notes[i])
			taken[id] = true
		}
	}
	for _, n := range e.notes {
		if !taken[n.ID] {
			ordered = append(ordered, n)
		}
	}

	stamp := Timestamp(e.now())
	positions := make([]NotePosition, len(ordered))
	for i := range ordered {
		ordered[i].Position = i
		ordered[i].UpdatedAt = stamp
		positions[i] = NotePosition{ID: ordered[i].ID, Position: i, UpdatedAt: stamp}
	}
	e.notes = ordered
	e.mu.Unlock()

	if err := e.remote.Reorder(ctx, positions); err != nil {
		e.markDirty()
		serr := syncErr("reorder", "order saved locally, not yet on the server", err)
		e.recordErr(serr)
		e.logger.Warn("remote reorder failed, local order kept", "error", err)
		return serr
	}

	e.mu.Lock()
	mirror := cloneNotes(e.notes)
	e.mu.Unlock()
	e.mirrorReplaceAll(ctx, mirror)
	return nil
}

// --- Internals ---

// indexOf must be called with e.mu held.
func (e *Engine) indexOf(id string) int {
	for i, n := range e.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// nextPosition is the single authoritative position-assignment policy:
// one past the current maximum. Deriving positions from the collection
// length breaks as soon as notes are deleted. Must be called with e.mu held.
func (e *Engine) nextPosition() int {
	max := -1
	for _, n := range e.notes {
		if n.Position > max {
			max = n.Position
		}
	}
	return max + 1
}

// sortByPosition must be called with e.mu held.
func (e *Engine) sortByPosition() {
	sort.SliceStable(e.notes, func(i, j int) bool {
		return e.notes[i].Position < e.notes[j].Position
	})
}

func (e *Engine) replaceByID(n Note) {
	e.mu.Lock()
	if i := e.indexOf(n.ID); i >= 0 {
		e.notes[i] = n
	}
	e.sortByPosition()
	e.mu.Unlock()
}

func (e *Engine) applyLocal(fn func()) {
	e.mu.Lock()
	fn()
	e.status = StatusDirtyLocal
	e.mu.Unlock()
}

func (e *Engine) markDirty() {
	e.mu.Lock()
	e.status = StatusDirtyLocal
	e.mu.Unlock()
}

func (e *Engine) recordErr(serr *SyncError) {
	e.mu.Lock()
	e.lastErr = serr
	e.status = StatusDirtyLocal
	e.mu.Unlock()
}

func (e *Engine) publish(t EventType, id string) {
	e.events.publish(Event{Type: t, ID: id, Timestamp: e.now().Unix()})
}

// Cache mirroring is best-effort by contract: failures are logged, never
// propagated.

func (e *Engine) mirrorPut(ctx context.Context, n Note) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Put(ctx, n); err != nil {
		e.logger.Warn("local cache put failed", "note", n.ID, "error", err)
	}
}

func (e *Engine) mirrorRemove(ctx context.Context, id string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Remove(ctx, id); err != nil {
		e.logger.Warn("local cache remove failed", "note", id, "error", err)
	}
}

func (e *Engine) mirrorReplaceAll(ctx context.Context, notes []Note) {
	if e.cache == nil {
		return
	}
	if err := e.cache.ReplaceAll(ctx, notes); err != nil {
		e.logger.Warn("local cache replace failed", "error", err)
	}
}

// mergeFields applies partial fields to n the same way the remote store
// would, for the optimistic fallback path.
func mergeFields(n *Note, fields NoteFields, updatedAt string) {
	if fields.Title != nil {
		n.Title = *fields.Title
	}
	if fields.Content != nil {
		n.Content = *fields.Content
	}
	if fields.IsFavorite != nil {
		n.IsFavorite = *fields.IsFavorite
	}
	if fields.IsArchived != nil {
		n.IsArchived = *fields.IsArchived
	}
	if fields.Color != nil {
		n.Color = *fields.Color
	}
	if fields.Tags != nil {
		n.Tags = *fields.Tags
	}
	n.UpdatedAt = updatedAt
}

// normalizeTags assigns ids and creation timestamps to inline tags and
// drops duplicates by id. Name-level dedup happens at the remote store.
func normalizeTags(tags []Tag, now string) []Tag {
	if tags == nil {
		return nil
	}
	out := make([]Tag, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.CreatedAt == "" {
			t.CreatedAt = now
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
