package core_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/notterhq/notter/pkg/core"
)

// mockRemote implements core.RemoteStore in memory with a switchable
// failure mode, standing in for an unreachable hosted store.
type mockRemote struct {
	mu       sync.Mutex
	fail     bool
	notes    map[string]core.Note
	reorders [][]core.NotePosition
	updates  int
}

func newMockRemote() *mockRemote {
	return &mockRemote{notes: make(map[string]core.Note)}
}

func (m *mockRemote) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *mockRemote) unavailable() error {
	return fmt.Errorf("dial tcp: %w", core.ErrRemoteUnavailable)
}

func (m *mockRemote) FetchAll(ctx context.Context) ([]core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, m.unavailable()
	}
	out := make([]core.Note, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *mockRemote) Insert(ctx context.Context, n core.Note) (core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return core.Note{}, m.unavailable()
	}
	m.notes[n.ID] = n.Clone()
	return n, nil
}

func (m *mockRemote) Update(ctx context.Context, id string, updatedAt string, fields core.NoteFields) (core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return core.Note{}, m.unavailable()
	}
	n, ok := m.notes[id]
	if !ok {
		return core.Note{}, core.ErrNotFound
	}
	m.updates++
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
		n.Tags = append([]core.Tag(nil), (*fields.Tags)...)
	}
	n.UpdatedAt = updatedAt
	m.notes[id] = n

	confirmed := n.Clone()
	if fields.Tags == nil {
		// Matches the adapter contract: tags resolved only when updated.
		confirmed.Tags = nil
	}
	return confirmed, nil
}

func (m *mockRemote) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return m.unavailable()
	}
	delete(m.notes, id)
	return nil
}

func (m *mockRemote) Reorder(ctx context.Context, positions []core.NotePosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return m.unavailable()
	}
	m.reorders = append(m.reorders, positions)
	for _, p := range positions {
		if n, ok := m.notes[p.ID]; ok {
			n.Position = p.Position
			m.notes[p.ID] = n
		}
	}
	return nil
}

// mockCache implements core.LocalCache in memory and records ReplaceAll.
type mockCache struct {
	mu          sync.Mutex
	notes       map[string]core.Note
	replaceCnt  int
	lastReplace []core.Note
}

func newMockCache() *mockCache {
	return &mockCache{notes: make(map[string]core.Note)}
}

func (c *mockCache) GetAll(ctx context.Context) ([]core.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Note, 0, len(c.notes))
	for _, n := range c.notes {
		out = append(out, n.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (c *mockCache) Put(ctx context.Context, n core.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes[n.ID] = n.Clone()
	return nil
}

func (c *mockCache) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.notes, id)
	return nil
}

func (c *mockCache) ReplaceAll(ctx context.Context, notes []core.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = make(map[string]core.Note, len(notes))
	for _, n := range notes {
		c.notes[n.ID] = n.Clone()
	}
	c.replaceCnt++
	c.lastReplace = notes
	return nil
}

func newTestEngine(t *testing.T) (*core.Engine, *mockRemote, *mockCache) {
	t.Helper()
	remote := newMockRemote()
	cache := newMockCache()
	engine := core.NewEngine(core.Config{Remote: remote, Cache: cache})
	t.Cleanup(engine.Close)
	return engine, remote, cache
}

func TestEngine_CreateAppearsOnceInDefaultView(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	n, err := engine.Create(ctx, core.NoteDraft{Title: "Shopping"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n.ID == "" || n.CreatedAt == "" || n.UpdatedAt == "" {
		t.Fatalf("Create returned incomplete note: %+v", n)
	}

	visible := engine.VisibleNotes()
	count := 0
	for _, v := range visible {
		if v.ID == n.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected new note exactly once in default view, got %d", count)
	}
}

func TestEngine_CreateAssignsTailPosition(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		n, err := engine.Create(ctx, core.NoteDraft{Title: fmt.Sprintf("note %d", i)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if n.Position != i {
			t.Errorf("note %d: expected position %d, got %d", i, i, n.Position)
		}
		ids = append(ids, n.ID)
	}

	// Deleting compacts nothing; the next create must still go past the
	// current maximum, not reuse the collection length.
	if err := engine.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	n, err := engine.Create(ctx, core.NoteDraft{Title: "tail"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n.Position != 3 {
		t.Fatalf("expected tail position 3 (max+1), got %d", n.Position)
	}
}

func TestEngine_ReorderProducesDensePermutation(t *testing.T) {
	engine, remote, _ := newTestEngine(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		n, err := engine.Create(ctx, core.NoteDraft{Title: fmt.Sprintf("n%d", i)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, n.ID)
	}

	reversed := []string{ids[3], ids[2], ids[1], ids[0]}
	if err := engine.Reorder(ctx, reversed); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	notes := engine.Notes()
	if len(notes) != 4 {
		t.Fatalf("expected 4 notes, got %d", len(notes))
	}
	for i, n := range notes {
		if n.Position != i {
			t.Errorf("position %d: got %d", i, n.Position)
		}
		if n.ID != reversed[i] {
			t.Errorf("slot %d: expected %s, got %s", i, reversed[i], n.ID)
		}
	}

	if len(remote.reorders) != 1 {
		t.Fatalf("expected 1 remote reorder submission, got %d", len(remote.reorders))
	}
	seen := make(map[int]bool)
	for _, p := range remote.reorders[0] {
		if seen[p.Position] {
			t.Errorf("duplicate position %d in submission", p.Position)
		}
		seen[p.Position] = true
	}
	for i := 0; i < 4; i++ {
		if !seen[i] {
			t.Errorf("position %d missing from submission", i)
		}
	}
}

func TestEngine_ReorderPartialSubmissionStaysDense(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		n, _ := engine.Create(ctx, core.NoteDraft{Title: fmt.Sprintf("n%d", i)})
		ids = append(ids, n.ID)
	}

	// Only one id submitted plus one unknown id; remaining notes keep
	// their relative order after it.
	if err := engine.Reorder(ctx, []string{ids[2], "no-such-id"}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	notes := engine.Notes()
	want := []string{ids[2], ids[0], ids[1]}
	for i, n := range notes {
		if n.Position != i {
			t.Errorf("position %d: got %d", i, n.Position)
		}
		if n.ID != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], n.ID)
		}
	}
}

func TestEngine_ReorderRefreshesUpdatedAt(t *testing.T) {
	remote := newMockRemote()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := created
	engine := core.NewEngine(core.Config{
		Remote: remote,
		Clock:  func() time.Time { return now },
	})
	t.Cleanup(engine.Close)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 2; i++ {
		n, err := engine.Create(ctx, core.NoteDraft{Title: fmt.Sprintf("n%d", i)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, n.ID)
	}

	now = created.Add(5 * time.Minute)
	if err := engine.Reorder(ctx, []string{ids[1], ids[0]}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	want := core.Timestamp(now)
	for _, n := range engine.Notes() {
		if n.UpdatedAt != want {
			t.Errorf("note %s: expected updated_at %s, got %s", n.ID, want, n.UpdatedAt)
		}
	}
	if len(remote.reorders) != 1 {
		t.Fatalf("expected 1 remote reorder submission, got %d", len(remote.reorders))
	}
	for _, p := range remote.reorders[0] {
		if p.UpdatedAt != want {
			t.Errorf("submission for %s: expected updated_at %s, got %s", p.ID, want, p.UpdatedAt)
		}
	}
}

func TestEngine_ToggleFavoriteTwiceRestoresFlagAndTags(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	n, err := engine.Create(ctx, core.NoteDraft{
		Title: "Recipe",
		Tags:  []core.Tag{{Name: "food"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(n.Tags) != 1 {
		t.Fatalf("expected 1 tag after create, got %d", len(n.Tags))
	}
	tagID := n.Tags[0].ID

	first, err := engine.ToggleFavorite(ctx, n.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !first.IsFavorite {
		t.Fatal("expected favorite after first toggle")
	}
	second, err := engine.ToggleFavorite(ctx, n.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if second.IsFavorite {
		t.Fatal("expected flag restored after second toggle")
	}
	if len(second.Tags) != 1 || second.Tags[0].ID != tagID {
		t.Fatalf("tag set changed across toggles: %+v", second.Tags)
	}
}

func TestEngine_DeleteClearsSelectionAndIsIdempotent(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	n, _ := engine.Create(ctx, core.NoteDraft{Title: "doomed"})
	engine.Select(n.ID)

	if err := engine.Delete(ctx, n.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if engine.Selected() != "" {
		t.Fatal("expected selection cleared after deleting selected note")
	}
	if len(engine.Notes()) != 0 {
		t.Fatal("expected empty collection after delete")
	}

	// Second delete is a no-op and no error escapes.
	if err := engine.Delete(ctx, n.ID); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func TestEngine_OptimisticFallbackWhenRemoteFails(t *testing.T) {
	engine, remote, _ := newTestEngine(t)
	ctx := context.Background()

	seed, err := engine.Create(ctx, core.NoteDraft{Title: "seed"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	remote.setFail(true)

	created, err := engine.Create(ctx, core.NoteDraft{Title: "offline note"})
	if !errors.Is(err, core.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
	var serr *core.SyncError
	if !errors.As(err, &serr) || serr.Message == "" {
		t.Fatalf("expected recoverable SyncError with message, got %v", err)
	}

	title := "renamed"
	if _, err := engine.Update(ctx, seed.ID, core.NoteFields{Title: &title}); !errors.Is(err, core.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable from update, got %v", err)
	}
	if _, err := engine.ToggleArchive(ctx, seed.ID); !errors.Is(err, core.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable from toggle, got %v", err)
	}
	if err := engine.Reorder(ctx, []string{created.ID, seed.ID}); !errors.Is(err, core.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable from reorder, got %v", err)
	}

	// Every mutation still landed in the canonical collection.
	notes := engine.Notes()
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != created.ID || notes[1].ID != seed.ID {
		t.Fatalf("reorder not applied locally: %s, %s", notes[0].ID, notes[1].ID)
	}
	if notes[1].Title != "renamed" || !notes[1].IsArchived {
		t.Fatalf("update/toggle not applied locally: %+v", notes[1])
	}
	if engine.Status() != core.StatusDirtyLocal {
		t.Fatalf("expected DIRTY_LOCAL, got %s", engine.Status())
	}

	if err := engine.Delete(ctx, created.ID); !errors.Is(err, core.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable from delete, got %v", err)
	}
	if len(engine.Notes()) != 1 {
		t.Fatal("expected optimistic delete to remove the note locally")
	}
}

func TestEngine_ResyncReplacesCollectionWholesale(t *testing.T) {
	engine, remote, cache := newTestEngine(t)
	ctx := context.Background()

	kept, err := engine.Create(ctx, core.NoteDraft{Title: "kept"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// An offline-only note that never reached the remote store.
	remote.setFail(true)
	engine.Create(ctx, core.NoteDraft{Title: "offline only"})
	remote.setFail(false)

	if err := engine.Resync(ctx); err != nil {
		t.Fatalf("Resync failed: %v", err)
	}

	notes := engine.Notes()
	if len(notes) != 1 || notes[0].ID != kept.ID {
		t.Fatalf("expected resync to overwrite with remote truth, got %d notes", len(notes))
	}
	if engine.Status() != core.StatusSynced {
		t.Fatalf("expected SYNCED after resync, got %s", engine.Status())
	}

	cached, _ := cache.GetAll(ctx)
	if len(cached) != 1 || cached[0].ID != kept.ID {
		t.Fatalf("expected cache mirrored after resync, got %d notes", len(cached))
	}
}

func TestEngine_OnlineTransitionTriggersResync(t *testing.T) {
	engine, remote, _ := newTestEngine(t)
	ctx := context.Background()

	n, _ := engine.Create(ctx, core.NoteDraft{Title: "remote truth"})

	if err := engine.SetOnlineStatus(ctx, false); err != nil {
		t.Fatalf("SetOnlineStatus(false) failed: %v", err)
	}
	remote.setFail(true)
	engine.Create(ctx, core.NoteDraft{Title: "made offline"})
	remote.setFail(false)

	if err := engine.SetOnlineStatus(ctx, true); err != nil {
		t.Fatalf("SetOnlineStatus(true) failed: %v", err)
	}
	notes := engine.Notes()
	if len(notes) != 1 || notes[0].ID != n.ID {
		t.Fatalf("expected automatic resync on reconnect, got %d notes", len(notes))
	}
	if !engine.Online() {
		t.Fatal("expected online state recorded")
	}
}

func TestEngine_UpdateUnknownIDIsNoOp(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	title := "x"
	_, err := engine.Update(ctx, "missing", core.NoteFields{Title: &title})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(engine.Notes()) != 0 {
		t.Fatal("expected no-op on unknown id")
	}
}

func TestEngine_LoadFallsBackToCacheWhenOffline(t *testing.T) {
	remote := newMockRemote()
	cache := newMockCache()
	cache.Put(context.Background(), core.Note{
		ID: "cached", Title: "from cache", Position: 0,
		CreatedAt: "2026-01-01T00:00:00.000Z", UpdatedAt: "2026-01-01T00:00:00.000Z",
	})
	remote.setFail(true)

	engine := core.NewEngine(core.Config{Remote: remote, Cache: cache})
	defer engine.Close()

	err := engine.Load(context.Background())
	if !errors.Is(err, core.ErrRemoteUnavailable) {
		t.Fatalf("expected recoverable fetch error, got %v", err)
	}
	notes := engine.Notes()
	if len(notes) != 1 || notes[0].ID != "cached" {
		t.Fatalf("expected cache fallback, got %d notes", len(notes))
	}
}

func TestEngine_EditTextDebouncesRemoteWrites(t *testing.T) {
	remote := newMockRemote()
	engine := core.NewEngine(core.Config{
		Remote:         remote,
		DebounceWindow: 30 * time.Millisecond,
	})
	defer engine.Close()
	ctx := context.Background()

	n, err := engine.Create(ctx, core.NoteDraft{Title: "draft"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 1; i <= 5; i++ {
		engine.EditText(n.ID, fmt.Sprintf("title %d", i), "typing...")
		time.Sleep(5 * time.Millisecond)
	}

	// The collection reflects the keystroke immediately.
	current, ok := engine.Note(n.ID)
	if !ok || current.Title != "title 5" {
		t.Fatalf("expected immediate in-memory update, got %+v", current)
	}

	// The remote sees a single coalesced write once typing settles.
	deadline := time.Now().Add(2 * time.Second)
	for {
		remote.mu.Lock()
		updates := remote.updates
		title := remote.notes[n.ID].Title
		remote.mu.Unlock()
		if updates == 1 && title == "title 5" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 coalesced update with final text, got %d (%q)", updates, title)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEngine_FlushEditsWritesPendingText(t *testing.T) {
	remote := newMockRemote()
	engine := core.NewEngine(core.Config{
		Remote:         remote,
		DebounceWindow: time.Hour,
	})
	defer engine.Close()
	ctx := context.Background()

	n, err := engine.Create(ctx, core.NoteDraft{Title: "draft"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	engine.EditText(n.ID, "final title", "final body")
	engine.FlushEdits()

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if remote.updates != 1 || remote.notes[n.ID].Title != "final title" {
		t.Fatalf("expected flushed write, got %d updates (%q)", remote.updates, remote.notes[n.ID].Title)
	}
}

func TestEngine_ResyncFailureKeepsPriorState(t *testing.T) {
	engine, remote, _ := newTestEngine(t)
	ctx := context.Background()

	engine.Create(ctx, core.NoteDraft{Title: "a"})
	if err := engine.Resync(ctx); err != nil {
		t.Fatalf("Resync failed: %v", err)
	}

	remote.setFail(true)
	if err := engine.Resync(ctx); err == nil {
		t.Fatal("expected recoverable error from failed resync")
	}
	if engine.Status() != core.StatusSynced {
		t.Fatalf("expected prior state kept after failed resync, got %s", engine.Status())
	}
	if len(engine.Notes()) != 1 {
		t.Fatal("expected collection untouched after failed resync")
	}
	if engine.LastError() == nil {
		t.Fatal("expected last error recorded")
	}
}
