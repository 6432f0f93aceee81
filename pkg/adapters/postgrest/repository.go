// Package postgrest provides the hosted note store backed by a Supabase
// project, speaking PostgREST against the notes, tags and note_tags tables.
package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	pg "github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/notterhq/notter/pkg/core"
)

const (
	tableNotes    = "notes"
	tableTags     = "tags"
	tableNoteTags = "note_tags"
)

// Store implements core.RemoteStore on top of a Supabase/PostgREST backend.
type Store struct {
	client *supabase.Client
	logger *slog.Logger
}

// New builds a Store from project credentials.
func New(projectURL, apiKey string, logger *slog.Logger) (*Store, error) {
	if projectURL == "" || apiKey == "" {
		return nil, errors.New("postgrest: project url and api key are required")
	}
	client, err := supabase.NewClient(projectURL, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("postgrest: create client: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{client: client, logger: logger}, nil
}

// noteRow mirrors the notes table, with tags embedded through note_tags.
type noteRow struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Position   int      `json:"position"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
	IsFavorite bool     `json:"is_favorite"`
	IsArchived bool     `json:"is_archived"`
	Color      string   `json:"color"`
	Tags       []tagRow `json:"tags,omitempty"`
}

type tagRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type joinRow struct {
	NoteID string `json:"note_id"`
	TagID  string `json:"tag_id"`
}

const noteColumns = "id, title, content, position, created_at, updated_at, is_favorite, is_archived, color, tags(id, name, created_at)"

func (r noteRow) note() core.Note {
	n := core.Note{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		Position:   r.Position,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		IsFavorite: r.IsFavorite,
		IsArchived: r.IsArchived,
		Color:      r.Color,
	}
	for _, t := range r.Tags {
		n.Tags = append(n.Tags, core.Tag{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt})
	}
	return n
}

func rowFromNote(n core.Note) noteRow {
	return noteRow{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Position:   n.Position,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
		IsFavorite: n.IsFavorite,
		IsArchived: n.IsArchived,
		Color:      n.Color,
	}
}

// FetchAll returns every note with its tags, ascending by position.
func (s *Store) FetchAll(ctx context.Context) ([]core.Note, error) {
	data, _, err := s.client.From(tableNotes).
		Select(noteColumns, "", false).
		Order("position", &pg.OrderOpts{Ascending: true}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, classify("fetch notes", err)
	}
	var rows []noteRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("postgrest: decode notes: %w", err)
	}
	notes := make([]core.Note, 0, len(rows))
	for _, r := range rows {
		n := r.note()
		sort.Slice(n.Tags, func(i, j int) bool { return n.Tags[i].Name < n.Tags[j].Name })
		notes = append(notes, n)
	}
	return notes, nil
}

// Insert persists a new note and its tag set. The returned note carries the
// server representation, including resolved tags.
func (s *Store) Insert(ctx context.Context, n core.Note) (core.Note, error) {
	data, _, err := s.client.From(tableNotes).
		Insert(rowFromNote(n), false, "", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return core.Note{}, classify("insert note", err)
	}
	var rows []noteRow
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
		return core.Note{}, fmt.Errorf("postgrest: decode inserted note: %w", err)
	}
	out := rows[0].note()

	tags, err := s.replaceTags(ctx, n.ID, n.Tags)
	if err != nil {
		return core.Note{}, err
	}
	out.Tags = tags
	return out, nil
}

// Update patches a note. Only the fields present in the patch are written;
// updated_at is always written. When the patch carries a tag set, the
// note's joins are replaced wholesale and the resolved tags are returned,
// otherwise the returned note has a nil tag slice.
func (s *Store) Update(ctx context.Context, id string, updatedAt string, fields core.NoteFields) (core.Note, error) {
	payload := map[string]any{"updated_at": updatedAt}
	if fields.Title != nil {
		payload["title"] = *fields.Title
	}
	if fields.Content != nil {
		payload["content"] = *fields.Content
	}
	if fields.IsFavorite != nil {
		payload["is_favorite"] = *fields.IsFavorite
	}
	if fields.IsArchived != nil {
		payload["is_archived"] = *fields.IsArchived
	}
	if fields.Color != nil {
		payload["color"] = *fields.Color
	}

	data, _, err := s.client.From(tableNotes).
		Update(payload, "representation", "").
		Eq("id", id).
		ExecuteWithContext(ctx)
	if err != nil {
		return core.Note{}, classify("update note", err)
	}
	var rows []noteRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return core.Note{}, fmt.Errorf("postgrest: decode updated note: %w", err)
	}
	if len(rows) == 0 {
		return core.Note{}, core.ErrNotFound
	}
	out := rows[0].note()
	out.Tags = nil

	if fields.Tags != nil {
		tags, err := s.replaceTags(ctx, id, *fields.Tags)
		if err != nil {
			return core.Note{}, err
		}
		out.Tags = tags
	}
	return out, nil
}

// Remove deletes a note and its joins. Missing rows are not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, _, err := s.client.From(tableNoteTags).
		Delete("", "").
		Eq("note_id", id).
		ExecuteWithContext(ctx); err != nil {
		return classify("delete note tags", err)
	}
	if _, _, err := s.client.From(tableNotes).
		Delete("", "").
		Eq("id", id).
		ExecuteWithContext(ctx); err != nil {
		return classify("delete note", err)
	}
	return nil
}

// Reorder persists a full position assignment in one bulk upsert.
func (s *Store) Reorder(ctx context.Context, positions []core.NotePosition) error {
	if len(positions) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, map[string]any{"id": p.ID, "position": p.Position, "updated_at": p.UpdatedAt})
	}
	if _, _, err := s.client.From(tableNotes).
		Insert(rows, true, "id", "minimal", "").
		ExecuteWithContext(ctx); err != nil {
		return classify("reorder notes", err)
	}
	return nil
}

// Ping probes the backend with a head-only count query.
func (s *Store) Ping(ctx context.Context) error {
	if _, _, err := s.client.From(tableNotes).
		Select("id", "exact", true).
		ExecuteWithContext(ctx); err != nil {
		return classify("ping", err)
	}
	return nil
}

// replaceTags swaps a note's entire tag set: existing joins are removed,
// tags are resolved by name (reusing a tag when one with the same name
// already exists, creating it otherwise), and fresh joins are written.
func (s *Store) replaceTags(ctx context.Context, noteID string, tags []core.Tag) ([]core.Tag, error) {
	if _, _, err := s.client.From(tableNoteTags).
		Delete("", "").
		Eq("note_id", noteID).
		ExecuteWithContext(ctx); err != nil {
		return nil, classify("clear note tags", err)
	}

	resolved := make([]core.Tag, 0, len(tags))
	seen := make(map[string]bool)
	for _, t := range tags {
		name := strings.TrimSpace(t.Name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		tag, err := s.upsertTag(ctx, t, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, tag)
	}
	if len(resolved) == 0 {
		return nil, nil
	}

	joins := make([]joinRow, 0, len(resolved))
	for _, t := range resolved {
		joins = append(joins, joinRow{NoteID: noteID, TagID: t.ID})
	}
	if _, _, err := s.client.From(tableNoteTags).
		Insert(joins, false, "", "minimal", "").
		ExecuteWithContext(ctx); err != nil {
		return nil, classify("insert note tags", err)
	}
	return resolved, nil
}

func (s *Store) upsertTag(ctx context.Context, t core.Tag, name string) (core.Tag, error) {
	// Anonymous owner scoping: shared tags live under a null owner.
	data, _, err := s.client.From(tableTags).
		Select("id, name, created_at", "", false).
		Eq("name", name).
		Is("owner", "null").
		ExecuteWithContext(ctx)
	if err != nil {
		return core.Tag{}, classify("find tag", err)
	}
	var rows []tagRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return core.Tag{}, fmt.Errorf("postgrest: decode tags: %w", err)
	}
	if len(rows) > 0 {
		return core.Tag{ID: rows[0].ID, Name: rows[0].Name, CreatedAt: rows[0].CreatedAt}, nil
	}

	row := tagRow{ID: t.ID, Name: name, CreatedAt: t.CreatedAt}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	data, _, err = s.client.From(tableTags).
		Insert(row, false, "", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return core.Tag{}, classify("insert tag", err)
	}
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
		return core.Tag{}, fmt.Errorf("postgrest: decode inserted tag: %w", err)
	}
	return core.Tag{ID: rows[0].ID, Name: rows[0].Name, CreatedAt: rows[0].CreatedAt}, nil
}

// classify maps transport and PostgREST failures onto the recoverable
// error taxonomy the engine reacts to.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	base := core.ErrRemoteUnavailable
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.As(err, &netErr), errors.As(err, &urlErr),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		base = core.ErrRemoteUnavailable
	default:
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "duplicate key"),
			strings.Contains(msg, "violates"),
			strings.Contains(msg, "23505"),
			strings.Contains(msg, "23503"):
			base = core.ErrConstraintViolation
		case strings.Contains(msg, "pgrst116"), strings.Contains(msg, "0 rows"):
			base = core.ErrNotFound
		}
	}
	return fmt.Errorf("postgrest: %s: %v: %w", op, err, base)
}

var _ core.RemoteStore = (*Store)(nil)
