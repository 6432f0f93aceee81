// Package sqlite provides the durable local note cache. It is a read-through
// mirror of the last known remote state, good enough to render the list while
// the network is down; it is never the write-ahead log for pending edits.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/notterhq/notter/pkg/core"
)

//go:embed schema.sql
var schema string

// Cache implements core.LocalCache over a single sqlite database file.
type Cache struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the cache database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// Single writer; sqlite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Cache{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetAll returns the cached collection, ascending by position.
func (c *Cache) GetAll(ctx context.Context) ([]core.Note, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, content, position, created_at, updated_at,
		       is_favorite, is_archived, color, tags
		FROM notes ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query notes: %w", err)
	}
	defer rows.Close()

	var notes []core.Note
	for rows.Next() {
		var n core.Note
		var tagsJSON string
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Position,
			&n.CreatedAt, &n.UpdatedAt, &n.IsFavorite, &n.IsArchived,
			&n.Color, &tagsJSON); err != nil {
			return nil, fmt.Errorf("sqlite: scan note: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
			c.logger.Warn("dropping unreadable cached tags", "note", n.ID, "error", err)
			n.Tags = nil
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Put writes or overwrites one note.
func (c *Cache) Put(ctx context.Context, n core.Note) error {
	tagsJSON, err := marshalTags(n.Tags)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, content, position, created_at, updated_at,
		                   is_favorite, is_archived, color, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			position = excluded.position,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_favorite = excluded.is_favorite,
			is_archived = excluded.is_archived,
			color = excluded.color,
			tags = excluded.tags`,
		n.ID, n.Title, n.Content, n.Position, n.CreatedAt, n.UpdatedAt,
		n.IsFavorite, n.IsArchived, n.Color, tagsJSON)
	if err != nil {
		return fmt.Errorf("sqlite: put note %s: %w", n.ID, err)
	}
	return nil
}

// Remove deletes one note. Missing rows are not an error.
func (c *Cache) Remove(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: remove note %s: %w", id, err)
	}
	return nil
}

// ReplaceAll swaps the entire cached collection in one transaction.
func (c *Cache) ReplaceAll(ctx context.Context, notes []core.Note) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("sqlite: clear notes: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notes (id, title, content, position, created_at, updated_at,
		                   is_favorite, is_archived, color, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notes {
		tagsJSON, err := marshalTags(n.Tags)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, n.ID, n.Title, n.Content, n.Position,
			n.CreatedAt, n.UpdatedAt, n.IsFavorite, n.IsArchived, n.Color, tagsJSON); err != nil {
			return fmt.Errorf("sqlite: insert note %s: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

func marshalTags(tags []core.Tag) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode tags: %w", err)
	}
	return string(b), nil
}

var _ core.LocalCache = (*Cache)(nil)
