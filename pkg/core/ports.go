package core

import "context"

// NoteFields describes a partial update. Nil pointer fields are left
// untouched; a non-nil Tags replaces the note's tag set wholesale.
type NoteFields struct {
	Title      *string
	Content    *string
	IsFavorite *bool
	IsArchived *bool
	Color      *string
	Tags       *[]Tag
}

// NotePosition is one entry of a bulk reorder submission. UpdatedAt
// carries the refreshed modification timestamp for the upserted row.
type NotePosition struct {
	ID        string `json:"id"`
	Position  int    `json:"position"`
	UpdatedAt string `json:"updated_at"`
}

// RemoteStore defines the contract for the hosted relational store.
// Adhering to this interface keeps the engine independent of the wire
// protocol (PostgREST, SQL, a test double).
//
// Implementations report failures through the core taxonomy:
// ErrRemoteUnavailable for transport failures, ErrConstraintViolation for
// server-side constraint errors.
type RemoteStore interface {
	// FetchAll returns the full collection ordered by ascending position,
	// with tag sets resolved.
	FetchAll(ctx context.Context) ([]Note, error)

	// Insert persists a new note (including its tag set) and returns the
	// server-confirmed record.
	Insert(ctx context.Context, n Note) (Note, error)

	// Update applies partial fields plus the refreshed updated_at and
	// returns the confirmed record. When fields.Tags is non-nil the tag
	// set is replaced wholesale and returned resolved; otherwise the
	// returned note carries no tag set and the caller keeps its own.
	Update(ctx context.Context, id string, updatedAt string, fields NoteFields) (Note, error)

	// Remove deletes the note and its join rows.
	Remove(ctx context.Context, id string) error

	// Reorder bulk-upserts {id, position} pairs. The caller is responsible
	// for submitting a dense permutation.
	Reorder(ctx context.Context, positions []NotePosition) error
}

// LocalCache is the durable on-device projection of the canonical
// collection, read back when the remote store is unreachable.
//
// All operations are best-effort: the engine never depends on the cache
// for correctness, only durability. Implementations running without a
// storage medium return an empty collection and accept writes as no-ops.
type LocalCache interface {
	// GetAll returns the cached collection ordered by ascending position.
	// An uninitialized store yields an empty slice, not an error.
	GetAll(ctx context.Context) ([]Note, error)

	// Put inserts or fully overwrites the record for n.ID. Idempotent.
	Put(ctx context.Context, n Note) error

	// Remove deletes the record if present; absence is not an error.
	Remove(ctx context.Context, id string) error

	// ReplaceAll atomically clears the store and repopulates it.
	ReplaceAll(ctx context.Context, notes []Note) error
}
