// Note is the central entity of the domain.
package core

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the wire format for note timestamps.
// RFC 3339 with millisecond precision sorts lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t in the canonical wire format (UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Tag is a durable label record. Identity is the ID; uniqueness of Name is
// enforced cooperatively at write time by the remote store adapter.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Note is a durable note record.
// Position establishes a strict total order among the owner's notes and is
// reassigned as a dense 0..N-1 sequence on every reorder.
type Note struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Position   int    `json:"position"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	IsFavorite bool   `json:"is_favorite"`
	IsArchived bool   `json:"is_archived"`
	Tags       []Tag  `json:"tags"`
	Color      string `json:"color,omitempty"`
}

// Validate reports whether the note is well-formed: id and timestamps present,
// tags well-formed and unique by id. Position carries no constraint here; the
// engine owns position assignment.
func (n Note) Validate() error {
	if n.ID == "" {
		return errors.New("note has no ID")
	}
	if n.CreatedAt == "" || n.UpdatedAt == "" {
		return fmt.Errorf("note %s is missing timestamps", n.ID)
	}
	seen := make(map[string]bool, len(n.Tags))
	for _, t := range n.Tags {
		if t.ID == "" {
			return fmt.Errorf("note %s references a tag without an ID", n.ID)
		}
		if t.Name == "" {
			return fmt.Errorf("note %s references tag %s without a name", n.ID, t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("note %s references tag %s twice", n.ID, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// HasTag reports whether the note's tag set contains the given tag id.
func (n Note) HasTag(tagID string) bool {
	for _, t := range n.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. The engine hands out clones so callers cannot
// alias the canonical collection's tag slices.
func (n Note) Clone() Note {
	out := n
	if n.Tags != nil {
		out.Tags = make([]Tag, len(n.Tags))
		copy(out.Tags, n.Tags)
	}
	return out
}

func cloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
