package core

import "strings"

// Filter selects a boolean status flag to require.
type Filter string

const (
	FilterNone      Filter = ""
	FilterFavorites Filter = "favorites"
	FilterArchived  Filter = "archived"
)

// ViewState is the ephemeral, derived UI state. It owns no lifecycle; the
// engine stores one per session and VisibleNotes recomputes the projection
// on every call.
type ViewState struct {
	SearchQuery  string
	ActiveFilter Filter
	ActiveTagID  string
}

// VisibleNotes filters the collection for display. A note passes only if all
// three predicates hold: empty query or case-insensitive substring match on
// title or content; no active filter or the matching flag set; no active tag
// or the tag present in the note's tag set. Input order is preserved.
func VisibleNotes(notes []Note, view ViewState) []Note {
	query := strings.ToLower(view.SearchQuery)

	var out []Note
	for _, n := range notes {
		if query != "" &&
			!strings.Contains(strings.ToLower(n.Title), query) &&
			!strings.Contains(strings.ToLower(n.Content), query) {
			continue
		}
		switch view.ActiveFilter {
		case FilterFavorites:
			if !n.IsFavorite {
				continue
			}
		case FilterArchived:
			if !n.IsArchived {
				continue
			}
		}
		if view.ActiveTagID != "" && !n.HasTag(view.ActiveTagID) {
			continue
		}
		out = append(out, n)
	}
	return out
}
