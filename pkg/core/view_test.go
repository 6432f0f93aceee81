package core

import "testing"

func viewFixture() []Note {
	return []Note{
		{ID: "a", Title: "Grocery run", Content: "milk and eggs", Position: 0,
			Tags: []Tag{{ID: "t-home", Name: "home"}}},
		{ID: "b", Title: "Project plan", Content: "ship the Milestone", Position: 1, IsFavorite: true,
			Tags: []Tag{{ID: "t-work", Name: "work"}}},
		{ID: "c", Title: "Old ideas", Content: "parked", Position: 2, IsArchived: true,
			Tags: []Tag{{ID: "t-work", Name: "work"}}},
	}
}

func ids(notes []Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestVisibleNotes(t *testing.T) {
	notes := viewFixture()

	cases := []struct {
		name string
		view ViewState
		want []string
	}{
		{"default shows everything", ViewState{}, []string{"a", "b", "c"}},
		{"search matches title case-insensitive", ViewState{SearchQuery: "GROCERY"}, []string{"a"}},
		{"search matches content", ViewState{SearchQuery: "milestone"}, []string{"b"}},
		{"search matches title or content", ViewState{SearchQuery: "mil"}, []string{"a", "b"}},
		{"search without hits", ViewState{SearchQuery: "zzz"}, nil},
		{"favorites filter", ViewState{ActiveFilter: FilterFavorites}, []string{"b"}},
		{"archived filter", ViewState{ActiveFilter: FilterArchived}, []string{"c"}},
		{"tag filter", ViewState{ActiveTagID: "t-work"}, []string{"b", "c"}},
		{"criteria conjoin", ViewState{SearchQuery: "plan", ActiveFilter: FilterFavorites, ActiveTagID: "t-work"}, []string{"b"}},
		{"conjunction can be empty", ViewState{SearchQuery: "grocery", ActiveFilter: FilterFavorites}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(VisibleNotes(notes, tc.view))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestVisibleNotesDoesNotMutateInput(t *testing.T) {
	notes := viewFixture()
	VisibleNotes(notes, ViewState{SearchQuery: "grocery"})
	if len(notes) != 3 {
		t.Fatal("input slice mutated")
	}
}
