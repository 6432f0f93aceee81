// Package export renders notes to portable formats: plain markdown for
// interchange and HTML documents for printing or sharing.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notterhq/notter/pkg/core"
)

// Markdown renders a single note as a standalone markdown document with a
// small metadata header.
func Markdown(n core.Note) []byte {
	var b strings.Builder

	title := strings.TrimSpace(n.Title)
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if len(n.Tags) > 0 {
		names := make([]string, 0, len(n.Tags))
		for _, t := range n.Tags {
			names = append(names, t.Name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(names, ", "))
	}

	content := strings.TrimRight(n.Content, "\n")
	if content != "" {
		b.WriteString(content)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n---\nCreated: %s · Updated: %s\n", n.CreatedAt, n.UpdatedAt)
	return []byte(b.String())
}

// Collection renders several notes into one markdown document separated by
// horizontal rules, in the order given.
func Collection(notes []core.Note) []byte {
	var b strings.Builder
	for i, n := range notes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.Write(Markdown(n))
	}
	return []byte(b.String())
}
