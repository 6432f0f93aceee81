package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/notterhq/notter/pkg/core"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML renders a note's markdown content to an HTML fragment.
func HTML(n core.Note) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(n.Content), &buf); err != nil {
		return nil, fmt.Errorf("export: render note %s: %w", n.ID, err)
	}
	return buf.Bytes(), nil
}

// PageSize is the number of content lines per page when paginating a note
// for print-oriented output.
const PageSize = 40

// Paginate splits a note's markdown content into fixed-height pages, never
// breaking inside a fenced code block. Short notes yield a single page; an
// empty note yields one empty page.
func Paginate(n core.Note, linesPerPage int) []string {
	if linesPerPage <= 0 {
		linesPerPage = PageSize
	}
	lines := strings.Split(strings.TrimRight(n.Content, "\n"), "\n")

	var pages []string
	var page []string
	inFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		page = append(page, line)
		if len(page) >= linesPerPage && !inFence {
			pages = append(pages, strings.Join(page, "\n"))
			page = nil
		}
	}
	if len(page) > 0 || len(pages) == 0 {
		pages = append(pages, strings.Join(page, "\n"))
	}
	return pages
}

// Document renders a note as a complete standalone HTML page, with the
// title and tags in a header and the markdown content as the body.
func Document(n core.Note) ([]byte, error) {
	body, err := HTML(n)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(n.Title)
	if title == "" {
		title = "Untitled"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	if len(n.Tags) > 0 {
		b.WriteString("<p class=\"tags\">")
		for i, t := range n.Tags {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "<span class=\"tag\">%s</span>", html.EscapeString(t.Name))
		}
		b.WriteString("</p>\n")
	}
	b.Write(body)
	fmt.Fprintf(&b, "<footer>Updated %s</footer>\n", html.EscapeString(n.UpdatedAt))
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String()), nil
}
