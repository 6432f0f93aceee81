package core

// Color is an entry in the fixed display palette a note may reference.
// The style fields are opaque to the engine; they are passed through to
// whatever presentation layer consumes them.
type Color struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bg     string `json:"bg"`
	Border string `json:"border"`
	Hover  string `json:"hover"`
}

// DefaultColorID is the sentinel palette entry used when a note has no color.
const DefaultColorID = "default"

// Colors is the palette. Order matters for pickers.
var Colors = []Color{
	{ID: DefaultColorID, Name: "Default", Bg: "bg-card", Border: "border-border", Hover: "hover:border-border/80"},
	{ID: "red", Name: "Red", Bg: "bg-red-50", Border: "border-red-200", Hover: "hover:border-red-300"},
	{ID: "green", Name: "Green", Bg: "bg-green-50", Border: "border-green-200", Hover: "hover:border-green-300"},
	{ID: "blue", Name: "Blue", Bg: "bg-blue-50", Border: "border-blue-200", Hover: "hover:border-blue-300"},
	{ID: "purple", Name: "Purple", Bg: "bg-purple-50", Border: "border-purple-200", Hover: "hover:border-purple-300"},
}

// ColorByID resolves a palette entry, falling back to the default entry for
// unknown or empty ids.
func ColorByID(id string) Color {
	for _, c := range Colors {
		if c.ID == id {
			return c
		}
	}
	return Colors[0]
}
