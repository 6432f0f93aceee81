// Package i18n holds the user-facing strings for the command surface.
package i18n

// Language selects a translation table.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// DefaultLanguage is used when a requested language has no table.
const DefaultLanguage = English

var tables = map[Language]map[string]string{
	English: {
		"appName":                  "Notter",
		"newNote":                  "New Note",
		"search":                   "Search notes...",
		"noNotes":                  "No notes found",
		"favorite":                 "Favorite",
		"archive":                  "Archive",
		"delete":                   "Delete",
		"edit":                     "Edit",
		"save":                     "Save",
		"cancel":                   "Cancel",
		"tags":                     "Tags",
		"addTag":                   "Add tag",
		"export":                   "Export",
		"exportAsMarkdown":         "Export as Markdown",
		"settings":                 "Settings",
		"language":                 "Language",
		"deleteConfirmTitle":       "Delete Note",
		"deleteConfirmDescription": "Are you sure you want to delete this note? This action cannot be undone.",
	},
	Spanish: {
		"appName":                  "Notter",
		"newNote":                  "Nueva Nota",
		"search":                   "Buscar notas...",
		"noNotes":                  "No se encontraron notas",
		"favorite":                 "Favorito",
		"archive":                  "Archivar",
		"delete":                   "Eliminar",
		"edit":                     "Editar",
		"save":                     "Guardar",
		"cancel":                   "Cancelar",
		"tags":                     "Etiquetas",
		"addTag":                   "Agregar etiqueta",
		"export":                   "Exportar",
		"exportAsMarkdown":         "Exportar como Markdown",
		"settings":                 "Configuración",
		"language":                 "Idioma",
		"deleteConfirmTitle":       "Eliminar Nota",
		"deleteConfirmDescription": "¿Estás seguro de que quieres eliminar esta nota? Esta acción no se puede deshacer.",
	},
}

// T returns the translation for key in lang, falling back to English and
// finally to the key itself so a missing entry never renders as blank.
func T(lang Language, key string) string {
	if table, ok := tables[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := tables[DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// Supported reports whether lang has a translation table.
func Supported(lang Language) bool {
	_, ok := tables[lang]
	return ok
}
