package validation

import "notecapture-be/internal/entity"

// IsValidNote reports whether a draft is complete enough to persist.
// Only emptiness is checked, so whitespace-only values pass.
func IsValidNote(note entity.Note) bool {
	return note.Name != "" && note.Description != ""
}
