package contract

import (
	"context"
	"errors"

	"notecapture-be/internal/entity"

	"github.com/google/uuid"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepository is the storage abstraction shared by the remote and legacy
// note stores.
type NoteRepository interface {
	// List returns the user's notes in creation order.
	List(ctx context.Context, userId uuid.UUID) ([]*entity.Note, error)
	Create(ctx context.Context, note *entity.Note) error
	// Delete removes the note and returns it as it was before deletion.
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.Note, error)
}
