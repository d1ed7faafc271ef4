// Package local holds the legacy note repository that keeps the whole note
// collection as one JSON array under a single key.
package local

import (
	"context"
	"encoding/json"
	"fmt"

	"notecapture-be/internal/entity"
	"notecapture-be/pkg/kvstore"
)

const NotesKey = "notes"

type NoteRepository struct {
	store kvstore.Store
}

func NewNoteRepository(store kvstore.Store) *NoteRepository {
	return &NoteRepository{store: store}
}

// FindAll decodes the stored array verbatim. A missing or empty key yields an
// empty slice; malformed content is returned as an error.
func (r *NoteRepository) FindAll(ctx context.Context) ([]entity.Note, error) {
	raw, found, err := r.store.Get(ctx, NotesKey)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []entity.Note{}, nil
	}

	var notes []entity.Note
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", NotesKey, err)
	}
	if notes == nil {
		notes = []entity.Note{}
	}
	return notes, nil
}

// Save appends note to the stored array. Duplicates are allowed.
func (r *NoteRepository) Save(ctx context.Context, note entity.Note) error {
	notes, err := r.FindAll(ctx)
	if err != nil {
		return err
	}
	return r.write(ctx, append(notes, note))
}

func (r *NoteRepository) write(ctx context.Context, notes []entity.Note) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, NotesKey, string(data))
}
