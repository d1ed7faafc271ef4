package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	ImageLocation *string `json:"imageLocation" validate:"omitempty,startswith=images/,max=512"`
}

type NoteResponse struct {
	Id            *uuid.UUID `json:"id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ImageLocation *string    `json:"imageLocation,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// HasImage reports whether the note references a stored image object.
func (r *NoteResponse) HasImage() bool {
	return r != nil && r.ImageLocation != nil && *r.ImageLocation != ""
}

// DeleteNoteResponse carries the record as it was before deletion.
type DeleteNoteResponse struct {
	Data *NoteResponse `json:"data"`
}
