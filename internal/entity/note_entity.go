package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is a captured note. Id stays nil until a backend assigns one.
type Note struct {
	Id            *uuid.UUID `json:"id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ImageLocation *string    `json:"imageLocation,omitempty"`
	UserId        uuid.UUID  `json:"-"`
	CreatedAt     time.Time  `json:"-"`
}
