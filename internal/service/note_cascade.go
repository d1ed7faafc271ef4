package service

import (
	"context"

	"notecapture-be/internal/dto"
	"notecapture-be/internal/pkg/logger"

	"github.com/google/uuid"
)

type NoteDeleter interface {
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNoteResponse, error)
}

type ObjectRemover interface {
	Remove(ctx context.Context, path string) error
}

// CascadeDeleter removes a note record and then the image object it referenced.
type CascadeDeleter struct {
	notes   NoteDeleter
	objects ObjectRemover
	logger  logger.ILogger
}

func NewCascadeDeleter(notes NoteDeleter, objects ObjectRemover, log logger.ILogger) *CascadeDeleter {
	return &CascadeDeleter{
		notes:   notes,
		objects: objects,
		logger:  log,
	}
}

// Delete returns the record delete error untouched and skips the object store
// in that case. An image removal failure is logged and not returned.
func (c *CascadeDeleter) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNoteResponse, error) {
	res, err := c.notes.Delete(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	if res == nil || !res.Data.HasImage() {
		return res, nil
	}

	path := *res.Data.ImageLocation
	if !IsImageKey(path) {
		c.logger.Warn("NoteCascade", "Skipping image outside images/", map[string]interface{}{
			"note_id": id.String(),
			"path":    path,
		})
		return res, nil
	}
	if err := c.objects.Remove(ctx, path); err != nil {
		c.logger.Error("NoteCascade", "Error removing note image", map[string]interface{}{
			"note_id": id.String(),
			"path":    path,
			"error":   err.Error(),
		})
	}
	return res, nil
}
