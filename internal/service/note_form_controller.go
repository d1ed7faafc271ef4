package service

import (
	"context"
	"sync"

	"notecapture-be/internal/entity"
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/internal/validation"

	"github.com/google/uuid"
)

type NoteCreator interface {
	Create(ctx context.Context, userId uuid.UUID, note entity.Note) (*entity.Note, error)
}

// NoteFormController owns one in-progress draft. Every setter replaces a
// single field; the last write wins.
type NoteFormController struct {
	userId   uuid.UUID
	creator  NoteCreator
	logger   logger.ILogger
	onChange func(entity.Note)

	mu    sync.Mutex
	draft entity.Note

	pending sync.WaitGroup
}

func NewNoteFormController(userId uuid.UUID, creator NoteCreator, log logger.ILogger, onChange func(entity.Note)) *NoteFormController {
	return &NoteFormController{
		userId:   userId,
		creator:  creator,
		logger:   log,
		onChange: onChange,
	}
}

func (f *NoteFormController) Draft() entity.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *NoteFormController) SetName(name string) {
	f.update(func(d *entity.Note) { d.Name = name })
}

func (f *NoteFormController) SetDescription(description string) {
	f.update(func(d *entity.Note) { d.Description = description })
}

// AttachImage records the object key reported by a finished upload. Keys
// outside images/ are refused and leave the draft unchanged.
func (f *NoteFormController) AttachImage(path string) bool {
	if !IsImageKey(path) {
		return false
	}
	f.update(func(d *entity.Note) { d.ImageLocation = &path })
	return true
}

// Submit validates the draft. An invalid draft is kept as typed and false is
// returned. A valid one is handed to the creator in the background and the
// draft is reset right away, without waiting for the result.
func (f *NoteFormController) Submit(ctx context.Context) bool {
	f.mu.Lock()
	draft := f.draft
	if !validation.IsValidNote(draft) {
		f.mu.Unlock()
		return false
	}
	f.draft = entity.Note{}
	f.mu.Unlock()

	f.pending.Add(1)
	go func() {
		defer f.pending.Done()
		if _, err := f.creator.Create(context.WithoutCancel(ctx), f.userId, draft); err != nil {
			f.logger.Error("NoteForm", "Error creating note", map[string]interface{}{
				"user_id": f.userId.String(),
				"error":   err.Error(),
			})
		}
	}()

	f.changed(entity.Note{})
	return true
}

// Wait blocks until every submitted create has finished.
func (f *NoteFormController) Wait() {
	f.pending.Wait()
}

func (f *NoteFormController) update(apply func(d *entity.Note)) {
	f.mu.Lock()
	apply(&f.draft)
	draft := f.draft
	f.mu.Unlock()

	f.changed(draft)
}

func (f *NoteFormController) changed(draft entity.Note) {
	if f.onChange != nil {
		f.onChange(draft)
	}
}
