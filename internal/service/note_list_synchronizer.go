package service

import (
	"context"
	"sync"

	"notecapture-be/internal/entity"
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/pkg/livequery"

	"github.com/google/uuid"
)

type NoteObserver interface {
	ObserveQuery(userId uuid.UUID) livequery.Query[entity.Note]
}

// NoteListSynchronizer keeps one user's note list in step with a live query.
// Every snapshot replaces the list wholesale; deletes go through the cascade
// and only show up in the list once the next snapshot arrives.
type NoteListSynchronizer struct {
	userId   uuid.UUID
	observer NoteObserver
	deleter  *CascadeDeleter
	logger   logger.ILogger
	onChange func([]entity.Note)

	lifecycle sync.Mutex
	sub       livequery.Subscription

	mu    sync.RWMutex
	notes []entity.Note
}

func NewNoteListSynchronizer(
	userId uuid.UUID,
	observer NoteObserver,
	deleter *CascadeDeleter,
	log logger.ILogger,
	onChange func([]entity.Note),
) *NoteListSynchronizer {
	return &NoteListSynchronizer{
		userId:   userId,
		observer: observer,
		deleter:  deleter,
		logger:   log,
		onChange: onChange,
		notes:    []entity.Note{},
	}
}

// Activate opens the live query. It is a no-op while already active.
func (s *NoteListSynchronizer) Activate() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.sub != nil {
		return
	}
	s.sub = s.observer.ObserveQuery(s.userId).Subscribe(livequery.Observer[entity.Note]{
		Next:  s.apply,
		Error: s.reportError,
	})
}

// Deactivate releases the subscription opened by the last Activate.
func (s *NoteListSynchronizer) Deactivate() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.sub == nil {
		return
	}
	s.sub.Unsubscribe()
	s.sub = nil
}

func (s *NoteListSynchronizer) Active() bool {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	return s.sub != nil
}

// Notes returns a copy of the current list.
func (s *NoteListSynchronizer) Notes() []entity.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Note(nil), s.notes...)
}

// Delete runs the cascade delete. A failed record delete is logged once and
// left alone: no retry, no image removal, no change to the list.
func (s *NoteListSynchronizer) Delete(ctx context.Context, id uuid.UUID) {
	if _, err := s.deleter.Delete(ctx, s.userId, id); err != nil {
		s.logger.Error("NoteList", "Error deleting note", map[string]interface{}{
			"note_id": id.String(),
			"error":   err.Error(),
		})
	}
}

func (s *NoteListSynchronizer) apply(snapshot livequery.Snapshot[entity.Note]) {
	notes := make([]entity.Note, len(snapshot.Items))
	copy(notes, snapshot.Items)

	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(append([]entity.Note(nil), notes...))
	}
}

func (s *NoteListSynchronizer) reportError(err error) {
	s.logger.Error("NoteList", "Live query failed", map[string]interface{}{
		"user_id": s.userId.String(),
		"error":   err.Error(),
	})
}
