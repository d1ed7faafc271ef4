package local

import (
	"context"
	"fmt"
	"sync"

	"notecapture-be/internal/entity"
	"notecapture-be/internal/repository/contract"
	"notecapture-be/pkg/kvstore"

	"github.com/google/uuid"
)

// NoteStore serves contract.NoteRepository from per-user legacy repositories.
// Each user gets their own "notes" key under a user prefix.
type NoteStore struct {
	store kvstore.Store

	// Serializes read-modify-write cycles on the single key.
	mu sync.Mutex
}

func NewNoteStore(store kvstore.Store) contract.NoteRepository {
	return &NoteStore{store: store}
}

func (s *NoteStore) repo(userId uuid.UUID) *NoteRepository {
	return NewNoteRepository(kvstore.WithPrefix(s.store, fmt.Sprintf("user:%s:", userId)))
}

func (s *NoteStore) List(ctx context.Context, userId uuid.UUID) ([]*entity.Note, error) {
	notes, err := s.repo(userId).FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*entity.Note, len(notes))
	for i := range notes {
		notes[i].UserId = userId
		res[i] = &notes[i]
	}
	return res, nil
}

func (s *NoteStore) Create(ctx context.Context, note *entity.Note) error {
	if note.Id == nil {
		id := uuid.New()
		note.Id = &id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo(note.UserId).Save(ctx, *note)
}

func (s *NoteStore) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repo(userId)
	notes, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i, n := range notes {
		if n.Id == nil || *n.Id != id {
			continue
		}
		remaining := append(notes[:i:i], notes[i+1:]...)
		if err := repo.write(ctx, remaining); err != nil {
			return nil, err
		}
		n.UserId = userId
		return &n, nil
	}
	return nil, contract.ErrNoteNotFound
}
