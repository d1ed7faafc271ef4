package service

import (
	"context"
	"time"

	"notecapture-be/internal/dto"
	"notecapture-be/internal/entity"
	"notecapture-be/internal/mapper"
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/internal/repository/contract"
	"notecapture-be/pkg/events"
	"notecapture-be/pkg/livequery"

	"github.com/google/uuid"
)

// EventPublisher sends note change events to other instances.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type INoteService interface {
	List(ctx context.Context, userId uuid.UUID) ([]entity.Note, error)
	Create(ctx context.Context, userId uuid.UUID, note entity.Note) (*entity.Note, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNoteResponse, error)
	ObserveQuery(userId uuid.UUID) livequery.Query[entity.Note]
}

type noteService struct {
	repo           contract.NoteRepository
	feed           *livequery.Feed
	eventPublisher EventPublisher
	instanceId     string
	mapper         *mapper.NoteMapper
	logger         logger.ILogger
}

// NewNoteService wires the note store to the change feed. eventPublisher may
// be nil when running a single instance.
func NewNoteService(
	repo contract.NoteRepository,
	feed *livequery.Feed,
	eventPublisher EventPublisher,
	instanceId string,
	log logger.ILogger,
) INoteService {
	return &noteService{
		repo:           repo,
		feed:           feed,
		eventPublisher: eventPublisher,
		instanceId:     instanceId,
		mapper:         mapper.NewNoteMapper(),
		logger:         log,
	}
}

func (s *noteService) List(ctx context.Context, userId uuid.UUID) ([]entity.Note, error) {
	notes, err := s.repo.List(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]entity.Note, 0, len(notes))
	for _, n := range notes {
		if n != nil {
			res = append(res, *n)
		}
	}
	return res, nil
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, note entity.Note) (*entity.Note, error) {
	id := uuid.New()
	note.Id = &id
	note.UserId = userId
	note.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, &note); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, events.NoteCreated, userId, *note.Id)
	return &note, nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNoteResponse, error) {
	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	s.notifyChange(ctx, events.NoteDeleted, userId, id)
	return &dto.DeleteNoteResponse{Data: s.mapper.ToResponse(deleted)}, nil
}

func (s *noteService) ObserveQuery(userId uuid.UUID) livequery.Query[entity.Note] {
	return livequery.NewQuery(s.feed, userId.String(), func(ctx context.Context) ([]entity.Note, error) {
		return s.List(ctx, userId)
	})
}

// notifyChange never fails the write: live views catch up on the next change.
func (s *noteService) notifyChange(ctx context.Context, eventType string, userId, noteId uuid.UUID) {
	if err := s.feed.Notify(userId.String()); err != nil {
		s.logger.Warn("NoteService", "Failed to notify live queries", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}

	if s.eventPublisher == nil {
		return
	}
	evt := events.NewNoteEvent(eventType, userId.String(), noteId.String(), s.instanceId)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("NoteService", "Failed to publish note event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
