package service

import (
	"context"

	"notecapture-be/internal/pkg/logger"
	"notecapture-be/pkg/events"
	"notecapture-be/pkg/livequery"
	pktNats "notecapture-be/pkg/nats"
)

type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type IChangeRelayService interface {
	Start() error
}

// changeRelayService forwards note events written by other instances onto the
// local feed so their live queries refresh too.
type changeRelayService struct {
	subscriber EventSubscriber
	feed       *livequery.Feed
	instanceId string
	logger     logger.ILogger
}

func NewChangeRelayService(subscriber EventSubscriber, feed *livequery.Feed, instanceId string, log logger.ILogger) IChangeRelayService {
	return &changeRelayService{
		subscriber: subscriber,
		feed:       feed,
		instanceId: instanceId,
		logger:     log,
	}
}

func (s *changeRelayService) Start() error {
	subject := pktNats.SubjectPrefix + "NOTE_*"
	durable := "note-relay-" + s.instanceId
	return s.subscriber.Subscribe(subject, durable, s.handle)
}

func (s *changeRelayService) handle(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.NoteCreated, events.NoteDeleted:
	default:
		return nil
	}

	if events.StringField(event, "origin") == s.instanceId {
		return nil
	}

	userId := events.StringField(event, "user_id")
	if userId == "" {
		s.logger.Warn("ChangeRelay", "Dropping event without user", map[string]interface{}{
			"event": event.EventType(),
		})
		return nil
	}

	return s.feed.Notify(userId)
}
