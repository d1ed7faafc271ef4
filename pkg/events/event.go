package events

import "time"

// Note change event types.
const (
	NoteCreated = "NOTE_CREATED"
	NoteDeleted = "NOTE_DELETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewNoteEvent builds a note change event. origin identifies the emitting
// instance so it can skip its own events when they come back over the bus.
func NewNoteEvent(eventType, userId, noteId, origin string) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id": userId,
			"note_id": noteId,
			"origin":  origin,
		},
		OccurredAt: time.Now(),
	}
}

// StringField reads a string value from an event payload.
func StringField(e Event, key string) string {
	s, _ := e.Payload()[key].(string)
	return s
}
