package service

import (
	"context"
	"sync"

	"notecapture-be/internal/dto"
	"notecapture-be/internal/entity"
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/pkg/events"
	"notecapture-be/pkg/livequery"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, module: module, message: message, details: details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.record("DEBUG", module, message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.record("INFO", module, message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.record("WARN", module, message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.record("ERROR", module, message, details)
}

func (l *recordingLogger) Sync() error {
	return nil
}

func (l *recordingLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

func (l *recordingLogger) GetLogById(id string) (*logger.LogEntry, error) {
	return nil, logger.ErrLogNotFound
}

func (l *recordingLogger) byLevel(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var res []logEntry
	for _, e := range l.entries {
		if e.level == level {
			res = append(res, e)
		}
	}
	return res
}

type mockNoteDeleter struct {
	mock.Mock
}

func (m *mockNoteDeleter) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNoteResponse, error) {
	args := m.Called(ctx, userId, id)
	res, _ := args.Get(0).(*dto.DeleteNoteResponse)
	return res, args.Error(1)
}

type mockObjectRemover struct {
	mock.Mock
}

func (m *mockObjectRemover) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type mockNoteCreator struct {
	mock.Mock
}

func (m *mockNoteCreator) Create(ctx context.Context, userId uuid.UUID, note entity.Note) (*entity.Note, error) {
	args := m.Called(ctx, userId, note)
	res, _ := args.Get(0).(*entity.Note)
	return res, args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// manualQuery hands the test control over snapshot delivery.
type manualQuery struct {
	mu           sync.Mutex
	observer     *livequery.Observer[entity.Note]
	subscribes   int
	unsubscribes int
}

func (q *manualQuery) ObserveQuery(userId uuid.UUID) livequery.Query[entity.Note] {
	return q
}

func (q *manualQuery) Subscribe(observer livequery.Observer[entity.Note]) livequery.Subscription {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.observer = &observer
	q.subscribes++
	return manualSubscription{q: q}
}

func (q *manualQuery) push(items ...entity.Note) {
	q.mu.Lock()
	observer := q.observer
	q.mu.Unlock()
	if observer != nil {
		observer.Next(livequery.Snapshot[entity.Note]{Items: items})
	}
}

func (q *manualQuery) fail(err error) {
	q.mu.Lock()
	observer := q.observer
	q.mu.Unlock()
	if observer != nil {
		observer.Error(err)
	}
}

func (q *manualQuery) counts() (int, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.subscribes, q.unsubscribes
}

type manualSubscription struct {
	q *manualQuery
}

func (s manualSubscription) Unsubscribe() {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	s.q.observer = nil
	s.q.unsubscribes++
}

func strPtr(s string) *string {
	return &s
}
