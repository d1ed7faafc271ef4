package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"notecapture-be/internal/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

// DeleteHandler receives the keys of objects removed since the last batch.
type DeleteHandler func(ctx context.Context, keys []string)

// DeletionTrigger watches the store root and reports removed objects to its
// handlers in batches.
type DeletionTrigger struct {
	store    *FileStore
	window   time.Duration
	logger   logger.ILogger
	handlers []DeleteHandler

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending []string
	timer   *time.Timer
}

func NewDeletionTrigger(store *FileStore, window time.Duration, log logger.ILogger) *DeletionTrigger {
	return &DeletionTrigger{
		store:  store,
		window: window,
		logger: log,
	}
}

// OnDelete registers h. Handlers must be registered before Start.
func (t *DeletionTrigger) OnDelete(h DeleteHandler) {
	t.handlers = append(t.handlers, h)
}

func (t *DeletionTrigger) Start(ctx context.Context) error {
	if t.watcher != nil {
		return fmt.Errorf("deletion trigger already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	err = filepath.WalkDir(t.store.Root(), func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", t.store.Root(), err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.watcher = watcher
	t.cancel = cancel

	t.wg.Add(1)
	go t.run(runCtx)
	return nil
}

func (t *DeletionTrigger) run(ctx context.Context) {
	defer t.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.handleEvent(ctx, event)

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Error("ObjectStore", "fsnotify error", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (t *DeletionTrigger) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		// New prefixes (e.g. "images/") need their own watch.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := t.watcher.Add(event.Name); err != nil {
				t.logger.Warn("ObjectStore", "Failed to watch new directory", map[string]interface{}{
					"path":  event.Name,
					"error": err.Error(),
				})
			}
		}
		return
	}

	if !event.Has(fsnotify.Remove) {
		return
	}

	key, ok := t.store.keyFor(event.Name)
	if !ok {
		return
	}
	t.add(ctx, key)
}

func (t *DeletionTrigger) add(ctx context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = append(t.pending, key)
	if t.timer == nil {
		t.timer = time.AfterFunc(t.window, func() { t.flush(ctx) })
	}
}

func (t *DeletionTrigger) flush(ctx context.Context) {
	t.mu.Lock()
	keys := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()

	if len(keys) == 0 {
		return
	}
	for _, h := range t.handlers {
		h(ctx, keys)
	}
}

// Close stops watching. Keys still waiting in the current window are dropped.
func (t *DeletionTrigger) Close() error {
	if t.watcher == nil {
		return nil
	}
	t.cancel()
	err := t.watcher.Close()
	t.wg.Wait()

	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
	t.mu.Unlock()
	return err
}
