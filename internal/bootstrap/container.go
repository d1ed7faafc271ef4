package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"notecapture-be/internal/config"
	"notecapture-be/internal/controller"
	"notecapture-be/internal/handler"
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/internal/repository/contract"
	"notecapture-be/internal/repository/implementation"
	"notecapture-be/internal/repository/local"
	"notecapture-be/internal/service"
	"notecapture-be/internal/websocket"
	"notecapture-be/pkg/kvstore"
	"notecapture-be/pkg/livequery"
	"notecapture-be/pkg/objectstore"

	pktNats "notecapture-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController        controller.INoteController
	StorageController     controller.IStorageController
	DiagnosticsController controller.IDiagnosticsController

	// WebSockets
	LiveHandler  *handler.LiveHandler
	WebSocketHub *websocket.Hub

	// Background Services (Exposed for main.go to run)
	ChangeRelayService service.IChangeRelayService
	DeletionTrigger    *objectstore.DeletionTrigger

	Logger logger.ILogger

	closers []func() error
}

// NewContainer wires every component for the configured storage mode. db is
// only used in remote mode and may be nil otherwise.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger
	instanceId := uuid.NewString()

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	feed := livequery.NewFeed(pubSub, livequery.DefaultTopic)
	c.closers = append(c.closers, feed.Close)

	// 3. Note store
	repo, err := c.newNoteRepository(db, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 4. Cross-instance events
	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.ChangeRelayService = service.NewChangeRelayService(natsSub, feed, instanceId, sysLogger)
			c.closers = append(c.closers, func() error { natsSub.Close(); return nil })
		}
	}

	// 5. Object store
	store, err := objectstore.NewFileStore(cfg.Storage.ObjectStoreRoot)
	if err != nil {
		c.Close()
		return nil, err
	}

	trigger := objectstore.NewDeletionTrigger(store, cfg.Storage.DeleteWindow, sysLogger)
	trigger.OnDelete(service.NewObjectDeletionService(sysLogger).HandleDeleted)
	c.DeletionTrigger = trigger
	c.closers = append(c.closers, trigger.Close)

	// 6. Services
	noteService := service.NewNoteService(repo, feed, eventPublisher, instanceId, sysLogger)
	storageService := service.NewStorageService(store, sysLogger)
	deleter := service.NewCascadeDeleter(noteService, storageService, sysLogger)

	// 7. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.LiveLogFilePath)
	c.WebSocketHub = websocket.NewHub(wsLogger)
	c.LiveHandler = handler.NewLiveHandler(c.WebSocketHub, noteService, deleter, wsLogger)

	// 8. Controllers
	c.NoteController = controller.NewNoteController(noteService, deleter)
	c.StorageController = controller.NewStorageController(storageService, cfg.Storage.UploadMaxBytes)
	c.DiagnosticsController = controller.NewDiagnosticsController(sysLogger)

	// Sync on a console core fails on some terminals; nothing to do about it.
	c.closers = append(c.closers, func() error {
		_ = wsLogger.Sync()
		_ = sysLogger.Sync()
		return nil
	})
	return c, nil
}

func (c *Container) newNoteRepository(db *gorm.DB, cfg *config.Config) (contract.NoteRepository, error) {
	switch cfg.Storage.Mode {
	case config.StorageModeRemote:
		if db == nil {
			return nil, errors.New("remote storage mode requires a database")
		}
		log.Printf("[INFO] Using note store: POSTGRES")
		return implementation.NewNoteRepository(db), nil

	case config.StorageModeLocal:
		if cfg.Storage.LocalKVBackend == config.KVBackendRedis {
			rdb, err := kvstore.NewRedisStoreFromURL(context.Background(), cfg.App.RedisURL)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to Redis: %w", err)
			}
			c.closers = append(c.closers, rdb.Close)
			log.Printf("[INFO] Using note store: REDIS")
			return local.NewNoteStore(rdb), nil
		}
		log.Printf("[INFO] Using note store: MEMORY")
		return local.NewNoteStore(kvstore.NewMemoryStore()), nil

	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Storage.Mode)
	}
}

// Start launches the background workers. They stop when ctx is done or the
// container is closed.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.DeletionTrigger.Start(ctx); err != nil {
		return fmt.Errorf("failed to start deletion trigger: %w", err)
	}

	if c.ChangeRelayService != nil {
		if err := c.ChangeRelayService.Start(); err != nil {
			// Live queries still work for writes made on this instance.
			c.Logger.Warn("Bootstrap", "Change relay disabled", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Close releases resources in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
