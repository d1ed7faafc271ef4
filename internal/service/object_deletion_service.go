package service

import (
	"context"
	"fmt"
	"strings"

	"notecapture-be/internal/pkg/logger"
)

// ObjectDeletionService reacts to objects disappearing from the store. It only
// logs; nothing else depends on the notification.
type ObjectDeletionService struct {
	logger logger.ILogger
}

func NewObjectDeletionService(log logger.ILogger) *ObjectDeletionService {
	return &ObjectDeletionService{logger: log}
}

func (s *ObjectDeletionService) HandleDeleted(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	s.logger.Info("StorageTrigger", FormatDeleted(keys), map[string]interface{}{
		"keys": keys,
	})
}

// FormatDeleted renders keys as "Deleted [a, b]".
func FormatDeleted(keys []string) string {
	return fmt.Sprintf("Deleted [%s]", strings.Join(keys, ", "))
}
