package websocket

import (
	"context"

	"notecapture-be/internal/pkg/logger"
	"notecapture-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs runs a live session until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID, notes service.INoteService, deleter *service.CascadeDeleter, log logger.ILogger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := NewClient(hub, c, userID, notes, deleter, log)
	if !hub.Register(client) {
		c.Close()
		return
	}
	client.list.Activate()

	go client.writePump()
	client.readPump(ctx) // Run readPump in current goroutine (handler)
}
