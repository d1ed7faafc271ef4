package handler

import (
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/internal/pkg/serverutils"
	"notecapture-be/internal/service"
	internalWS "notecapture-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type LiveHandler struct {
	hub         *internalWS.Hub
	noteService service.INoteService
	deleter     *service.CascadeDeleter
	logger      logger.ILogger
}

func NewLiveHandler(hub *internalWS.Hub, noteService service.INoteService, deleter *service.CascadeDeleter, log logger.ILogger) *LiveHandler {
	return &LiveHandler{
		hub:         hub,
		noteService: noteService,
		deleter:     deleter,
		logger:      log,
	}
}

// ServeWs authenticates the handshake and upgrades it to a live session.
func (h *LiveHandler) ServeWs(c *fiber.Ctx) error {
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
	}

	userID, err := serverutils.ParseToken(tokenStr)
	if err != nil {
		h.logger.Warn("LiveHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("LiveHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID, h.noteService, h.deleter, h.logger)
			h.logger.Info("LiveHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *LiveHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
