package websocket

import (
	"context"
	"encoding/json"
	"time"

	"notecapture-be/internal/dto"
	"notecapture-be/internal/entity"
	"notecapture-be/internal/mapper"
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is one live session: a note list kept in sync with the store and a
// draft being edited, both mirrored to the websocket.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// UserID associated with this connection
	UserID uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	list   *service.NoteListSynchronizer
	form   *service.NoteFormController
	mapper *mapper.NoteMapper
	logger logger.ILogger
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, notes service.INoteService, deleter *service.CascadeDeleter, log logger.ILogger) *Client {
	c := &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
		mapper: mapper.NewNoteMapper(),
		logger: log,
	}
	c.list = service.NewNoteListSynchronizer(userID, notes, deleter, log, c.sendSnapshot)
	c.form = service.NewNoteFormController(userID, notes, log, c.sendDraft)
	return c
}

// readPump pumps commands from the websocket connection into the session.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		// Stop snapshots before the hub closes Send.
		c.list.Deactivate()
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("LiveSession", "Unexpected close", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			break
		}
		c.handleCommand(ctx, message)
	}
}

// writePump pumps messages from the session to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One message per frame; clients parse each frame as a JSON object.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleCommand(ctx context.Context, raw []byte) {
	var cmd dto.LiveCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		c.sendError("Malformed command")
		return
	}

	switch cmd.Action {
	case dto.LiveActionSetName:
		c.form.SetName(cmd.Value)
	case dto.LiveActionSetDescription:
		c.form.SetDescription(cmd.Value)
	case dto.LiveActionAttachImage:
		if cmd.Value == "" {
			c.sendError("Missing image path")
			return
		}
		if !c.form.AttachImage(cmd.Value) {
			c.sendError("Invalid image path")
		}
	case dto.LiveActionSubmit:
		if !c.form.Submit(ctx) {
			c.sendError("Name and description are required")
		}
	case dto.LiveActionDelete:
		if cmd.Id == uuid.Nil {
			c.sendError("Missing note id")
			return
		}
		c.list.Delete(ctx, cmd.Id)
	default:
		c.sendError("Unknown action")
	}
}

func (c *Client) sendSnapshot(notes []entity.Note) {
	c.enqueue(dto.LiveTypeSnapshot, c.mapper.ToResponses(notes))
}

func (c *Client) sendDraft(draft entity.Note) {
	c.enqueue(dto.LiveTypeDraft, dto.DraftResponse{
		Name:          draft.Name,
		Description:   draft.Description,
		ImageLocation: draft.ImageLocation,
	})
}

func (c *Client) sendError(message string) {
	c.enqueue(dto.LiveTypeError, message)
}

// enqueue never blocks. A dropped snapshot is healed by the next one.
func (c *Client) enqueue(msgType string, data any) {
	payload, err := json.Marshal(dto.LiveMessage{Type: msgType, Data: data})
	if err != nil {
		c.logger.Error("LiveSession", "Failed to encode message", map[string]interface{}{
			"type":  msgType,
			"error": err.Error(),
		})
		return
	}

	select {
	case c.Send <- payload:
	default:
		c.logger.Warn("LiveSession", "Client Send buffer full, dropping message", map[string]interface{}{
			"user_id": c.UserID,
			"type":    msgType,
		})
	}
}
