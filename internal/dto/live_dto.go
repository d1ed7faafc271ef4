package dto

import "github.com/google/uuid"

// Live session actions sent by the client.
const (
	LiveActionSetName        = "set_name"
	LiveActionSetDescription = "set_description"
	LiveActionAttachImage    = "attach_image"
	LiveActionSubmit         = "submit"
	LiveActionDelete         = "delete"
)

// Live session message types pushed by the server.
const (
	LiveTypeSnapshot = "snapshot"
	LiveTypeDraft    = "draft"
	LiveTypeError    = "error"
)

type LiveCommand struct {
	Action string    `json:"action"`
	Value  string    `json:"value,omitempty"`
	Id     uuid.UUID `json:"id,omitempty"`
}

type LiveMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type DraftResponse struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	ImageLocation *string `json:"imageLocation,omitempty"`
}
