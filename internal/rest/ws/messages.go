package ws

import (
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/round"
)

type Message struct {
	Event string `json:"event"`
}

type MessageCreateRoomRequest struct {
	Message
	Nickname string `json:"nickname"`
}

type MessageJoinRoomRequest struct {
	Message
	Nickname string `json:"nickname"`
	RoomID   string `json:"roomId"`
}

type MessageLeaveRoomRequest struct {
	Message
}

type MessageStartGameRequest struct {
	Message
}

type MessageChatRequest struct {
	Message
	Text string `json:"text"`
}

type MessagePointerRequest struct {
	Message
	// Action is one of down, move, up and leave
	Action string  `json:"action"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// MessageToolRequest changes the parts of the brush that are set.
type MessageToolRequest struct {
	Message
	Tool      string  `json:"tool,omitempty"`
	Color     string  `json:"color,omitempty"`
	BrushSize float64 `json:"brushSize,omitempty"`
}

type MessageRoomEnteredResponse struct {
	Message
	RoomID string `json:"roomId"`
}

type MessageRoomClosedResponse struct {
	Message
	RoomID string `json:"roomId"`
}

type MessageRosterChangedResponse struct {
	Message
	Roster []models.Player `json:"roster"`
}

type MessageRoundStateChangedResponse struct {
	Message
	Phase               round.Phase `json:"phase"`
	Drawer              string      `json:"drawer"`
	HasGuessedCorrectly bool        `json:"hasGuessedCorrectly"`
}

type MessageWordRevealedResponse struct {
	Message
	Word string `json:"word"`
}

type MessageChatLineResponse struct {
	Message
	User         string `json:"user"`
	Text         string `json:"text"`
	Announcement bool   `json:"announcement"`
}

type MessageCanvasOpResponse struct {
	Message
	RoomID string          `json:"roomId"`
	Op     models.CanvasOp `json:"op"`
}

type MessageConnectionResponse struct {
	Message
	Connected bool   `json:"connected"`
	Resumed   bool   `json:"resumed,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type MessageCommandFailedResponse struct {
	Message
	Command string `json:"command"`
	Reason  string `json:"reason"`
}
