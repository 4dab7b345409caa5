package rest

import (
	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/round"
)

type StateResponse struct {
	Nickname string          `json:"nickname"`
	RoomID   string          `json:"roomId"`
	Owner    string          `json:"owner,omitempty"`
	Roster   []models.Player `json:"roster"`
	Round    RoundResponse   `json:"round"`
	CanDraw  bool            `json:"canDraw"`
	Chat     []chat.Line     `json:"chat"`
}

// RoundResponse carries the word only when this player draws.
type RoundResponse struct {
	Phase               round.Phase `json:"phase"`
	Drawer              string      `json:"drawer"`
	Word                string      `json:"word,omitempty"`
	HasGuessedCorrectly bool        `json:"hasGuessedCorrectly"`
}

type CanvasResponse struct {
	RoomID string            `json:"roomId"`
	Ops    []models.CanvasOp `json:"ops"`
}
