package session

import (
	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/round"
)

// Event is a change worth showing, produced by Apply.
type Event interface {
	isEvent()
}

type RoomEntered struct {
	RoomID string
}

type RoomClosed struct {
	RoomID string
}

type RosterChanged struct {
	Roster []models.Player
}

type RoundChanged struct {
	Round round.State
}

// WordRevealed is only produced on the drawer's instance.
type WordRevealed struct {
	Word string
}

type ChatLine struct {
	Line chat.Line
}

// RemoteSegment is a stroke segment of another player to replay.
type RemoteSegment struct {
	Sender  string
	Segment models.Segment
}

func (RoomEntered) isEvent()   {}
func (RoomClosed) isEvent()    {}
func (RosterChanged) isEvent() {}
func (RoundChanged) isEvent()  {}
func (WordRevealed) isEvent()  {}
func (ChatLine) isEvent()      {}
func (RemoteSegment) isEvent() {}
