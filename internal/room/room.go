package room

import (
	"github.com/Icerzack/guessroom/internal/models"
)

// Room is the membership of this client in a server room.
type Room struct {
	// ID is the identifier issued or validated by the server
	ID string `json:"roomId"`

	// Roster is the list of players in the order the server sent it
	Roster []models.Player `json:"roster"`
}

// NewRoom creates a room with an empty roster.
func NewRoom(id string) Room {
	return Room{
		ID:     id,
		Roster: make([]models.Player, 0),
	}
}

func (r Room) Joined() bool {
	return r.ID != ""
}

// ReplaceRoster returns the room with its roster replaced by players. The
// input is copied, later changes to it are not observed.
func (r Room) ReplaceRoster(players []models.Player) Room {
	roster := make([]models.Player, len(players))
	copy(roster, players)
	r.Roster = roster
	return r
}

// Owner returns the first player flagged as creator.
func (r Room) Owner() (models.Player, bool) {
	for _, p := range r.Roster {
		if p.IsCreator {
			return p, true
		}
	}
	return models.Player{}, false
}

func (r Room) Player(nickname string) (models.Player, bool) {
	for _, p := range r.Roster {
		if p.Nickname == nickname {
			return p, true
		}
	}
	return models.Player{}, false
}
