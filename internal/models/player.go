package models

// Player is a struct that represents one roster entry of a room.
type Player struct {
	// Nickname is the name the player chose when entering the room.
	Nickname string `json:"nickname"`

	// Points is the score reported by the server.
	Points int `json:"points"`

	// IsCreator is true for the player who created the room.
	IsCreator bool `json:"isCreator"`
}
