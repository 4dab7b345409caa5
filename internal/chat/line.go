package chat

import "github.com/Icerzack/guessroom/internal/protocol"

// Line is one rendered chat entry.
type Line struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// IsAnnouncement reports whether the line comes from the server itself
// rather than from a player.
func (l Line) IsAnnouncement() bool {
	return l.User == protocol.SystemUser
}

func (l Line) String() string {
	if l.IsAnnouncement() {
		return "*** " + l.Text + " ***"
	}
	return l.User + ": " + l.Text
}
