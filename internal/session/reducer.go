package session

import (
	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/protocol"
	"github.com/Icerzack/guessroom/internal/room"
	"github.com/Icerzack/guessroom/internal/round"
)

// Apply folds one server message into the state. It is pure: the returned
// events describe what changed, nothing else is touched.
func Apply(s State, msg protocol.Message) (State, []Event) {
	prev := s
	var events []Event

	switch m := msg.(type) {
	case protocol.RoomCreated:
		s = s.enter(m.RoomID)
		events = append(events, RoomEntered{RoomID: m.RoomID})

	case protocol.RoomJoined:
		s = s.enter(m.RoomID)
		events = append(events, RoomEntered{RoomID: m.RoomID})

	case protocol.RoomClosed:
		if m.RoomID != "" && m.RoomID != s.Room.ID {
			return s, nil
		}
		closed := s.Room.ID
		s = State{}
		events = append(events, RoomClosed{RoomID: closed})

	case protocol.PlayerList:
		s = s.applyRoster(m.Players)
		events = append(events, RosterChanged{Roster: copyRoster(s.Room.Roster)})

	case protocol.GameStarted:
		s.Round = s.Round.GameStarted()
		events = appendAnnouncement(events, m.Text)

	case protocol.DrawTurn:
		s.Round = s.Round.DrawTurn(m.User)

	case protocol.WordToDraw:
		s.Round = s.Round.WordToDraw(s.Nickname, m.User, m.Word)
		if s.Round.Phase == round.PhaseDrawing && prev.Round.Phase != round.PhaseDrawing {
			events = append(events, WordRevealed{Word: m.Word})
		}

	case protocol.RoundStarted:
		s.Round = s.Round.RoundStarted(s.Nickname, m.User)

	case protocol.Chat:
		events = append(events, ChatLine{Line: chat.Line{User: m.User, Text: m.Text}})

	case protocol.Draw:
		// our own strokes are already on the canvas
		if m.User != "" && m.User == s.Nickname {
			return s, nil
		}
		if s.CanDraw() {
			return s, nil
		}
		s.Round = s.Round.StrokeReceived(s.Nickname)
		events = append(events, RemoteSegment{Sender: m.User, Segment: m.Segment})

	case protocol.GameWon:
		s.Round = s.Round.GameWon()
		events = appendAnnouncement(events, m.Text)
	}

	if s.Round != prev.Round {
		events = append(events, RoundChanged{Round: s.Round})
	}
	return s, events
}

// enter records admission to roomID. Re-entering the same room, as happens
// after a reconnect, keeps roster and round.
func (s State) enter(roomID string) State {
	if s.Nickname == "" {
		s.Nickname = s.Requested
	}
	if s.Room.ID == roomID {
		return s
	}
	next := room.NewRoom(roomID)
	if s.Room.ID == "" {
		// a player_list may overtake its room_joined
		next = next.ReplaceRoster(s.Room.Roster)
	}
	s.Room = next
	s.Round = round.State{}
	return s
}

// applyRoster replaces the roster and detects our own correct guess: the
// server reports it only through our score going up.
func (s State) applyRoster(players []models.Player) State {
	before, hadBefore := s.Room.Player(s.Nickname)
	s.Room = s.Room.ReplaceRoster(players)
	after, hasAfter := s.Room.Player(s.Nickname)

	guessing := s.Round.Phase == round.PhaseAwaitingWord || s.Round.Phase == round.PhaseDrawing
	if hadBefore && hasAfter && guessing && s.Round.Drawer != s.Nickname && after.Points > before.Points {
		s.Round = s.Round.GuessedCorrectly()
	}
	return s
}

func appendAnnouncement(events []Event, text string) []Event {
	if text == "" {
		return events
	}
	return append(events, ChatLine{Line: chat.Line{User: protocol.SystemUser, Text: text}})
}

func copyRoster(roster []models.Player) []models.Player {
	out := make([]models.Player, len(roster))
	copy(out, roster)
	return out
}
