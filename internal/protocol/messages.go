package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/Icerzack/guessroom/internal/models"
)

// Message is one decoded server envelope. The set of implementations is
// closed: one type per server kind.
type Message interface {
	Kind() string
}

type RoomCreated struct {
	RoomID string
}

type RoomJoined struct {
	RoomID string
}

type RoomClosed struct {
	RoomID string
}

type PlayerList struct {
	Players []models.Player
}

type GameStarted struct {
	Text string
}

type DrawTurn struct {
	User string
}

type WordToDraw struct {
	User string
	Word string
}

type RoundStarted struct {
	User string
}

type Chat struct {
	User string
	Text string
}

type Draw struct {
	User    string
	Segment models.Segment
}

type GameWon struct {
	Text string
}

func (RoomCreated) Kind() string  { return TypeRoomCreated }
func (RoomJoined) Kind() string   { return TypeRoomJoined }
func (RoomClosed) Kind() string   { return TypeRoomClosed }
func (PlayerList) Kind() string   { return TypePlayerList }
func (GameStarted) Kind() string  { return TypeGameStarted }
func (DrawTurn) Kind() string     { return TypeDrawTurn }
func (WordToDraw) Kind() string   { return TypeWordToDraw }
func (RoundStarted) Kind() string { return TypeRoundStarted }
func (Chat) Kind() string         { return TypeChat }
func (Draw) Kind() string         { return TypeDraw }
func (GameWon) Kind() string      { return TypeGameWon }

// Decode turns one inbound frame into its message variant. It returns an
// error wrapping ErrMalformedFrame when the frame cannot be used and
// ErrProtocolViolation when the kind is unknown.
func Decode(frame []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}

	switch env.Type {
	case TypeRoomCreated:
		if env.RoomID == "" {
			return nil, fmt.Errorf("%w: %s without roomId", ErrMalformedFrame, env.Type)
		}
		return RoomCreated{RoomID: env.RoomID}, nil
	case TypeRoomJoined:
		if env.RoomID == "" {
			return nil, fmt.Errorf("%w: %s without roomId", ErrMalformedFrame, env.Type)
		}
		return RoomJoined{RoomID: env.RoomID}, nil
	case TypeRoomClosed:
		return RoomClosed{RoomID: env.RoomID}, nil
	case TypePlayerList:
		players, err := decodePlayers(env.Content)
		if err != nil {
			return nil, err
		}
		return PlayerList{Players: players}, nil
	case TypeGameStarted:
		return GameStarted{Text: env.Content}, nil
	case TypeDrawTurn:
		if env.User == "" {
			return nil, fmt.Errorf("%w: %s without user", ErrMalformedFrame, env.Type)
		}
		return DrawTurn{User: env.User}, nil
	case TypeWordToDraw:
		return WordToDraw{User: env.User, Word: env.Content}, nil
	case TypeRoundStarted:
		return RoundStarted{User: env.User}, nil
	case TypeChat:
		return Chat{User: env.User, Text: env.Content}, nil
	case TypeDraw:
		seg, err := DecodeSegment(env.Content)
		if err != nil {
			return nil, err
		}
		return Draw{User: env.User, Segment: seg}, nil
	case TypeGameWon:
		return GameWon{Text: env.Content}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrProtocolViolation, env.Type)
}

func decodePlayers(content string) ([]models.Player, error) {
	players := make([]models.Player, 0)
	if err := json.Unmarshal([]byte(content), &players); err != nil {
		return nil, fmt.Errorf("%w: player list: %v", ErrMalformedFrame, err)
	}
	// a JSON null decodes into a nil slice; an empty roster is still a roster
	if players == nil {
		players = make([]models.Player, 0)
	}
	return players, nil
}
