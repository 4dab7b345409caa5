package chat

import (
	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/protocol"
	"github.com/Icerzack/guessroom/internal/round"
)

// Gate decides which chat submissions reach the transport. It does not know
// whether a text is the right word; the server judges guesses.
type Gate struct {
	logger *zap.Logger
}

func NewGate(logger *zap.Logger) *Gate {
	return &Gate{logger: logger}
}

// Submit returns the chat envelope for text, or false when the submission is
// dropped locally. A player who already guessed the word stays silent for
// the rest of the round.
func (g *Gate) Submit(nickname, roomID string, r round.State, text string) (protocol.Envelope, bool) {
	if roomID == "" {
		g.logger.Debug("Chat dropped, not in a room")
		return protocol.Envelope{}, false
	}
	if r.HasGuessedCorrectly {
		g.logger.Debug("Chat dropped, word already guessed", zap.String("roomID", roomID))
		return protocol.Envelope{}, false
	}
	return protocol.NewChat(nickname, roomID, text), true
}
