package client

import (
	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/round"
)

// Observer is notified of every change of the client state. All callbacks
// run on the client loop: they must return quickly and must not call back
// into the Client.
type Observer interface {
	OnRoomEntered(roomID string)

	// OnRoomClosed is called when the membership ends, either because the
	// server closed the room, the player left it or the connection was lost
	// for good.
	OnRoomClosed(roomID string)

	OnRosterChanged(roster []models.Player)
	OnRoundStateChanged(state round.State)

	// OnWordRevealed is called on the drawer's instance only.
	OnWordRevealed(word string)

	OnChatLine(line chat.Line)
	OnRemoteStrokeSegment(sender string, seg models.Segment)

	OnConnected(resumed bool)
	OnDisconnected(err error)
}

// Observers fans every callback out to all observers in order.
type Observers []Observer

func (o Observers) OnRoomEntered(roomID string) {
	for _, observer := range o {
		observer.OnRoomEntered(roomID)
	}
}

func (o Observers) OnRoomClosed(roomID string) {
	for _, observer := range o {
		observer.OnRoomClosed(roomID)
	}
}

func (o Observers) OnRosterChanged(roster []models.Player) {
	for _, observer := range o {
		observer.OnRosterChanged(roster)
	}
}

func (o Observers) OnRoundStateChanged(state round.State) {
	for _, observer := range o {
		observer.OnRoundStateChanged(state)
	}
}

func (o Observers) OnWordRevealed(word string) {
	for _, observer := range o {
		observer.OnWordRevealed(word)
	}
}

func (o Observers) OnChatLine(line chat.Line) {
	for _, observer := range o {
		observer.OnChatLine(line)
	}
}

func (o Observers) OnRemoteStrokeSegment(sender string, seg models.Segment) {
	for _, observer := range o {
		observer.OnRemoteStrokeSegment(sender, seg)
	}
}

func (o Observers) OnConnected(resumed bool) {
	for _, observer := range o {
		observer.OnConnected(resumed)
	}
}

func (o Observers) OnDisconnected(err error) {
	for _, observer := range o {
		observer.OnDisconnected(err)
	}
}

// NopObserver ignores everything. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) OnRoomEntered(string)                         {}
func (NopObserver) OnRoomClosed(string)                          {}
func (NopObserver) OnRosterChanged([]models.Player)              {}
func (NopObserver) OnRoundStateChanged(round.State)              {}
func (NopObserver) OnWordRevealed(string)                        {}
func (NopObserver) OnChatLine(chat.Line)                         {}
func (NopObserver) OnRemoteStrokeSegment(string, models.Segment) {}
func (NopObserver) OnConnected(bool)                             {}
func (NopObserver) OnDisconnected(error)                         {}

// LogObserver writes the session history to the logger.
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnRoomEntered(roomID string) {
	o.logger.Info("Entered room", zap.String("roomID", roomID))
}

func (o *LogObserver) OnRoomClosed(roomID string) {
	o.logger.Info("Room closed", zap.String("roomID", roomID))
}

func (o *LogObserver) OnRosterChanged(roster []models.Player) {
	o.logger.Debug("Roster changed", zap.Int("players", len(roster)))
}

func (o *LogObserver) OnRoundStateChanged(state round.State) {
	o.logger.Info("Round state changed",
		zap.Stringer("phase", state.Phase),
		zap.String("drawer", state.Drawer),
		zap.Bool("guessed", state.HasGuessedCorrectly),
	)
}

func (o *LogObserver) OnWordRevealed(word string) {
	o.logger.Info("Word to draw", zap.String("word", word))
}

func (o *LogObserver) OnChatLine(line chat.Line) {
	o.logger.Info(line.String())
}

func (o *LogObserver) OnRemoteStrokeSegment(string, models.Segment) {}

func (o *LogObserver) OnConnected(resumed bool) {
	o.logger.Info("Connected to game server", zap.Bool("resumed", resumed))
}

func (o *LogObserver) OnDisconnected(err error) {
	o.logger.Warn("Disconnected from game server", zap.Error(err))
}
