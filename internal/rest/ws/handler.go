package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/cache"
	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/round"
	cStorage "github.com/Icerzack/guessroom/internal/storage/canvas"
	vStorage "github.com/Icerzack/guessroom/internal/storage/viewer"
	"github.com/Icerzack/guessroom/internal/stroke"
)

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrNoController   = errors.New("no game client attached")
)

// UI commands.
const (
	EventCreateRoom = "createRoom"
	EventJoinRoom   = "joinRoom"
	EventLeaveRoom  = "leaveRoom"
	EventStartGame  = "startGame"
	EventChat       = "chat"
	EventPointer    = "pointer"
	EventTool       = "tool"
)

// Events pushed to the UI.
const (
	EventRoomEntered       = "roomEntered"
	EventRoomClosed        = "roomClosed"
	EventRosterChanged     = "rosterChanged"
	EventRoundStateChanged = "roundStateChanged"
	EventWordRevealed      = "wordRevealed"
	EventChatLine          = "chatLine"
	EventCanvasOp          = "canvasOp"
	EventConnection        = "connection"
	EventCommandFailed     = "commandFailed"
)

const (
	PointerDown  = "down"
	PointerMove  = "move"
	PointerUp    = "up"
	PointerLeave = "leave"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Controller is the input side of the game client.
type Controller interface {
	CreateRoom(nickname string) error
	JoinRoom(nickname, roomID string) error
	LeaveRoom() error
	StartGame() error
	SendChat(text string) error
	PointerDown(p models.Point) error
	PointerMove(p models.Point) error
	PointerUp() error
	PointerLeave() error
	SetTool(tool stroke.Tool) error
	SetColor(color string) error
	SetWidth(width float64) error
}

// WebSocketHandler bridges the game client and the local UIs. It is the
// client's canvas and one of its observers, and turns UI commands into
// Controller calls.
type WebSocketHandler struct {
	// upgrader is used to upgrade the HTTP connection to a WebSocket connection
	upgrader *websocket.Upgrader

	// controller receives the commands of all viewers
	controller Controller

	// viewerStorage is used to store the connected UIs
	viewerStorage vStorage.Storage

	// canvasStorage keeps the primitives drawn in the current room
	canvasStorage cStorage.Storage

	// chatCache keeps the recent chat lines of the current room
	chatCache cache.Cache

	logger *zap.Logger

	// mu guards roomID and sends to viewers
	mu     sync.Mutex
	roomID string
}

func NewWebSocketHandler(
	viewerStorage vStorage.Storage,
	canvasStorage cStorage.Storage,
	chatCache cache.Cache,
	logger *zap.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		viewerStorage: viewerStorage,
		canvasStorage: canvasStorage,
		chatCache:     chatCache,
		logger:        logger,
	}
}

// SetController attaches the game client. It must be called before the
// handler serves requests.
func (ws *WebSocketHandler) SetController(controller Controller) {
	ws.controller = controller
}

// RoomID returns the room the bridge currently mirrors.
func (ws *WebSocketHandler) RoomID() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.roomID
}

func (ws *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	viewer := &models.Viewer{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, sendBufferSize),
	}
	if err := ws.viewerStorage.Set(viewer.ID, viewer); err != nil {
		ws.logger.Error("Failed to register viewer", zap.Error(err))
		return
	}
	logger := ws.logger.With(zap.String("viewerID", viewer.ID))
	logger.Info("Viewer connected")

	go ws.writePump(viewer, logger)

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil || mt == websocket.CloseMessage {
			ws.unregisterViewer(viewer)
			logger.Info("Viewer disconnected")
			break
		}

		// commands are handled in order: a pointer move must not overtake
		// its pointer down
		ws.messageHandler(viewer, msg, logger)
	}
}

func (ws *WebSocketHandler) messageHandler(viewer *models.Viewer, msg []byte, logger *zap.Logger) {
	message, err := messageDefiner(msg)
	if err != nil {
		logger.Debug("Failed to define message", zap.Error(err))
		ws.sendCommandFailed(viewer, "", err)
		return
	}
	if ws.controller == nil {
		ws.sendCommandFailed(viewer, "", ErrNoController)
		return
	}

	var command string
	switch v := message.(type) {
	case MessageCreateRoomRequest:
		command = v.Event
		err = ws.controller.CreateRoom(v.Nickname)
	case MessageJoinRoomRequest:
		command = v.Event
		err = ws.controller.JoinRoom(v.Nickname, v.RoomID)
	case MessageLeaveRoomRequest:
		command = v.Event
		err = ws.controller.LeaveRoom()
	case MessageStartGameRequest:
		command = v.Event
		err = ws.controller.StartGame()
	case MessageChatRequest:
		command = v.Event
		err = ws.controller.SendChat(v.Text)
	case MessagePointerRequest:
		command = v.Event
		err = ws.pointer(v)
	case MessageToolRequest:
		command = v.Event
		err = ws.tool(v)
	}

	if err != nil {
		logger.Debug("Command failed", zap.String("command", command), zap.Error(err))
		ws.sendCommandFailed(viewer, command, err)
	}
}

func (ws *WebSocketHandler) pointer(request MessagePointerRequest) error {
	p := models.Point{X: request.X, Y: request.Y}
	switch request.Action {
	case PointerDown:
		return ws.controller.PointerDown(p)
	case PointerMove:
		return ws.controller.PointerMove(p)
	case PointerUp:
		return ws.controller.PointerUp()
	case PointerLeave:
		return ws.controller.PointerLeave()
	}
	return fmt.Errorf("%w: unknown pointer action %q", ErrInvalidMessage, request.Action)
}

func (ws *WebSocketHandler) tool(request MessageToolRequest) error {
	if request.Tool != "" {
		tool, err := stroke.ParseTool(request.Tool)
		if err != nil {
			return err
		}
		if err := ws.controller.SetTool(tool); err != nil {
			return err
		}
	}
	if request.Color != "" {
		if err := ws.controller.SetColor(request.Color); err != nil {
			return err
		}
	}
	if request.BrushSize != 0 {
		if err := ws.controller.SetWidth(request.BrushSize); err != nil {
			return err
		}
	}
	return nil
}

func (ws *WebSocketHandler) writePump(viewer *models.Viewer, logger *zap.Logger) {
	for data := range viewer.Send {
		_ = viewer.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := viewer.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Debug("Failed to write to viewer", zap.Error(err))
			// unblock the read loop, it unregisters the viewer
			viewer.Conn.Close()
			return
		}
	}
	_ = viewer.Conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

func (ws *WebSocketHandler) unregisterViewer(viewer *models.Viewer) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.dropViewer(viewer)
}

// dropViewer must be called with mu held.
func (ws *WebSocketHandler) dropViewer(viewer *models.Viewer) {
	// only the call that removes the viewer closes its queue
	if err := ws.viewerStorage.Delete(viewer.ID); err != nil {
		return
	}
	close(viewer.Send)
}

func (ws *WebSocketHandler) broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		ws.logger.Error("Failed to encode event", zap.Error(err))
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	viewers, err := ws.viewerStorage.All()
	if err != nil {
		ws.logger.Error("Failed to list viewers", zap.Error(err))
		return
	}
	for _, viewer := range viewers {
		select {
		case viewer.Send <- data:
		default:
			ws.logger.Warn("Viewer too slow, disconnecting", zap.String("viewerID", viewer.ID))
			ws.dropViewer(viewer)
		}
	}
}

func (ws *WebSocketHandler) sendCommandFailed(viewer *models.Viewer, command string, reason error) {
	data, err := json.Marshal(MessageCommandFailedResponse{
		Message: Message{
			Event: EventCommandFailed,
		},
		Command: command,
		Reason:  reason.Error(),
	})
	if err != nil {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if _, err := ws.viewerStorage.Get(viewer.ID); err != nil {
		return
	}
	select {
	case viewer.Send <- data:
	default:
	}
}

func (ws *WebSocketHandler) OnRoomEntered(roomID string) {
	ws.mu.Lock()
	ws.roomID = roomID
	ws.mu.Unlock()

	ws.broadcast(MessageRoomEnteredResponse{
		Message: Message{
			Event: EventRoomEntered,
		},
		RoomID: roomID,
	})
}

func (ws *WebSocketHandler) OnRoomClosed(roomID string) {
	ws.mu.Lock()
	ws.roomID = ""
	ws.mu.Unlock()

	_ = ws.canvasStorage.Delete(roomID)
	_ = ws.chatCache.Delete(roomID)

	ws.broadcast(MessageRoomClosedResponse{
		Message: Message{
			Event: EventRoomClosed,
		},
		RoomID: roomID,
	})
}

func (ws *WebSocketHandler) OnRosterChanged(roster []models.Player) {
	ws.broadcast(MessageRosterChangedResponse{
		Message: Message{
			Event: EventRosterChanged,
		},
		Roster: roster,
	})
}

func (ws *WebSocketHandler) OnRoundStateChanged(state round.State) {
	ws.broadcast(MessageRoundStateChangedResponse{
		Message: Message{
			Event: EventRoundStateChanged,
		},
		Phase:               state.Phase,
		Drawer:              state.Drawer,
		HasGuessedCorrectly: state.HasGuessedCorrectly,
	})
}

func (ws *WebSocketHandler) OnWordRevealed(word string) {
	ws.broadcast(MessageWordRevealedResponse{
		Message: Message{
			Event: EventWordRevealed,
		},
		Word: word,
	})
}

func (ws *WebSocketHandler) OnChatLine(line chat.Line) {
	if roomID := ws.RoomID(); roomID != "" {
		if err := ws.chatCache.Push(roomID, line); err != nil {
			ws.logger.Warn("Failed to cache chat line", zap.Error(err))
		}
	}
	ws.broadcast(MessageChatLineResponse{
		Message: Message{
			Event: EventChatLine,
		},
		User:         line.User,
		Text:         line.Text,
		Announcement: line.IsAnnouncement(),
	})
}

// OnRemoteStrokeSegment needs no work: the segment already reached the
// canvas side of the bridge.
func (ws *WebSocketHandler) OnRemoteStrokeSegment(string, models.Segment) {}

func (ws *WebSocketHandler) OnConnected(resumed bool) {
	ws.broadcast(MessageConnectionResponse{
		Message: Message{
			Event: EventConnection,
		},
		Connected: true,
		Resumed:   resumed,
	})
}

func (ws *WebSocketHandler) OnDisconnected(err error) {
	response := MessageConnectionResponse{
		Message: Message{
			Event: EventConnection,
		},
	}
	if err != nil {
		response.Reason = err.Error()
	}
	ws.broadcast(response)
}

func (ws *WebSocketHandler) BeginPath(p models.Point) {
	ws.draw(models.CanvasOp{Kind: models.OpBeginPath, Point: p})
}

func (ws *WebSocketHandler) LineTo(p models.Point, style models.Style) {
	ws.draw(models.CanvasOp{Kind: models.OpLineTo, Point: p, Style: &style})
}

func (ws *WebSocketHandler) draw(op models.CanvasOp) {
	roomID := ws.RoomID()
	if roomID == "" {
		return
	}
	if err := ws.canvasStorage.Append(roomID, op); err != nil {
		ws.logger.Warn("Failed to store canvas op", zap.Error(err))
	}
	ws.broadcast(MessageCanvasOpResponse{
		Message: Message{
			Event: EventCanvasOp,
		},
		RoomID: roomID,
		Op:     op,
	})
}

func messageDefiner(msg []byte) (interface{}, error) {
	var message Message
	if err := json.Unmarshal(msg, &message); err != nil {
		return nil, ErrInvalidMessage
	}
	switch message.Event {
	case EventCreateRoom:
		var request MessageCreateRoomRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error Unmarshaling MessageCreateRoomRequest: %w", err)
		}
		return request, nil
	case EventJoinRoom:
		var request MessageJoinRoomRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error Unmarshaling MessageJoinRoomRequest: %w", err)
		}
		return request, nil
	case EventLeaveRoom:
		return MessageLeaveRoomRequest{Message: message}, nil
	case EventStartGame:
		return MessageStartGameRequest{Message: message}, nil
	case EventChat:
		var request MessageChatRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error Unmarshaling MessageChatRequest: %w", err)
		}
		return request, nil
	case EventPointer:
		var request MessagePointerRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error Unmarshaling MessagePointerRequest: %w", err)
		}
		return request, nil
	case EventTool:
		var request MessageToolRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			return nil, fmt.Errorf("error Unmarshaling MessageToolRequest: %w", err)
		}
		return request, nil
	}
	return nil, ErrInvalidMessage
}
