package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	inmemCache "github.com/Icerzack/guessroom/internal/cache/inmemory"
	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/round"
	"github.com/Icerzack/guessroom/internal/session"
	inmemCanvas "github.com/Icerzack/guessroom/internal/storage/canvas/inmemory"
	inmemViewer "github.com/Icerzack/guessroom/internal/storage/viewer/inmemory"
	"github.com/Icerzack/guessroom/internal/stroke"
)

type MockController struct {
	mock.Mock
}

func (m *MockController) CreateRoom(nickname string) error {
	return m.Called(nickname).Error(0)
}

func (m *MockController) JoinRoom(nickname, roomID string) error {
	return m.Called(nickname, roomID).Error(0)
}

func (m *MockController) LeaveRoom() error {
	return m.Called().Error(0)
}

func (m *MockController) StartGame() error {
	return m.Called().Error(0)
}

func (m *MockController) SendChat(text string) error {
	return m.Called(text).Error(0)
}

func (m *MockController) PointerDown(p models.Point) error {
	return m.Called(p).Error(0)
}

func (m *MockController) PointerMove(p models.Point) error {
	return m.Called(p).Error(0)
}

func (m *MockController) PointerUp() error {
	return m.Called().Error(0)
}

func (m *MockController) PointerLeave() error {
	return m.Called().Error(0)
}

func (m *MockController) SetTool(tool stroke.Tool) error {
	return m.Called(tool).Error(0)
}

func (m *MockController) SetColor(color string) error {
	return m.Called(color).Error(0)
}

func (m *MockController) SetWidth(width float64) error {
	return m.Called(width).Error(0)
}

type bridge struct {
	handler  *WebSocketHandler
	viewers  *inmemViewer.Storage
	canvases *inmemCanvas.Storage
	chat     *inmemCache.Cache
	url      string
}

func newBridge(t *testing.T, controller Controller) *bridge {
	t.Helper()
	logger := zap.NewNop()
	b := &bridge{
		viewers:  inmemViewer.NewStorage(logger),
		canvases: inmemCanvas.NewStorage(0, logger),
		chat:     inmemCache.NewCache(10, logger),
	}
	b.handler = NewWebSocketHandler(b.viewers, b.canvases, b.chat, logger)
	b.handler.SetController(controller)

	server := httptest.NewServer(http.HandlerFunc(b.handler.Handle))
	t.Cleanup(server.Close)
	b.url = "ws" + strings.TrimPrefix(server.URL, "http")
	return b
}

func (b *bridge) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	before, err := b.viewers.All()
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(b.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		all, _ := b.viewers.All()
		return len(all) == len(before)+1
	}, 2*time.Second, 5*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestWebSocketHandler_DispatchesCommands(t *testing.T) {
	t.Parallel()

	calls := make(chan string, 16)
	controller := &MockController{}
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { calls <- name }
	}
	controller.On("CreateRoom", "alice").Return(nil).Run(record("create"))
	controller.On("JoinRoom", "bob", "R1").Return(nil).Run(record("join"))
	controller.On("SendChat", "apple").Return(nil).Run(record("chat"))
	controller.On("PointerDown", models.Point{X: 1, Y: 2}).Return(nil).Run(record("down"))
	controller.On("PointerMove", models.Point{X: 3, Y: 4}).Return(nil).Run(record("move"))
	controller.On("PointerUp").Return(nil).Run(record("up"))
	controller.On("SetTool", stroke.ToolEraser).Return(nil).Run(record("tool"))
	controller.On("SetWidth", 8.0).Return(nil).Run(record("width"))
	controller.On("StartGame").Return(nil).Run(record("start"))
	controller.On("LeaveRoom").Return(nil).Run(record("leave"))

	b := newBridge(t, controller)
	conn := b.dial(t)

	for _, command := range []string{
		`{"event":"createRoom","nickname":"alice"}`,
		`{"event":"joinRoom","nickname":"bob","roomId":"R1"}`,
		`{"event":"chat","text":"apple"}`,
		`{"event":"pointer","action":"down","x":1,"y":2}`,
		`{"event":"pointer","action":"move","x":3,"y":4}`,
		`{"event":"pointer","action":"up"}`,
		`{"event":"tool","tool":"eraser","brushSize":8}`,
		`{"event":"startGame"}`,
		`{"event":"leaveRoom"}`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(command)))
	}

	want := []string{"create", "join", "chat", "down", "move", "up", "tool", "width", "start", "leave"}
	for _, name := range want {
		select {
		case got := <-calls:
			assert.Equal(t, name, got)
		case <-time.After(2 * time.Second):
			require.FailNow(t, "timed out waiting for "+name)
		}
	}
}

func TestWebSocketHandler_ReportsFailedCommands(t *testing.T) {
	t.Parallel()

	controller := &MockController{}
	controller.On("CreateRoom", "").Return(session.ErrInvalidInput)

	b := newBridge(t, controller)
	conn := b.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"createRoom","nickname":""}`)))
	event := readEvent(t, conn)
	assert.Equal(t, EventCommandFailed, event["event"])
	assert.Equal(t, EventCreateRoom, event["command"])
	assert.Equal(t, session.ErrInvalidInput.Error(), event["reason"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"pointer","action":"wiggle"}`)))
	event = readEvent(t, conn)
	assert.Equal(t, EventCommandFailed, event["event"])
	assert.Equal(t, EventPointer, event["command"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	event = readEvent(t, conn)
	assert.Equal(t, EventCommandFailed, event["event"])
}

func TestWebSocketHandler_PushesEvents(t *testing.T) {
	t.Parallel()

	b := newBridge(t, &MockController{})
	conn := b.dial(t)

	// strokes outside a room are not mirrored
	b.handler.BeginPath(models.Point{X: 9, Y: 9})

	b.handler.OnRoomEntered("R1")
	b.handler.OnRoundStateChanged(round.State{Phase: round.PhaseDrawing, Drawer: "alice"})
	b.handler.BeginPath(models.Point{X: 1, Y: 1})
	b.handler.LineTo(models.Point{X: 2, Y: 2}, models.Style{Color: "#FF0000", Width: 3})
	b.handler.OnChatLine(chat.Line{User: "System", Text: "bob guessed the word!"})

	event := readEvent(t, conn)
	assert.Equal(t, EventRoomEntered, event["event"])
	assert.Equal(t, "R1", event["roomId"])

	event = readEvent(t, conn)
	assert.Equal(t, EventRoundStateChanged, event["event"])
	assert.Equal(t, "drawing", event["phase"])
	assert.Equal(t, "alice", event["drawer"])

	event = readEvent(t, conn)
	assert.Equal(t, EventCanvasOp, event["event"])
	assert.Equal(t, models.OpBeginPath, event["op"].(map[string]interface{})["kind"])

	event = readEvent(t, conn)
	assert.Equal(t, EventCanvasOp, event["event"])
	assert.Equal(t, models.OpLineTo, event["op"].(map[string]interface{})["kind"])

	event = readEvent(t, conn)
	assert.Equal(t, EventChatLine, event["event"])
	assert.Equal(t, true, event["announcement"])

	ops, err := b.canvases.Get("R1")
	require.NoError(t, err)
	assert.Len(t, ops, 2)
	lines, err := b.chat.Get("R1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	b.handler.OnRoomClosed("R1")
	event = readEvent(t, conn)
	assert.Equal(t, EventRoomClosed, event["event"])
	_, err = b.canvases.Get("R1")
	assert.ErrorIs(t, err, inmemCanvas.ErrCanvasNotFound)
	assert.Empty(t, b.handler.RoomID())
}

func TestWebSocketHandler_UnregistersClosedViewers(t *testing.T) {
	t.Parallel()

	b := newBridge(t, &MockController{})
	conn := b.dial(t)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		all, _ := b.viewers.All()
		return len(all) == 0
	}, 2*time.Second, 5*time.Millisecond)

	// nothing left to write to
	b.handler.OnConnected(true)
}

func TestMessageDefiner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     string
		want    interface{}
		wantErr bool
	}{
		{
			name: "join room",
			msg:  `{"event":"joinRoom","nickname":"bob","roomId":"R1"}`,
			want: MessageJoinRoomRequest{Message: Message{Event: EventJoinRoom}, Nickname: "bob", RoomID: "R1"},
		},
		{
			name:    "tool with string brush size",
			msg:     `{"event":"tool","brushSize":"8"}`,
			wantErr: true,
		},
		{
			name: "leave room ignores payload",
			msg:  `{"event":"leaveRoom","roomId":"R1"}`,
			want: MessageLeaveRoomRequest{Message: Message{Event: EventLeaveRoom}},
		},
		{
			name:    "unknown event",
			msg:     `{"event":"dance"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			msg:     `{`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := messageDefiner([]byte(tt.msg))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
