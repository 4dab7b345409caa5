package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/stroke"
	"github.com/Icerzack/guessroom/internal/transport"
)

type lineObserver struct {
	NopObserver
	lines chan string
}

func (o *lineObserver) OnWordRevealed(word string) { o.lines <- "word " + word }
func (o *lineObserver) OnChatLine(line chat.Line)  { o.lines <- line.String() }

func (o *lineObserver) expect(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-o.lines:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for "+want)
	}
}

// scriptedServer plays the server side of one game: it admits alice, makes
// her the drawer and records what she sends.
func scriptedServer(t *testing.T, frames chan<- string) string {
	t.Helper()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		frames <- string(data)

		for _, f := range []string{
			`{"type":"room_created","roomId":"R1"}`,
			`{"type":"player_list","roomId":"R1","content":"[{\"nickname\":\"alice\",\"points\":0,\"isCreator\":true}]"}`,
			`{"type":"game_started","roomId":"R1","user":"System","content":"Game started!"}`,
			`{"type":"draw_turn","roomId":"R1","user":"alice"}`,
			`{"type":"word_to_draw","roomId":"R1","user":"alice","content":"apple"}`,
			`{"type":"draw","roomId":"R1","user":"bob","content":"{\"x\":\"left\"}"}`,
			`{"type":"chat","roomId":"R1","user":"bob","content":"hi"}`,
		} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames <- string(data)
		}
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestClient_OverWebsocket(t *testing.T) {
	t.Parallel()

	frames := make(chan string, 16)
	url := scriptedServer(t, frames)

	observer := &lineObserver{lines: make(chan string, 16)}
	canvas := stroke.NewJournal()
	c := New(Config{Transport: transport.Config{Endpoint: url}}, canvas, observer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	next := func() string {
		t.Helper()
		select {
		case f := <-frames:
			return f
		case <-time.After(2 * time.Second):
			require.FailNow(t, "timed out waiting for a frame")
		}
		return ""
	}

	require.NoError(t, c.CreateRoom("alice"))
	assert.JSONEq(t, `{"type":"create_room","user":"alice"}`, next())

	observer.expect(t, "*** Game started! ***")
	observer.expect(t, "word apple")
	// the malformed draw is dropped, the chat behind it still arrives
	observer.expect(t, "bob: hi")

	s, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, s.CanDraw())
	assert.Equal(t, []models.Player{{Nickname: "alice", IsCreator: true}}, s.Room.Roster)

	require.NoError(t, c.PointerDown(models.Point{X: 1, Y: 2}))
	require.NoError(t, c.PointerMove(models.Point{X: 3, Y: 4}))

	assert.JSONEq(t,
		`{"type":"draw","user":"alice","roomId":"R1","content":"{\"x\":1,\"y\":2,\"color\":\"#000000\",\"brushSize\":5,\"isNewStroke\":true}"}`,
		next())
	assert.JSONEq(t,
		`{"type":"draw","user":"alice","roomId":"R1","content":"{\"x\":3,\"y\":4,\"color\":\"#000000\",\"brushSize\":5,\"isNewStroke\":false}"}`,
		next())

	assert.Len(t, canvas.Ops(), 2)
}
