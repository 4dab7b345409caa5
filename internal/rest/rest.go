package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/cache"
	"github.com/Icerzack/guessroom/internal/cache/inmemory"
	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/rest/ws"
	"github.com/Icerzack/guessroom/internal/session"
	"github.com/Icerzack/guessroom/internal/storage/canvas"
	inmemCanvas "github.com/Icerzack/guessroom/internal/storage/canvas/inmemory"
	inmemViewer "github.com/Icerzack/guessroom/internal/storage/viewer/inmemory"
)

var ErrNoClient = errors.New("no game client attached")

// Client is the game client as seen by the local UI.
type Client interface {
	ws.Controller
	Snapshot(ctx context.Context) (session.State, error)
}

// Rest serves the local UI: state snapshots over HTTP and a websocket
// bridge for live events and input.
type Rest struct {
	config *Config

	client        Client
	bridge        *ws.WebSocketHandler
	canvasStorage canvas.Storage
	chatCache     cache.Cache

	server *http.Server
}

func NewRest(config *Config) *Rest {
	rest := &Rest{
		config: config,
	}
	rest.canvasStorage = rest.defineStorage()
	rest.chatCache = rest.defineCache()
	rest.bridge = ws.NewWebSocketHandler(
		inmemViewer.NewStorage(config.Logger),
		rest.canvasStorage,
		rest.chatCache,
		config.Logger,
	)
	rest.server = &http.Server{
		Addr:              ":" + strconv.Itoa(config.Port),
		Handler:           rest.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return rest
}

// Bridge is the canvas and observer to hand to the game client.
func (rest *Rest) Bridge() *ws.WebSocketHandler {
	return rest.bridge
}

// Attach connects the game client. It must be called before Start.
func (rest *Rest) Attach(client Client) {
	rest.client = client
	rest.bridge.SetController(client)
}

func (rest *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// Define the /ping endpoint
	router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte("pong"))
		if err != nil {
			return
		}
	})

	router.Get("/state", rest.getState)
	router.Get("/canvas", rest.getCanvas)

	// Define the /ws endpoint
	router.HandleFunc("/ws", rest.bridge.Handle)

	return router
}

func (rest *Rest) Start() {
	if err := rest.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		rest.config.Logger.Error("server error", zap.Error(err))
		return
	}
}

func (rest *Rest) Stop() {
	if err := rest.server.Shutdown(context.Background()); err != nil {
		rest.config.Logger.Error("server error", zap.Error(err))
	}
}

func (rest *Rest) getState(w http.ResponseWriter, r *http.Request) {
	if rest.client == nil {
		http.Error(w, ErrNoClient.Error(), http.StatusServiceUnavailable)
		return
	}
	state, err := rest.client.Snapshot(r.Context())
	if err != nil {
		rest.config.Logger.Debug("Failed to take snapshot", zap.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	lines := make([]chat.Line, 0)
	if state.InRoom() {
		if lines, err = rest.chatCache.Get(state.Room.ID); err != nil {
			rest.config.Logger.Warn("Failed to read chat cache", zap.Error(err))
		}
	}

	roster := state.Room.Roster
	if roster == nil {
		roster = make([]models.Player, 0)
	}
	owner, _ := state.Room.Owner()
	rest.writeJSON(w, StateResponse{
		Nickname: state.Nickname,
		RoomID:   state.Room.ID,
		Owner:    owner.Nickname,
		Roster:   roster,
		Round: RoundResponse{
			Phase:               state.Round.Phase,
			Drawer:              state.Round.Drawer,
			Word:                state.Round.Word,
			HasGuessedCorrectly: state.Round.HasGuessedCorrectly,
		},
		CanDraw: state.CanDraw(),
		Chat:    lines,
	})
}

func (rest *Rest) getCanvas(w http.ResponseWriter, _ *http.Request) {
	roomID := rest.bridge.RoomID()
	ops, err := rest.canvasStorage.Get(roomID)
	if err != nil {
		ops = make([]models.CanvasOp, 0)
	}
	rest.writeJSON(w, CanvasResponse{
		RoomID: roomID,
		Ops:    ops,
	})
}

func (rest *Rest) writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rest.config.Logger.Debug("Failed to write response", zap.Error(err))
	}
}

func (rest *Rest) defineStorage() canvas.Storage {
	var canvasStorage canvas.Storage

	switch rest.config.CanvasStorageType {
	case canvas.InMemoryStorageType:
		rest.config.Logger.Info("Using in-memory storage for canvases")
		canvasStorage = inmemCanvas.NewStorage(rest.config.CanvasLimit, rest.config.Logger)
	default:
		rest.config.Logger.Info("Using in-memory storage for canvases")
		canvasStorage = inmemCanvas.NewStorage(rest.config.CanvasLimit, rest.config.Logger)
	}

	return canvasStorage
}

func (rest *Rest) defineCache() cache.Cache {
	var c cache.Cache

	switch rest.config.ChatCacheType {
	case cache.InMemoryCacheType:
		rest.config.Logger.Info("Using in-memory cache for chat")
		c = inmemory.NewCache(rest.config.ChatHistorySize, rest.config.Logger)
	default:
		rest.config.Logger.Info("Using in-memory cache for chat")
		c = inmemory.NewCache(rest.config.ChatHistorySize, rest.config.Logger)
	}

	return c
}
