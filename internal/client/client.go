package client

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/chat"
	"github.com/Icerzack/guessroom/internal/protocol"
	"github.com/Icerzack/guessroom/internal/session"
	"github.com/Icerzack/guessroom/internal/stroke"
	"github.com/Icerzack/guessroom/internal/transport"
)

var ErrClosed = errors.New("client closed")

// Transport is the part of the transport manager the client drives.
type Transport interface {
	Run(ctx context.Context) error
	Send(env protocol.Envelope) error
	SetResume(env *protocol.Envelope)
}

type Config struct {
	Transport transport.Config

	// InboxSize bounds the number of pending events and input calls
	InboxSize int

	Logger *zap.Logger
}

// Client binds the session to the transport and the canvas. All state is
// owned by the goroutine running Run; everything else posts closures to its
// inbox, which keeps inbound messages and local input in one order.
type Client struct {
	transport Transport
	observer  Observer
	logger    *zap.Logger

	gate     *chat.Gate
	capture  *stroke.Capture
	replayer *stroke.Replayer

	inbox    chan func()
	done     chan struct{}
	stopOnce sync.Once

	state session.State
}

// New creates a client talking to the server at config.Transport.Endpoint.
// Local strokes and remote segments are drawn on canvas.
func New(config Config, canvas stroke.Canvas, observer Observer) *Client {
	c := newClient(config, canvas, observer)
	config.Transport.Logger = c.logger
	c.transport = transport.NewManager(config.Transport, c)
	return c
}

func newClient(config Config, canvas stroke.Canvas, observer Observer) *Client {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.InboxSize <= 0 {
		config.InboxSize = 256
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Client{
		observer: observer,
		logger:   config.Logger,
		gate:     chat.NewGate(config.Logger),
		capture:  stroke.NewCapture(canvas),
		replayer: stroke.NewReplayer(canvas),
		inbox:    make(chan func(), config.InboxSize),
		done:     make(chan struct{}),
	}
}

// Run serves the client until ctx is done or the transport gives up. It
// must be called once.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	transportDone := make(chan error, 1)
	go func() {
		transportDone <- c.transport.Run(ctx)
	}()

	for {
		select {
		case fn := <-c.inbox:
			fn()

		case err := <-transportDone:
			// the final disconnect notification may still be queued
			c.drain()
			c.stop()
			return err

		case <-ctx.Done():
			c.stop()
			return <-transportDone
		}
	}
}

func (c *Client) drain() {
	for {
		select {
		case fn := <-c.inbox:
			fn()
		default:
			return
		}
	}
}

func (c *Client) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// post queues fn for the loop. It returns false once the loop is gone.
func (c *Client) post(fn func()) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.inbox <- fn:
		return true
	case <-c.done:
		return false
	}
}

// call runs fn on the loop and waits for its result.
func (c *Client) call(fn func() error) error {
	result := make(chan error, 1)
	if !c.post(func() { result <- fn() }) {
		return ErrClosed
	}
	select {
	case err := <-result:
		return err
	case <-c.done:
		return ErrClosed
	}
}

// Snapshot returns a copy of the current session state.
func (c *Client) Snapshot(ctx context.Context) (session.State, error) {
	result := make(chan session.State, 1)
	if !c.post(func() { result <- c.snapshot() }) {
		return session.State{}, ErrClosed
	}
	select {
	case s := <-result:
		return s, nil
	case <-c.done:
		return session.State{}, ErrClosed
	case <-ctx.Done():
		return session.State{}, ctx.Err()
	}
}

func (c *Client) snapshot() session.State {
	s := c.state
	s.Room = s.Room.ReplaceRoster(s.Room.Roster)
	return s
}

// HandleMessage is called by the transport for every decoded frame.
func (c *Client) HandleMessage(msg protocol.Message) {
	c.post(func() {
		c.apply(msg)
	})
}

func (c *Client) HandleConnected(resumed bool) {
	c.post(func() {
		c.observer.OnConnected(resumed)
	})
}

func (c *Client) HandleDisconnected(err error) {
	c.post(func() {
		c.capture.Cancel()
		c.observer.OnDisconnected(err)

		// the transport gave up, nothing will resume the room
		if errors.Is(err, transport.ErrTransportUnavailable) && c.state.InRoom() {
			roomID := c.state.Room.ID
			c.reset()
			c.observer.OnRoomClosed(roomID)
		}
	})
}

func (c *Client) apply(msg protocol.Message) {
	next, events := session.Apply(c.state, msg)
	c.state = next

	if _, ok := msg.(protocol.DrawTurn); ok {
		c.replayer.Reset()
	}

	for _, event := range events {
		switch e := event.(type) {
		case session.RoomEntered:
			resume := protocol.NewJoinRoom(c.state.Nickname, e.RoomID)
			c.transport.SetResume(&resume)
			c.observer.OnRoomEntered(e.RoomID)

		case session.RoomClosed:
			c.reset()
			c.observer.OnRoomClosed(e.RoomID)

		case session.RosterChanged:
			c.observer.OnRosterChanged(e.Roster)

		case session.RoundChanged:
			if !c.state.CanDraw() {
				c.capture.Cancel()
			}
			c.observer.OnRoundStateChanged(e.Round)

		case session.WordRevealed:
			c.observer.OnWordRevealed(e.Word)

		case session.ChatLine:
			c.observer.OnChatLine(e.Line)

		case session.RemoteSegment:
			c.replayer.Apply(e.Sender, e.Segment)
			c.observer.OnRemoteStrokeSegment(e.Sender, e.Segment)
		}
	}
}

// reset forgets the membership. The transport stops resuming the room.
func (c *Client) reset() {
	c.state = session.State{}
	c.transport.SetResume(nil)
	c.capture.Cancel()
	c.replayer.Reset()
}

func (c *Client) send(env protocol.Envelope) error {
	if err := c.transport.Send(env); err != nil {
		c.logger.Warn("Failed to send request", zap.String("type", env.Type), zap.Error(err))
		return err
	}
	return nil
}
