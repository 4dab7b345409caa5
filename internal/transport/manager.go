package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Icerzack/guessroom/internal/protocol"
)

var ErrTransportUnavailable = errors.New("transport unavailable")

// Handler receives everything coming out of the transport. Calls for one
// connection are sequential and in arrival order.
type Handler interface {
	HandleMessage(msg protocol.Message)
	HandleConnected(resumed bool)
	HandleDisconnected(err error)
}

type outbound struct {
	env protocol.Envelope

	// epoch is the connection count when the envelope was queued
	epoch uint64
}

// Manager owns the single connection to the server and replaces it when it
// breaks. Envelopes sent while no connection is up wait in the outbox.
type Manager struct {
	config  Config
	handler Handler
	dialer  *websocket.Dialer
	limiter *rate.Limiter
	outbox  chan outbound
	logger  *zap.Logger

	mu      sync.Mutex
	epoch   uint64
	resume  *protocol.Envelope
	stopped bool
}

func NewManager(config Config, handler Handler) *Manager {
	config = config.withDefaults()

	limit := rate.Inf
	if config.SendRate > 0 {
		limit = rate.Limit(config.SendRate)
	}

	return &Manager{
		config:  config,
		handler: handler,
		dialer: &websocket.Dialer{
			HandshakeTimeout: config.HandshakeTimeout,
		},
		limiter: rate.NewLimiter(limit, config.SendBurst),
		outbox:  make(chan outbound, config.QueueSize),
		logger:  config.Logger,
	}
}

// Send queues env for the server. It never blocks.
func (m *Manager) Send(env protocol.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return fmt.Errorf("%w: transport stopped", ErrTransportUnavailable)
	}
	select {
	case m.outbox <- outbound{env: env, epoch: m.epoch}:
		return nil
	default:
		return fmt.Errorf("%w: outbox full", ErrTransportUnavailable)
	}
}

// SetResume sets the envelope written first on every reconnect, nil for
// none.
func (m *Manager) SetResume(env *protocol.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resume = env
}

// Run connects and serves until ctx is done or the reconnect policy gives
// up. It returns nil on cancellation.
func (m *Manager) Run(ctx context.Context) error {
	defer m.stop()

	failures := 0
	for {
		ws, err := m.dial(ctx)
		lost := false
		if err == nil {
			failures = 0
			err = m.serve(ctx, ws)
			if ctx.Err() != nil {
				return nil
			}
			m.logger.Warn("Connection lost", zap.Error(err))
			lost = true
		} else {
			if ctx.Err() != nil {
				return nil
			}
			m.logger.Warn("Failed to connect", zap.String("endpoint", m.config.Endpoint), zap.Error(err))
		}

		failures++
		policy := m.config.Reconnect
		if policy.exhausted(failures) {
			// one notification per loss, carrying the final error
			err = fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
			m.handler.HandleDisconnected(err)
			return err
		}
		if lost {
			m.handler.HandleDisconnected(err)
		}

		delay := policy.Delay(failures)
		m.logger.Info("Reconnecting", zap.Int("attempt", failures), zap.Duration("delay", delay))
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (m *Manager) dial(ctx context.Context) (*websocket.Conn, error) {
	ws, _, err := m.dialer.DialContext(ctx, m.config.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error dialing %s: %w", m.config.Endpoint, err)
	}
	return ws, nil
}

func (m *Manager) serve(ctx context.Context, ws *websocket.Conn) error {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	var resume *protocol.Envelope
	if epoch > 1 {
		resume = m.resume
	}
	m.mu.Unlock()

	logger := m.logger.With(zap.String("connID", uuid.NewString()))
	c := newConn(ws, m.config, logger)
	logger.Info("Connected", zap.String("endpoint", m.config.Endpoint), zap.Bool("resumed", epoch > 1))
	m.handler.HandleConnected(epoch > 1)

	readDone := make(chan error, 1)
	go func() {
		readDone <- c.readPump(m.handler.HandleMessage)
	}()

	readFinished, err := m.writePump(ctx, c, epoch, resume, readDone)
	if closeErr := c.close(ctx.Err() != nil); closeErr != nil {
		logger.Debug("Error closing connection", zap.Error(closeErr))
	}
	if !readFinished {
		<-readDone
	}
	return err
}

// writePump is the only writer of c. An envelope taken from the outbox is
// never written twice, even when its write fails.
func (m *Manager) writePump(
	ctx context.Context,
	c *conn,
	epoch uint64,
	resume *protocol.Envelope,
	readDone <-chan error,
) (bool, error) {
	ticker := time.NewTicker(m.config.PingInterval)
	defer ticker.Stop()

	if resume != nil {
		if err := c.write(*resume); err != nil {
			return false, fmt.Errorf("error writing resume request: %w", err)
		}
		c.logger.Info("Resume request sent", zap.String("roomID", resume.RoomID))
	}

	for {
		select {
		case <-ctx.Done():
			return false, nil

		case err := <-readDone:
			return true, err

		case out := <-m.outbox:
			if resume != nil && out.epoch < epoch && out.env.Supersedable() {
				c.logger.Debug("Dropping request superseded by resume", zap.String("type", out.env.Type))
				continue
			}
			if err := m.limiter.Wait(ctx); err != nil {
				return false, nil
			}
			if err := c.write(out.env); err != nil {
				return false, fmt.Errorf("error writing %s: %w", out.env.Type, err)
			}

		case <-ticker.C:
			if err := c.ping(); err != nil {
				return false, fmt.Errorf("error writing ping: %w", err)
			}
		}
	}
}

func (m *Manager) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}
