package transport

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/protocol"
)

const maxLoggedFrame = 256

// conn is one live websocket connection. Reads happen on the read pump,
// every write on the manager's write pump.
type conn struct {
	ws     *websocket.Conn
	config Config
	logger *zap.Logger
}

func newConn(ws *websocket.Conn, config Config, logger *zap.Logger) *conn {
	return &conn{ws: ws, config: config, logger: logger}
}

// readPump decodes frames in arrival order and hands each message to
// deliver. Bad frames are dropped; only a read error ends the pump.
func (c *conn) readPump(deliver func(protocol.Message)) error {
	_ = c.ws.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			return err
		}

		msg, err := protocol.Decode(frame)
		if errors.Is(err, protocol.ErrProtocolViolation) {
			c.logger.Debug("Ignoring message of unknown type", zap.Error(err))
			continue
		}
		if err != nil {
			c.logger.Warn("Dropping malformed frame", zap.Error(err), zap.ByteString("frame", clip(frame)))
			continue
		}
		deliver(msg)
	}
}

func (c *conn) write(env protocol.Envelope) error {
	data, err := env.Marshal()
	if err != nil {
		return err
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *conn) ping() error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

// close says goodbye when graceful is set and releases the socket.
func (c *conn) close(graceful bool) error {
	var err error
	if graceful {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		err = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.config.WriteTimeout))
	}
	return multierr.Append(err, c.ws.Close())
}

func clip(frame []byte) []byte {
	if len(frame) > maxLoggedFrame {
		return frame[:maxLoggedFrame]
	}
	return frame
}
