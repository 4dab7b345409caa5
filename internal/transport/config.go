package transport

import (
	"math"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	// Endpoint is the websocket URL of the game server
	Endpoint string

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration

	// PingInterval must be shorter than PongWait
	PingInterval time.Duration
	PongWait     time.Duration

	// QueueSize bounds the outbox holding envelopes not yet written
	QueueSize int

	// SendRate is the number of envelopes per second written to the server,
	// zero means unlimited
	SendRate  float64
	SendBurst int

	Reconnect ReconnectPolicy

	Logger *zap.Logger
}

// ReconnectPolicy is a bounded exponential backoff.
type ReconnectPolicy struct {
	Enabled      bool
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// MaxAttempts is the number of consecutive failed attempts before giving
	// up, zero retries forever
	MaxAttempts int
}

// Delay returns the wait before the given attempt, counted from 1.
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if d > float64(p.MaxDelay) || math.IsInf(d, 0) || math.IsNaN(d) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// exhausted reports whether the policy gives up after the given number of
// consecutive failures.
func (p ReconnectPolicy) exhausted(failures int) bool {
	return !p.Enabled || (p.MaxAttempts > 0 && failures > p.MaxAttempts)
}

func (c Config) withDefaults() Config {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = time.Minute
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 512
	}
	if c.SendBurst <= 0 {
		c.SendBurst = 1
	}
	if c.Reconnect.InitialDelay <= 0 {
		c.Reconnect.InitialDelay = 500 * time.Millisecond
	}
	if c.Reconnect.MaxDelay < c.Reconnect.InitialDelay {
		c.Reconnect.MaxDelay = 30 * time.Second
	}
	if c.Reconnect.Multiplier < 1 {
		c.Reconnect.Multiplier = 2
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
