package client

import (
	"github.com/Icerzack/guessroom/internal/models"
	"github.com/Icerzack/guessroom/internal/protocol"
	"github.com/Icerzack/guessroom/internal/stroke"
)

// The input API validates synchronously and returns once the request is
// queued for the server. Admission and game progress arrive later through
// the Observer.

func (c *Client) CreateRoom(nickname string) error {
	return c.call(func() error {
		next, env, err := c.state.CreateRoom(nickname)
		if err != nil {
			return err
		}
		c.state = next
		return c.send(env)
	})
}

func (c *Client) JoinRoom(nickname, roomID string) error {
	return c.call(func() error {
		next, env, err := c.state.JoinRoom(nickname, roomID)
		if err != nil {
			return err
		}
		c.state = next
		return c.send(env)
	})
}

// LeaveRoom leaves the current room. The membership ends locally right away.
func (c *Client) LeaveRoom() error {
	return c.call(func() error {
		roomID := c.state.Room.ID
		_, env, err := c.state.LeaveRoom()
		if err != nil {
			return err
		}
		c.reset()
		c.observer.OnRoomClosed(roomID)
		return c.send(env)
	})
}

func (c *Client) StartGame() error {
	return c.call(func() error {
		env, err := c.state.StartGame()
		if err != nil {
			return err
		}
		return c.send(env)
	})
}

// SendChat submits a chat line or a guess. Submissions the gate drops are
// not an error.
func (c *Client) SendChat(text string) error {
	return c.call(func() error {
		env, ok := c.gate.Submit(c.state.Nickname, c.state.Room.ID, c.state.Round, text)
		if !ok {
			return nil
		}
		return c.send(env)
	})
}

// PointerDown starts a stroke at p. It is ignored unless this player is the
// drawer of the running round.
func (c *Client) PointerDown(p models.Point) error {
	return c.call(func() error {
		seg, ok := c.capture.PointerDown(p, c.state.CanDraw())
		if !ok {
			return nil
		}
		return c.sendSegment(seg)
	})
}

func (c *Client) PointerMove(p models.Point) error {
	return c.call(func() error {
		seg, ok := c.capture.PointerMove(p, c.state.CanDraw())
		if !ok {
			return nil
		}
		return c.sendSegment(seg)
	})
}

func (c *Client) PointerUp() error {
	return c.call(func() error {
		c.capture.PointerUp()
		return nil
	})
}

func (c *Client) PointerLeave() error {
	return c.call(func() error {
		c.capture.PointerLeave()
		return nil
	})
}

func (c *Client) SetTool(tool stroke.Tool) error {
	return c.call(func() error {
		c.capture.SetTool(tool)
		return nil
	})
}

func (c *Client) SetColor(color string) error {
	return c.call(func() error {
		return c.capture.SetColor(color)
	})
}

func (c *Client) SetWidth(width float64) error {
	return c.call(func() error {
		return c.capture.SetWidth(width)
	})
}

func (c *Client) sendSegment(seg models.Segment) error {
	env, err := protocol.NewDraw(c.state.Nickname, c.state.Room.ID, seg)
	if err != nil {
		return err
	}
	return c.send(env)
}
