package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Icerzack/guessroom/internal/protocol"
	"github.com/Icerzack/guessroom/internal/room"
	"github.com/Icerzack/guessroom/internal/round"
)

func TestState_CreateRoom(t *testing.T) {
	t.Parallel()

	s, env, err := State{}.CreateRoom("  alice ")
	require.NoError(t, err)
	assert.Equal(t, protocol.NewCreateRoom("alice"), env)
	assert.Equal(t, "alice", s.Requested)
	assert.Empty(t, s.Nickname, "identity waits for the server")

	for _, nick := range []string{"", "   "} {
		s, env, err := State{}.CreateRoom(nick)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, env)
		assert.Zero(t, s)
	}
}

func TestState_JoinRoom(t *testing.T) {
	t.Parallel()

	s, env, err := State{}.JoinRoom("bob", "R1")
	require.NoError(t, err)
	assert.Equal(t, protocol.NewJoinRoom("bob", "R1"), env)
	assert.Equal(t, "bob", s.Requested)

	_, _, err = State{}.JoinRoom("bob", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = State{}.JoinRoom("", "R1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestState_IdentityIsFixedInsideARoom(t *testing.T) {
	t.Parallel()

	s := State{Nickname: "alice", Room: room.NewRoom("R1")}
	_, _, err := s.CreateRoom("mallory")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = s.JoinRoom("mallory", "R2")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestState_LeaveRoom(t *testing.T) {
	t.Parallel()

	_, _, err := State{}.LeaveRoom()
	assert.ErrorIs(t, err, ErrInvalidInput)

	s := State{Nickname: "alice", Room: room.NewRoom("R1"), Round: round.State{Phase: round.PhaseAwaitingWord}}
	next, env, err := s.LeaveRoom()
	require.NoError(t, err)
	assert.Equal(t, protocol.NewLeaveRoom("alice", "R1"), env)
	assert.Zero(t, next)
}

func TestState_StartGame(t *testing.T) {
	t.Parallel()

	_, err := State{}.StartGame()
	assert.ErrorIs(t, err, ErrInvalidInput)

	env, err := State{Nickname: "alice", Room: room.NewRoom("R1")}.StartGame()
	require.NoError(t, err)
	assert.Equal(t, protocol.NewStartGame("alice", "R1"), env)
}
