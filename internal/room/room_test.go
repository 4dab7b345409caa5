package room

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Icerzack/guessroom/internal/models"
)

func TestRoom_ReplaceRoster(t *testing.T) {
	t.Parallel()

	updates := [][]models.Player{
		{{Nickname: "alice", IsCreator: true}},
		{{Nickname: "alice", IsCreator: true}, {Nickname: "bob"}},
		{{Nickname: "bob", Points: 100}, {Nickname: "alice", IsCreator: true}},
	}

	r := NewRoom("R1")
	for _, u := range updates {
		r = r.ReplaceRoster(u)
	}

	assert.Equal(t, updates[len(updates)-1], r.Roster)

	owner, ok := r.Owner()
	assert.True(t, ok)
	assert.Equal(t, "alice", owner.Nickname)
}

func TestRoom_ReplaceRosterCopiesInput(t *testing.T) {
	t.Parallel()

	in := []models.Player{{Nickname: "alice"}}
	r := NewRoom("R1").ReplaceRoster(in)
	in[0].Nickname = "mallory"

	assert.Equal(t, "alice", r.Roster[0].Nickname)
}

func TestRoom_Lookups(t *testing.T) {
	t.Parallel()

	r := NewRoom("R1")
	assert.True(t, r.Joined())
	assert.False(t, Room{}.Joined())

	_, ok := r.Owner()
	assert.False(t, ok)

	r = r.ReplaceRoster([]models.Player{{Nickname: "bob", Points: 200}})
	p, ok := r.Player("bob")
	assert.True(t, ok)
	assert.Equal(t, 200, p.Points)

	_, ok = r.Player("carol")
	assert.False(t, ok)
}
