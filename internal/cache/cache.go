package cache

import "github.com/Icerzack/guessroom/internal/chat"

const (
	InMemoryCacheType = "in-memory"
)

// Cache keeps the most recent chat lines of each room.
type Cache interface {
	Push(key string, line chat.Line) error
	Get(key string) ([]chat.Line, error)
	Delete(key string) error
}
