package inmemory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/chat"
)

const DefaultSize = 100

type Cache struct {
	mu     sync.RWMutex
	items  map[string][]chat.Line
	size   int
	logger *zap.Logger
}

// NewCache creates a cache keeping at most size lines per key.
func NewCache(size int, logger *zap.Logger) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{
		items:  make(map[string][]chat.Line),
		size:   size,
		logger: logger,
	}
}

func (c *Cache) Push(key string, line chat.Line) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := append(c.items[key], line)
	if len(lines) > c.size {
		lines = append([]chat.Line(nil), lines[len(lines)-c.size:]...)
	}
	c.items[key] = lines
	c.logger.Debug("chat line added to cache", zap.String("key", key))
	return nil
}

// Get returns the cached lines of key, oldest first. An unknown key has no
// lines.
func (c *Cache) Get(key string) ([]chat.Line, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lines := make([]chat.Line, len(c.items[key]))
	copy(lines, c.items[key])
	return lines, nil
}

func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	c.logger.Debug("chat lines removed from cache", zap.String("key", key))
	return nil
}
