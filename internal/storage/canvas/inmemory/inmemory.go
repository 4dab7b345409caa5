package inmemory

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/models"
)

var ErrCanvasNotFound = errors.New("canvas not found")

type Storage struct {
	data   map[string][]models.CanvasOp
	logger *zap.Logger

	// limit caps the primitives kept per room, zero keeps all
	limit int

	mtx *sync.Mutex
}

func NewStorage(limit int, logger *zap.Logger) *Storage {
	return &Storage{
		data:   make(map[string][]models.CanvasOp),
		logger: logger,
		limit:  limit,
		mtx:    &sync.Mutex{},
	}
}

func (s *Storage) Append(roomID string, op models.CanvasOp) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	ops, ok := s.data[roomID]
	if !ok {
		s.logger.Info("canvas added to storage", zap.String("roomID", roomID))
	}
	ops = append(ops, op)
	if s.limit > 0 && len(ops) > s.limit {
		ops = ops[len(ops)-s.limit:]
	}
	s.data[roomID] = ops
	return nil
}

// Get returns a copy of the primitives of roomID in drawing order.
func (s *Storage) Get(roomID string) ([]models.CanvasOp, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	ops, ok := s.data[roomID]
	if !ok {
		return nil, ErrCanvasNotFound
	}
	out := make([]models.CanvasOp, len(ops))
	copy(out, ops)
	return out, nil
}

func (s *Storage) Delete(roomID string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.data, roomID)
	s.logger.Info("canvas deleted from storage", zap.String("roomID", roomID))
	return nil
}
