package inmemory

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Icerzack/guessroom/internal/models"
)

var ErrViewerNotFound = errors.New("viewer not found")

type Storage struct {
	data   map[string]*models.Viewer
	logger *zap.Logger

	mtx *sync.Mutex
}

func NewStorage(logger *zap.Logger) *Storage {
	return &Storage{
		data:   make(map[string]*models.Viewer),
		logger: logger,
		mtx:    &sync.Mutex{},
	}
}

func (s *Storage) Set(key string, value *models.Viewer) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.data[key] = value
	s.logger.Debug("viewer added to storage", zap.String("key", key))
	return nil
}

func (s *Storage) Get(key string) (*models.Viewer, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrViewerNotFound
	}
	return v, nil
}

func (s *Storage) Delete(key string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, ok := s.data[key]; !ok {
		return ErrViewerNotFound
	}
	delete(s.data, key)
	s.logger.Debug("viewer deleted from storage", zap.String("key", key))
	return nil
}

// All returns the viewers in no particular order.
func (s *Storage) All() ([]*models.Viewer, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	viewers := make([]*models.Viewer, 0, len(s.data))
	for _, v := range s.data {
		viewers = append(viewers, v)
	}
	return viewers, nil
}
