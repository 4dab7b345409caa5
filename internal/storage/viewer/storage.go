package viewer

import "github.com/Icerzack/guessroom/internal/models"

const (
	InMemoryStorageType = "in-memory"
)

type Storage interface {
	Set(key string, value *models.Viewer) error
	Get(key string) (*models.Viewer, error)
	Delete(key string) error
	All() ([]*models.Viewer, error)
}
