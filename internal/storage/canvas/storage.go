package canvas

import (
	"github.com/Icerzack/guessroom/internal/models"
)

const (
	InMemoryStorageType = "in-memory"
)

// Storage keeps the primitives drawn in a room so that a UI attaching late
// can rebuild the picture.
type Storage interface {
	Append(roomID string, op models.CanvasOp) error
	Get(roomID string) ([]models.CanvasOp, error)
	Delete(roomID string) error
}
