package stroke

import (
	"sync"

	"github.com/Icerzack/guessroom/internal/models"
)

// Canvas is the rendering surface. Implementations draw one primitive per
// call and must not retain the arguments.
type Canvas interface {
	// BeginPath starts a new subpath at p without drawing.
	BeginPath(p models.Point)

	// LineTo draws a line from the end of the current subpath to p.
	LineTo(p models.Point, style models.Style)
}

// Journal is a Canvas that records the primitives it receives.
type Journal struct {
	mu  sync.Mutex
	ops []models.CanvasOp
}

func NewJournal() *Journal {
	return &Journal{ops: make([]models.CanvasOp, 0)}
}

func (j *Journal) BeginPath(p models.Point) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ops = append(j.ops, models.CanvasOp{Kind: models.OpBeginPath, Point: p})
}

func (j *Journal) LineTo(p models.Point, style models.Style) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ops = append(j.ops, models.CanvasOp{Kind: models.OpLineTo, Point: p, Style: &style})
}

// Ops returns a copy of the recorded primitives.
func (j *Journal) Ops() []models.CanvasOp {
	j.mu.Lock()
	defer j.mu.Unlock()
	ops := make([]models.CanvasOp, len(j.ops))
	copy(ops, j.ops)
	return ops
}

// Discard is a Canvas on which all primitives succeed without effect.
var Discard Canvas = discard{}

type discard struct{}

func (discard) BeginPath(models.Point)            {}
func (discard) LineTo(models.Point, models.Style) {}
