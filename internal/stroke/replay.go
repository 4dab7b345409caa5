package stroke

import (
	"github.com/Icerzack/guessroom/internal/models"
)

// Replayer draws remote segments. Strokes have no end marker on the wire:
// a stroke ends where the next one starts. Segments must arrive in the order
// their sender produced them; there is no reordering.
type Replayer struct {
	canvas Canvas

	// last is the last applied point per sender
	last map[string]models.Point
}

func NewReplayer(canvas Canvas) *Replayer {
	return &Replayer{
		canvas: canvas,
		last:   make(map[string]models.Point),
	}
}

// Apply issues exactly one primitive for seg, using the style it carries.
func (r *Replayer) Apply(sender string, seg models.Segment) {
	_, hasOrigin := r.last[sender]
	r.last[sender] = seg.Point

	// a continuation without origin, e.g. after joining mid-stroke, starts
	// the path the way an empty canvas path would
	if seg.NewStroke || !hasOrigin {
		r.canvas.BeginPath(seg.Point)
		return
	}
	r.canvas.LineTo(seg.Point, seg.Style)
}

// Reset forgets all open strokes.
func (r *Replayer) Reset() {
	r.last = make(map[string]models.Point)
}
