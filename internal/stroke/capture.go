package stroke

import (
	"errors"
	"fmt"
	"math"

	"github.com/Icerzack/guessroom/internal/models"
)

var ErrInvalidStyle = errors.New("invalid style")

type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
)

const (
	// BackgroundColor is what the eraser paints with.
	BackgroundColor = "#FFFFFF"

	DefaultColor = "#000000"
	DefaultWidth = 5
)

func ParseTool(s string) (Tool, error) {
	switch s {
	case "brush":
		return ToolBrush, nil
	case "eraser":
		return ToolEraser, nil
	}
	return ToolBrush, fmt.Errorf("%w: unknown tool %q", ErrInvalidStyle, s)
}

// Capture turns pointer input of the drawer into segments. Every accepted
// sample is echoed on the local canvas right away; the caller transmits the
// returned segment.
type Capture struct {
	canvas Canvas

	tool  Tool
	color string
	width float64

	// dragging is true between an accepted pointer-down and the next
	// pointer-up or pointer-leave
	dragging bool
}

func NewCapture(canvas Canvas) *Capture {
	return &Capture{
		canvas: canvas,
		tool:   ToolBrush,
		color:  DefaultColor,
		width:  DefaultWidth,
	}
}

func (c *Capture) SetTool(tool Tool) {
	c.tool = tool
}

func (c *Capture) SetColor(color string) error {
	if color == "" {
		return fmt.Errorf("%w: empty color", ErrInvalidStyle)
	}
	c.color = color
	return nil
}

func (c *Capture) SetWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return fmt.Errorf("%w: brush size %v", ErrInvalidStyle, width)
	}
	c.width = width
	return nil
}

// Style is the style the next segment is sent with. The tool is resolved
// here; the wire never carries it.
func (c *Capture) Style() models.Style {
	color := c.color
	if c.tool == ToolEraser {
		color = BackgroundColor
	}
	return models.Style{Color: color, Width: c.width}
}

func (c *Capture) Dragging() bool {
	return c.dragging
}

// PointerDown opens a stroke at p when canDraw holds.
func (c *Capture) PointerDown(p models.Point, canDraw bool) (models.Segment, bool) {
	if !canDraw {
		return models.Segment{}, false
	}
	c.dragging = true
	c.canvas.BeginPath(p)
	return models.Segment{Point: p, Style: c.Style(), NewStroke: true}, true
}

// PointerMove extends the open stroke to p.
func (c *Capture) PointerMove(p models.Point, canDraw bool) (models.Segment, bool) {
	if !c.dragging || !canDraw {
		return models.Segment{}, false
	}
	style := c.Style()
	c.canvas.LineTo(p, style)
	return models.Segment{Point: p, Style: style}, true
}

func (c *Capture) PointerUp() {
	c.dragging = false
}

func (c *Capture) PointerLeave() {
	c.dragging = false
}

// Cancel ends the local stroke when drawing permission goes away.
func (c *Capture) Cancel() {
	c.dragging = false
}
