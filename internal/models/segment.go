package models

// Point is a position on the drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style is the resolved drawing style of a segment.
type Style struct {
	// Color is a CSS color, either "#rrggbb" or a named color.
	Color string `json:"color"`

	// Width is the brush width, always positive.
	Width float64 `json:"width"`
}

// Segment is one point sample of a stroke together with its style.
type Segment struct {
	Point
	Style

	// NewStroke marks the first segment of a stroke.
	NewStroke bool `json:"newStroke"`
}

const (
	OpBeginPath = "begin"
	OpLineTo    = "line"
)

// CanvasOp is one drawing primitive applied to a canvas.
type CanvasOp struct {
	Kind  string `json:"kind"`
	Point Point  `json:"point"`
	Style *Style `json:"style,omitempty"`
}
