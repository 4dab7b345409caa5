package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Icerzack/guessroom/internal/models"
)

type wireSegment struct {
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Color       string    `json:"color"`
	BrushSize   brushSize `json:"brushSize"`
	IsNewStroke bool      `json:"isNewStroke"`
}

// brushSize accepts both 5 and "5": browsers send the raw value of a range
// input.
type brushSize float64

func (b *brushSize) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*b = brushSize(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("brush size is neither number nor string: %w", err)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("brush size %q: %w", s, err)
	}
	*b = brushSize(n)
	return nil
}

// EncodeSegment renders a segment in the draw content format.
func EncodeSegment(seg models.Segment) (string, error) {
	if err := validateSegment(seg); err != nil {
		return "", err
	}
	data, err := json.Marshal(wireSegment{
		X:           seg.X,
		Y:           seg.Y,
		Color:       seg.Color,
		BrushSize:   brushSize(seg.Width),
		IsNewStroke: seg.NewStroke,
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling segment: %w", err)
	}
	return string(data), nil
}

// DecodeSegment parses the content of a draw envelope.
func DecodeSegment(content string) (models.Segment, error) {
	var w wireSegment
	if err := json.Unmarshal([]byte(content), &w); err != nil {
		return models.Segment{}, fmt.Errorf("%w: draw content: %v", ErrMalformedFrame, err)
	}
	seg := models.Segment{
		Point:     models.Point{X: w.X, Y: w.Y},
		Style:     models.Style{Color: w.Color, Width: float64(w.BrushSize)},
		NewStroke: w.IsNewStroke,
	}
	if err := validateSegment(seg); err != nil {
		return models.Segment{}, err
	}
	return seg, nil
}

func validateSegment(seg models.Segment) error {
	for _, v := range []float64{seg.X, seg.Y, seg.Width} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite segment value", ErrMalformedFrame)
		}
	}
	if seg.Width <= 0 {
		return fmt.Errorf("%w: brush size %v is not positive", ErrMalformedFrame, seg.Width)
	}
	if seg.Color == "" {
		return fmt.Errorf("%w: segment without color", ErrMalformedFrame)
	}
	return nil
}
