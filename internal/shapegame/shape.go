// Package shapegame implements the "catch the matching shape" reflex game:
// shape placement, goal selection, pointer hit testing, scoring and the
// countdown-timed session.
package shapegame

import (
	"errors"
	"fmt"
	"image"
)

// Field geometry constants.
const (
	// Margin keeps shape centers away from the frame edges.
	Margin = 30
	// HitHalfWidth is the half-width of the square hit box around a shape's position.
	// It is intentionally much smaller than RenderHalfWidth.
	HitHalfWidth = 15
	// RenderHalfWidth is the radius/half-width shapes are drawn with.
	RenderHalfWidth = 50
	// MaxPlacementAttempts bounds the reject-and-resample loop for a single shape.
	MaxPlacementAttempts = 1000
	// MaxShapeCount caps the field size; larger fields would no longer fit
	// on a camera frame and only cost memory.
	MaxShapeCount = 500
)

// ExclusionZone is the goal preview window. No shape may be placed strictly inside it.
var ExclusionZone = image.Rect(10, 10, 200, 200)

var (
	// ErrInvalidArgument is returned for a bad shape count or unusable field bounds.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPlacementTimeout is returned when no position outside the exclusion
	// zone could be found within MaxPlacementAttempts samples.
	ErrPlacementTimeout = errors.New("placement timeout")
)

// Kind is the geometric form of a shape.
type Kind string

const (
	KindCircle   Kind = "circle"
	KindSquare   Kind = "square"
	KindTriangle Kind = "triangle"
)

// Kinds lists every shape kind in a stable order.
var Kinds = []Kind{KindCircle, KindSquare, KindTriangle}

// Color is an entry of the fixed shape palette.
type Color string

const (
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Palette lists every shape color in a stable order.
var Palette = []Color{ColorGreen, ColorBlue, ColorRed, ColorBlack}

// Shape is a single spawnable target. Shapes are never mutated after creation;
// the whole field is replaced on every hit.
type Shape struct {
	Position image.Point `json:"position"`
	Kind     Kind        `json:"kind"`
	Color    Color       `json:"color"`
}

// HitBox returns the inclusive hit region around the shape's position.
func (s *Shape) HitBox() (minX, minY, maxX, maxY int) {
	return s.Position.X - HitHalfWidth, s.Position.Y - HitHalfWidth,
		s.Position.X + HitHalfWidth, s.Position.Y + HitHalfWidth
}

// Contains reports whether the pointer lies inside the shape's hit box.
// Both axes are inclusive.
func (s *Shape) Contains(x, y int) bool {
	minX, minY, maxX, maxY := s.HitBox()
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

// Bounds is the playable field size, usually the current frame dimensions.
type Bounds struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks that the bounds leave room for the margin on both axes.
func (b Bounds) Validate() error {
	if b.Width <= 2*Margin || b.Height <= 2*Margin {
		return fmt.Errorf("%w: bounds %dx%d must exceed %dpx on both axes",
			ErrInvalidArgument, b.Width, b.Height, 2*Margin)
	}
	return nil
}

// InExclusionZone reports whether p lies strictly inside ExclusionZone.
func InExclusionZone(p image.Point) bool {
	return p.X > ExclusionZone.Min.X && p.X < ExclusionZone.Max.X &&
		p.Y > ExclusionZone.Min.Y && p.Y < ExclusionZone.Max.Y
}
