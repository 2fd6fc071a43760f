package shapegame

import (
	"fmt"
	"image"
	"math/rand/v2"
)

// Placer generates random shape fields that avoid the exclusion zone.
type Placer struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewPlacer creates a Placer drawing from rng. A nil rng falls back to a
// randomly seeded source.
func NewPlacer(rng *rand.Rand) *Placer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Placer{
		rng:         rng,
		maxAttempts: MaxPlacementAttempts,
	}
}

// Generate returns count shapes placed inside bounds minus the margin and
// outside ExclusionZone. Shapes may overlap each other.
//
// A count of zero yields an empty field. A negative count, a count above
// MaxShapeCount or bounds that do not exceed twice the margin fail with
// ErrInvalidArgument.
func (p *Placer) Generate(count int, bounds Bounds) ([]*Shape, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: shape count must not be negative, got %d", ErrInvalidArgument, count)
	}
	if count > MaxShapeCount {
		return nil, fmt.Errorf("%w: shape count must not exceed %d, got %d", ErrInvalidArgument, MaxShapeCount, count)
	}

	shapes := make([]*Shape, 0, count)
	for i := 0; i < count; i++ {
		pos, err := p.samplePosition(bounds)
		if err != nil {
			return nil, fmt.Errorf("shape %d of %d: %w", i+1, count, err)
		}
		shapes = append(shapes, &Shape{
			Position: pos,
			Kind:     Kinds[p.rng.IntN(len(Kinds))],
			Color:    Palette[p.rng.IntN(len(Palette))],
		})
	}

	return shapes, nil
}

// Pick returns a uniformly chosen element of shapes, or nil for an empty slice.
func (p *Placer) Pick(shapes []*Shape) *Shape {
	if len(shapes) == 0 {
		return nil
	}
	return shapes[p.rng.IntN(len(shapes))]
}

// samplePosition draws x in [Margin, width-Margin) and y in [Margin, height-Margin),
// rejecting points inside the exclusion zone.
func (p *Placer) samplePosition(bounds Bounds) (image.Point, error) {
	spanX := bounds.Width - 2*Margin
	spanY := bounds.Height - 2*Margin

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		pt := image.Point{
			X: Margin + p.rng.IntN(spanX),
			Y: Margin + p.rng.IntN(spanY),
		}
		if !InExclusionZone(pt) {
			return pt, nil
		}
	}

	return image.Point{}, fmt.Errorf("%w: no free position in %dx%d after %d attempts",
		ErrPlacementTimeout, bounds.Width, bounds.Height, p.maxAttempts)
}
