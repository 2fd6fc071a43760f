package detector

import (
	"image"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position. X and Y are normalized to the frame
// (0..1 left to right, top to bottom); Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PixelAt converts the landmark at index into frame pixel coordinates,
// truncating toward zero. It returns false for an unknown index, a non-positive
// frame size or a non-finite coordinate, which noisy trackers do emit.
func (h *HandLandmarks) PixelAt(index, width, height int) (image.Point, bool) {
	if h == nil || index < 0 || index >= NumLandmarks || width <= 0 || height <= 0 {
		return image.Point{}, false
	}

	p := h.Points[index]
	x := p.X * float64(width)
	y := p.Y * float64(height)
	if !finite(x) || !finite(y) {
		return image.Point{}, false
	}

	return image.Point{X: int(x), Y: int(y)}, true
}

// IndexTipPixel returns the index finger tip in pixel coordinates.
func (h *HandLandmarks) IndexTipPixel(width, height int) (image.Point, bool) {
	return h.PixelAt(IndexTip, width, height)
}

// finite rejects NaN, infinities and values that cannot be represented as an int32 pixel.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) < math.MaxInt32
}
