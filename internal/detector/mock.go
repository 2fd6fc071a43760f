package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Close marks the detector as closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// PointingLandmarks returns a right hand pointing with the index finger,
// the tip placed at the normalized frame position (x, y).
// The remaining fingers are curled below the tip.
func PointingLandmarks(x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: x, Y: y + 0.30}

	landmarks.Points[ThumbCMC] = Point3D{X: x + 0.04, Y: y + 0.26}
	landmarks.Points[ThumbMCP] = Point3D{X: x + 0.07, Y: y + 0.22}
	landmarks.Points[ThumbIP] = Point3D{X: x + 0.06, Y: y + 0.18}
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.03, Y: y + 0.17}

	// Index finger extended up to the requested tip
	landmarks.Points[IndexMCP] = Point3D{X: x, Y: y + 0.18}
	landmarks.Points[IndexPIP] = Point3D{X: x, Y: y + 0.11}
	landmarks.Points[IndexDIP] = Point3D{X: x, Y: y + 0.05}
	landmarks.Points[IndexTip] = Point3D{X: x, Y: y}

	// Middle, ring and pinky curled into the palm
	for i, base := range []int{MiddleMCP, RingMCP, PinkyMCP} {
		dx := -0.03 * float64(i+1)
		landmarks.Points[base] = Point3D{X: x + dx, Y: y + 0.19, Z: -0.02}
		landmarks.Points[base+1] = Point3D{X: x + dx, Y: y + 0.17, Z: -0.05}
		landmarks.Points[base+2] = Point3D{X: x + dx, Y: y + 0.20, Z: -0.04}
		landmarks.Points[base+3] = Point3D{X: x + dx, Y: y + 0.22, Z: -0.02}
	}

	return landmarks
}
