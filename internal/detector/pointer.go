package detector

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Pointer source modes.
const (
	ModeHand = "hand"
	ModeFace = "face"
)

// ErrCascadeNotLoaded is returned when the face cascade file cannot be loaded.
var ErrCascadeNotLoaded = errors.New("face cascade not loaded")

// PointerSource yields the game pointers visible in a frame, in the frame's
// pixel coordinates. An empty result means "no update this frame".
type PointerSource interface {
	Pointers(frame *gocv.Mat) ([]image.Point, error)
	Close() error
}

// HandPointer uses the index finger tip of every detected hand as a pointer.
type HandPointer struct {
	detector Detector
}

// NewHandPointer wraps a hand Detector.
func NewHandPointer(d Detector) *HandPointer {
	return &HandPointer{detector: d}
}

// Pointers returns one pointer per detected hand, in detection order.
// Hands whose tip cannot be mapped to a pixel are skipped.
func (p *HandPointer) Pointers(frame *gocv.Mat) ([]image.Point, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	hands, err := p.detector.Detect(frame)
	if err != nil {
		return nil, err
	}

	width, height := frame.Cols(), frame.Rows()
	points := make([]image.Point, 0, len(hands))
	for i := range hands {
		if pt, ok := hands[i].IndexTipPixel(width, height); ok {
			points = append(points, pt)
		}
	}

	return points, nil
}

// Detector returns the wrapped hand detector.
func (p *HandPointer) Detector() Detector {
	return p.detector
}

// Close closes the wrapped detector.
func (p *HandPointer) Close() error {
	return p.detector.Close()
}

// FacePointer uses the center of every detected face as a pointer, so the
// game can be played by moving the head.
type FacePointer struct {
	classifier gocv.CascadeClassifier
	gray       gocv.Mat
}

// NewFacePointer loads a Haar cascade such as haarcascade_frontalface_default.xml.
func NewFacePointer(cascadePath string) (*FacePointer, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("%w: %s", ErrCascadeNotLoaded, cascadePath)
	}

	return &FacePointer{
		classifier: classifier,
		gray:       gocv.NewMat(),
	}, nil
}

// Pointers returns the center of each detected face.
func (p *FacePointer) Pointers(frame *gocv.Mat) ([]image.Point, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &p.gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&p.gray)
	}

	faces := p.classifier.DetectMultiScale(p.gray)
	return FaceCenters(faces), nil
}

// Close releases the classifier.
func (p *FacePointer) Close() error {
	p.gray.Close()
	return p.classifier.Close()
}

// FaceCenters maps face rectangles to their center points.
func FaceCenters(faces []image.Rectangle) []image.Point {
	points := make([]image.Point, 0, len(faces))
	for _, r := range faces {
		points = append(points, image.Point{
			X: (r.Min.X + r.Max.X) / 2,
			Y: (r.Min.Y + r.Max.Y) / 2,
		})
	}
	return points
}

// MockPointer is a PointerSource that replays scripted pointer frames.
type MockPointer struct {
	frames [][]image.Point
	index  int
	err    error
	closed bool
}

// NewMockPointer creates a MockPointer returning frames in order and then nothing.
func NewMockPointer(frames ...[]image.Point) *MockPointer {
	return &MockPointer{frames: frames}
}

// Push appends a frame of pointers.
func (m *MockPointer) Push(points ...image.Point) {
	m.frames = append(m.frames, points)
}

// SetError sets the error returned by Pointers.
func (m *MockPointer) SetError(err error) {
	m.err = err
}

// Pointers returns the next scripted frame.
func (m *MockPointer) Pointers(frame *gocv.Mat) ([]image.Point, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.index >= len(m.frames) {
		return nil, nil
	}
	points := m.frames[m.index]
	m.index++
	return points, nil
}

// Close marks the source closed.
func (m *MockPointer) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockPointer) Closed() bool {
	return m.closed
}
