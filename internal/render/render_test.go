package render

import (
	"image"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapecatch/internal/shapegame"
)

func newFrame(t *testing.T) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })
	return frame
}

// bgrAt returns the pixel at (x, y) as stored by OpenCV: blue, green, red.
func bgrAt(frame gocv.Mat, x, y int) [3]uint8 {
	v := frame.GetVecbAt(y, x)
	return [3]uint8{v[0], v[1], v[2]}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		color   shapegame.Color
		r, g, b uint8
	}{
		{shapegame.ColorGreen, 0, 255, 0},
		{shapegame.ColorBlue, 0, 0, 255},
		{shapegame.ColorRed, 255, 0, 0},
		{shapegame.ColorBlack, 0, 0, 0},
		{"unknown", 255, 255, 255},
	}

	for _, tt := range tests {
		t.Run(string(tt.color), func(t *testing.T) {
			got := RGBA(tt.color)
			if got.R != tt.r || got.G != tt.g || got.B != tt.b {
				t.Errorf("RGBA(%q) = %+v", tt.color, got)
			}
		})
	}
}

func TestFrame_DrawsShapesAtRenderSize(t *testing.T) {
	frame := newFrame(t)

	snap := shapegame.Snapshot{
		State: shapegame.StateRunning,
		Shapes: []shapegame.Shape{
			{Position: image.Pt(400, 300), Kind: shapegame.KindCircle, Color: shapegame.ColorRed},
			{Position: image.Pt(150, 400), Kind: shapegame.KindSquare, Color: shapegame.ColorBlue},
			{Position: image.Pt(550, 250), Kind: shapegame.KindTriangle, Color: shapegame.ColorGreen},
		},
	}

	Frame(&frame, snap)

	tests := []struct {
		name string
		x, y int
		want [3]uint8
	}{
		{name: "circle center", x: 400, y: 300, want: [3]uint8{0, 0, 255}},
		{name: "circle rim beyond hit box", x: 440, y: 300, want: [3]uint8{0, 0, 255}},
		{name: "outside circle", x: 400, y: 360, want: [3]uint8{0, 0, 0}},
		{name: "square corner", x: 195, y: 445, want: [3]uint8{255, 0, 0}},
		{name: "triangle body", x: 550, y: 290, want: [3]uint8{0, 255, 0}},
		{name: "above triangle apex", x: 550, y: 240, want: [3]uint8{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bgrAt(frame, tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPreview_DrawsGoal(t *testing.T) {
	tests := []struct {
		name string
		goal shapegame.Shape
		x, y int
		want [3]uint8
	}{
		{
			name: "circle goal",
			goal: shapegame.Shape{Kind: shapegame.KindCircle, Color: shapegame.ColorGreen},
			x:    100, y: 100, want: [3]uint8{0, 255, 0},
		},
		{
			name: "square goal",
			goal: shapegame.Shape{Kind: shapegame.KindSquare, Color: shapegame.ColorRed},
			x:    75, y: 75, want: [3]uint8{0, 0, 255},
		},
		{
			name: "triangle goal",
			goal: shapegame.Shape{Kind: shapegame.KindTriangle, Color: shapegame.ColorBlue},
			x:    100, y: 130, want: [3]uint8{255, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := newFrame(t)
			goal := tt.goal

			Preview(&frame, &goal)

			if got := bgrAt(frame, tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
			if got := bgrAt(frame, 10, 100); got != [3]uint8{200, 200, 200} {
				t.Errorf("preview outline pixel = %v, want light grey", got)
			}
		})
	}
}

func TestPreview_NoGoal(t *testing.T) {
	frame := newFrame(t)

	Preview(&frame, nil)

	if got := bgrAt(frame, 100, 100); got != [3]uint8{0, 0, 0} {
		t.Errorf("preview interior = %v, want untouched", got)
	}
}

func TestHUDText(t *testing.T) {
	snap := shapegame.Snapshot{Remaining: 42*time.Second + 900*time.Millisecond, Seconds: 42, Score: -3}

	if got := TimerText(snap); got != "Time left: 42 seconds" {
		t.Errorf("TimerText() = %q", got)
	}
	if got := ScoreText(snap); got != "Your Score: -3" {
		t.Errorf("ScoreText() = %q", got)
	}
}

func TestFrame_GameOverBanner(t *testing.T) {
	running := newFrame(t)
	over := newFrame(t)

	Frame(&running, shapegame.Snapshot{State: shapegame.StateRunning})
	Frame(&over, shapegame.Snapshot{State: shapegame.StateOver, Over: true})

	// The banner is centered, so only the over frame has red pixels around the middle row.
	redPixels := func(frame gocv.Mat) int {
		n := 0
		for x := 0; x < frame.Cols(); x++ {
			for y := 220; y < 260; y++ {
				if bgrAt(frame, x, y) == [3]uint8{0, 0, 255} {
					n++
				}
			}
		}
		return n
	}

	if n := redPixels(running); n != 0 {
		t.Errorf("running frame has %d banner pixels", n)
	}
	if n := redPixels(over); n == 0 {
		t.Error("over frame should show the banner")
	}
}

func TestFrame_IgnoresEmptyImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	Frame(&empty, shapegame.Snapshot{})
	Frame(nil, shapegame.Snapshot{})
}
