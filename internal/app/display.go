package app

import "gocv.io/x/gocv"

// Keys understood by the game loop.
const (
	NoKey      = -1
	KeyEscape  = 27
	KeyRestart = 'r'
)

// Display shows rendered frames and reports the key pressed meanwhile,
// or NoKey.
type Display interface {
	Show(frame *gocv.Mat) int
	Close() error
}

// WindowDisplay shows frames in an OpenCV window. Like every HighGUI call
// it must be used from the main thread on some platforms.
type WindowDisplay struct {
	window *gocv.Window
}

// NewWindowDisplay opens a window with the given title.
func NewWindowDisplay(title string) *WindowDisplay {
	return &WindowDisplay{window: gocv.NewWindow(title)}
}

// Show draws frame and polls the keyboard for one millisecond.
func (d *WindowDisplay) Show(frame *gocv.Mat) int {
	d.window.IMShow(*frame)
	return d.window.WaitKey(1)
}

// Close destroys the window.
func (d *WindowDisplay) Close() error {
	return d.window.Close()
}

// HeadlessDisplay discards frames. It is used when the game is only watched
// through the web stream.
type HeadlessDisplay struct{}

func (HeadlessDisplay) Show(*gocv.Mat) int { return NoKey }
func (HeadlessDisplay) Close() error       { return nil }
