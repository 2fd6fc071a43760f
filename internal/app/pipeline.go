package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapecatch/internal/capture"
	"github.com/ayusman/shapecatch/internal/render"
	"github.com/ayusman/shapecatch/internal/shapegame"
	"github.com/ayusman/shapecatch/internal/store"
)

// loop paces Step at the camera frame rate until stop is closed or the
// player quits.
func (a *App) loop(stop, done chan struct{}) {
	defer close(done)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.Step() {
				log.Println("Quit requested")
				return
			}
		}
	}
}

// Step reads one frame, advances the game with it and shows the result.
// It returns false when the player asked to quit. Camera errors skip the frame.
func (a *App) Step() bool {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return true
	}
	defer frame.Close()

	a.processFrame(frame, a.now())

	return a.handleKey(a.display.Show(frame))
}

// processFrame runs one game step on frame and draws the game onto it:
//
//  1. start the session on the first frame, or follow the frame size
//  2. advance the countdown; record the game once when it ends
//  3. hit-test every pointer in detection order
//  4. render and publish the snapshot
func (a *App) processFrame(frame *gocv.Mat, now time.Time) shapegame.Snapshot {
	select {
	case <-a.restartCh:
		a.restart()
	default:
	}

	bounds := capture.Bounds(frame)
	if a.session.State() == shapegame.StateNotStarted {
		if err := a.session.Start(bounds, now); err != nil {
			log.Printf("Cannot start game on %dx%d frame: %v", bounds.Width, bounds.Height, err)
			return a.session.Snapshot()
		}
		cfg := a.session.Config()
		log.Printf("Game started: %d shapes, %v", cfg.ShapeCount, cfg.Duration)
	} else if err := a.session.SetBounds(bounds); err != nil {
		log.Printf("Keeping %dx%d field, ignoring %dx%d frame: %v",
			a.session.Bounds().Width, a.session.Bounds().Height, bounds.Width, bounds.Height, err)
	}

	snap := a.session.Tick(now)
	if snap.Over && !a.recorded {
		a.recorded = true
		a.finish(snap)
	}

	a.applyPointers(frame)

	snap = a.session.Snapshot()
	render.Frame(frame, snap)
	a.publish(snap, frame)

	return snap
}

func (a *App) applyPointers(frame *gocv.Mat) {
	points, err := a.pointer.Pointers(frame)
	if err != nil {
		log.Printf("Error detecting pointers: %v", err)
		return
	}

	for _, pt := range points {
		res := a.session.OnPointerUpdate(pt.X, pt.Y)
		if !res.Hit {
			continue
		}
		if res.Matched {
			log.Printf("Caught %s %s at %v, score %d", res.Shape.Color, res.Shape.Kind, res.Shape.Position, res.Score)
		} else {
			log.Printf("Wrong color: %s %s at %v, score %d", res.Shape.Color, res.Shape.Kind, res.Shape.Position, res.Score)
		}
	}
}

// finish records the game that just ran out of time.
func (a *App) finish(snap shapegame.Snapshot) {
	cfg := a.session.Config()
	res := &store.Result{
		StartedAt:  a.session.StartTime(),
		Duration:   cfg.Duration,
		Score:      snap.Score,
		Hits:       snap.Hits,
		Misses:     snap.Misses,
		ShapeCount: cfg.ShapeCount,
		Pointer:    a.pointerMode,
	}

	log.Printf("Time is over: score %d (%d hits, %d misses)", res.Score, res.Hits, res.Misses)

	if a.config.Store != nil {
		if err := a.config.Store.Results().Record(res); err != nil {
			log.Printf("Failed to record result: %v", err)
		}
	}

	a.mu.RLock()
	listeners := a.onGameOver
	a.mu.RUnlock()

	for _, fn := range listeners {
		fn(res)
	}
}

func (a *App) restart() {
	a.session = a.newSession()
	a.recorded = false
	log.Println("New game requested")
}

func (a *App) publish(snap shapegame.Snapshot, frame *gocv.Mat) {
	a.mu.Lock()
	a.last = snap
	snapshotListeners := a.onSnapshot
	frameListeners := a.onFrame
	a.mu.Unlock()

	for _, fn := range snapshotListeners {
		fn(snap)
	}
	for _, fn := range frameListeners {
		fn(frame)
	}
}

// handleKey reacts to a key from the display. It returns false on ESC.
func (a *App) handleKey(key int) bool {
	if key == NoKey {
		return true
	}

	switch key & 0xFF {
	case KeyEscape:
		return false
	case KeyRestart, 'R':
		a.Restart()
	}
	return true
}
