// Package app runs the shape game: it reads camera frames, turns them into
// pointer updates, renders the field and records finished games.
package app

import (
	"errors"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapecatch/internal/capture"
	"github.com/ayusman/shapecatch/internal/detector"
	"github.com/ayusman/shapecatch/internal/shapegame"
	"github.com/ayusman/shapecatch/internal/store"
)

// ErrAlreadyRunning is returned by Run when the game loop is already active.
var ErrAlreadyRunning = errors.New("game loop already running")

// Config holds configuration options for the application.
type Config struct {
	Store       *store.Store
	CameraID    int
	Mirror      bool
	Pointer     string // detector.ModeHand or detector.ModeFace
	CascadePath string
	Game        shapegame.Config
	Seed        uint64 // zero picks a random seed
}

// App is the game loop tying the camera, the pointer source and the session together.
type App struct {
	config      Config
	camera      capture.Camera
	pointer     detector.PointerSource
	pointerMode string
	display     Display
	rng         *rand.Rand
	session     *shapegame.Session
	recorded    bool
	last        shapegame.Snapshot
	now         func() time.Time

	onSnapshot []func(shapegame.Snapshot)
	onGameOver []func(*store.Result)
	onFrame    []func(*gocv.Mat)

	restartCh chan struct{}
	mu        sync.RWMutex
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Pointer == "" {
		config.Pointer = detector.ModeHand
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID, config.Mirror),
		display:   HeadlessDisplay{},
		rng:       newRand(config.Seed),
		now:       time.Now,
		restartCh: make(chan struct{}, 1),
	}
	a.pointer, a.pointerMode = newPointerSource(config)
	a.session = a.newSession()

	return a
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// newPointerSource picks the configured pointer source, falling back to hand
// tracking when the face cascade is unavailable and to a mock detector when
// MediaPipe is not installed.
func newPointerSource(config Config) (detector.PointerSource, string) {
	if config.Pointer == detector.ModeFace {
		fp, err := detector.NewFacePointer(config.CascadePath)
		if err == nil {
			log.Println("Using face tracking pointer")
			return fp, detector.ModeFace
		}
		log.Printf("Face tracking not available (%v), using hand tracking", err)
	}

	mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err == nil {
		log.Println("Using MediaPipe hand detection")
		return detector.NewHandPointer(mp), detector.ModeHand
	}

	log.Printf("MediaPipe not available (%v), using mock detector", err)
	return detector.NewHandPointer(detector.NewMockDetector()), detector.ModeHand
}

// gameConfig returns the configuration for the next game. Stored settings
// take precedence over the configured defaults.
func (a *App) gameConfig() shapegame.Config {
	if a.config.Store == nil {
		return a.config.Game
	}

	cfg, err := a.config.Store.Settings().GameConfig(a.config.Game)
	if err != nil {
		log.Printf("Ignoring stored game settings: %v", err)
		return a.config.Game
	}
	return cfg
}

func (a *App) newSession() *shapegame.Session {
	return shapegame.NewSession(a.gameConfig(), a.rng)
}

// SetCamera replaces the camera. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetPointer replaces the pointer source and the mode recorded with results.
func (a *App) SetPointer(p detector.PointerSource, mode string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pointer = p
	a.pointerMode = mode
}

// SetDisplay sets where rendered frames are shown.
func (a *App) SetDisplay(d Display) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.display = d
}

// SetClock replaces the time source used for the countdown.
func (a *App) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// OnSnapshot registers fn to receive the snapshot of every processed frame.
func (a *App) OnSnapshot(fn func(shapegame.Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSnapshot = append(a.onSnapshot, fn)
}

// OnGameOver registers fn to receive each finished game once.
func (a *App) OnGameOver(fn func(*store.Result)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGameOver = append(a.onGameOver, fn)
}

// OnFrame registers fn to receive every rendered frame. The frame is only
// valid for the duration of the call.
func (a *App) OnFrame(fn func(*gocv.Mat)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onFrame = append(a.onFrame, fn)
}

// Restart asks the loop to begin a fresh game on the next frame.
// It is safe to call from any goroutine.
func (a *App) Restart() {
	select {
	case a.restartCh <- struct{}{}:
	default:
	}
}

// Start runs the game loop in a new goroutine.
func (a *App) Start() error {
	stop, done, err := a.begin()
	if err != nil || stop == nil {
		return err
	}

	go a.loop(stop, done)

	log.Println("Game loop started")
	return nil
}

// Run runs the game loop on the calling goroutine until the player quits or
// Stop is called. GUI backends that need the main thread use Run.
func (a *App) Run() error {
	stop, done, err := a.begin()
	if err != nil {
		return err
	}
	if stop == nil {
		return ErrAlreadyRunning
	}

	log.Println("Game loop started")
	a.loop(stop, done)
	a.Stop()
	return nil
}

// begin opens the camera and prepares the stop channel. It returns nil
// channels when the loop is already running.
func (a *App) begin() (chan struct{}, chan struct{}, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil, nil, nil
	}

	if err := a.camera.Open(); err != nil {
		return nil, nil, err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	return a.stopCh, a.doneCh, nil
}

// Stop halts the game loop and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	done := a.doneCh
	a.mu.Unlock()

	<-done

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.pointer.Close(); err != nil {
		log.Printf("Error closing pointer source: %v", err)
	}
	if err := a.display.Close(); err != nil {
		log.Printf("Error closing display: %v", err)
	}

	log.Println("Game loop stopped")
}

// Done is closed when the running loop exits. It returns nil before Start.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.doneCh
}

// Snapshot returns the snapshot of the last processed frame.
func (a *App) Snapshot() shapegame.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// PointerMode returns the pointer source actually in use.
func (a *App) PointerMode() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pointerMode
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}
