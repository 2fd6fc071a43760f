package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapecatch/internal/app"
	"github.com/ayusman/shapecatch/internal/detector"
	"github.com/ayusman/shapecatch/internal/server"
	"github.com/ayusman/shapecatch/internal/shapegame"
	"github.com/ayusman/shapecatch/internal/store"
	"github.com/ayusman/shapecatch/internal/tray"
)

const cascadeName = "haarcascade_frontalface_default.xml"

func main() {
	var (
		cameraID  = flag.Int("camera", 0, "camera device ID")
		mirror    = flag.Bool("mirror", true, "mirror the camera image")
		pointer   = flag.String("pointer", detector.ModeHand, "pointer source: hand or face")
		cascade   = flag.String("cascade", "", "Haar cascade for face pointer (default ~/.shapecatch/"+cascadeName+")")
		addr      = flag.String("addr", ":8080", "HTTP listen address")
		dbPath    = flag.String("db", "", "SQLite database path (default ~/.shapecatch/shapecatch.db)")
		useTray   = flag.Bool("tray", false, "run from the system tray and watch the game in a browser")
		shapes    = flag.Int("shapes", 0, "number of shapes on the field (saved)")
		duration  = flag.Duration("duration", 0, "game length, e.g. 60s (saved)")
		seed      = flag.Uint64("seed", 0, "random seed for shape placement (0 = random)")
		staticDir = flag.String("web", "", "directory of static files to serve")
	)
	flag.Parse()

	fmt.Println("Shapecatch - catch the shape of the goal color")

	if *pointer != detector.ModeHand && *pointer != detector.ModeFace {
		log.Fatalf("Unknown pointer source %q: want %s or %s", *pointer, detector.ModeHand, detector.ModeFace)
	}

	dir := dataDir()
	if *dbPath == "" {
		*dbPath = filepath.Join(dir, "shapecatch.db")
	}
	if *cascade == "" {
		*cascade = filepath.Join(dir, cascadeName)
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := saveFlagSettings(st, *shapes, *duration); err != nil {
		log.Fatalf("Invalid game settings: %v", err)
	}

	webDir := *staticDir
	if webDir == "" {
		webDir = findWebDir(dir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	hub := server.NewGameHub()
	frames := server.NewFrameBuffer()

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Hub:       hub,
		Frames:    frames,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Printf("Server failed: %v", err)
		}
	}()

	game := app.New(app.Config{
		Store:       st,
		CameraID:    *cameraID,
		Mirror:      *mirror,
		Pointer:     *pointer,
		CascadePath: *cascade,
		Game:        shapegame.DefaultConfig(),
		Seed:        *seed,
	})
	game.OnSnapshot(hub.Publish)
	game.OnFrame(func(frame *gocv.Mat) {
		if err := frames.Update(frame); err != nil {
			log.Printf("Failed to update stream: %v", err)
		}
	})

	if *useTray {
		runTray(game, st, scoreboardURL(*addr))
		return
	}

	game.SetDisplay(app.NewWindowDisplay("Shapecatch"))
	fmt.Println("Press ESC to quit, r to restart")
	if err := game.Run(); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
}

// runTray runs the game headless and blocks in the tray until the player
// quits from the menu or the game loop ends.
func runTray(game *app.App, st *store.Store, url string) {
	t := tray.New()

	if best, err := st.Results().Best(); err == nil {
		t.SetBest(best.Score)
	}

	game.OnSnapshot(t.SetSnapshot)
	game.OnGameOver(func(*store.Result) {
		if best, err := st.Results().Best(); err == nil {
			t.SetBest(best.Score)
		}
	})

	t.OnNewGame(game.Restart)
	t.OnScoreboard(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(game.Stop)

	if err := game.Start(); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	go func() {
		<-game.Done()
		t.Quit()
	}()

	fmt.Printf("Watch the game at %s\n", url)
	t.Run()
	game.Stop()
}

// saveFlagSettings stores the game settings given on the command line so
// they also apply to restarted games.
func saveFlagSettings(st *store.Store, shapes int, duration time.Duration) error {
	if shapes == 0 && duration == 0 {
		return nil
	}

	cfg, err := st.Settings().GameConfig(shapegame.DefaultConfig())
	if err != nil {
		cfg = shapegame.DefaultConfig()
	}
	if shapes != 0 {
		cfg.ShapeCount = shapes
	}
	if duration != 0 {
		cfg.Duration = duration
	}

	return st.Settings().SaveGameConfig(cfg)
}

func dataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dir := filepath.Join(homeDir, ".shapecatch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	return dir
}

// findWebDir searches "web", "../web", "../../web" and the data directory.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}

func scoreboardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/api/scores"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
