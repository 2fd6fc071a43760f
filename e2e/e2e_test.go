package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/shapecatch/internal/app"
	"github.com/ayusman/shapecatch/internal/capture"
	"github.com/ayusman/shapecatch/internal/detector"
	"github.com/ayusman/shapecatch/internal/server"
	"github.com/ayusman/shapecatch/internal/shapegame"
	"github.com/ayusman/shapecatch/internal/store"
)

const (
	frameWidth  = 640
	frameHeight = 480
)

// pointAt returns a hand whose index tip maps onto pixel p.
func pointAt(p shapegame.Shape) detector.HandLandmarks {
	return detector.PointingLandmarks(
		(float64(p.Position.X)+0.5)/frameWidth,
		(float64(p.Position.Y)+0.5)/frameHeight,
	)
}

func TestE2E_CompleteGame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	hub := server.NewGameHub()
	frames := server.NewFrameBuffer()
	srv := server.New(server.Config{Store: s, Hub: hub, Frames: frames})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("ConfigureGame", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
			strings.NewReader(`{"shape_count": 6, "session_seconds": 10}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("PUT /api/settings error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/game"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	frame := capture.BlankFrame(frameWidth, frameHeight)
	defer frame.Close()

	camera := capture.NewMockCamera([]*gocv.Mat{frame}, true)
	hands := detector.NewMockDetector()
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	game := app.New(app.Config{
		Store: s,
		Game:  shapegame.DefaultConfig(),
		Seed:  2024,
	})
	game.SetCamera(camera)
	game.SetPointer(detector.NewHandPointer(hands), detector.ModeHand)
	game.SetDisplay(app.HeadlessDisplay{})
	game.SetClock(func() time.Time { return clock })
	game.OnSnapshot(hub.Publish)
	game.OnFrame(func(f *gocv.Mat) { frames.Update(f) })

	if err := camera.Open(); err != nil {
		t.Fatalf("camera.Open() error = %v", err)
	}

	t.Run("StartsWithStoredSettings", func(t *testing.T) {
		game.Step()

		snap := game.Snapshot()
		if len(snap.Shapes) != 6 || snap.Seconds != 10 {
			t.Fatalf("expected 6 shapes and 10s, got %d shapes and %ds", len(snap.Shapes), snap.Seconds)
		}
		if _, seq := frames.Latest(); seq == 0 {
			t.Error("rendered frame should reach the stream buffer")
		}
	})

	t.Run("CatchGoalColor", func(t *testing.T) {
		snap := game.Snapshot()

		var target *shapegame.Shape
		for i := range snap.Shapes {
			if snap.Shapes[i].Color == snap.Goal.Color {
				target = &snap.Shapes[i]
				break
			}
		}
		if target == nil {
			t.Fatal("goal color must be on the field")
		}

		// Only a shape earlier in the field order can shadow the target.
		want := 1
		for i := range snap.Shapes {
			if &snap.Shapes[i] == target {
				break
			}
			if snap.Shapes[i].Contains(target.Position.X, target.Position.Y) && snap.Shapes[i].Color != snap.Goal.Color {
				want = -1
				break
			}
		}

		hands.SetHands([]detector.HandLandmarks{pointAt(*target)})
		clock = clock.Add(time.Second)
		game.Step()
		hands.SetHands(nil)

		if got := game.Snapshot().Score; got != want {
			t.Errorf("Score = %d, want %d", got, want)
		}
	})

	t.Run("BroadcastsSnapshots", func(t *testing.T) {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))

		var snap struct {
			State  string `json:"state"`
			Shapes []struct {
				Kind  string `json:"kind"`
				Color string `json:"color"`
			} `json:"shapes"`
		}
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if snap.State != string(shapegame.StateRunning) || len(snap.Shapes) != 6 {
			t.Errorf("unexpected broadcast: %+v", snap)
		}
	})

	t.Run("TimeRunsOut", func(t *testing.T) {
		clock = clock.Add(10 * time.Second)
		game.Step()

		snap := game.Snapshot()
		if !snap.Over || snap.Seconds != 0 {
			t.Fatalf("expected game over, got %+v", snap)
		}
	})

	t.Run("ScoreboardListsGame", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/scores/best")
		if err != nil {
			t.Fatalf("GET /api/scores/best error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var best struct {
			Score      int    `json:"score"`
			Seconds    int    `json:"duration_seconds"`
			ShapeCount int    `json:"shape_count"`
			Pointer    string `json:"pointer"`
		}
		json.NewDecoder(resp.Body).Decode(&best)

		if best.Score != game.Snapshot().Score || best.Seconds != 10 || best.ShapeCount != 6 || best.Pointer != "hand" {
			t.Errorf("unexpected recorded game: %+v", best)
		}
	})

	t.Run("RestartStartsFreshGame", func(t *testing.T) {
		game.Restart()
		game.Step()

		snap := game.Snapshot()
		if snap.Over || snap.Score != 0 || snap.Seconds != 10 {
			t.Errorf("expected fresh game, got %+v", snap)
		}

		n, _ := s.Results().Count()
		if n != 1 {
			t.Errorf("restart should not record another game, got %d results", n)
		}
	})
}
