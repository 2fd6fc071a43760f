// Package tray provides a system tray menu for the shapecatch game.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/shapecatch/internal/shapegame"
)

// Tray represents the system tray application.
type Tray struct {
	onNewGame    func()
	onScoreboard func()
	onQuit       func()
	status       string
	best         string
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuStatus *systray.MenuItem
	menuBest   *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{
		status: StatusTitle(shapegame.Snapshot{State: shapegame.StateNotStarted}),
		best:   BestTitle(0, false),
	}
}

// OnNewGame sets the callback invoked when "New Game" is clicked.
func (t *Tray) OnNewGame(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNewGame = fn
}

// OnScoreboard sets the callback invoked when "Open Scoreboard" is clicked.
func (t *Tray) OnScoreboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onScoreboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
func (t *Tray) onReady() {
	systray.SetTitle("Shapecatch")
	systray.SetTooltip("Shapecatch shape game")

	menuNewGame := systray.AddMenuItem("New Game", "Start a fresh game")
	systray.AddSeparator()

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(t.status, "Current game")
	t.menuStatus.Disable()
	t.menuBest = systray.AddMenuItem(t.best, "Best recorded score")
	t.menuBest.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuScoreboard := systray.AddMenuItem("Open Scoreboard...", "Open the scoreboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Shapecatch")

	go func() {
		for {
			select {
			case <-menuNewGame.ClickedCh:
				t.handleNewGame()
			case <-menuScoreboard.ClickedCh:
				t.handleScoreboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleNewGame() {
	t.mu.RLock()
	callback := t.onNewGame
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleScoreboard() {
	t.mu.RLock()
	callback := t.onScoreboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetSnapshot updates the live score line. Safe to call before Run.
func (t *Tray) SetSnapshot(snap shapegame.Snapshot) {
	title := StatusTitle(snap)

	t.mu.Lock()
	defer t.mu.Unlock()

	if title == t.status {
		return
	}
	t.status = title
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(title)
	}
}

// SetBest updates the best score line.
func (t *Tray) SetBest(score int) {
	title := BestTitle(score, true)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.best = title
	if t.menuBest != nil {
		t.menuBest.SetTitle(title)
	}
}

// Status returns the current score line.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Best returns the current best score line.
func (t *Tray) Best() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.best
}

// StatusTitle formats a snapshot for the menu.
func StatusTitle(snap shapegame.Snapshot) string {
	switch snap.State {
	case shapegame.StateRunning:
		return fmt.Sprintf("Score: %d (%ds left)", snap.Score, snap.Seconds)
	case shapegame.StateOver:
		return fmt.Sprintf("Final score: %d", snap.Score)
	default:
		return "No game running"
	}
}

// BestTitle formats the best score for the menu.
func BestTitle(score int, ok bool) string {
	if !ok {
		return "Best: none"
	}
	return fmt.Sprintf("Best: %d", score)
}
