package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/shapecatch/internal/shapegame"
	"github.com/ayusman/shapecatch/internal/store"
)

// SettingsHandler reads and updates the game settings. Changes apply to the
// next game.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

type settingsResponse struct {
	ShapeCount     int `json:"shape_count"`
	SessionSeconds int `json:"session_seconds"`
}

type updateSettingsRequest struct {
	ShapeCount     *int `json:"shape_count"`
	SessionSeconds *int `json:"session_seconds"`
}

// ServeHTTP handles GET and PUT on /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) current() (shapegame.Config, error) {
	return h.store.Settings().GameConfig(shapegame.DefaultConfig())
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read settings")
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(cfg))
}

// update applies the provided fields; omitted fields keep their values.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	cfg, err := h.current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read settings")
		return
	}

	if req.ShapeCount != nil {
		cfg.ShapeCount = *req.ShapeCount
	}
	if req.SessionSeconds != nil {
		cfg.Duration = time.Duration(*req.SessionSeconds) * time.Second
	}

	if err := h.store.Settings().SaveGameConfig(cfg); err != nil {
		if errors.Is(err, shapegame.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(cfg))
}

func toSettingsResponse(cfg shapegame.Config) settingsResponse {
	return settingsResponse{
		ShapeCount:     cfg.ShapeCount,
		SessionSeconds: int(cfg.Duration / time.Second),
	}
}
