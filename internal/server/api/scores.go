package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/shapecatch/internal/store"
)

// ScoresHandler serves the scoreboard of finished sessions.
type ScoresHandler struct {
	store *store.Store
}

// NewScoresHandler creates a new ScoresHandler with the given store.
func NewScoresHandler(s *store.Store) *ScoresHandler {
	return &ScoresHandler{store: s}
}

// ServeHTTP routes /api/scores, /api/scores/best and /api/scores/{id}.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/scores")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
	case path == "best":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.best(w, r)
	default:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, path)
		case http.MethodDelete:
			h.delete(w, r, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type scoreResponse struct {
	ID         string `json:"id"`
	StartedAt  string `json:"started_at"`
	Seconds    int    `json:"duration_seconds"`
	Score      int    `json:"score"`
	Hits       int    `json:"hits"`
	Misses     int    `json:"misses"`
	ShapeCount int    `json:"shape_count"`
	Pointer    string `json:"pointer"`
	CreatedAt  string `json:"created_at"`
}

type listScoresResponse struct {
	Scores []scoreResponse `json:"scores"`
	Total  int             `json:"total"`
}

func toScoreResponse(res *store.Result) scoreResponse {
	return scoreResponse{
		ID:         res.ID,
		StartedAt:  formatTime(res.StartedAt),
		Seconds:    int(res.Duration.Seconds()),
		Score:      res.Score,
		Hits:       res.Hits,
		Misses:     res.Misses,
		ShapeCount: res.ShapeCount,
		Pointer:    res.Pointer,
		CreatedAt:  formatTime(res.CreatedAt),
	}
}

// list handles GET /api/scores?limit=N.
func (h *ScoresHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	results, err := h.store.Results().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scores")
		return
	}

	total, err := h.store.Results().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count scores")
		return
	}

	response := listScoresResponse{
		Scores: make([]scoreResponse, 0, len(results)),
		Total:  total,
	}
	for _, res := range results {
		response.Scores = append(response.Scores, toScoreResponse(res))
	}

	writeJSON(w, http.StatusOK, response)
}

// best handles GET /api/scores/best.
func (h *ScoresHandler) best(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.Results().Best()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No games played yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get best score")
		return
	}

	writeJSON(w, http.StatusOK, toScoreResponse(res))
}

// get handles GET /api/scores/{id}.
func (h *ScoresHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	res, err := h.store.Results().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Score not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get score")
		return
	}

	writeJSON(w, http.StatusOK, toScoreResponse(res))
}

// delete handles DELETE /api/scores/{id}.
func (h *ScoresHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Results().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Score not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete score")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
