package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moodifyapp/moodify-backend/internal/metrics"
	"github.com/moodifyapp/moodify-backend/internal/models"
)

// MoodUserStore is the slice of the user store the mood handlers need.
type MoodUserStore interface {
	AppendMood(ctx context.Context, id string, entry models.MoodEntry) ([]models.MoodEntry, error)
	ListMoods(ctx context.Context, id string) ([]models.MoodEntry, error)
	MoodStats(ctx context.Context, id string) (*models.MoodStats, error)
}

type AddMoodRequest struct {
	UserID string   `json:"userId"`
	Mood   string   `json:"mood"`
	Genre  string   `json:"genre"`
	Tracks []string `json:"tracks"`
}

type AddMoodResponse struct {
	Success     bool               `json:"success"`
	MoodHistory []models.MoodEntry `json:"moodHistory"`
}

type MoodHistoryResponse struct {
	MoodHistory []models.MoodEntry `json:"moodHistory"`
}

// MoodHandler serves the mood history CRUD surface.
type MoodHandler struct {
	users   MoodUserStore
	metrics *metrics.Collector
}

func NewMoodHandler(users MoodUserStore, collector *metrics.Collector) *MoodHandler {
	return &MoodHandler{users: users, metrics: collector}
}

// AddMood appends one entry to a user's history and returns the full updated
// history. Mood, genre and track content is stored as-is.
// POST /user/add-mood
func (h *MoodHandler) AddMood(w http.ResponseWriter, r *http.Request) {
	var req AddMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tracks := req.Tracks
	if tracks == nil {
		tracks = []string{}
	}
	entry := models.MoodEntry{
		Mood:   req.Mood,
		Genre:  req.Genre,
		Tracks: tracks,
		Date:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	history, err := h.users.AppendMood(ctx, req.UserID, entry)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.metrics.RecordMoodAppend()
	writeJSON(w, http.StatusOK, AddMoodResponse{
		Success:     true,
		MoodHistory: history,
	})
}

// GetMoods returns a user's mood history in insertion order.
// GET /user/moods/{userID}
func (h *MoodHandler) GetMoods(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	history, err := h.users.ListMoods(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MoodHistoryResponse{MoodHistory: history})
}

// GetMoodStats returns per-mood and per-genre entry counts for a user.
// GET /user/mood-stats/{userID}
func (h *MoodHandler) GetMoodStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.users.MoodStats(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
