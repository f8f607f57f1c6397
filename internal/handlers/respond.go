package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/moodifyapp/moodify-backend/internal/store"
)

// errorResponse is the JSON body for every error the API returns.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent at this point, logging is all that's left
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeStoreError maps store errors to HTTP: unknown user ids become 404,
// anything else is an opaque 500 so driver errors never reach the client.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	log.Printf("store error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
