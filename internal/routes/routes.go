package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/moodifyapp/moodify-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux, auth *handlers.AuthHandler, mood *handlers.MoodHandler) {
	// Auth routes
	r.Get("/auth/google", auth.Login)
	r.Get("/auth/google/callback", auth.Callback)
	r.Get("/auth/me", auth.Me)
	r.Get("/auth/logout", auth.Logout)

	// Mood routes
	r.Post("/user/add-mood", mood.AddMood)
	r.Get("/user/moods/{userID}", mood.GetMoods)
	r.Get("/user/mood-stats/{userID}", mood.GetMoodStats)
}
