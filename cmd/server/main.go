package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/moodifyapp/moodify-backend/internal/config"
	"github.com/moodifyapp/moodify-backend/internal/database"
	"github.com/moodifyapp/moodify-backend/internal/handlers"
	"github.com/moodifyapp/moodify-backend/internal/metrics"
	"github.com/moodifyapp/moodify-backend/internal/middleware"
	"github.com/moodifyapp/moodify-backend/internal/routes"
	"github.com/moodifyapp/moodify-backend/internal/services"
	"github.com/moodifyapp/moodify-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.SessionSecret == "" {
		log.Println("⚠️  WARNING: SESSION_SECRET not set. Session cookies will not survive restarts safely.")
		log.Println("   Generate one with: openssl rand -base64 32")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("⚠️  WARNING: GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET not set. Login will not work.")
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoDB, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoDB.Disconnect()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// User store with the unique google_id index
	users := store.NewUserStore(mongoDB.DB)
	if err := users.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure user indexes: %v", err)
	} else {
		log.Println("✅ MongoDB user indexes ensured")
	}

	sessions := services.NewSessionService(redisClient, cfg.SessionSecret)
	google := services.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	authHandler := handlers.NewAuthHandler(users, sessions, google, collector, handlers.AuthHandlerConfig{
		FrontendURL:  cfg.FrontendURL,
		CookieSecure: cfg.IsProduction(),
	})
	moodHandler := handlers.NewMoodHandler(users, collector)

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(collector.Middleware)

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimit(redisClient))
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler(registry))

	// Setup routes
	routes.SetupRoutes(r, authHandler, moodHandler)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  GET  /metrics")
	log.Println("  GET  /auth/google")
	log.Println("  GET  /auth/google/callback")
	log.Println("  GET  /auth/me")
	log.Println("  GET  /auth/logout")
	log.Println("  POST /user/add-mood")
	log.Println("  GET  /user/moods/{userID}")
	log.Println("  GET  /user/mood-stats/{userID}")

	log.Printf("🚀 Moodify backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
