package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "HOST", "PORT", "MONGODB_URI", "MONGO_URI", "REDIS_URI",
		"SESSION_SECRET", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"GOOGLE_REDIRECT_URL", "FRONTEND_URL", "FRONTEND_URL_2", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "mongodb://localhost:27017/moodify", cfg.MongoURI)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURI)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://localhost:8080/auth/google/callback", cfg.GoogleRedirectURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RedirectURLDerivedFromHost(t *testing.T) {
	t.Setenv("HOST", "https://api.moodify.app/")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	cfg := Load()

	assert.Equal(t, "https://api.moodify.app/auth/google/callback", cfg.GoogleRedirectURL)
}

func TestLoad_ExplicitRedirectURLWins(t *testing.T) {
	t.Setenv("HOST", "https://api.moodify.app")
	t.Setenv("GOOGLE_REDIRECT_URL", "https://other.example/cb")

	cfg := Load()

	assert.Equal(t, "https://other.example/cb", cfg.GoogleRedirectURL)
}

func TestLoad_AllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://moodify.app, https://www.moodify.app ,")

	cfg := Load()

	assert.Equal(t, []string{"https://moodify.app", "https://www.moodify.app"}, cfg.AllowedOrigins)
}

func TestLoad_AllowedOriginsFallBackToFrontendURLs(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://moodify.app")
	t.Setenv("FRONTEND_URL_2", "http://localhost:3000")

	cfg := Load()

	assert.Equal(t, []string{"https://moodify.app", "http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", " Production ")
	assert.True(t, Load().IsProduction())

	t.Setenv("ENV", "development")
	assert.False(t, Load().IsProduction())
}
