package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moodifyapp/moodify-backend/internal/metrics"
	"github.com/moodifyapp/moodify-backend/internal/models"
	"github.com/moodifyapp/moodify-backend/internal/services"
)

const (
	sessionCookieName    = "session_id"
	oauthStateCookieName = "oauth_state"

	// stateCookieMaxAge bounds how long a pending login stays valid
	stateCookieMaxAge = 600
)

// AuthUserStore is the slice of the user store the auth handler needs.
type AuthUserStore interface {
	FindOrCreateByGoogleID(ctx context.Context, googleID, name, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// SessionStore creates, validates and tears down browser sessions.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Validate(ctx context.Context, token string) (string, bool, error)
	Invalidate(ctx context.Context, token string) error
}

// OAuthProvider is the identity-provider side of the login flow.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*services.GoogleUser, error)
}

type AuthHandlerConfig struct {
	FrontendURL  string
	CookieSecure bool
}

// AuthHandler implements the Google login flow and session-bound identity.
type AuthHandler struct {
	users    AuthUserStore
	sessions SessionStore
	google   OAuthProvider
	metrics  *metrics.Collector
	config   AuthHandlerConfig
}

func NewAuthHandler(users AuthUserStore, sessions SessionStore, google OAuthProvider, collector *metrics.Collector, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		google:   google,
		metrics:  collector,
		config:   config,
	}
}

// Login begins the Google OAuth flow.
// GET /auth/google
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	// State round-trips through Google and is checked on the callback (CSRF)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the login: verifies state, exchanges the code, creates
// the user on first login and binds a session to it.
// GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || state == "" || stateCookie.Value != state {
		log.Printf("oauth state mismatch")
		h.failLogin(w, r)
		return
	}
	clearCookie(w, oauthStateCookieName, h.config.CookieSecure)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.failLogin(w, r)
		return
	}

	googleUser, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("oauth exchange failed: %v", err)
		h.failLogin(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.FindOrCreateByGoogleID(ctx, googleUser.Sub, googleUser.Name, googleUser.Email)
	if err != nil {
		log.Printf("failed to find or create user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.sessions.Create(ctx, user.ID.Hex())
	if err != nil {
		log.Printf("failed to create session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.metrics.RecordLogin()
	http.Redirect(w, r, h.config.FrontendURL, http.StatusTemporaryRedirect)
}

// Me returns the identity bound to the session.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         user.ID.Hex(),
		"googleId":   user.GoogleID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

// Logout invalidates the session and sends the browser back to the app.
// GET /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Invalidate(r.Context(), cookie.Value); err != nil {
			log.Printf("failed to invalidate session: %v", err)
		}
	}
	clearCookie(w, sessionCookieName, h.config.CookieSecure)

	http.Redirect(w, r, h.config.FrontendURL, http.StatusTemporaryRedirect)
}

// currentUser resolves the session cookie to a user. Returns (nil, false) for
// anything short of a valid session bound to an existing user.
func (h *AuthHandler) currentUser(r *http.Request) (*models.User, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	userID, ok, err := h.sessions.Validate(r.Context(), cookie.Value)
	if err != nil || !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.config.FrontendURL+"/login-failed", http.StatusTemporaryRedirect)
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
