package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionService stores sessions in Redis keyed by a random token. The token
// handed to the browser is HMAC-signed with the session secret, so a cookie
// that was not issued by this server is rejected before Redis is consulted.
type SessionService struct {
	rdb    *redis.Client
	secret []byte
}

func NewSessionService(rdb *redis.Client, secret string) *SessionService {
	return &SessionService{rdb: rdb, secret: []byte(secret)}
}

// Create creates a new session for a user and stores it in Redis.
// If the user already has a session, the old one is invalidated first so the
// 7-day timer resets from the current login. Returns the signed token.
func (s *SessionService) Create(ctx context.Context, userID string) (string, error) {
	s.invalidateUserSessions(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + token
	userSessionKey := UserSessionKeyPrefix + userID

	if err := s.rdb.Set(ctx, sessionKey, userID, SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, userSessionKey, token, SessionDuration).Err(); err != nil {
		return "", err
	}

	return s.sign(token), nil
}

// Validate checks a signed token and returns the bound user id.
func (s *SessionService) Validate(ctx context.Context, signed string) (string, bool, error) {
	token, ok := s.verify(signed)
	if !ok {
		return "", false, nil
	}

	userID, err := s.rdb.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return userID, true, nil
}

// Invalidate removes a session from Redis.
func (s *SessionService) Invalidate(ctx context.Context, signed string) error {
	token, ok := s.verify(signed)
	if !ok {
		return nil
	}

	sessionKey := SessionKeyPrefix + token

	// Drop the user->session mapping before the session itself
	userID, err := s.rdb.Get(ctx, sessionKey).Result()
	if err == nil && userID != "" {
		s.rdb.Del(ctx, UserSessionKeyPrefix+userID)
	}

	return s.rdb.Del(ctx, sessionKey).Err()
}

// invalidateUserSessions drops any existing session for a user.
func (s *SessionService) invalidateUserSessions(ctx context.Context, userID string) {
	userSessionKey := UserSessionKeyPrefix + userID

	token, err := s.rdb.Get(ctx, userSessionKey).Result()
	if err == nil && token != "" {
		s.rdb.Del(ctx, SessionKeyPrefix+token)
	}
	s.rdb.Del(ctx, userSessionKey)
}

// sign appends an HMAC-SHA256 signature to the token: "<token>.<sig>".
func (s *SessionService) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return token + "." + base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

// verify checks the signature and returns the raw token.
func (s *SessionService) verify(signed string) (string, bool) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 {
		return "", false
	}
	token, sig := signed[:idx], signed[idx+1:]

	want, err := base64.URLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	if !hmac.Equal(mac.Sum(nil), want) {
		return "", false
	}
	return token, true
}
