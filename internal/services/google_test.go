package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGoogleProvider_AuthURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "client-secret", "http://localhost:8080/auth/google/callback")

	u := p.AuthURL("state-123")

	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "userinfo.profile")
	assert.Contains(t, u, "userinfo.email")
}

// fakeGoogle stands in for Google's token and userinfo endpoints.
func fakeGoogle(t *testing.T, userInfoStatus int, userInfoBody string) (*httptest.Server, *httptest.Server) {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fake-token","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer fake-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userInfoStatus)
		w.Write([]byte(userInfoBody))
	}))
	t.Cleanup(userSrv.Close)

	return tokenSrv, userSrv
}

func newTestProvider(tokenURL, userInfoURL string) *GoogleProvider {
	p := NewGoogleProvider("client-id", "client-secret", "http://localhost:8080/auth/google/callback")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: tokenURL + "/auth", TokenURL: tokenURL + "/token"}
	p.userInfoURL = userInfoURL
	return p
}

func TestGoogleProvider_Exchange(t *testing.T) {
	tokenSrv, userSrv := fakeGoogle(t, http.StatusOK,
		`{"sub":"google-1","name":"Ada Lovelace","email":"ada@example.com"}`)
	p := newTestProvider(tokenSrv.URL, userSrv.URL)

	user, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "google-1", user.Sub)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestGoogleProvider_Exchange_UserInfoError(t *testing.T) {
	tokenSrv, userSrv := fakeGoogle(t, http.StatusInternalServerError, `{}`)
	p := newTestProvider(tokenSrv.URL, userSrv.URL)

	_, err := p.Exchange(context.Background(), "auth-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGoogleProvider_Exchange_MissingSub(t *testing.T) {
	tokenSrv, userSrv := fakeGoogle(t, http.StatusOK, `{"name":"Nobody"}`)
	p := newTestProvider(tokenSrv.URL, userSrv.URL)

	_, err := p.Exchange(context.Background(), "auth-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing sub")
}

func TestGoogleProvider_Exchange_TokenEndpointError(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	t.Cleanup(tokenSrv.Close)

	p := newTestProvider(tokenSrv.URL, tokenSrv.URL)

	_, err := p.Exchange(context.Background(), "expired-code")
	require.Error(t, err)
}
