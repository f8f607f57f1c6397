package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodifyapp/moodify-backend/internal/handlers"
	"github.com/moodifyapp/moodify-backend/internal/models"
)

func postAddMood(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/user/add-mood", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAddMood_AppendsAndReturnsFullHistory(t *testing.T) {
	users := newFakeUserStore()
	r := newTestRouter(users, newFakeSessions(), &fakeProvider{})
	userID := users.addUser("google-1", "Ada", "ada@example.com")

	rr := postAddMood(t, r, `{"userId":"`+userID+`","mood":"happy","genre":"pop","tracks":["a","b"]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res handlers.AddMoodResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Success)
	require.Len(t, res.MoodHistory, 1)

	last := res.MoodHistory[len(res.MoodHistory)-1]
	assert.Equal(t, "happy", last.Mood)
	assert.Equal(t, "pop", last.Genre)
	assert.Equal(t, []string{"a", "b"}, last.Tracks)
	assert.False(t, last.Date.IsZero(), "entry date must be set at insertion")

	// A second append grows the history by exactly one, keeping order
	rr = postAddMood(t, r, `{"userId":"`+userID+`","mood":"calm","genre":"ambient","tracks":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.Len(t, res.MoodHistory, 2)
	assert.Equal(t, "happy", res.MoodHistory[0].Mood)
	assert.Equal(t, "calm", res.MoodHistory[1].Mood)
}

func TestAddMood_MissingTracksStoredAsEmptyList(t *testing.T) {
	users := newFakeUserStore()
	r := newTestRouter(users, newFakeSessions(), &fakeProvider{})
	userID := users.addUser("google-1", "Ada", "ada@example.com")

	rr := postAddMood(t, r, `{"userId":"`+userID+`","mood":"sad","genre":"blues"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res handlers.AddMoodResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.Len(t, res.MoodHistory, 1)
	assert.NotNil(t, res.MoodHistory[0].Tracks)
	assert.Empty(t, res.MoodHistory[0].Tracks)
}

func TestAddMood_UnknownUserReturns404(t *testing.T) {
	r := newTestRouter(newFakeUserStore(), newFakeSessions(), &fakeProvider{})

	rr := postAddMood(t, r, `{"userId":"64b000000000000000000000","mood":"happy","genre":"pop","tracks":[]}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, rr.Body.String())
}

func TestAddMood_InvalidBodyReturns400(t *testing.T) {
	r := newTestRouter(newFakeUserStore(), newFakeSessions(), &fakeProvider{})

	rr := postAddMood(t, r, `{not json`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rr.Body.String())
}

func TestAddMood_StoreFailureReturnsOpaque500(t *testing.T) {
	users := newFakeUserStore()
	userID := users.addUser("google-1", "Ada", "ada@example.com")
	users.ForcedErr = errors.New("connection reset")
	r := newTestRouter(users, newFakeSessions(), &fakeProvider{})

	rr := postAddMood(t, r, `{"userId":"`+userID+`","mood":"happy","genre":"pop","tracks":[]}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}

func TestGetMoods_EmptyHistoryReturnsEmptyArray(t *testing.T) {
	users := newFakeUserStore()
	r := newTestRouter(users, newFakeSessions(), &fakeProvider{})
	userID := users.addUser("google-1", "Ada", "ada@example.com")

	req := httptest.NewRequest(http.MethodGet, "/user/moods/"+userID, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"moodHistory":[]}`, rr.Body.String())
}

func TestGetMoods_ReturnsInsertionOrder(t *testing.T) {
	users := newFakeUserStore()
	r := newTestRouter(users, newFakeSessions(), &fakeProvider{})
	userID := users.addUser("google-1", "Ada", "ada@example.com")

	for _, mood := range []string{"happy", "sad", "calm"} {
		rr := postAddMood(t, r, `{"userId":"`+userID+`","mood":"`+mood+`","genre":"pop","tracks":[]}`)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/user/moods/"+userID, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var res handlers.MoodHistoryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.Len(t, res.MoodHistory, 3)
	for i, want := range []string{"happy", "sad", "calm"} {
		assert.Equal(t, want, res.MoodHistory[i].Mood)
	}
}

func TestGetMoods_UnknownUserReturns404(t *testing.T) {
	r := newTestRouter(newFakeUserStore(), newFakeSessions(), &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/user/moods/64b000000000000000000000", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, rr.Body.String())
}

func TestGetMoodStats_CountsByMoodAndGenre(t *testing.T) {
	users := newFakeUserStore()
	r := newTestRouter(users, newFakeSessions(), &fakeProvider{})
	userID := users.addUser("google-1", "Ada", "ada@example.com")

	entries := []struct{ mood, genre string }{
		{"happy", "pop"},
		{"happy", "rock"},
		{"sad", "pop"},
	}
	for _, e := range entries {
		rr := postAddMood(t, r, `{"userId":"`+userID+`","mood":"`+e.mood+`","genre":"`+e.genre+`","tracks":[]}`)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/user/mood-stats/"+userID, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats models.MoodStats
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, map[string]int{"happy": 2, "sad": 1}, stats.Moods)
	assert.Equal(t, map[string]int{"pop": 2, "rock": 1}, stats.Genres)
}

func TestGetMoodStats_UnknownUserReturns404(t *testing.T) {
	r := newTestRouter(newFakeUserStore(), newFakeSessions(), &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/user/mood-stats/64b000000000000000000000", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
