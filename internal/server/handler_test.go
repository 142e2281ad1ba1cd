package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/api"
	"github.com/xaenox/health-coach/internal/models"
	"github.com/xaenox/health-coach/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	h := New(store, NewRuleBasedResponder(), zap.NewNop())
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func postChat(t *testing.T, srv *httptest.Server, token, message string) chatResponse {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"message": message, "category": nil})
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/chat", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(api.SessionHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out chatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestChatAssignsSessionWhenMissing(t *testing.T) {
	srv, store := newTestServer(t)

	out := postChat(t, srv, "", "I want a workout plan")

	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Response)
	require.True(t, strings.HasPrefix(out.SessionID, "session_"))

	history, err := store.GetSessionHistory(nil, out.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.OriginUser, history[0].Origin)
	assert.Equal(t, models.OriginAssistant, history[1].Origin)
}

func TestChatKeepsExistingSession(t *testing.T) {
	srv, store := newTestServer(t)

	out := postChat(t, srv, "tok1", "How do I sleep better?")

	assert.Empty(t, out.SessionID, "existing sessions are not rotated")
	assert.Equal(t, string(models.CategoryWellness), out.Category)

	history, err := store.GetSessionHistory(nil, "tok1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	srv, _ := newTestServer(t)

	body := []byte(`{"message":"   ","category":null}`)
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfileRoundTrip(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.SaveProfile(nil, "tok1", &models.UserProfile{
		Name:         "Sam",
		FitnessLevel: "beginner",
		HealthGoals:  []string{"sleep", "strength"},
	}))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/profile", nil)
	req.Header.Set(api.SessionHeader, "tok1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Sam", out["profile"]["name"])
	assert.Equal(t, "beginner", out["profile"]["fitness_level"])
}

func TestProfileRequiresSessionHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsStored(t *testing.T) {
	srv, store := newTestServer(t)

	body := []byte(`{"type":"steps","value":"8234","unit":"count"}`)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/metrics", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(api.SessionHeader, "tok1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, store.MetricCount("tok1"))
}

func TestRuleBasedResponderCategoryInference(t *testing.T) {
	r := NewRuleBasedResponder()

	reply, category := r.Respond(nil, "I want to track my progress", "", nil)
	assert.Equal(t, string(models.CategoryAnalytics), category)
	assert.NotEmpty(t, reply)

	// Explicit selection wins over keywords.
	reply, category = r.Respond(nil, "I want to track my progress", string(models.CategoryFitness), nil)
	assert.Equal(t, string(models.CategoryFitness), category)
	assert.Contains(t, reply, "30-minute")

	_, category = r.Respond(nil, "hello there", "", nil)
	assert.Empty(t, category)
}
