package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bissquit/runbook-ops/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Default()
	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.Pipeline.SimulatedLatency = time.Millisecond
	cfg.History.Seed = 42

	a, err := New(cfg)
	require.NoError(t, err)
	return a.Router()
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()

	body := strings.NewReader(`{"username":"admin","password":"admin"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func authedRequest(method, target, body, token string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestApp(t)

	for _, path := range []string{"/healthz", "/readyz", "/version"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/incidents", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAndListIncidents(t *testing.T) {
	router := newTestApp(t)
	token := login(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/incidents", "", token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"INC-001"`)
}

func TestExecuteRunbookFlow(t *testing.T) {
	router := newTestApp(t)
	token := login(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/incidents/INC-001/execute",
		`{"runbook_id":"RB-001"}`, token))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ID      string `json:"id"`
			Outcome string `json:"outcome"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Success", resp.Data.Outcome)
	require.NotEmpty(t, resp.Data.ID)

	// The result and its audit entry are readable afterwards.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/results/"+resp.Data.ID, "", token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/audit", "", token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resp.Data.ID)

	// The incident is completed and a notification was produced.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/incidents/INC-001", "", token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Completed"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/notifications", "", token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "execution_completed")
}

func TestDashboardStats(t *testing.T) {
	router := newTestApp(t)
	token := login(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/stats/dashboard", "", token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"avg_mttr":113`)
}

func TestEnvironmentToggle(t *testing.T) {
	router := newTestApp(t)
	token := login(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/v1/environment",
		`{"environment":"Staging"}`, token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/environment", "", token))
	assert.Contains(t, rec.Body.String(), `"Staging"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/v1/environment",
		`{"environment":"QA"}`, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
