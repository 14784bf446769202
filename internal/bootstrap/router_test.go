package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/config"
	"github.com/hdoo42/mock-veeam-server/internal/metrics"
	"github.com/hdoo42/mock-veeam-server/internal/services"
	"github.com/hdoo42/mock-veeam-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the full stack (store, service, handlers, router) the
// way Run does, minus the listener and signal handling.
func newTestApp(t *testing.T, lifetime time.Duration) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logPath := filepath.Join(t.TempDir(), "mock.log")
	cfg := &config.Config{
		Host:           "127.0.0.1",
		Port:           9999,
		TokenLifetime:  lifetime,
		LogFile:        logPath,
		Username:       "test",
		Password:       "test",
		MetricsEnabled: false,
	}
	require.NoError(t, cfg.Validate())

	auditLog, err := audit.Open(logPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = auditLog.Close() })

	recorder := metrics.NewNoopMetrics()
	tokenService := services.NewTokenService(store.New(), auditLog, recorder, cfg)
	h := initializeHandlers(tokenService, auditLog)
	r := setupRouter(cfg, h, recorder, auditLog, tokenService)
	return r, logPath
}

func doGET(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doTokenPOST(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(
		context.Background(),
		http.MethodPost,
		path,
		strings.NewReader(form.Encode()),
	)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodePair(t *testing.T, w *httptest.ResponseRecorder) services.TokenPair {
	t.Helper()
	var pair services.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	return pair
}

func TestRouter_RouteAliases(t *testing.T) {
	r, _ := newTestApp(t, 20*time.Second)

	// Both token paths answer.
	for _, path := range tokenPaths {
		w := doTokenPOST(r, path, url.Values{
			"grant_type": {"password"},
			"username":   {"test"},
			"password":   {"test"},
		})
		assert.Equal(t, http.StatusOK, w.Code, "token path %q", path)
	}

	// Both resource prefixes enforce auth.
	for _, prefix := range resourcePaths {
		for _, resource := range []string{"/serverTime", "/backups"} {
			w := doGET(r, prefix+resource, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, "path %q", prefix+resource)
		}
	}
}

func TestRouter_HealthNeedsNoAuth(t *testing.T) {
	r, _ := newTestApp(t, 20*time.Second)

	w := doGET(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _ := newTestApp(t, 20*time.Second)

	w := doGET(r, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

// TestRouter_TokenRefreshScenario runs the driver's end-to-end sequence
// with a compressed lifetime: unauthenticated 401, password grant, valid
// scrape, expiry, refresh grant, recovered scrape. Log phrase counts at
// the end mirror what the external driver greps for.
func TestRouter_TokenRefreshScenario(t *testing.T) {
	const lifetime = 500 * time.Millisecond
	r, logPath := newTestApp(t, lifetime)

	// (1) No token: 401.
	w := doGET(r, "/api/v1/backups", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// (2) Password grant.
	w = doTokenPOST(r, "/oauth2/token", url.Values{
		"grant_type": {"password"},
		"username":   {"test"},
		"password":   {"test"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	pair := decodePair(t, w)

	// (3) Scrape with the fresh token.
	w = doGET(r, "/api/v1/backups", pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backup1")

	// (4) Still within the lifetime.
	time.Sleep(lifetime / 3)
	w = doGET(r, "/api/v1/backups", pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	// (5) Past the lifetime: expired.
	time.Sleep(lifetime)
	w = doGET(r, "/api/v1/backups", pair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// (6) Refresh grant with the original refresh token.
	w = doTokenPOST(r, "/oauth2/token", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {pair.RefreshToken},
	})
	require.Equal(t, http.StatusOK, w.Code)
	refreshed := decodePair(t, w)
	assert.NotEqual(t, pair.AccessToken, refreshed.AccessToken)

	// (7) Scrape with the refreshed token.
	w = doGET(r, "/api/v1/backups", refreshed.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	// The log contract the driver asserts on.
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	logContent := string(data)

	assert.Equal(t, 1, strings.Count(logContent, "Grant type: password"))
	assert.Equal(t, 1, strings.Count(logContent, "Grant type: refresh_token"))
	assert.GreaterOrEqual(t, strings.Count(logContent, "RESULT: 401 Unauthorized"), 2)
	assert.Contains(t, logContent, "Token EXPIRED!")
	assert.Contains(t, logContent, "NEW TOKEN CREATED: "+pair.AccessToken)
	assert.Contains(t, logContent, "TOKEN REFRESHED: "+refreshed.AccessToken)
	assert.True(t, strings.HasPrefix(logContent, "Mock Server Started at "))
}

func TestBindListener(t *testing.T) {
	cfg := &config.Config{Host: "127.0.0.1", Port: 0}

	listener, err := bindListener(cfg)
	require.NoError(t, err)
	defer listener.Close()

	assert.Contains(t, listener.Addr().String(), "127.0.0.1:")
}

func TestInitializeInfrastructure_BadLogPath(t *testing.T) {
	app := &Application{Config: &config.Config{
		LogFile: filepath.Join(t.TempDir(), "no", "such", "dir", "mock.log"),
	}}

	assert.Error(t, app.initializeInfrastructure())
}
