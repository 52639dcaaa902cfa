package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scrape collects the provider's Prometheus exposition output.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("test_app")

	require.NoError(t, err)
	assert.NotNil(t, provider.meterProvider)
	assert.NotNil(t, provider.exporter)
	assert.NotNil(t, provider.registry)
	assert.NotNil(t, provider.Handler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestProvider_ShutdownNil(t *testing.T) {
	provider := &Provider{meterProvider: nil}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestBusinessMetrics_RecordAndExport(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "users", "register", "success")
	bm.RecordOperation(ctx, "auth", "login", "error")
	bm.RecordOperation(ctx, "notes", "note_create", "success")
	bm.RecordDuration(ctx, "auth", "login", 120*time.Millisecond, "success")

	output := scrape(t, provider)
	assert.Regexp(t, `test_app_operations_total\{[^}]*domain="users"[^}]*operation="register"[^}]*\} 1`, output)
	assert.Regexp(t, `test_app_operations_total\{[^}]*domain="auth"[^}]*status="error"[^}]*\} 1`, output)
	assert.Contains(t, output, "test_app_operation_duration_seconds")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)

	// Must be safe to call with metrics disabled.
	bm.RecordOperation(context.Background(), "auth", "login", "success")
	bm.RecordDuration(context.Background(), "notes", "note_list", 10*time.Millisecond, "success")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))
	router.GET("/v1/notes/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/notes/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	output := scrape(t, provider)
	assert.Regexp(t, `test_app_http_requests_total\{[^}]*path="/v1/notes/:id"[^}]*\} 1`, output)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "unknown", sanitizePath(""))
	assert.Equal(t, "/v1/notes", sanitizePath("/v1/notes"))
}
