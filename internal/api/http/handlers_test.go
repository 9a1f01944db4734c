package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandboxfs/bridge/internal/bridge"
	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
	"github.com/sandboxfs/bridge/internal/vfs"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	sb, err := vfs.Open(vfs.Options{Quota: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { sb.Close() })

	handlers := NewHandlers(bridge.NewDispatcher(sb, logging.NewNop()), "test")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.POST("/api/v1/execute", handlers.Execute)
	router.GET("/api/v1/tree", handlers.Tree)
	router.GET("/api/v1/usage", handlers.Usage)
	router.GET("/api/v1/stats", handlers.Stats)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRootAndHealth(t *testing.T) {
	router := testRouter(t)

	w := do(router, "GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bridged")

	w = do(router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestExecute(t *testing.T) {
	router := testRouter(t)

	w := do(router, "POST", "/api/v1/execute", `{"type":"create-file","filePath":"/a.txt","content":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp bridge.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	w = do(router, "POST", "/api/v1/execute", `{"type":"read-file","filePath":"/a.txt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hi", resp.Content)
}

func TestExecuteMalformedJSON(t *testing.T) {
	router := testRouter(t)

	w := do(router, "POST", "/api/v1/execute", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestExecuteOperationFailureIsStillHTTP200(t *testing.T) {
	router := testRouter(t)

	w := do(router, "POST", "/api/v1/execute", `{"type":"read-file","filePath":"/missing.txt"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp bridge.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestConvenienceEndpoints(t *testing.T) {
	router := testRouter(t)

	do(router, "POST", "/api/v1/execute", `{"type":"create-folder","folderPath":"/docs"}`)
	do(router, "POST", "/api/v1/execute", `{"type":"create-file","filePath":"/docs/a.md","content":"abc"}`)

	w := do(router, "GET", "/api/v1/tree", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fileTree"`)

	w = do(router, "GET", "/api/v1/usage", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"usage":3`)

	w = do(router, "GET", "/api/v1/stats?path=/docs", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp bridge.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Stats)
	assert.Equal(t, uint64(1), resp.Stats.FileCount)
	assert.Equal(t, "/docs", resp.Stats.Path)
}
