package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/hf-mcp/internal/config"
	domain "github.com/janhq/hf-mcp/internal/domain/huggingface"
	"github.com/janhq/hf-mcp/internal/domain/prompt"
	"github.com/janhq/hf-mcp/internal/infrastructure/credential"
	hfclient "github.com/janhq/hf-mcp/internal/infrastructure/huggingface"
	"github.com/janhq/hf-mcp/internal/infrastructure/observability"
	"github.com/janhq/hf-mcp/internal/interfaces/httpserver/routes/mcp"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"gpt2","description":"GPT-2"}]`))
	}))
	t.Cleanup(upstream.Close)

	client := hfclient.NewClient(
		hfclient.NewRequestBuilder(credential.New("hf_test"), false, upstream.URL+"/models", upstream.URL+"/api"),
		5*time.Second, nil, nil,
	)
	hub := domain.NewHubService(client)
	catalog, err := prompt.LoadCatalog()
	require.NoError(t, err)

	route := mcp.NewMCPRoute(
		mcp.NewHubMCP(hub),
		mcp.NewInferenceMCP(domain.NewInferenceService(client)),
		mcp.NewResourceMCP(hub),
		mcp.NewPromptMCP(catalog),
	)
	cfg := &config.Config{ServiceName: "hf-mcp", Transport: config.TransportHTTP, HTTPPort: "0", ShutdownTimeout: time.Second}
	obs, err := observability.Setup(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	return NewHTTPServer(cfg, route, nil, obs)
}

func post(s *HTTPServer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"service":"hf-mcp"`, path)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMCPMethodGuard(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		"empty body":         "",
		"invalid json":       "{",
		"missing method":     `{"jsonrpc":"2.0","id":1}`,
		"unsupported method": `{"jsonrpc":"2.0","id":1,"method":"sampling/createMessage"}`,
	}
	for name, body := range cases {
		rec := post(s, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), name)
		assert.Contains(t, rec.Body.String(), `"request_id"`, name)
	}
}

func TestMCPToolsListOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := post(s, `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "search_models")
	assert.Contains(t, rec.Body.String(), "image_generation")
}

func TestMCPToolCallOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := post(s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"search_models","arguments":{"query":"gpt2"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Search Results for 'gpt2'")
}
