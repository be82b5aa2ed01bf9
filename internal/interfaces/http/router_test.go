package http

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/config"
	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/domain/smiles"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
	"github.com/turtacn/molgraph/internal/interfaces/http/middleware"
	"github.com/turtacn/molgraph/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// parseOnlyService parses with the real parser and fails everything else.
type parseOnlyService struct{}

func (parseOnlyService) Parse(_ context.Context, input string) (*domainMol.Molecule, error) {
	return smiles.Parse(input)
}

func (parseOnlyService) Analyze(context.Context, appmol.AnalyzeRequest) (*appmol.AnalysisResult, error) {
	return nil, errors.New(errors.ErrCodeNotImplemented, "analyze disabled")
}

func (parseOnlyService) AnalyzeBatch(context.Context, []appmol.AnalyzeRequest) (*appmol.BatchReport, error) {
	return nil, errors.New(errors.ErrCodeNotImplemented, "batch disabled")
}

func (parseOnlyService) GetAnalysis(_ context.Context, id string) (*appmol.AnalysisResult, error) {
	return nil, errors.Newf(errors.ErrCodeMoleculeNotFound, "analysis %s not found", id)
}

func (parseOnlyService) FindAnalyses(context.Context, string, int) ([]*appmol.AnalysisResult, error) {
	return nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis persistence is not configured")
}

func newTestRouter(mut func(*RouterConfig)) *gin.Engine {
	cfg := RouterConfig{
		MoleculeHandler: handlers.NewMoleculeHandler(parseOnlyService{}),
		HealthHandler:   handlers.NewHealthHandler("test"),
		Logging:         middleware.DefaultLoggingConfig(),
		MaxBodySize:     1 << 10,
		MetricsHandler:  http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
	}
	if mut != nil {
		mut(&cfg)
	}
	return NewRouter(cfg)
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"liveness", http.MethodGet, "/healthz", "", http.StatusOK},
		{"readiness", http.MethodGet, "/readyz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"parse", http.MethodPost, "/api/v1/molecules/parse", `{"smiles":"c1ccccc1"}`, http.StatusOK},
		{"parse error", http.MethodPost, "/api/v1/molecules/parse", `{"smiles":"C1CC"}`, http.StatusUnprocessableEntity},
		{"analyze", http.MethodPost, "/api/v1/molecules/analyze", `{"smiles":"CC"}`, http.StatusNotImplemented},
		{"analysis not found", http.MethodGet, "/api/v1/analyses/nope", "", http.StatusNotFound},
		{"analysis history unavailable", http.MethodGet, "/api/v1/analyses?smiles=CCO", "", http.StatusServiceUnavailable},
		{"unknown route", http.MethodGet, "/api/v1/patents", "", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/v1/molecules/parse", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_ParseBody(t *testing.T) {
	w := post(newTestRouter(nil), "/api/v1/molecules/parse", `{"smiles":"c1ccccc1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"formula":"C6H6"`)
	assert.Contains(t, w.Body.String(), `"atom_count":12`)
}

func TestRouter_BodyLimit(t *testing.T) {
	big := `{"smiles":"` + strings.Repeat("C", 2048) + `"}`
	w := post(newTestRouter(nil), "/api/v1/molecules/parse", big)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body too large")
}

func TestRouter_RateLimit(t *testing.T) {
	limiter := middleware.NewTokenBucketLimiter(0.001, 1, 0)
	defer limiter.Stop()

	r := newTestRouter(func(c *RouterConfig) {
		c.RateLimiter = limiter
		c.RateLimit = middleware.DefaultRateLimitConfig()
	})

	assert.Equal(t, http.StatusOK, post(r, "/api/v1/molecules/parse", `{"smiles":"C"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/api/v1/molecules/parse", `{"smiles":"C"}`).Code)
	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://app.example.com"}
	r := newTestRouter(func(c *RouterConfig) { c.CORS = &cors })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/molecules/parse", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NilHandlers(t *testing.T) {
	r := NewRouter(RouterConfig{})
	assert.Equal(t, http.StatusNotFound, get(r, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, post(r, "/api/v1/molecules/parse", `{}`).Code)
}

func TestServer_ServeAndStop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(config.ServerConfig{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, newTestRouter(nil), nil)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
