package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/kwcluster/internal/config"
	"github.com/deppfellow/kwcluster/internal/handler"
	"github.com/deppfellow/kwcluster/internal/server"
	"github.com/deppfellow/kwcluster/internal/service"
)

type providers struct {
	searchCalls     atomic.Int32
	generationCalls atomic.Int32

	searchStatus     int
	searchBody       string
	generationStatus int
	generationText   string
}

func (p *providers) serper(w http.ResponseWriter, r *http.Request) {
	p.searchCalls.Add(1)
	status := p.searchStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(p.searchBody))
}

func (p *providers) gemini(w http.ResponseWriter, r *http.Request) {
	p.generationCalls.Add(1)
	status := p.generationStatus
	if status == 0 {
		status = http.StatusOK
	}
	envelope, _ := json.Marshal(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{map[string]string{"text": p.generationText}},
				},
			},
		},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(envelope)
}

func newTestRouter(t *testing.T, p *providers) *echo.Echo {
	t.Helper()

	return newTestRouterWithOrigins(t, p, []string{"*"})
}

func newTestRouterWithOrigins(t *testing.T, p *providers, origins []string) *echo.Echo {
	t.Helper()

	searchSrv := httptest.NewServer(http.HandlerFunc(p.serper))
	t.Cleanup(searchSrv.Close)
	generationSrv := httptest.NewServer(http.HandlerFunc(p.gemini))
	t.Cleanup(generationSrv.Close)

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: origins,
		},
		Providers: config.ProvidersConfig{
			Search: config.SearchProviderConfig{
				APIKey:   "serper-key",
				Endpoint: searchSrv.URL,
			},
			Generation: config.GenerationProviderConfig{
				APIKey:  "gemini-key",
				BaseURL: generationSrv.URL,
				Model:   "test-model",
			},
		},
		Observability: config.DefaultObservabilityConfig(),
	}

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services, err := service.NewServices(s)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(r *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"keyword":"espresso","country":"it"}`

func TestProcessKeywordSuccess(t *testing.T) {
	p := &providers{
		searchBody:     `{"peopleAlsoAsk":[{"question":"Is espresso strong?"},{"question":"How to make espresso?"}]}`,
		generationText: `{"Strength":["Is espresso strong?"],"Brewing":["How to make espresso?"]}`,
	}
	r := newTestRouter(t, p)

	for _, path := range clusterPaths {
		t.Run(path, func(t *testing.T) {
			rec := do(r, http.MethodPost, path, validBody)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t,
				`{"clusters":{"Strength":["Is espresso strong?"],"Brewing":["How to make espresso?"]}}`,
				rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		})
	}

	assert.Equal(t, int32(2), p.searchCalls.Load())
	assert.Equal(t, int32(2), p.generationCalls.Load())
}

func TestProcessKeywordRejectsOtherMethods(t *testing.T) {
	p := &providers{}
	r := newTestRouterWithOrigins(t, p, []string{"https://app.example.com"})

	methods := []string{
		http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			rec := do(r, method, "/process-keyword", validBody)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.JSONEq(t, `{"message":"Method Not Allowed"}`, rec.Body.String())
		})
	}

	t.Run("HEAD", func(t *testing.T) {
		rec := do(r, http.MethodHead, "/process-keyword", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	assert.Zero(t, p.searchCalls.Load())
	assert.Zero(t, p.generationCalls.Load())
}

func TestProcessKeywordOptions(t *testing.T) {
	r := newTestRouterWithOrigins(t, &providers{}, []string{"https://app.example.com"})

	tests := []struct {
		name          string
		origin        string
		requestMethod string
		wantStatus    int
	}{
		{"no origin", "", "", http.StatusMethodNotAllowed},
		{"allowed origin without preflight header", "https://app.example.com", "", http.StatusMethodNotAllowed},
		{"other origin preflight", "https://evil.example", http.MethodPost, http.StatusMethodNotAllowed},
		{"allowed origin preflight", "https://app.example.com", http.MethodPost, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/process-keyword", nil)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			if tt.requestMethod != "" {
				req.Header.Set(echo.HeaderAccessControlRequestMethod, tt.requestMethod)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusMethodNotAllowed {
				assert.JSONEq(t, `{"message":"Method Not Allowed"}`, rec.Body.String())
				return
			}
			assert.Equal(t, tt.origin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestProcessKeywordMissingFields(t *testing.T) {
	p := &providers{}
	r := newTestRouter(t, p)

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"missing country", `{"keyword":"espresso"}`},
		{"missing keyword", `{"country":"it"}`},
		{"empty keyword", `{"keyword":"","country":"it"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/process-keyword", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"Keyword and country are required."}`, rec.Body.String())
		})
	}

	assert.Zero(t, p.searchCalls.Load())
}

func TestProcessKeywordMalformedBody(t *testing.T) {
	p := &providers{}
	r := newTestRouter(t, p)

	for _, body := range []string{`{"keyword":`, ""} {
		t.Run(body, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/process-keyword", body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	}

	rec := do(r, http.MethodPost, "/process-keyword", "")
	assert.JSONEq(t, `{"message":"unexpected end of JSON input"}`, rec.Body.String())
	assert.Zero(t, p.searchCalls.Load())
}

func TestProcessKeywordNoQuestions(t *testing.T) {
	for _, body := range []string{`{}`, `{"peopleAlsoAsk":[]}`} {
		t.Run(body, func(t *testing.T) {
			p := &providers{searchBody: body}
			r := newTestRouter(t, p)

			rec := do(r, http.MethodPost, "/process-keyword", validBody)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"clusters":{}}`, rec.Body.String())
			assert.Equal(t, int32(1), p.searchCalls.Load())
			assert.Zero(t, p.generationCalls.Load())
		})
	}
}

func TestProcessKeywordUpstreamFailures(t *testing.T) {
	tests := []struct {
		name      string
		providers *providers
		message   string
	}{
		{
			name:      "search provider fails",
			providers: &providers{searchStatus: http.StatusForbidden, searchBody: `{"message":"Unauthorized."}`},
			message:   "Failed to fetch PAA results from Serper.",
		},
		{
			name: "generation provider fails",
			providers: &providers{
				searchBody:       `{"peopleAlsoAsk":[{"question":"q1"}]}`,
				generationStatus: http.StatusServiceUnavailable,
			},
			message: "Failed to get clusters from the Gemini API.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.providers)

			rec := do(r, http.MethodPost, "/process-keyword", validBody)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"message":"`+tt.message+`"}`, rec.Body.String())
		})
	}
}

func TestProcessKeywordReplyNotJSON(t *testing.T) {
	p := &providers{
		searchBody:     `{"peopleAlsoAsk":[{"question":"q1"}]}`,
		generationText: "Here are your clusters!",
	}
	r := newTestRouter(t, p)

	rec := do(r, http.MethodPost, "/process-keyword", validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["message"], "Failed to parse clusters"), body["message"])
	assert.NotContains(t, rec.Body.String(), "gemini-key")
}

func TestProcessKeywordIsDeterministic(t *testing.T) {
	p := &providers{
		searchBody:     `{"peopleAlsoAsk":[{"question":"q1"},{"question":"q2"}]}`,
		generationText: `{"B":["q2"],"A":["q1"]}`,
	}
	r := newTestRouter(t, p)

	first := do(r, http.MethodPost, "/process-keyword", validBody)
	second := do(r, http.MethodPost, "/process-keyword", validBody)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t, &providers{searchBody: `{}`})

	req := httptest.NewRequest(http.MethodPost, "/process-keyword", strings.NewReader(validBody))
	req.Header.Set(echo.HeaderXRequestID, "frontend-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "frontend-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t, &providers{})

	rec := do(r, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	r := newTestRouter(t, &providers{})

	rec := do(r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status      string                       `json:"status"`
		Environment string                       `json:"environment"`
		Checks      map[string]map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "configured", body.Checks["search"]["status"])
	assert.Equal(t, "configured", body.Checks["generation"]["status"])
	assert.NotContains(t, rec.Body.String(), "serper-key")
}

func TestDocs(t *testing.T) {
	r := newTestRouter(t, &providers{})

	rec := do(r, http.MethodGet, "/docs", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "/process-keyword")
	assert.True(t, json.Valid(rec.Body.Bytes()))
}

func TestMetrics(t *testing.T) {
	r := newTestRouter(t, &providers{
		searchBody:     `{"peopleAlsoAsk":[{"question":"q1"}]}`,
		generationText: `{"A":["q1"]}`,
	})

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/process-keyword", validBody).Code)

	rec := do(r, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `kwcluster_provider_calls_total{outcome="success",provider="serper"}`)
	assert.Contains(t, rec.Body.String(), `kwcluster_provider_calls_total{outcome="success",provider="gemini"}`)
	assert.Contains(t, rec.Body.String(), `kwcluster_http_requests_total{route="/process-keyword",status="200"}`)
}
