package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/benjination/portfolio-blog/internal/metrics"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret"

type fakeDispatcher struct {
	result *domain.DispatchResult
	err    error
	calls  []domain.DispatchEvent
}

func (f *fakeDispatcher) Dispatch(_ context.Context, evt domain.DispatchEvent) (*domain.DispatchResult, error) {
	f.calls = append(f.calls, evt)
	return f.result, f.err
}

func (f *fakeDispatcher) GetRepoFullName() string {
	return "owner/repo"
}

func newTestRouter(d domain.Dispatcher) (http.Handler, *RelayHandler) {
	h := NewRelayHandler(testSecret, "regenerate-blog-pages", d, nil)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return NewRouter(h, RouterOptions{AllowedOrigin: "*"}), h
}

func doRequest(handler http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegenerate_Unauthorized(t *testing.T) {
	tests := []struct {
		name string
		auth string
	}{
		{name: "missing header", auth: ""},
		{name: "wrong secret", auth: "Bearer nope"},
		{name: "missing scheme", auth: testSecret},
		{name: "wrong scheme", auth: "token " + testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{result: &domain.DispatchResult{StatusCode: http.StatusNoContent}}
			router, _ := newTestRouter(d)

			rec := doRequest(router, http.MethodPost, RegeneratePath, tt.auth)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			assert.Empty(t, d.calls, "dispatcher must not be called")
		})
	}
}

func TestHandleRegenerate_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		result     *domain.DispatchResult
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "upstream accepted",
			result:     &domain.DispatchResult{StatusCode: http.StatusNoContent},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"message":"Static page regeneration triggered successfully"}`,
		},
		{
			name:       "upstream rejected",
			result:     &domain.DispatchResult{StatusCode: http.StatusNotFound, Body: `{"message":"Not Found"}`},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to trigger regeneration","details":"{\"message\":\"Not Found\"}"}`,
		},
		{
			name:       "upstream non-204 success",
			result:     &domain.DispatchResult{StatusCode: http.StatusOK, Body: "ok"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to trigger regeneration","details":"ok"}`,
		},
		{
			name:       "network failure",
			err:        errors.Join(domain.ErrNetwork, errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Network error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{result: tt.result, err: tt.err}
			router, _ := newTestRouter(d)

			rec := doRequest(router, http.MethodPost, RegeneratePath, "Bearer "+testSecret)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			require.Len(t, d.calls, 1)
		})
	}
}

func TestHandleRegenerate_Event(t *testing.T) {
	d := &fakeDispatcher{result: &domain.DispatchResult{StatusCode: http.StatusNoContent}}
	router, _ := newTestRouter(d)

	doRequest(router, http.MethodPost, RegeneratePath, "Bearer "+testSecret)

	require.Len(t, d.calls, 1)
	evt := d.calls[0]
	assert.Equal(t, "regenerate-blog-pages", evt.EventType)
	assert.Equal(t, "Blog post updated, regenerating static pages", evt.Message)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), evt.Timestamp)
}

func TestRouter_Surface(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "preflight", method: http.MethodOptions, path: RegeneratePath, wantStatus: http.StatusOK},
		{name: "preflight unknown path", method: http.MethodOptions, path: "/other", wantStatus: http.StatusOK},
		{name: "wrong method", method: http.MethodGet, path: RegeneratePath, wantStatus: http.StatusMethodNotAllowed, wantBody: `{"error":"Method not allowed"}`},
		{name: "unknown path", method: http.MethodPost, path: "/other", wantStatus: http.StatusNotFound, wantBody: `{"error":"Not found"}`},
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: `{"status":"ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{}
			router, _ := newTestRouter(d)

			rec := doRequest(router, tt.method, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Empty(t, rec.Body.String())
			}
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
			assert.Empty(t, d.calls)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	d := &fakeDispatcher{result: &domain.DispatchResult{StatusCode: http.StatusNoContent}}
	h := NewRelayHandler(testSecret, "regenerate-blog-pages", d, recorder)
	router := NewRouter(h, RouterOptions{Metrics: metrics.HTTPHandler(reg)})

	doRequest(router, http.MethodPost, RegeneratePath, "Bearer "+testSecret)
	doRequest(router, http.MethodPost, RegeneratePath, "Bearer wrong")

	rec := doRequest(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `portfolio_relay_dispatches_total{outcome="success"} 1`)
	assert.Contains(t, body, "portfolio_relay_auth_failures_total 1")
}

func TestAuthenticate(t *testing.T) {
	h := NewRelayHandler(testSecret, "regenerate-blog-pages", &fakeDispatcher{}, nil)

	req := httptest.NewRequest(http.MethodPost, RegeneratePath, nil)
	assert.ErrorIs(t, h.authenticate(req), domain.ErrUnauthorized)

	req.Header.Set("Authorization", "Bearer wrong")
	assert.ErrorIs(t, h.authenticate(req), domain.ErrUnauthorized)

	req.Header.Set("Authorization", "Bearer "+testSecret)
	assert.NoError(t, h.authenticate(req))
}
