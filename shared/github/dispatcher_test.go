package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatchRequest struct {
	EventType     string        `json:"event_type"`
	ClientPayload clientPayload `json:"client_payload"`
}

func newTestDispatcher(t *testing.T, srv *httptest.Server) *GithubDispatcher {
	t.Helper()
	client, err := NewClient(ClientConfig{
		Token:     "gh-token",
		APIURL:    srv.URL,
		UserAgent: "Portfolio-Blog-Regenerator",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	return NewGithubDispatcher(client, "benjination", "portfolio")
}

var testEvent = domain.DispatchEvent{
	EventType: "regenerate-blog-pages",
	Message:   "Blog post updated, regenerating static pages",
	Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.UTC),
}

func TestGithubDispatcher_Dispatch(t *testing.T) {
	var got dispatchRequest
	var gotAuth, gotAgent, gotPath, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	result, err := newTestDispatcher(t, srv).Dispatch(context.Background(), testEvent)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, result.StatusCode)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/repos/benjination/portfolio/dispatches", gotPath)
	assert.Equal(t, "Bearer gh-token", gotAuth)
	assert.Equal(t, "Portfolio-Blog-Regenerator", gotAgent)

	assert.Equal(t, "regenerate-blog-pages", got.EventType)
	assert.Equal(t, "Blog post updated, regenerating static pages", got.ClientPayload.Message)
	assert.Equal(t, "2024-01-15T10:30:00.123Z", got.ClientPayload.Timestamp)
}

func TestGithubDispatcher_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "Not found",
			status:     http.StatusNotFound,
			body:       `{"message":"Not Found","documentation_url":"https://docs.github.com/rest"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Validation failed",
			status:     http.StatusUnprocessableEntity,
			body:       `{"message":"Validation Failed"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "Rate limited",
			status: http.StatusForbidden,
			body:   `{"message":"API rate limit exceeded"}`,
			headers: map[string]string{
				"X-RateLimit-Limit":     "60",
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     "1700000000",
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			result, err := newTestDispatcher(t, srv).Dispatch(context.Background(), testEvent)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.StatusCode)
			assert.Equal(t, tt.body, result.Body)
		})
	}
}

func TestGithubDispatcher_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dispatcher := newTestDispatcher(t, srv)
	srv.Close()

	result, err := dispatcher.Dispatch(context.Background(), testEvent)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrNetwork), "error %v should wrap ErrNetwork", err)
}

func TestGithubDispatcher_GetRepoFullName(t *testing.T) {
	d := NewGithubDispatcher(nil, "benjination", "portfolio")
	assert.Equal(t, "benjination/portfolio", d.GetRepoFullName())
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(ClientConfig{Token: "t", APIURL: "https://github.example.com/api/v3"})
	require.NoError(t, err)
	assert.Equal(t, "https://github.example.com/api/v3/", client.BaseURL.String())

	client, err = NewClient(ClientConfig{Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", client.BaseURL.String())

	_, err = NewClient(ClientConfig{Token: "t", APIURL: "://bad"})
	assert.Error(t, err)
}

func TestHandleGithubError(t *testing.T) {
	assert.NoError(t, handleGithubError("op", nil))

	err := handleGithubError("dispatching", errors.New("boom"))
	assert.EqualError(t, err, "github: dispatching failed: boom")
}
