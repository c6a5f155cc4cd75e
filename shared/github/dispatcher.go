package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/google/go-github/v75/github"
	"github.com/rs/zerolog/log"
)

// timestampLayout is ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var _ domain.Dispatcher = (*GithubDispatcher)(nil)

// GithubDispatcher sends repository_dispatch events through the GitHub API.
type GithubDispatcher struct {
	client  *github.Client
	owner   string
	gitRepo string
}

// NewGithubDispatcher creates a new GithubDispatcher.
func NewGithubDispatcher(client *github.Client, owner string, gitRepo string) *GithubDispatcher {
	return &GithubDispatcher{
		client:  client,
		owner:   owner,
		gitRepo: gitRepo,
	}
}

type clientPayload struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Dispatch creates a repository_dispatch event. Any HTTP response from GitHub
// is reported through the result, including error statuses; a non-nil error
// means no response was received.
func (g *GithubDispatcher) Dispatch(ctx context.Context, evt domain.DispatchEvent) (*domain.DispatchResult, error) {
	op := fmt.Sprintf("dispatching %s to %s", evt.EventType, g.GetRepoFullName())

	payload, err := json.Marshal(clientPayload{
		Message:   evt.Message,
		Timestamp: evt.Timestamp.UTC().Format(timestampLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode client payload: %w", err)
	}
	raw := json.RawMessage(payload)

	_, resp, err := g.client.Repositories.Dispatch(ctx, g.owner, g.gitRepo, github.DispatchRequestOptions{
		EventType:     evt.EventType,
		ClientPayload: &raw,
	})
	if err != nil {
		if result, ok := upstreamResult(err); ok {
			log.Warn().Err(handleGithubError(op, err)).Int("status", result.StatusCode).Msg("GitHub rejected dispatch")
			return result, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, handleGithubError(op, err))
	}

	return &domain.DispatchResult{StatusCode: resp.StatusCode}, nil
}

// GetRepoFullName returns the repository's full name (e.g., "owner/repo").
func (g *GithubDispatcher) GetRepoFullName() string {
	return fmt.Sprintf("%s/%s", g.owner, g.gitRepo)
}

// upstreamResult extracts the status and raw body from errors that carry a GitHub response.
func upstreamResult(err error) (*domain.DispatchResult, bool) {
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		return &domain.DispatchResult{StatusCode: http.StatusAccepted, Body: string(accepted.Raw)}, true
	}

	var resp *http.Response
	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &errResp):
		resp = errResp.Response
	case errors.As(err, &rateErr):
		resp = rateErr.Response
	case errors.As(err, &abuseErr):
		resp = abuseErr.Response
	}
	if resp == nil {
		return nil, false
	}

	return &domain.DispatchResult{StatusCode: resp.StatusCode, Body: readBody(resp)}, true
}

// readBody reads the error body go-github restores on the response after decoding it.
func readBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(data)
}

// handleGithubError inspects an error from the go-github client and returns a more informative, structured error.
func handleGithubError(op string, err error) error {
	if err == nil {
		return nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return fmt.Errorf("github: %s failed with status %d: %s", op, errResp.Response.StatusCode, errResp.Message)
	}

	return fmt.Errorf("github: %s failed: %w", op, err)
}
