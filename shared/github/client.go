package github

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
)

// ClientConfig holds the settings for an authenticated API client.
type ClientConfig struct {
	Token     string
	APIURL    string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a token-authenticated GitHub client. An empty APIURL keeps
// the public api.github.com endpoint.
func NewClient(cfg ClientConfig) (*github.Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	client := github.NewClient(httpClient).WithAuthToken(cfg.Token)

	if cfg.APIURL != "" {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
		}
		client.BaseURL = u
	}

	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	return client, nil
}
