// Package firestore reads collections through the Firestore REST API.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/rs/zerolog/log"
)

const (
	userAgent = "portfolio-blog-generator"

	// maxErrorBody bounds how much of an error response ends up in the error message.
	maxErrorBody = 512
)

var _ domain.DocumentSource = (*Client)(nil)

// Config identifies the collection to read.
type Config struct {
	BaseURL    string
	ProjectID  string
	APIKey     string
	Collection string

	// Timeout bounds the whole request. Zero means no limit.
	Timeout time.Duration
}

// Client fetches every document of one collection with a single request.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// DocumentsURL is the collection read endpoint, including the API key.
func (c *Client) DocumentsURL() string {
	return fmt.Sprintf("%s/v1/projects/%s/databases/(default)/documents/%s?key=%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.ProjectID),
		url.PathEscape(c.cfg.Collection),
		url.QueryEscape(c.cfg.APIKey),
	)
}

// FetchDocuments performs one GET of the collection. A response without a
// documents field is an empty result, not an error.
func (c *Client) FetchDocuments(ctx context.Context) (*domain.DocumentList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DocumentsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build firestore request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the request URL carries the API key
		if uerr, ok := err.(*url.Error); ok {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: firestore request for %s failed: %w", domain.ErrNetwork, c.cfg.Collection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read firestore response: %w", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: firestore returned status %d: %s", domain.ErrNetwork, resp.StatusCode, truncate(body))
	}

	var list domain.DocumentList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: invalid firestore response: %w", domain.ErrParse, err)
	}

	log.Debug().
		Str("collection", c.cfg.Collection).
		Int("documents", len(list.Documents)).
		Dur("duration", time.Since(start)).
		Msg("Fetched documents from Firestore")

	return &list, nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
