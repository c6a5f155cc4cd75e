// Package config loads the tool configuration from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // render.time_zone must resolve on minimal CI images

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingAPIKey        = errors.New("firestore.api_key is required")
	ErrMissingProjectID     = errors.New("firestore.project_id is required")
	ErrMissingCollection    = errors.New("firestore.collection is required")
	ErrMissingOutputRoot    = errors.New("output.root is required")
	ErrMissingSiteURL       = errors.New("site.base_url is required")
	ErrMissingWebhookSecret = errors.New("relay.webhook_secret is required")
	ErrMissingGitHubToken   = errors.New("relay.github_token is required")
	ErrInvalidRepository    = errors.New("relay.repository must be in owner/name form")
	ErrInvalidContentFormat = errors.New("render.content_format must be 'simple' or 'markdown'")
	ErrInvalidTimeZone      = errors.New("render.time_zone is not a known location")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'console' or 'json'")
)

// Content formats understood by the renderer.
const (
	ContentFormatSimple   = "simple"
	ContentFormatMarkdown = "markdown"
)

// Config represents the complete tool configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Firestore FirestoreConfig `yaml:"firestore"`
	Output    OutputConfig    `yaml:"output"`
	Render    RenderConfig    `yaml:"render"`
	Relay     RelayConfig     `yaml:"relay"`
	Serve     ServeConfig     `yaml:"serve"`
	Index     IndexConfig     `yaml:"index"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig describes the public site the pages are generated for.
type SiteConfig struct {
	BaseURL  string `yaml:"base_url"`
	Owner    string `yaml:"owner"`
	Name     string `yaml:"name"`
	OGImage  string `yaml:"og_image"`
	Favicon  string `yaml:"favicon"`
	BackLink string `yaml:"back_link"`
}

// FirestoreConfig points the fetcher at a document collection.
type FirestoreConfig struct {
	BaseURL    string        `yaml:"base_url"`
	ProjectID  string        `yaml:"project_id"`
	APIKey     string        `yaml:"api_key"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
}

// OutputConfig defines where generated files go.
type OutputConfig struct {
	Root         string `yaml:"root"`
	BlogDir      string `yaml:"blog_dir"`
	ImagesDir    string `yaml:"images_dir"`
	ManifestPath string `yaml:"manifest_path"`
}

// RenderConfig pins formatting choices so output is reproducible.
type RenderConfig struct {
	ContentFormat string `yaml:"content_format"`
	DateLayout    string `yaml:"date_layout"`
	TimeZone      string `yaml:"time_zone"`
}

// RelayConfig configures the regenerate webhook relay.
type RelayConfig struct {
	Addr          string `yaml:"addr"`
	WebhookSecret string `yaml:"webhook_secret"`
	GitHubToken   string `yaml:"github_token"`
	GitHubAPIURL  string `yaml:"github_api_url"`
	Repository    string `yaml:"repository"`
	EventType     string `yaml:"event_type"`
	AllowedOrigin string `yaml:"allowed_origin"`
	UserAgent     string `yaml:"user_agent"`
}

// ServeConfig configures the local preview server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// IndexConfig configures the optional SQLite build index. An empty path disables it.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:  "https://benjaminniccum.com",
			Owner:    "Benjamin Niccum",
			Name:     "Benjamin Niccum - Portfolio",
			OGImage:  "/og-image.png",
			Favicon:  "/favicon.svg",
			BackLink: "/#blog",
		},
		Firestore: FirestoreConfig{
			BaseURL:    "https://firestore.googleapis.com",
			Collection: "blogs",
			Timeout:    30 * time.Second,
		},
		Output: OutputConfig{
			Root:         "dist",
			BlogDir:      "blog",
			ImagesDir:    "blog/images",
			ManifestPath: "blog/images.json",
		},
		Render: RenderConfig{
			ContentFormat: ContentFormatSimple,
			DateLayout:    "1/2/2006",
			TimeZone:      "UTC",
		},
		Relay: RelayConfig{
			Addr:          ":3001",
			GitHubAPIURL:  "https://api.github.com/",
			EventType:     "regenerate-blog-pages",
			AllowedOrigin: "*",
			UserAgent:     "Portfolio-Blog-Regenerator",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (if it exists),
// then a .env file next to the working directory, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// the file is optional; env-only setups are common in CI
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Firestore.APIKey, "FIREBASE_API_KEY")
	set(&c.Firestore.ProjectID, "FIREBASE_PROJECT_ID")
	set(&c.Firestore.Collection, "FIRESTORE_COLLECTION")
	set(&c.Output.Root, "PORTFOLIO_OUTPUT_DIR")
	set(&c.Relay.WebhookSecret, "WEBHOOK_SECRET")
	set(&c.Relay.GitHubToken, "GITHUB_TOKEN")
	set(&c.Relay.Repository, "GITHUB_REPO")
	set(&c.Relay.AllowedOrigin, "ALLOWED_ORIGIN")
	set(&c.Index.Path, "SQLITE_DB_PATH")
	set(&c.Logging.Level, "LOG_LEVEL")

	if port := getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Relay.Addr = fmt.Sprintf(":%d", p)
		}
	}
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	if c.Output.Root == "" {
		return ErrMissingOutputRoot
	}

	if c.Site.BaseURL == "" {
		return ErrMissingSiteURL
	}

	switch c.Render.ContentFormat {
	case ContentFormatSimple, ContentFormatMarkdown:
	default:
		return ErrInvalidContentFormat
	}

	if _, err := time.LoadLocation(c.Render.TimeZone); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimeZone, c.Render.TimeZone)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return ErrInvalidLogFormat
	}

	return nil
}

// RequireFirestore checks the settings the generate command needs.
func (c *Config) RequireFirestore() error {
	if c.Firestore.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Firestore.ProjectID == "" {
		return ErrMissingProjectID
	}
	if c.Firestore.Collection == "" {
		return ErrMissingCollection
	}
	return nil
}

// RequireRelay checks the settings the relay command needs.
func (c *Config) RequireRelay() error {
	if c.Relay.WebhookSecret == "" {
		return ErrMissingWebhookSecret
	}
	if c.Relay.GitHubToken == "" {
		return ErrMissingGitHubToken
	}
	if _, _, err := c.Relay.OwnerRepo(); err != nil {
		return err
	}
	return nil
}

// OwnerRepo splits Repository into its owner and name.
func (r RelayConfig) OwnerRepo() (string, string, error) {
	owner, name, ok := strings.Cut(r.Repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, r.Repository)
	}
	return owner, name, nil
}

// BlogRoot is the directory post pages are written under.
func (c *Config) BlogRoot() string {
	return joinUnder(c.Output.Root, c.Output.BlogDir)
}

// ImagesRoot is the directory scanned by the manifest builder.
func (c *Config) ImagesRoot() string {
	return joinUnder(c.Output.Root, c.Output.ImagesDir)
}

// ManifestFile is the path the image manifest is written to.
func (c *Config) ManifestFile() string {
	return joinUnder(c.Output.Root, c.Output.ManifestPath)
}
