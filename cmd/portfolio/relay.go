package main

import (
	"context"
	"net/http"
	"time"

	"github.com/benjination/portfolio-blog/internal/metrics"
	gh "github.com/benjination/portfolio-blog/shared/github"
	relayhttp "github.com/benjination/portfolio-blog/webhook/http"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const dispatchTimeout = 15 * time.Second

// RelayCmd implements the 'relay' command.
type RelayCmd struct {
	Addr string `help:"Override the listen address"`
}

func (r *RelayCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if r.Addr != "" {
		cfg.Relay.Addr = r.Addr
	}
	if err := cfg.RequireRelay(); err != nil {
		return err
	}

	owner, repo, err := cfg.Relay.OwnerRepo()
	if err != nil {
		return err
	}

	client, err := gh.NewClient(gh.ClientConfig{
		Token:     cfg.Relay.GitHubToken,
		APIURL:    cfg.Relay.GitHubAPIURL,
		UserAgent: cfg.Relay.UserAgent,
		Timeout:   dispatchTimeout,
	})
	if err != nil {
		return err
	}
	dispatcher := gh.NewGithubDispatcher(client, owner, repo)

	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(reg)

	handler := relayhttp.NewRelayHandler(cfg.Relay.WebhookSecret, cfg.Relay.EventType, dispatcher, recorder)
	router := relayhttp.NewRouter(handler, relayhttp.RouterOptions{
		AllowedOrigin: cfg.Relay.AllowedOrigin,
		Metrics:       metrics.HTTPHandler(reg),
	})

	srv := &http.Server{
		Addr:              cfg.Relay.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runServer(ctx, srv)
}
