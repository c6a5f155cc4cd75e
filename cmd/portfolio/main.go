package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/benjination/portfolio-blog/internal/config"
	"github.com/benjination/portfolio-blog/internal/logging"
	"github.com/rs/zerolog/log"
)

// CLI is the root command line.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"portfolio.yaml" env:"PORTFOLIO_CONFIG"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate GenerateCmd `cmd:"" help:"Fetch blog posts and write a static page for each published post"`
	Images   ImagesCmd   `cmd:"" help:"Write the image manifest for the blog image directory"`
	Relay    RelayCmd    `cmd:"" help:"Run the webhook relay that triggers page regeneration"`
	Serve    ServeCmd    `cmd:"" help:"Serve the generated site and the build index locally"`
}

// loadConfig reads the configuration and reconfigures logging from it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}

	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	return cfg, nil
}

func main() {
	logging.Setup("info", "console")

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("portfolio"),
		kong.Description("Static blog page generator, image manifest builder and regeneration relay."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(&cli); err != nil {
		log.Error().Err(err).Str("command", kctx.Command()).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
