package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/preston-bernstein/footy-guide-ssr/internal/config"
	"github.com/preston-bernstein/footy-guide-ssr/internal/logging"
	"github.com/preston-bernstein/footy-guide-ssr/internal/server"
)

const (
	appName    = "footy-guide-ssr"
	appVersion = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    appName,
		Usage:   "Server-side render the match pages and serve their social preview images",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "HTTP listen port (overrides PORT)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "production or development (overrides APP_ENV/NODE_ENV)",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Page template path (overrides TEMPLATE_PATH)",
			},
		},
		Action: serve,
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	srv.Run(ctx, stop)
	return nil
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cmd.IsSet("mode") {
		cfg.SetMode(config.ParseMode(cmd.String("mode")))
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.String("port")
	}
	if cmd.IsSet("template") {
		cfg.TemplatePath = cmd.String("template")
	}
	return cfg, nil
}
