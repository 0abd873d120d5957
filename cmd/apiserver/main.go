// The apiserver binary runs the teenfin HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: logger init: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", logging.Err(err))
		os.Exit(1)
	}
	defer app.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.server.Start)
	g.Go(func() error {
		<-ctx.Done()
		return app.server.Stop(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Error("server terminated", logging.Err(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

// loadConfig reads the config file, or falls back to environment variables
// when the file is absent so bare container deployments still start.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	format := cfg.Format
	if format == "text" {
		format = "console"
	}
	lc := logging.LogConfig{Level: cfg.Level, Format: format}
	if cfg.Output != "" {
		lc.OutputPaths = []string{cfg.Output}
	}
	return logging.NewLogger(lc)
}
