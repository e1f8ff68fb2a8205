package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-chaingraph/pkg/api"
	"github.com/dd0wney/cluso-chaingraph/pkg/config"
	"github.com/dd0wney/cluso-chaingraph/pkg/health"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
	"github.com/dd0wney/cluso-chaingraph/pkg/metrics"
	"github.com/dd0wney/cluso-chaingraph/pkg/pubsub"
	"github.com/dd0wney/cluso-chaingraph/pkg/server"
	"github.com/dd0wney/cluso-chaingraph/pkg/source"
)

var version = "dev"

const systemMetricsInterval = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (default $"+config.EnvConfigPath+")")
	envFile := flag.String("env-file", "", "Optional .env file loaded before the environment is read")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		logging.ErrorLog("Server exited", logging.Error(err))
		os.Exit(1)
	}
}

func loadConfig(path, envFile string) (*config.Config, error) {
	if envFile == "" {
		return config.Load(path)
	}
	return config.Load(path, envFile)
}

func run(configPath, envFile string) error {
	cfg, err := loadConfig(configPath, envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)
	logger.Info("Starting chaingraph server",
		logging.String("version", version),
		logging.String("addr", cfg.Addr()),
		logging.String("source", cfg.Source.Kind))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := metrics.DefaultRegistry()
	registry.SetBuildInfo(version)

	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()
	src = source.Instrument(src, source.InstrumentOptions{
		Recorder: registry,
		Logger:   logger,
		Timeout:  cfg.Source.FetchTimeout,
	})

	apiServer, err := api.NewServer(api.Options{
		Config:  cfg,
		Source:  src,
		Metrics: registry,
		PubSub:  pubsub.NewPubSub(cfg.Server.StreamBufferSize),
		Health:  health.NewHealthChecker(),
		Logger:  logger,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("create api server: %w", err)
	}
	defer apiServer.Close()

	gs := server.NewGracefulServer(cfg.Addr(), apiServer.Handler(), server.Options{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})
	gs.SetConfigReloadFunc(func() error {
		next, err := loadConfig(configPath, envFile)
		if err != nil {
			return err
		}
		apiServer.Reload(next)
		return nil
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return gs.Run(gctx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(systemMetricsInterval)
		defer ticker.Stop()
		for {
			registry.UpdateSystemMetrics()
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
