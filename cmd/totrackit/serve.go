package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/totrackit/totrackit"
	"github.com/totrackit/totrackit/internal/config"
	hsfactory "github.com/totrackit/totrackit/internal/history/factory"
	"github.com/totrackit/totrackit/internal/metrics"
	sfactory "github.com/totrackit/totrackit/internal/store/factory"
)

func createServeCommand(globalFlags *GlobalFlags) *cobra.Command {
	serveFlags := &ServeFlags{}
	cmd := &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Start the totrackit server",
		Long: `Start the HTTP server for the tracking API.
Configuration is loaded from a TOML file; flags override the file.

Examples:
  totrackit serve                          # in-memory store on :8080
  totrackit serve totrackit.toml           # with config file
  totrackit serve --store=postgres://...   # store from DSN`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serveFlags.ConfigPath = globalFlags.ConfigPath
			return runServe(serveFlags, args)
		},
	}
	cmd.Flags().StringVar(&serveFlags.Listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&serveFlags.StoreDSN, "store", "", "store DSN (overrides config)")
	return cmd
}

func runServe(flags *ServeFlags, args []string) error {
	configPath := flags.ConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if flags.Listen != "" {
		cfg.Server.Listen = flags.Listen
	}

	log, logCloser := cfg.Log.New()
	slog.SetDefault(log)
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	st, err := openStore(cfg, flags)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	if err := st.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	opts := []totrackit.Option{totrackit.WithLogger(log)}

	var sinkCloser io.Closer
	if cfg.History.DSN != "" {
		sink, err := hsfactory.NewSinkFromDSN(cfg.History.DSN)
		if err != nil {
			return fmt.Errorf("open history sink: %w", err)
		}
		if c, ok := sink.(io.Closer); ok {
			sinkCloser = c
		}
		opts = append(opts, totrackit.WithHistorySink(sink))
		log.Info("history sink enabled", "dsn", cfg.History.DSN)
	}
	if sinkCloser != nil {
		defer func() { _ = sinkCloser.Close() }()
	}

	tracker := totrackit.New(st, opts...)

	var updater *metrics.Updater
	if cfg.Metrics.Enabled {
		if err := totrackit.RegisterMetricsDefault(); err != nil {
			log.Warn("metrics registration failed", "error", err)
		}
		updater = metrics.NewUpdater(st, cfg.Metrics.UpdateInterval, log)
		updater.Start()
		defer updater.Stop()
	}

	srv, err := totrackit.NewHTTPServer(cfg.Server.Listen, cfg.Server.BasePath, tracker)
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	log.Info("server started", "listen", cfg.Server.Listen, "base_path", cfg.Server.BasePath, "store", cfg.Store.Type)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info("shutting down", "signal", s.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", "error", err)
		_ = srv.Close()
	}
	return nil
}

func openStore(cfg *config.Config, flags *ServeFlags) (totrackit.Store, error) {
	if flags.StoreDSN != "" {
		return sfactory.NewFromDSN(flags.StoreDSN)
	}
	return sfactory.New(cfg.Store)
}
