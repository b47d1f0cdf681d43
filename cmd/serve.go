package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/api"
	"github.com/seo-optimizer/insights/config"
	"github.com/seo-optimizer/insights/history"
	"github.com/seo-optimizer/insights/logging"
	"github.com/seo-optimizer/insights/metrics"
	"github.com/seo-optimizer/insights/stats"
)

// retainMonths bounds the file-backed monthly statistics
const retainMonths = 12

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func newRecorder(cfg *config.Config, logger *zap.Logger) (stats.Recorder, error) {
	if cfg.StatsBackend == "redis" {
		client, err := stats.Connect(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return stats.NewRedisStorage(client), nil
	}
	storage, err := stats.NewStorage(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}
	storage.Cleanup(retainMonths)
	return storage, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	engine, err := newEngine(cfg, logger, m, true)
	if err != nil {
		return err
	}

	recorder, err := newRecorder(cfg, logger)
	if err != nil {
		return fmt.Errorf("stats backend: %w", err)
	}
	defer recorder.Close()

	hist, err := history.Open(filepath.Join(cfg.DataDir, "history.db"), cfg.HistoryLimit)
	if err != nil {
		return err
	}
	defer hist.Close()

	statistics := logging.NewStatistics(cfg.DataDir, cfg.DevMode, logger)
	defer func() {
		if err := statistics.Save(); err != nil {
			logger.Warn("could not save statistics", zap.Error(err))
		}
	}()

	server := api.NewServer(cfg, api.Deps{
		Engine:     engine,
		Recorder:   recorder,
		History:    hist,
		Statistics: statistics,
		Metrics:    m,
		Gatherer:   prometheus.DefaultGatherer,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()
	logger.Info("server started", zap.String("addr", cfg.Addr()), zap.String("stats_backend", cfg.StatsBackend))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("could not start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}
