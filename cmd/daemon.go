package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edgeban/edgeban/internal/brand"
	"github.com/edgeban/edgeban/internal/config"
	"github.com/edgeban/edgeban/internal/firewall"
	"github.com/edgeban/edgeban/internal/logging"
	"github.com/edgeban/edgeban/internal/mirror"
	"github.com/edgeban/edgeban/internal/state"
)

// RunDaemon syncs continuously on the configured interval until
// SIGINT/SIGTERM. A failed pass (including firewall inspection errors)
// is logged and retried on the next tick rather than killing the
// process.
func RunDaemon(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	setupLogging(cfg)
	logger := logging.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Metrics.Enabled {
		shutdown := serveMetrics(cfg.Metrics.Listen, logger)
		defer shutdown()
	}

	engine := newEngine(cfg, false)
	interval := cfg.Interval()
	logger.Info("daemon started",
		"interval", interval, "domains", len(cfg.SortedDomains()), "version", brand.Version)

	// First pass immediately, then on every tick.
	daemonPass(ctx, cfg, extractor, engine, store, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			daemonPass(ctx, cfg, extractor, engine, store, logger)
		}
	}
}

// daemonPass runs one sync cycle. Unlike the one-shot command, an
// extraction failure here only skips the cycle: the bans already at
// the edge stay put and the next tick retries.
func daemonPass(ctx context.Context, cfg *config.Config, extractor *firewall.Extractor, engine *mirror.Engine, store *state.Store, logger *logging.Logger) {
	ips, err := extractor.Extract()
	if err != nil {
		logger.Error("firewall inspection failed, skipping this pass", "err", err)
		return
	}

	report := engine.Run(ctx, cfg.SortedDomains(), ips)

	if err := store.SaveRun(report); err != nil {
		logger.Warn("failed to record run", "err", err)
	} else if err := store.PruneRuns(runHistoryKeep); err != nil {
		logger.Warn("failed to prune run history", "err", err)
	}
	rememberListIDs(store, cfg, report)
}

// serveMetrics starts the Prometheus endpoint and returns its shutdown
// function.
func serveMetrics(addr string, logger *logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint failed", "err", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
}
