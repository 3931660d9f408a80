package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"devfeed/aggregator"
	"devfeed/api"
	"devfeed/config"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg == nil {
		return
	}

	if _, err := config.SetupLogging(cfg.Debug, ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Server failed")
	}
}

func run(ctx context.Context, cfg *config.Server) error {
	catalog, err := aggregator.LoadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	sources, err := aggregator.NewSources(catalog, aggregator.ClientOptions{
		UserAgent:   cfg.UserAgent,
		GitHubToken: cfg.GitHubToken,
	})
	if err != nil {
		return err
	}

	opts := []aggregator.Option{
		aggregator.WithTTL(cfg.CacheTTL),
		aggregator.WithSourceTimeout(cfg.UpstreamTimeout),
	}
	if cfg.RedisURL != "" {
		cache, err := aggregator.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer cache.Close()
		opts = append(opts, aggregator.WithCache(cache))
	}
	agg := aggregator.New(sources, opts...)

	prewarmer := aggregator.NewPrewarmer(agg)
	if err := prewarmer.Start(cfg.Prewarm); err != nil {
		return err
	}
	defer prewarmer.Stop()

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: api.NewRouter(api.Deps{Feeds: agg, Debug: cfg.Debug}),
	}

	log.WithFields(log.Fields{
		"addr":    srv.Addr,
		"sources": len(sources),
		"redis":   cfg.RedisURL != "",
		"version": config.GetVersion(),
	}).Info("Starting aggregation server")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
