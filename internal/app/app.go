// Package app wires configuration, storage, metrics and the HTTP API into a
// running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vadimbarashkov/linkshrink/internal/config"
	"github.com/vadimbarashkov/linkshrink/internal/metrics"
	"github.com/vadimbarashkov/linkshrink/internal/service"
	"golang.org/x/sync/errgroup"

	api "github.com/vadimbarashkov/linkshrink/internal/api/http"
)

const shutdownTimeout = 10 * time.Second

// NewLogger builds the service logger. Production output is JSON.
func NewLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger("linkshrink", httplog.Options{
		JSON:             cfg.Env == config.EnvProd,
		LogLevel:         cfg.Log.SlogLevel(),
		Concise:          cfg.Log.Concise,
		RequestHeaders:   cfg.Env != config.EnvProd,
		MessageFieldName: "message",
		QuietDownRoutes:  []string{"/ping", "/metrics"},
		QuietDownPeriod:  10 * time.Second,
		Tags: map[string]string{
			"env": cfg.Env,
		},
	})
}

// NewLinkService builds the service on top of repo with the short code
// settings from cfg.
func NewLinkService(cfg *config.Config, repo service.LinkRepository, logger *slog.Logger, sink metrics.Sink) *service.LinkService {
	return service.NewLinkService(repo,
		service.WithShortCodeLength(cfg.ShortCode.Length),
		service.WithMaxRetries(cfg.ShortCode.MaxRetries),
		service.WithMetrics(sink),
		service.WithLogger(logger),
	)
}

func newRegistry() (*prometheus.Registry, *metrics.Prometheus) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg, metrics.NewPrometheus(reg)
}

// NewHandler assembles the HTTP API for the given service.
func NewHandler(cfg *config.Config, logger *httplog.Logger, svc api.LinkService, reg *prometheus.Registry) http.Handler {
	return api.NewRouter(logger, svc,
		api.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
		api.WithDocsPath(cfg.HTTPServer.DocsPath),
	)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg)

	storage, err := OpenStorage(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("%s: failed to open storage: %w", op, err)
	}
	defer storage.Close()

	reg, sink := newRegistry()
	svc := NewLinkService(cfg, storage.Repo, logger.Logger, sink)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        NewHandler(cfg, logger, svc, reg),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			slog.String("addr", server.Addr),
			slog.String("storage", cfg.Storage.Driver),
			slog.Bool("redis", cfg.Redis.Enabled),
		)

		var err error

		if cfg.HTTPServer.TLS() {
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server")

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
