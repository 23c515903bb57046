package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"

	"github.com/lmi-dashboard/lmi-dashboard/internal/app"
	"github.com/lmi-dashboard/lmi-dashboard/internal/appconf"
	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/restapi"
	"github.com/lmi-dashboard/lmi-dashboard/internal/source"
	"github.com/lmi-dashboard/lmi-dashboard/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *options, stdout io.Writer) *cobra.Command {
	serveCommand := &cobra.Command{
		Use:   "serve",
		Short: "serve - run the dashboard HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.appConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cfg, stdout)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}

	flags := serveCommand.Flags()
	flags.IntVar(&opts.config.Port, "port", opts.config.Port, "API server port.")
	flags.StringSliceVar(&opts.config.ApiKeys, "api-keys", nil, "Comma separated API keys. Empty disables key checks.")
	flags.IntVar(&opts.config.RateLimit, "rate-limit", opts.config.RateLimit, "Requests per second per API key. Negative disables limiting.")
	flags.DurationVar(&opts.config.RefreshInterval, "refresh-interval", 0, "Reload the dataset on this interval. 0 disables refreshing.")
	return serveCommand
}

// serve runs the HTTP service until ctx is cancelled.
func serve(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer p.manager.Shutdown()

	// Serve even without a location; the dashboard reports why it failed.
	location, err := p.resolveLocation(ctx)
	switch {
	case err == nil || source.IsConfigError(err):
		p.manager.SetLocation(location)
	default:
		logging.LogError(logger, "failed to resolve dataset location", err)
		p.manager.Fail(cfg.MountPage, &source.FetchError{Location: cfg.MountPage, Err: err})
	}

	if err := p.manager.StartRefresh(); err != nil {
		return err
	}

	application := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Dashboard: p.manager,
		Formatter: p.formatter,
	}

	api := restapi.NewRestAPI(application)
	defer api.Close()

	router := httprouter.New()
	api.SetRoutes(router)
	webui.NewWebUI(application).SetWebUIRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.WithMiddleware(router),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return runServer(ctx, srv, p.manager.Shutdown, logger, cfg.Env)
}

// runServer serves until ctx is done, then closes streams via closeStreams
// and drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, closeStreams func(), logger *slog.Logger, env appconf.Environment) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", env.String())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	// Hijacked websocket connections are not tracked by the server.
	closeStreams()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
