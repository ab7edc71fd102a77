// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pollwise/pollwise/internal/auth"
	authpg "github.com/pollwise/pollwise/internal/auth/postgres"
	"github.com/pollwise/pollwise/internal/config"
	"github.com/pollwise/pollwise/internal/httpapi"
	"github.com/pollwise/pollwise/internal/logging"
	"github.com/pollwise/pollwise/internal/observability"
	"github.com/pollwise/pollwise/internal/store"
	"github.com/pollwise/pollwise/internal/survey"
	surveypg "github.com/pollwise/pollwise/internal/survey/postgres"
	"github.com/pollwise/pollwise/internal/validation"
	"github.com/pollwise/pollwise/pkg/errutil"
)

// shutdownTimeout bounds graceful shutdown of both listeners.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the survey API",
		Long: `Start the HTTP API and, unless metrics-addr is empty, the
metrics and health server. Runs until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServeWithDeps(ctx, cmd, nil)
		},
	}
}

// runServeWithDeps runs the API until ctx is done or a listener fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.ConfigLoader == nil {
		deps.ConfigLoader = func() (*config.Config, error) {
			return loadConfig(cmd, (*config.Config).Validate)
		}
	}
	if deps.PoolFactory == nil {
		deps.PoolFactory = defaultPoolFactory
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readiness observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readiness, auth.RegisterMetrics, httpapi.RegisterMetrics)
		}
	}
	if deps.Listen == nil {
		deps.Listen = net.Listen
	}

	cfg, err := deps.ConfigLoader()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger := logging.Setup(serviceName, version, cfg.Log.Format, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	logger.Info("starting pollwise",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"hasher", cfg.Auth.Hasher,
		"database_url", cfg.Redacted().Database.URL,
	)

	pool, err := deps.PoolFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	handler, err := buildAPI(cfg, pool, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, pool.Ping)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability", logger)
	}

	listener, err := deps.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		stopObservability(obsServer, logger)
		return oops.Code("HTTP_LISTEN_FAILED").With("addr", cfg.HTTP.Addr).Wrap(err)
	}

	apiServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := apiServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	cmd.Println("Pollwise API started")
	logger.Info("pollwise ready", "http_addr", listener.Addr().String())

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err, ok := <-errCh:
		if ok && err != nil {
			serveErr = oops.Code("HTTP_SERVE_FAILED").Wrap(err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		errutil.LogError(logger, "error stopping API server", err)
	}
	stopObservability(obsServer, logger)

	logger.Info("shutdown complete")
	return serveErr
}

// buildAPI wires the repositories, services and controllers into the
// routed HTTP handler. Every route logs server faults to the error_logs
// table.
func buildAPI(cfg *config.Config, pool Pool, logger *slog.Logger) (http.Handler, error) {
	hasher, err := auth.NewPasswordHasher(cfg.Auth.Hasher, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}
	issuer, err := auth.NewJWTIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}

	accounts := authpg.NewAccountRepository(pool)
	authenticator, err := auth.NewAuthenticatorWithLogger(accounts, hasher, issuer, accounts, logger)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}
	registrar, err := auth.NewRegistrarWithLogger(accounts, hasher, logger)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}
	surveys, err := survey.NewServiceWithLogger(surveypg.NewSurveyRepository(pool), logger)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}

	emails := validation.NewEmailFormatChecker()
	login, err := httpapi.NewLoginController(validation.LoginChain(emails), authenticator)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}
	signUp, err := httpapi.NewSignUpController(validation.SignUpChain(emails), registrar, authenticator)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}
	addSurvey, err := httpapi.NewAddSurveyController(validation.AddSurveyChain(), surveys)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}

	routes, err := httpapi.Routes{SignUp: signUp, Login: login, AddSurvey: addSurvey}.WithErrorLogging(
		store.NewErrorLogRepository(pool),
		httpapi.WithLogger(logger),
		httpapi.WithSinkTimeout(cfg.ErrorLog.Timeout),
	)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}

	router, err := httpapi.NewRouter(routes, logger)
	if err != nil {
		return nil, oops.Code("SERVE_WIRING_FAILED").Wrap(err)
	}
	return router, nil
}

// monitorServerErrors cancels ctx when a background server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			errutil.LogErrorContext(ctx, logger.With("server", name), "server error, shutting down", err)
			cancel()
		}
	case <-ctx.Done():
	}
}

func stopObservability(server ObservabilityServer, logger *slog.Logger) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		errutil.LogError(logger, "error stopping observability server", err)
	}
}
