package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	v1 "github.com/evidentia/evidence-store/api/v1"
	"github.com/evidentia/evidence-store/internal/auth"
	"github.com/evidentia/evidence-store/internal/config"
	"github.com/evidentia/evidence-store/internal/handlers"
	"github.com/evidentia/evidence-store/internal/server"
	"github.com/evidentia/evidence-store/internal/services"
	"github.com/evidentia/evidence-store/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the evidence store HTTP API",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfiguration(cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	registerFlags(runCmd, cfg)
	return runCmd
}

func registerFlags(cmd *cobra.Command, cfg *config.Configuration) {
	// server
	cmd.Flags().IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "Port on which the HTTP server is listening")
	cmd.Flags().StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode (dev, prod)")
	cmd.Flags().StringVar(&cfg.Server.StaticsFolder, "server-statics-folder", cfg.Server.StaticsFolder, "Folder of the UI served in prod mode")

	registerQueryFlags(cmd, cfg)

	// authentication
	cmd.Flags().BoolVar(&cfg.Auth.Enabled, "authentication-enabled", cfg.Auth.Enabled, "Require bearer tokens on API requests")
	cmd.Flags().StringVar(&cfg.Auth.JWTSecret, "authentication-jwt-secret", cfg.Auth.JWTSecret, "HMAC secret verifying bearer tokens")
	cmd.Flags().StringVar(&cfg.Auth.Issuer, "authentication-issuer", cfg.Auth.Issuer, "Expected token issuer")

	// search index
	cmd.Flags().DurationVar(&cfg.Index.RefreshInterval, "index-refresh-interval", cfg.Index.RefreshInterval, "Interval between full-text index rebuilds, 0 disables the refresh")
	cmd.Flags().IntVar(&cfg.Index.NumWorkers, "index-num-workers", cfg.Index.NumWorkers, "Number of background workers")
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port: %d", cfg.Server.HTTPPort)
	}

	if cfg.Server.ServerMode != "dev" && cfg.Server.ServerMode != "prod" {
		return fmt.Errorf("invalid server mode: %q", cfg.Server.ServerMode)
	}

	switch cfg.Store.Dialect {
	case "duckdb":
		if cfg.Store.Path == "" {
			return errors.New("store-path must be set when the store dialect is duckdb")
		}
	case "mysql":
		if cfg.Store.DSN == "" {
			return errors.New("store-dsn must be set when the store dialect is mysql")
		}
	default:
		return fmt.Errorf("invalid store dialect: %q", cfg.Store.Dialect)
	}

	if cfg.Store.StatementTimeout < 0 {
		return fmt.Errorf("invalid store-statement-timeout: %s", cfg.Store.StatementTimeout)
	}

	if cfg.Query.DefaultPageSize < 1 || cfg.Query.DefaultPageSize > cfg.Query.MaxPageSize {
		return fmt.Errorf("invalid query-default-page-size: %d, must be between 1 and query-max-page-size (%d)",
			cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize)
	}

	if cfg.Index.NumWorkers < 1 {
		return fmt.Errorf("invalid num-workers: %d", cfg.Index.NumWorkers)
	}

	if cfg.Index.RefreshInterval < 0 {
		return fmt.Errorf("invalid index-refresh-interval: %s", cfg.Index.RefreshInterval)
	}

	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return errors.New("jwt-secret must be set when authentication is enabled")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

func run(ctx context.Context, cfg *config.Configuration) error {
	logger := zap.S().Named("run")
	logger.Infow("starting evidence store", "config", cfg.DebugMap())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Errorw("closing store", "error", err)
		}
	}()

	sched := scheduler.NewScheduler(cfg.Index.NumWorkers)
	defer sched.Close()

	indexSrv := services.NewIndexService(sched, st.SearchIndex(), cfg.Index.RefreshInterval)
	if rows, err := indexSrv.Rebuild(ctx); err != nil {
		logger.Warnw("initial full-text index build failed", "error", err)
	} else {
		logger.Infow("full-text index built", "rows", rows)
	}
	indexSrv.Start()
	defer indexSrv.Stop()

	h := handlers.New(
		v1.PageDefaults{Size: cfg.Query.DefaultPageSize, MaxSize: cfg.Query.MaxPageSize},
		services.NewRecordService(st),
		services.NewStatisticsService(st),
		indexSrv,
	)

	authenticator := auth.NewAuthenticator(cfg.Auth.Enabled, cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	srv, err := server.NewServer(cfg, authenticator, h.RegisterRoutes)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("listening", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode)
		if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	return nil
}
