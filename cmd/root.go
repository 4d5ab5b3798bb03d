package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/evidentia/evidence-store/internal/auth"
	"github.com/evidentia/evidence-store/internal/config"
	"github.com/evidentia/evidence-store/internal/store"
	"github.com/evidentia/evidence-store/internal/store/migrations"
	"github.com/evidentia/evidence-store/pkg/query"
)

const envPrefix = "EVIDENCE"

// cliUsername is the principal of commands run from the terminal.
const cliUsername = "cli"

func NewRootCommand(cfg *config.Configuration) *cobra.Command {
	root := &cobra.Command{
		Use:          "evidence-store",
		Short:        "Evidence store query service",
		SilenceUsage: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			func(cmd *cobra.Command, _ []string) error {
				return setupLogging(cfg.Server.LogLevel, cfg.Server.LogFormat)
			},
		),
	}

	registerLogFlags(root, cfg)
	registerStoreFlags(root, cfg)

	root.AddCommand(
		NewRunCommand(cfg),
		NewMigrateCommand(cfg),
		NewReindexCommand(cfg),
		NewExplainCommand(cfg),
		NewExportCommand(cfg),
		NewTokenCommand(cfg),
	)
	return root
}

// Execute runs the root command with defaults applied to a fresh configuration.
func Execute() {
	cfg := config.NewConfigurationWithOptionsAndDefaults()
	if err := NewRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func registerLogFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.PersistentFlags().StringVar(&cfg.Server.LogLevel, "log-level", cfg.Server.LogLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&cfg.Server.LogFormat, "log-format", cfg.Server.LogFormat, "Log format (console, json)")
}

func registerStoreFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.PersistentFlags().StringVar(&cfg.Store.Dialect, "store-dialect", cfg.Store.Dialect, "Store dialect (duckdb, mysql)")
	cmd.PersistentFlags().StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path, "DuckDB database file")
	cmd.PersistentFlags().StringVar(&cfg.Store.DSN, "store-dsn", cfg.Store.DSN, "MySQL data source name")
	cmd.PersistentFlags().IntVar(&cfg.Store.MaxOpenConns, "store-max-open-conns", cfg.Store.MaxOpenConns, "Maximum open MySQL connections")
	cmd.PersistentFlags().DurationVar(&cfg.Store.StatementTimeout, "store-statement-timeout", cfg.Store.StatementTimeout, "Timeout of a single API request against the store")
}

func registerQueryFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().IntVar(&cfg.Query.DefaultPageSize, "query-default-page-size", cfg.Query.DefaultPageSize, "Page size used when a request names none")
	cmd.Flags().IntVar(&cfg.Query.MaxPageSize, "query-max-page-size", cfg.Query.MaxPageSize, "Largest page size a request may ask for")
	cmd.Flags().BoolVar(&cfg.Query.ValidateStatements, "query-validate-statements", cfg.Query.ValidateStatements, "Prepare each new statement shape before caching it")
	cmd.Flags().IntVar(&cfg.Query.MaxRecursionDepth, "query-max-recursion-depth", cfg.Query.MaxRecursionDepth, "Depth limit of recursive topic expansion")
}

func setupLogging(level, format string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log-level %q: %w", level, err)
	}

	var zc zap.Config
	switch format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return fmt.Errorf("invalid log-format %q", format)
	}
	zc.Level = lvl

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// openStore opens and migrates the configured database.
func openStore(ctx context.Context, cfg *config.Configuration, opts ...store.Option) (*store.Store, error) {
	dialect, err := query.DialectFor(cfg.Store.Dialect)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(dialect, cfg.Store.Path, cfg.Store.DSN, cfg.Store.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", dialect.Name, err)
	}

	if err := migrations.RunDialect(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	opts = append([]store.Option{
		store.WithIdentity(auth.Identity{}),
		store.WithStatementValidation(cfg.Query.ValidateStatements),
		store.WithMaxRecursionDepth(cfg.Query.MaxRecursionDepth),
	}, opts...)

	return store.NewStore(db, dialect, opts...), nil
}

// cliContext carries the terminal principal unless anonymous is set.
func cliContext(ctx context.Context, anonymous bool) context.Context {
	return auth.WithPrincipal(ctx, auth.Principal{Username: cliUsername, Anonymous: anonymous})
}
