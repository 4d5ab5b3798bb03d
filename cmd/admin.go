package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evidentia/evidence-store/internal/auth"
	"github.com/evidentia/evidence-store/internal/config"
	"github.com/evidentia/evidence-store/internal/services"
	"github.com/evidentia/evidence-store/pkg/scheduler"
)

func NewMigrateCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return st.Close()
		},
	}
}

func NewReindexCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if !st.SearchIndex().Enabled() {
				return fmt.Errorf("the %s store has no search index relation", st.Dialect().Name)
			}

			sched := scheduler.NewScheduler(1)
			defer sched.Close()

			rows, err := services.NewIndexService(sched, st.SearchIndex(), 0).Rebuild(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d rows\n", rows)
			return nil
		},
	}
}

func NewTokenCommand(cfg *config.Configuration) *cobra.Command {
	var ttl time.Duration

	tokenCmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Issue a bearer token for the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Auth.JWTSecret == "" {
				return errors.New("jwt-secret must be set to issue tokens")
			}

			token, err := auth.NewAuthenticator(true, cfg.Auth.JWTSecret, cfg.Auth.Issuer).Issue(args[0], ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	tokenCmd.Flags().StringVar(&cfg.Auth.JWTSecret, "authentication-jwt-secret", cfg.Auth.JWTSecret, "HMAC secret signing the token")
	tokenCmd.Flags().StringVar(&cfg.Auth.Issuer, "authentication-issuer", cfg.Auth.Issuer, "Token issuer")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return tokenCmd
}
