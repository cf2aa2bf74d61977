package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/config"
	"github.com/wndmngr/farmregistry/database"
	"github.com/wndmngr/farmregistry/handlers"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed lookup tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := database.AutoMigrateModels(db); err != nil {
			logger.Error("migration failed", zap.Error(err))
			return err
		}
		if err := database.Seed(db); err != nil {
			logger.Error("seed failed", zap.Error(err))
			return err
		}
		logger.Info("migration complete")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed farm types and default person/company roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := database.Seed(db); err != nil {
			logger.Error("seed failed", zap.Error(err))
			return err
		}
		logger.Info("seed complete")
		return nil
	},
}

var (
	tokenEmail string
	tokenName  string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed service token for API_TOKEN_SECRET",
	Long: `Issue an HS256 bearer token accepted by the identity middleware.

The token carries the email and name claims; the email must belong to ALLOWED_EMAIL_DOMAIN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		token, expiresAt, err := handlers.IssueToken([]byte(cfg.APITokenSecret), tokenEmail, tokenName, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "principal email (required)")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")
}
