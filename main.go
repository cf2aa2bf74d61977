package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/config"
	"github.com/wndmngr/farmregistry/database"
	"github.com/wndmngr/farmregistry/handlers"
	"github.com/wndmngr/farmregistry/metrics"
	"github.com/wndmngr/farmregistry/realtime"
	"github.com/wndmngr/farmregistry/services"
)

var rootCmd = &cobra.Command{
	Use:   "windmanager",
	Short: "WindManager farm registry backend",
	Long: `Farm registry API for wind and solar assets.

Available subcommands:
  serve   - Run the HTTP API (default)
  migrate - Create or update the schema and seed lookup tables
  seed    - Seed farm types and default roles
  token   - Issue a signed service token`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, tokenCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, the logger and the database shared by every command.
func bootstrap() (config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return cfg, nil, nil, err
	}
	db, err := database.InitGormDB(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize database", zap.Error(err))
		return cfg, logger, nil, err
	}
	return cfg, logger, db, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.IsDevelopment() {
		// local sqlite databases are created on first run
		if err := database.AutoMigrateModels(db); err != nil {
			return err
		}
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	hub := realtime.NewHub(logger, cfg.AllowedOrigins)
	go hub.Run(ctx)

	router := handlers.NewRouter(handlers.RouterDeps{
		Config:     cfg,
		DB:         db,
		Log:        logger,
		Metrics:    m,
		Hub:        hub,
		Farms:      services.NewFarmService(db, m, hub, logger),
		Satellites: services.NewSatelliteService(db, m, hub, logger),
		Referents:  services.NewReferentService(db, m, hub, logger),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.Environment),
			zap.String("database_driver", cfg.DatabaseDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
