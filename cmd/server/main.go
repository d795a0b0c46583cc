package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/app"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/postgres"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "sequence-gen",
	Short: "LinkedIn outreach sequence generator",
	Long: `sequence-gen generates personalized LinkedIn outreach sequences for a prospect
with a configurable tone of voice, and keeps every refinement as a new version.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			logger.SetLevel(logLevel)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPostgres(cmd.Context(), func(pg *postgres.PostgresDB) error {
			return pg.RunMigrations()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1 step)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		return withPostgres(cmd.Context(), func(pg *postgres.PostgresDB) error {
			return pg.RollbackMigrations(steps)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the tone presets catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := newContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer container.Close()

		n, err := container.Sequences.SeedPresets(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d tone presets\n", n)
		return nil
	},
}

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Inspect the configured AI provider",
}

var providerTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a minimal request to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		appConfig, err := config.LoadConfig()
		if err != nil {
			return err
		}
		factory, err := llm.NewFactory(appConfig.AI)
		if err != nil {
			return err
		}

		info := factory.GetProviderInfo()
		tester, ok := factory.GetAdapter().(llm.ConnectionTester)
		if !ok {
			return fmt.Errorf("provider %s does not support connection tests", info.Provider)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if !tester.TestConnection(ctx) {
			return fmt.Errorf("connection test failed for %s (%s)", info.Provider, info.DefaultModel)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): OK\n", info.Provider, info.DefaultModel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	providerCmd.AddCommand(providerTestCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(providerCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func newContainer(ctx context.Context) (*app.Config, error) {
	appConfig, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return app.NewConfig(ctx, appConfig)
}

func withPostgres(ctx context.Context, fn func(pg *postgres.PostgresDB) error) error {
	appConfig, err := config.LoadConfig()
	if err != nil {
		return err
	}
	pg, err := postgres.Open(ctx, appConfig.Database)
	if err != nil {
		return err
	}
	defer pg.Close()
	return fn(pg)
}

func runServer(ctx context.Context) error {
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer container.Close()

	port := container.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           container.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.WithFields(logrus.Fields{
			"port":     port,
			"provider": container.Providers.GetProviderInfo().Provider,
		}).Info("Server starting")
		logger.Log.Infof("Health check: http://localhost:%s/api/health", port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), container.AppConfig.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
