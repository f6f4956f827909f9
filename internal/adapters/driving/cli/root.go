// Package cli wires the application together and exposes it as a
// command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contargo/s3sync/internal/adapters/driven/config/file"
	minioadapter "github.com/contargo/s3sync/internal/adapters/driven/objectstore/minio"
	"github.com/contargo/s3sync/internal/adapters/driven/storage/sqlite"
	"github.com/contargo/s3sync/internal/core/services"
	"github.com/contargo/s3sync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

// Wired by initServices, shared by the subcommands.
var (
	cfg          file.Config
	store        *sqlite.Store
	orchestrator *services.SyncOrchestrator
	scheduler    *services.Scheduler
	monitor      *services.Monitor
	objectStore  *minioadapter.ObjectStore
)

var rootCmd = &cobra.Command{
	Use:   "s3sync",
	Short: "Export database tables to S3-compatible object storage",
	Long: `s3sync incrementally exports the customer and order tables to an
S3-compatible bucket as country-partitioned CSV files. It tracks a
per-table watermark so that only rows changed since the last
successful run are exported.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close database: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initServices loads the configuration and builds the adapters and
// core services the subcommands depend on.
func initServices() error {
	var err error
	cfg, err = file.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	store, err = sqlite.NewStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	objectStore, err = minioadapter.New(minioadapter.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("connect to object storage: %w", err)
	}

	uploader := services.NewStorageUploader(objectStore, 0)
	orchestrator = services.NewSyncOrchestrator(
		store.CustomerRepository(),
		store.OrderRepository(),
		store.SyncStateStore(),
		store.SyncRunStore(),
		objectStore,
		uploader,
	)
	scheduler = services.NewScheduler(orchestrator, cfg.Schedule())
	monitor = services.NewMonitor(store.SyncRunStore(), store.SyncStateStore())

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
