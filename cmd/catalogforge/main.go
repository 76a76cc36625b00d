package main

import (
	"CatalogForge/internal/catalog"
	"CatalogForge/internal/config"
	"CatalogForge/internal/pipeline"
	"CatalogForge/internal/pipeline/storage"
	"CatalogForge/internal/sheet"
	types "CatalogForge/pkg"
	"CatalogForge/pkg/ffmpeg"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "catalogforge",
		Short:         "Bulk media-catalog ingestion",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.yaml", "Configuration file path")

	rootCmd.AddCommand(newIngestCommand(&configFlag))
	rootCmd.AddCommand(newValidateCommand(&configFlag))

	return rootCmd
}

func newIngestCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run the full ingestion pipeline against the configured spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			store, err := storage.NewStorage(cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to init storage: %w", err)
			}

			pool, err := pgxpool.New(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			uploader := pipeline.NewUploader(store, logger, cfg.Storage, cfg.Ingest.Retry)
			extractor := ffmpeg.NewFFmpeg(cfg.Ingest.FFMpegPath)
			workflow := pipeline.NewWorkflow(catalog.NewStore(pool), uploader, extractor, logger, cfg.Ingest)

			return workflow.Run(cmd.Context())
		},
	}
}

func newValidateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse and group the spreadsheet without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			raw, err := os.ReadFile(cfg.Ingest.SpreadsheetPath)
			if err != nil {
				return fmt.Errorf("failed to read spreadsheet: %w", err)
			}
			table, err := sheet.Parse(string(raw))
			if err != nil {
				return err
			}

			channels := pipeline.Group(table.Records)
			for pair := channels.Oldest(); pair != nil; pair = pair.Next() {
				group := pair.Value
				logger.Info("Channel",
					zap.String("slug", group.Slug),
					zap.String("title", group.Title),
					zap.Int("index", group.CoverIndex),
					zap.Int("sections", group.Sections.Len()),
					zap.Int("rows", len(group.Rows)))
			}
			logger.Info("Spreadsheet OK",
				zap.Int("rows", len(table.Records)),
				zap.Int("channels", channels.Len()))

			return nil
		},
	}
}

func setup(configPath string) (*zap.Logger, *config.Config, error) {
	bootLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}

	cfg, err := config.NewConfigLoader(bootLogger).Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return logger, cfg, nil
}

// buildLogger emits the human-readable progress trace on stdout; the
// config can redirect it to a file instead.
func buildLogger(cfg types.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.Output == "file" {
		zc.OutputPaths = []string{cfg.FilePath}
	} else {
		zc.OutputPaths = []string{"stdout"}
	}
	return zc.Build()
}
