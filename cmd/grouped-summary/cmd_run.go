package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"olttstats/internal/config"
	"olttstats/internal/dataprocessing"
	"olttstats/internal/errors"
	"olttstats/internal/files"
	"olttstats/internal/infrastructure"
	"olttstats/internal/operations"
)

// runOptions are the flags of the run command
type runOptions struct {
	*rootOptions
	backend         string
	folderID        string
	credentials     string
	overwrite       bool
	dryRun          bool
	reportFile      string
	metricsTextfile string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk a folder tree and write a summary workbook per participant",
		Long: `Walk the folder tree under --folder-id depth-first. Every folder holding all
three raw exports gets a "<folder>-OLTT_11a_Grouped_Summary_Stats.xlsx"
workbook with the sheets freercl, cuedrcl and recognt. Existing workbooks are
kept unless --overwrite is set. The run report is printed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			return runWalk(cmd, cfg, opts.reportFile)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "", "Storage backend: drive, s3 or local")
	cmd.Flags().StringVarP(&opts.folderID, "folder-id", "b", "", "Root folder id (Drive id, S3 prefix or local path)")
	cmd.Flags().StringVarP(&opts.credentials, "credentials", "j", "", "Service account JSON for the drive backend")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace existing summary workbooks")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Compute workbooks without uploading them")
	cmd.Flags().StringVar(&opts.reportFile, "report", "", "Also write the run report as JSON to this file")
	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file when the run ends")

	return cmd
}

// config loads the configuration and overlays the flags the user set
func (o *runOptions) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Storage.Backend = o.backend
	}
	if flags.Changed("folder-id") {
		cfg.Storage.RootFolderID = o.folderID
	}
	if flags.Changed("credentials") {
		cfg.Storage.CredentialsFile = o.credentials
	}
	if flags.Changed("overwrite") {
		cfg.Processing.Overwrite = o.overwrite
	}
	if flags.Changed("dry-run") {
		cfg.Processing.DryRun = o.dryRun
	}
	if flags.Changed("metrics-textfile") {
		cfg.Telemetry.MetricsTextfile = o.metricsTextfile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runWalk(cmd *cobra.Command, cfg *config.Config, reportFile string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureRunID(ctx)

	cleanup, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := infrastructure.GetLogger()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create pipeline metrics: %w", err)
	}

	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.ErrorContext(ctx, "authentication failed",
			slog.String("backend", cfg.Storage.Backend),
			slog.String("error", err.Error()))
		return err
	}
	logAccount(ctx, logger, cfg.Storage.Backend, store)

	set, err := cfg.Stimuli.CategorySet()
	if err != nil {
		return err
	}

	walker := operations.NewWalker(
		store,
		files.NewMatcher(cfg.Processing.OutputSuffix),
		operations.NewSummarizer(dataprocessing.NewParser(cfg.Processing.SkipRows, logger), set),
		operations.NewWalkTracer(providers.Tracer, metrics),
		operations.WalkOptions{Overwrite: cfg.Processing.Overwrite, DryRun: cfg.Processing.DryRun},
		logger,
	)

	report, runErr := walker.Run(ctx, cfg.Storage.RootFolderID)
	if runErr != nil {
		logger.ErrorContext(ctx, "run failed",
			slog.String("error", runErr.Error()),
			slog.String("error_type", string(errors.TypeOf(runErr))))
	}

	if err := report.WriteText(cmd.OutOrStdout()); err != nil {
		logger.WarnContext(ctx, "failed to print report", slog.String("error", err.Error()))
	}
	if reportFile != "" {
		if err := report.SaveToFile(reportFile); err != nil {
			logger.WarnContext(ctx, "failed to save report", slog.String("error", err.Error()))
		}
	}
	if err := providers.WriteMetricsTextfile(cfg.Telemetry.MetricsTextfile); err != nil {
		logger.WarnContext(ctx, "failed to write metrics", slog.String("error", err.Error()))
	}

	return runErr
}

// openStore builds the store for the configured backend
func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (files.Store, error) {
	switch cfg.Backend {
	case config.BackendDrive:
		return files.NewDriveStore(ctx, files.DriveOptions{
			CredentialsFile: cfg.CredentialsFile,
			RPS:             cfg.DriveRPS,
			Burst:           cfg.DriveBurst,
			Logger:          logger,
		})
	case config.BackendS3:
		return files.NewS3Store(ctx, files.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Logger:    logger,
		})
	case config.BackendLocal:
		return files.NewLocalStore(), nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unsupported storage backend %q", cfg.Backend), nil)
	}
}

// logAccount logs a successful authentication and, when the backend can
// report it, the account in use.
func logAccount(ctx context.Context, logger *slog.Logger, backend string, store files.Store) {
	attrs := []any{slog.String("backend", backend)}
	if reporter, ok := store.(files.AccountReporter); ok {
		account, err := reporter.Account(ctx)
		if err != nil {
			logger.WarnContext(ctx, "could not look up account", slog.String("error", err.Error()))
		} else {
			attrs = append(attrs, slog.String("account", account))
		}
	}
	logger.InfoContext(ctx, "authenticated", attrs...)
}
